package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nextprepbd/platform/internal/platform/domain"
	"github.com/nextprepbd/platform/internal/platform/service"
	"github.com/nextprepbd/platform/internal/platform/store"
	"github.com/nextprepbd/platform/internal/platform/store/drivers/sqlite"
	"github.com/nextprepbd/platform/pkg/cryptox"
	"github.com/nextprepbd/platform/pkg/idx"
	"github.com/nextprepbd/platform/pkg/jwtx"
	"github.com/nextprepbd/platform/pkg/platformsdk"
)

func TestMain(m *testing.M) {
	// Password hashing reads the pepper from disk; point it at a temp file
	// before any account is created.
	pepperPath := filepath.Join(os.TempDir(), "platform-http-test-pepper")
	cryptox.SetPepperPath(pepperPath)

	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}

const testServiceKey = "integration-service-key"

// fakeMailer records sends and can be told to fail.
type fakeMailer struct {
	mu   sync.Mutex
	sent int
	fail bool
}

func (m *fakeMailer) Send(to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp unreachable")
	}
	m.sent++
	return nil
}

func (m *fakeMailer) setFail(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = fail
}

func (m *fakeMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent
}

// newTestServer wires a full router against an in-memory store and returns a
// typed API client pointed at it.
func newTestServer(t *testing.T, mailer *fakeMailer) (*platformsdk.Client, store.Store) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	secret := []byte("integration-signing-secret")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := NewRouter(
		&jwtx.VerifierHS256{Secret: secret, Issuer: "platform-test"},
		testServiceKey, "test", st, logger,
	)
	router.SessionService = &service.SessionService{
		Store:  st,
		Signer: &jwtx.SignerHS256{Secret: secret},
		Issuer: "platform-test",
	}
	router.InviteService = &service.InviteService{
		Store:   st,
		Mailer:  mailer,
		BaseURL: "https://nextprepbd.test",
	}
	router.AccountService = &service.AccountService{
		Store:   st,
		Mailer:  mailer,
		BaseURL: "https://nextprepbd.test",
	}
	router.ContentService = &service.ContentService{Store: st}
	router.DonationService = &service.DonationService{Store: st}
	router.ContactService = &service.ContactService{
		Store:   st,
		Mailer:  mailer,
		InboxTo: "inbox@nextprepbd.test",
	}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	client := platformsdk.NewClient(srv.URL)
	client.ServiceKey = testServiceKey
	return client, st
}

// seedAdmin creates an admin account directly in the store so the tests have
// a privileged session to work with.
func seedAdmin(t *testing.T, st store.Store, email, password string) string {
	t.Helper()

	ctx := context.Background()
	now := time.Now().UTC()
	id := idx.New().String()

	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	require.NoError(t, st.Identities().CreateIdentity(ctx, domain.Identity{
		ID:           id,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}))
	require.NoError(t, st.Profiles().CreateProfile(ctx, domain.Profile{
		ID:        id,
		Email:     email,
		Role:      domain.RoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}))
	return id
}

func TestInvitationFlowOverHTTP(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mailer := &fakeMailer{}
	client, st := newTestServer(t, mailer)
	seedAdmin(t, st, "admin@nextprepbd.test", "admin-password")

	profile, err := client.Register(ctx, "future-tutor@nextprepbd.test", "tutor-password")
	require.NoError(t, err)
	require.Equal(t, "student", profile.Role)

	adminSess, err := client.SignIn(ctx, "admin@nextprepbd.test", "admin-password")
	require.NoError(t, err)
	require.NotEmpty(t, adminSess.AccessToken)

	studentSess, err := client.SignIn(ctx, "future-tutor@nextprepbd.test", "tutor-password")
	require.NoError(t, err)

	// Students lack admin:write and cannot mint invitations
	_, err = client.IssueInvitation(ctx, studentSess.AccessToken, "x@nextprepbd.test", "tutor")
	var apiErr *platformsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 403, apiErr.StatusCode)

	inv, err := client.IssueInvitation(ctx, adminSess.AccessToken, "future-tutor@nextprepbd.test", "tutor")
	require.NoError(t, err)
	require.True(t, inv.Delivered)
	require.NotEmpty(t, inv.InviteToken)
	require.Equal(t, 1, mailer.sentCount())

	accepted, err := client.AcceptInvitation(ctx, studentSess.AccessToken,
		"future-tutor@nextprepbd.test", inv.InviteToken)
	require.NoError(t, err)
	require.Equal(t, "tutor", accepted.Role)

	// Redemption is single use
	_, err = client.AcceptInvitation(ctx, studentSess.AccessToken,
		"future-tutor@nextprepbd.test", inv.InviteToken)
	require.True(t, platformsdk.IsCode(err, platformsdk.ErrorCodeNotFound))

	// Role change lands on the next sign-in
	tutorSess, err := client.SignIn(ctx, "future-tutor@nextprepbd.test", "tutor-password")
	require.NoError(t, err)
	require.Equal(t, "tutor", tutorSess.Profile.Role)
}

func TestServiceKeyGateOverHTTP(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mailer := &fakeMailer{}
	client, st := newTestServer(t, mailer)
	adminID := seedAdmin(t, st, "admin@nextprepbd.test", "admin-password")

	target, err := client.Register(ctx, "member@nextprepbd.test", "member-password")
	require.NoError(t, err)

	// Wrong key is rejected before any handler runs
	bad := platformsdk.NewClient(client.BaseURL)
	bad.ServiceKey = "not-the-key"
	_, err = bad.ForcePasswordReset(ctx, adminID, target.ID)
	var apiErr *platformsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 401, apiErr.StatusCode)

	reset, err := client.ForcePasswordReset(ctx, adminID, target.ID)
	require.NoError(t, err)
	require.NotEmpty(t, reset.Password)

	_, err = client.SignIn(ctx, "member@nextprepbd.test", "member-password")
	require.Error(t, err)

	sess, err := client.SignIn(ctx, "member@nextprepbd.test", reset.Password)
	require.NoError(t, err)
	require.Equal(t, target.ID, sess.Profile.ID)

	// Deleting your own account through the service tier is refused
	err = client.DeleteAccount(ctx, target.ID, target.ID)
	require.True(t, platformsdk.IsCode(err, platformsdk.ErrorCodeConflict))

	require.NoError(t, client.DeleteAccount(ctx, adminID, target.ID))
	_, err = st.Identities().GetIdentityByID(ctx, target.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestRecoveryStartDoesNotRevealAccounts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mailer := &fakeMailer{}
	client, st := newTestServer(t, mailer)
	seedAdmin(t, st, "known@nextprepbd.test", "known-password")

	// With the mailer down, known and unknown emails must be
	// indistinguishable from outside.
	mailer.setFail(true)
	require.NoError(t, client.StartRecovery(ctx, "unknown@nextprepbd.test"))
	require.NoError(t, client.StartRecovery(ctx, "known@nextprepbd.test"))
	require.Equal(t, 0, mailer.sentCount())

	mailer.setFail(false)
	require.NoError(t, client.StartRecovery(ctx, "known@nextprepbd.test"))
	require.Equal(t, 1, mailer.sentCount())
}
