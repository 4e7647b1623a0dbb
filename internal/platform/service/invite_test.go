package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nextprepbd/platform/internal/platform/domain"
	"github.com/nextprepbd/platform/internal/platform/store"
	"github.com/nextprepbd/platform/pkg/cryptox"
	"github.com/nextprepbd/platform/pkg/idx"
)

func newInviteService(st store.Store, mailer *fakeMailer) *InviteService {
	return &InviteService{
		Store:   st,
		Mailer:  mailer,
		BaseURL: "https://nextprepbd.test",
	}
}

func TestIssueCreatesInvitationAndSendsEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	mailer := &fakeMailer{}
	svc := newInviteService(st, mailer)

	token, err := svc.Issue(ctx, "a@b.com", domain.RoleTutor, "admin@nextprepbd.test")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// The record stores the fingerprint, never the raw token
	invites, err := st.Invitations().ListInvitationsByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	require.Len(t, invites, 1)
	require.Equal(t, cryptox.FingerprintToken(token), invites[0].TokenHash)
	require.Equal(t, domain.RoleTutor, invites[0].Role)
	require.True(t, invites[0].ExpiresAt.After(time.Now()))

	// The invitee got exactly one email carrying the raw token
	sent := mailer.all()
	require.Len(t, sent, 1)
	require.Equal(t, "a@b.com", sent[0].To)
	require.Contains(t, sent[0].Body, token)
}

func TestIssueValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := newInviteService(st, &fakeMailer{})

	_, err := svc.Issue(ctx, "", domain.RoleTutor, "")
	require.ErrorIs(t, err, ErrInvalidInviteRequest)

	_, err = svc.Issue(ctx, "not-an-email", domain.RoleTutor, "")
	require.ErrorIs(t, err, ErrInvalidInviteRequest)

	_, err = svc.Issue(ctx, "a@b.com", domain.Role("superuser"), "")
	require.ErrorIs(t, err, ErrInvalidRole)
}

func TestIssueKeepsRecordWhenDeliveryFails(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	mailer := &fakeMailer{fail: true}
	svc := newInviteService(st, mailer)

	token, err := svc.Issue(ctx, "a@b.com", domain.RoleTutor, "")
	require.ErrorIs(t, err, ErrNotificationFailed)

	// The token is still returned for manual delivery, and the record exists
	require.NotEmpty(t, token)
	invites, err := st.Invitations().ListInvitationsByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	require.Len(t, invites, 1)
	require.Equal(t, cryptox.FingerprintToken(token), invites[0].TokenHash)
}

func TestAcceptGrantsRoleAndConsumesInvitation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := newInviteService(st, &fakeMailer{})

	userID := seedAccount(t, st, "a@b.com", domain.RoleStudent)

	token, err := svc.Issue(ctx, "a@b.com", domain.RoleTutor, "")
	require.NoError(t, err)

	role, err := svc.Accept(ctx, "a@b.com", token, userID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleTutor, role)

	// The profile now holds the role
	profile, err := st.Profiles().GetProfileByID(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleTutor, profile.Role)

	// The invitation is gone
	invites, err := st.Invitations().ListInvitationsByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	require.Empty(t, invites)
}

func TestAcceptIsSingleUse(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := newInviteService(st, &fakeMailer{})

	userID := seedAccount(t, st, "a@b.com", domain.RoleStudent)
	other := seedAccount(t, st, "c@d.com", domain.RoleStudent)

	token, err := svc.Issue(ctx, "a@b.com", domain.RoleTutor, "")
	require.NoError(t, err)

	_, err = svc.Accept(ctx, "a@b.com", token, userID)
	require.NoError(t, err)

	// A second redemption of the same token fails, whoever presents it
	_, err = svc.Accept(ctx, "a@b.com", token, userID)
	require.ErrorIs(t, err, ErrInviteNotFound)
	_, err = svc.Accept(ctx, "a@b.com", token, other)
	require.ErrorIs(t, err, ErrInviteNotFound)

	// The second account's role is untouched
	profile, err := st.Profiles().GetProfileByID(ctx, other)
	require.NoError(t, err)
	require.Equal(t, domain.RoleStudent, profile.Role)
}

func TestAcceptWithWrongTokenLeavesInvitationIntact(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := newInviteService(st, &fakeMailer{})

	userID := seedAccount(t, st, "a@b.com", domain.RoleStudent)

	_, err := svc.Issue(ctx, "a@b.com", domain.RoleTutor, "")
	require.NoError(t, err)

	_, err = svc.Accept(ctx, "a@b.com", "wrong-token", userID)
	require.ErrorIs(t, err, ErrInviteNotFound)

	// Wrong email fails the same way
	_, err = svc.Accept(ctx, "z@z.com", "wrong-token", userID)
	require.ErrorIs(t, err, ErrInviteNotFound)

	// No role change, invitation still outstanding
	profile, err := st.Profiles().GetProfileByID(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleStudent, profile.Role)

	invites, err := st.Invitations().ListInvitationsByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	require.Len(t, invites, 1)
}

func TestAcceptWithoutProfileLeavesInvitationIntact(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := newInviteService(st, &fakeMailer{})

	token, err := svc.Issue(ctx, "a@b.com", domain.RoleTutor, "")
	require.NoError(t, err)

	// No profile exists for this id, so the grant fails and the whole
	// transaction rolls back
	_, err = svc.Accept(ctx, "a@b.com", token, idx.New().String())
	require.ErrorIs(t, err, ErrGrantFailed)

	invites, err := st.Invitations().ListInvitationsByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	require.Len(t, invites, 1)
}

func TestMultipleInvitationsAreIndependentlyRedeemable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := newInviteService(st, &fakeMailer{})

	userID := seedAccount(t, st, "a@b.com", domain.RoleStudent)

	tutorToken, err := svc.Issue(ctx, "a@b.com", domain.RoleTutor, "")
	require.NoError(t, err)
	adminToken, err := svc.Issue(ctx, "a@b.com", domain.RoleAdmin, "")
	require.NoError(t, err)

	role, err := svc.Accept(ctx, "a@b.com", tutorToken, userID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleTutor, role)

	// The other invitation survives the first redemption
	invites, err := st.Invitations().ListInvitationsByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	require.Len(t, invites, 1)

	role, err = svc.Accept(ctx, "a@b.com", adminToken, userID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, role)
}

func TestAcceptRejectsExpiredInvitation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := newInviteService(st, &fakeMailer{})

	userID := seedAccount(t, st, "a@b.com", domain.RoleStudent)

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	require.NoError(t, err)
	require.NoError(t, st.Invitations().CreateInvitation(ctx, domain.Invitation{
		ID:        idx.New().String(),
		Email:     "a@b.com",
		Role:      domain.RoleTutor,
		TokenHash: cryptox.FingerprintToken(token),
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
		CreatedAt: time.Now().UTC().Add(-time.Hour),
	}))

	_, err = svc.Accept(ctx, "a@b.com", token, userID)
	require.ErrorIs(t, err, ErrInviteNotFound)

	profile, err := st.Profiles().GetProfileByID(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleStudent, profile.Role)
}

func TestIssueHonorsConfiguredTTL(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := newInviteService(st, &fakeMailer{})
	svc.InviteTTL = time.Hour

	before := time.Now().UTC()
	_, err := svc.Issue(ctx, "a@b.com", domain.RoleTutor, "")
	require.NoError(t, err)

	invites, err := st.Invitations().ListInvitationsByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	require.Len(t, invites, 1)
	require.WithinDuration(t, before.Add(time.Hour), invites[0].ExpiresAt, 5*time.Second)
}
