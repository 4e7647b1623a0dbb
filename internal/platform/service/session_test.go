package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nextprepbd/platform/internal/platform/domain"
	"github.com/nextprepbd/platform/internal/platform/store"
	"github.com/nextprepbd/platform/pkg/jwtx"
)

func newSessionService(st store.Store) *SessionService {
	return &SessionService{
		Store:  st,
		Signer: &jwtx.SignerHS256{Secret: []byte("test-secret")},
		Issuer: "test-issuer",
	}
}

func TestRegisterCreatesStudentAccount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := newSessionService(st)

	profile, err := svc.Register(ctx, "a@b.com", "a-solid-password")
	require.NoError(t, err)
	require.Equal(t, domain.RoleStudent, profile.Role)
	require.Equal(t, "a@b.com", profile.Email)
	require.NotEmpty(t, profile.ID)

	// Identity and profile share the id
	ident, err := st.Identities().GetIdentityByID(ctx, profile.ID)
	require.NoError(t, err)
	require.Equal(t, "a@b.com", ident.Email)
	require.NotEqual(t, "a-solid-password", ident.PasswordHash)
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := newSessionService(st)

	_, err := svc.Register(ctx, "", "a-solid-password")
	require.ErrorIs(t, err, ErrInvalidRegistration)
	_, err = svc.Register(ctx, "not-an-email", "a-solid-password")
	require.ErrorIs(t, err, ErrInvalidRegistration)
	_, err = svc.Register(ctx, "a@b.com", "tiny")
	require.ErrorIs(t, err, ErrInvalidRegistration)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := newSessionService(st)

	_, err := svc.Register(ctx, "a@b.com", "a-solid-password")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "a@b.com", "another-password")
	require.ErrorIs(t, err, ErrEmailAlreadyRegistered)
}

func TestSignInMintsTokenWithProfileRole(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := newSessionService(st)

	userID := seedAccount(t, st, "a@b.com", domain.RoleTutor)

	token, profile, err := svc.SignIn(ctx, "a@b.com", "initial-password")
	require.NoError(t, err)
	require.Equal(t, userID, profile.ID)
	require.Equal(t, domain.RoleTutor, profile.Role)

	verifier := &jwtx.VerifierHS256{Secret: []byte("test-secret"), Issuer: "test-issuer"}
	claims, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, userID, claims.Subject)
	require.Equal(t, "a@b.com", claims.Email)
	require.Equal(t, "tutor", claims.Role)
	require.Contains(t, claims.Scopes, "content:write")
	require.NotContains(t, claims.Scopes, "admin:write")
	require.WithinDuration(t, time.Now().Add(DefaultSessionTTL), claims.ExpiresAt, time.Minute)
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := newSessionService(st)

	seedAccount(t, st, "a@b.com", domain.RoleStudent)

	_, _, err := svc.SignIn(ctx, "a@b.com", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.SignIn(ctx, "missing@b.com", "initial-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.SignIn(ctx, "", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRoleChangeTakesEffectOnNextSignIn(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := newSessionService(st)

	userID := seedAccount(t, st, "a@b.com", domain.RoleStudent)

	_, profile, err := svc.SignIn(ctx, "a@b.com", "initial-password")
	require.NoError(t, err)
	require.Equal(t, domain.RoleStudent, profile.Role)

	require.NoError(t, st.Profiles().UpdateProfileRole(ctx, userID, domain.RoleAdmin))

	token, profile, err := svc.SignIn(ctx, "a@b.com", "initial-password")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, profile.Role)

	verifier := &jwtx.VerifierHS256{Secret: []byte("test-secret"), Issuer: "test-issuer"}
	claims, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Contains(t, claims.Scopes, "admin:write")
}
