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

func newAccountService(st store.Store, mailer *fakeMailer) *AccountService {
	return &AccountService{
		Store:   st,
		Mailer:  mailer,
		BaseURL: "https://nextprepbd.test",
	}
}

func TestForcePasswordResetRequiresServiceTier(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := newAccountService(st, &fakeMailer{})

	target := seedAccount(t, st, "a@b.com", domain.RoleStudent)

	_, err := svc.ForcePasswordReset(ctx, domain.TierSession, target)
	require.ErrorIs(t, err, ErrInsufficientTier)
	_, err = svc.ForcePasswordReset(ctx, domain.TierAnonymous, target)
	require.ErrorIs(t, err, ErrInsufficientTier)
}

func TestForcePasswordResetReplacesPassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := newAccountService(st, &fakeMailer{})

	target := seedAccount(t, st, "a@b.com", domain.RoleStudent)

	password, err := svc.ForcePasswordReset(ctx, domain.TierService, target)
	require.NoError(t, err)
	require.NotEmpty(t, password)

	ident, err := st.Identities().GetIdentityByID(ctx, target)
	require.NoError(t, err)
	require.NoError(t, cryptox.VerifyPassword(password, ident.PasswordHash))
	require.Error(t, cryptox.VerifyPassword("initial-password", ident.PasswordHash))

	_, err = svc.ForcePasswordReset(ctx, domain.TierService, idx.New().String())
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestDeleteAccountGuards(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := newAccountService(st, &fakeMailer{})

	admin := seedAccount(t, st, "admin@b.com", domain.RoleAdmin)
	student := seedAccount(t, st, "s@b.com", domain.RoleStudent)

	// Tier gate
	require.ErrorIs(t, svc.DeleteAccount(ctx, domain.TierSession, admin, student), ErrInsufficientTier)

	// Self-deletion guard
	require.ErrorIs(t, svc.DeleteAccount(ctx, domain.TierService, admin, admin), ErrSelfDemotion)

	// Last-admin guard
	require.ErrorIs(t, svc.DeleteAccount(ctx, domain.TierService, "", admin), ErrLastAdmin)

	// A second admin makes the first deletable
	admin2 := seedAccount(t, st, "admin2@b.com", domain.RoleAdmin)
	require.NoError(t, svc.DeleteAccount(ctx, domain.TierService, admin2, admin))

	_, err := st.Identities().GetIdentityByID(ctx, admin)
	require.ErrorIs(t, err, store.ErrNotFound)

	// Profile rows cascade with the identity
	_, err = st.Profiles().GetProfileByID(ctx, admin)
	require.ErrorIs(t, err, store.ErrNotFound)

	// Plain deletion still works
	require.NoError(t, svc.DeleteAccount(ctx, domain.TierService, admin2, student))
}

func TestSetRoleGuards(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := newAccountService(st, &fakeMailer{})

	admin := seedAccount(t, st, "admin@b.com", domain.RoleAdmin)
	student := seedAccount(t, st, "s@b.com", domain.RoleStudent)

	require.ErrorIs(t, svc.SetRole(ctx, domain.TierSession, admin, student, domain.RoleTutor), ErrInsufficientTier)
	require.ErrorIs(t, svc.SetRole(ctx, domain.TierService, admin, student, domain.Role("root")), ErrInvalidRole)

	// Demoting the only admin is refused, both as self and via last-admin
	require.ErrorIs(t, svc.SetRole(ctx, domain.TierService, admin, admin, domain.RoleStudent), ErrSelfDemotion)
	require.ErrorIs(t, svc.SetRole(ctx, domain.TierService, "", admin, domain.RoleTutor), ErrLastAdmin)

	// Promotion works and a second admin unlocks demotion of the first
	require.NoError(t, svc.SetRole(ctx, domain.TierService, admin, student, domain.RoleAdmin))
	require.NoError(t, svc.SetRole(ctx, domain.TierService, student, admin, domain.RoleTutor))

	profile, err := st.Profiles().GetProfileByID(ctx, admin)
	require.NoError(t, err)
	require.Equal(t, domain.RoleTutor, profile.Role)
}

func TestRecoveryRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	mailer := &fakeMailer{}
	svc := newAccountService(st, mailer)

	userID := seedAccount(t, st, "a@b.com", domain.RoleStudent)

	require.NoError(t, svc.StartRecovery(ctx, "a@b.com"))

	// Unknown emails report success without sending anything
	require.NoError(t, svc.StartRecovery(ctx, "nobody@b.com"))
	require.Len(t, mailer.all(), 1)

	// Drive the completion with a token we planted ourselves, since the
	// real one only exists inside the email body.
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	require.NoError(t, err)
	require.NoError(t, st.RecoveryTokens().CreateRecoveryToken(ctx, domain.RecoveryToken{
		ID:         idx.New().String(),
		IdentityID: userID,
		TokenHash:  cryptox.FingerprintToken(token),
		ExpiresAt:  time.Now().UTC().Add(time.Hour),
		CreatedAt:  time.Now().UTC(),
	}))

	require.ErrorIs(t, svc.CompleteRecovery(ctx, token, "short"), ErrWeakPassword)
	require.NoError(t, svc.CompleteRecovery(ctx, token, "brand-new-password"))

	ident, err := st.Identities().GetIdentityByID(ctx, userID)
	require.NoError(t, err)
	require.NoError(t, cryptox.VerifyPassword("brand-new-password", ident.PasswordHash))

	// The token is single-use
	require.ErrorIs(t, svc.CompleteRecovery(ctx, token, "another-password"), ErrRecoveryNotFound)
}

func TestCompleteRecoveryRejectsExpiredToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := newAccountService(st, &fakeMailer{})

	userID := seedAccount(t, st, "a@b.com", domain.RoleStudent)

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	require.NoError(t, err)
	require.NoError(t, st.RecoveryTokens().CreateRecoveryToken(ctx, domain.RecoveryToken{
		ID:         idx.New().String(),
		IdentityID: userID,
		TokenHash:  cryptox.FingerprintToken(token),
		ExpiresAt:  time.Now().UTC().Add(-time.Minute),
		CreatedAt:  time.Now().UTC().Add(-time.Hour),
	}))

	require.ErrorIs(t, svc.CompleteRecovery(ctx, token, "brand-new-password"), ErrRecoveryNotFound)
}

func TestChangePassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	svc := newAccountService(st, &fakeMailer{})

	userID := seedAccount(t, st, "a@b.com", domain.RoleStudent)

	require.ErrorIs(t, svc.ChangePassword(ctx, userID, "wrong", "next-password"), ErrInvalidCredentials)
	require.ErrorIs(t, svc.ChangePassword(ctx, userID, "initial-password", "tiny"), ErrWeakPassword)

	require.NoError(t, svc.ChangePassword(ctx, userID, "initial-password", "next-password"))

	ident, err := st.Identities().GetIdentityByID(ctx, userID)
	require.NoError(t, err)
	require.NoError(t, cryptox.VerifyPassword("next-password", ident.PasswordHash))
}
