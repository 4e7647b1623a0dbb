package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nextprepbd/platform/internal/platform/domain"
	platformmail "github.com/nextprepbd/platform/internal/platform/mail"
	"github.com/nextprepbd/platform/internal/platform/store"
	"github.com/nextprepbd/platform/pkg/cryptox"
	"github.com/nextprepbd/platform/pkg/idx"
	"github.com/nextprepbd/platform/pkg/slogx"
)

var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrSelfDemotion     = errors.New("cannot modify own administrative account")
	ErrLastAdmin        = errors.New("cannot remove the last admin")
	ErrInsufficientTier = errors.New("operation requires service trust")
	ErrRecoveryNotFound = errors.New("recovery token not found or expired")
	ErrWeakPassword     = errors.New("password too short")
)

// DefaultRecoveryTTL bounds how long a password recovery token stays valid.
const DefaultRecoveryTTL = time.Hour

// AccountService holds the administrative account operations: forced
// password resets, account deletion, role changes, and the self-service
// password recovery flow.
//
// Destructive operations take the caller's trust Tier explicitly instead of
// inferring it from which environment the process booted in. Handlers derive
// the tier from how the request was authenticated and pass it here.
type AccountService struct {
	Store   store.Store
	Mailer  platformmail.Mailer
	BaseURL string

	// RecoveryTTL defaults to DefaultRecoveryTTL when zero.
	RecoveryTTL time.Duration
}

func (s *AccountService) recoveryTTL() time.Duration {
	if s.RecoveryTTL > 0 {
		return s.RecoveryTTL
	}
	return DefaultRecoveryTTL
}

// ForcePasswordReset replaces an account's password with a generated one and
// returns it. Service tier only; the caller is responsible for delivering
// the password out of band.
func (s *AccountService) ForcePasswordReset(ctx context.Context, tier domain.Tier, targetID string) (string, error) {
	log := slogx.FromContext(ctx)

	// 1. Gate on trust tier
	if tier != domain.TierService {
		log.Warn("force password reset refused", slog.String("tier", tier.String()))
		return "", ErrInsufficientTier
	}

	// 2. Generate a replacement password and hash it
	password, err := cryptox.GeneratePassword()
	if err != nil {
		log.Error("failed to generate password", slog.Any("error", err))
		return "", err
	}
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return "", err
	}

	// 3. Apply
	if err := s.Store.Identities().UpdatePasswordHash(ctx, targetID, hash); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrAccountNotFound
		}
		log.Error("failed to update password hash",
			slog.String("target_id", targetID),
			slog.Any("error", err),
		)
		return "", err
	}

	log.Info("password force-reset", slog.String("target_id", targetID))

	return password, nil
}

// DeleteAccount removes an identity and its profile. Two guards apply:
// callers may not delete the account they are acting as, and the last
// remaining admin can never be deleted.
func (s *AccountService) DeleteAccount(ctx context.Context, tier domain.Tier, callerID, targetID string) error {
	log := slogx.FromContext(ctx)

	// 1. Gate on trust tier
	if tier != domain.TierService {
		log.Warn("account deletion refused", slog.String("tier", tier.String()))
		return ErrInsufficientTier
	}

	// 2. Self-deletion guard. callerID may be empty for pure
	// machine-to-machine calls with no acting user; the guard only fires
	// when an acting user is identified.
	if callerID != "" && callerID == targetID {
		return ErrSelfDemotion
	}

	// 3. Delete inside a transaction so the last-admin check and the delete
	// see the same state.
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		profile, err := tx.Profiles().GetProfileByID(ctx, targetID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrAccountNotFound
			}
			return err
		}

		if profile.Role == domain.RoleAdmin {
			admins, err := tx.Profiles().CountByRole(ctx, domain.RoleAdmin)
			if err != nil {
				return err
			}
			if admins <= 1 {
				return ErrLastAdmin
			}
		}

		return tx.Identities().DeleteIdentity(ctx, targetID)
	})
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) || errors.Is(err, ErrSelfDemotion) || errors.Is(err, ErrLastAdmin) {
			return err
		}
		log.Error("failed to delete account",
			slog.String("target_id", targetID),
			slog.Any("error", err),
		)
		return fmt.Errorf("delete account: %w", err)
	}

	log.Info("account deleted", slog.String("target_id", targetID))

	return nil
}

// SetRole changes a profile's role directly. Service tier only. The same
// self and last-admin guards as DeleteAccount apply when the change would
// demote an admin.
func (s *AccountService) SetRole(ctx context.Context, tier domain.Tier, callerID, targetID string, role domain.Role) error {
	log := slogx.FromContext(ctx)

	// 1. Gate on trust tier and validate
	if tier != domain.TierService {
		log.Warn("role change refused", slog.String("tier", tier.String()))
		return ErrInsufficientTier
	}
	if !role.Valid() {
		return ErrInvalidRole
	}

	// 2. Apply inside a transaction so the guards see consistent state
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		profile, err := tx.Profiles().GetProfileByID(ctx, targetID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrAccountNotFound
			}
			return err
		}

		if profile.Role == domain.RoleAdmin && role != domain.RoleAdmin {
			if callerID != "" && callerID == targetID {
				return ErrSelfDemotion
			}
			admins, err := tx.Profiles().CountByRole(ctx, domain.RoleAdmin)
			if err != nil {
				return err
			}
			if admins <= 1 {
				return ErrLastAdmin
			}
		}

		return tx.Profiles().UpdateProfileRole(ctx, targetID, role)
	})
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) || errors.Is(err, ErrSelfDemotion) || errors.Is(err, ErrLastAdmin) {
			return err
		}
		log.Error("failed to change role",
			slog.String("target_id", targetID),
			slog.Any("error", err),
		)
		return err
	}

	log.Info("role changed",
		slog.String("target_id", targetID),
		slog.String("role", role.String()),
	)

	return nil
}

// StartRecovery begins self-service password recovery for an email. To avoid
// leaking which addresses hold accounts it reports success even when the
// email is unknown; the token email is only sent when an identity exists.
func (s *AccountService) StartRecovery(ctx context.Context, email string) error {
	log := slogx.FromContext(ctx)

	if email == "" {
		return ErrInvalidCredentials
	}

	// 1. Look up the identity; unknown emails short-circuit silently
	ident, err := s.Store.Identities().GetIdentityByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Debug("recovery requested for unknown email")
			return nil
		}
		return err
	}

	// 2. Mint and store the fingerprinted token
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	rec := domain.RecoveryToken{
		ID:         idx.New().String(),
		IdentityID: ident.ID,
		TokenHash:  cryptox.FingerprintToken(token),
		ExpiresAt:  now.Add(s.recoveryTTL()),
		CreatedAt:  now,
	}
	if err := s.Store.RecoveryTokens().CreateRecoveryToken(ctx, rec); err != nil {
		log.Error("failed to store recovery token", slog.Any("error", err))
		return err
	}

	// 3. Send the recovery email
	subject, body := platformmail.RecoveryBody(s.BaseURL, token)
	if err := s.Mailer.Send(ident.Email, subject, body); err != nil {
		log.Error("failed to send recovery email",
			slog.String("user_id", ident.ID),
			slog.Any("error", err),
		)
		return fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}

	log.Info("recovery started", slog.String("user_id", ident.ID))

	return nil
}

// CompleteRecovery consumes a recovery token and sets the new password. The
// consume-then-update runs in one transaction with a rows-affected check on
// the delete, so a token redeems at most once.
func (s *AccountService) CompleteRecovery(ctx context.Context, token, newPassword string) error {
	log := slogx.FromContext(ctx)

	if token == "" {
		return ErrRecoveryNotFound
	}
	if len(newPassword) < minPasswordLength {
		return ErrWeakPassword
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	fingerprint := cryptox.FingerprintToken(token)

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		rec, err := tx.RecoveryTokens().GetActiveRecoveryToken(ctx, fingerprint)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrRecoveryNotFound
			}
			return err
		}

		deleted, err := tx.RecoveryTokens().DeleteRecoveryToken(ctx, rec.ID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrRecoveryNotFound
		}

		return tx.Identities().UpdatePasswordHash(ctx, rec.IdentityID, hash)
	})
	if err != nil {
		if errors.Is(err, ErrRecoveryNotFound) {
			log.Warn("recovery completion with invalid or expired token")
			return err
		}
		log.Error("failed to complete recovery", slog.Any("error", err))
		return err
	}

	log.Info("recovery completed")

	return nil
}

// ChangePassword lets a signed-in user rotate their own password after
// re-verifying the current one.
func (s *AccountService) ChangePassword(ctx context.Context, userID, current, next string) error {
	log := slogx.FromContext(ctx)

	if len(next) < minPasswordLength {
		return ErrWeakPassword
	}

	ident, err := s.Store.Identities().GetIdentityByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		return err
	}

	if err := cryptox.VerifyPassword(current, ident.PasswordHash); err != nil {
		log.Warn("password change with wrong current password", slog.String("user_id", userID))
		return ErrInvalidCredentials
	}

	hash, err := cryptox.HashPassword(next)
	if err != nil {
		return err
	}
	if err := s.Store.Identities().UpdatePasswordHash(ctx, userID, hash); err != nil {
		return err
	}

	log.Info("password changed", slog.String("user_id", userID))

	return nil
}
