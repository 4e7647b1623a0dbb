package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"time"

	"github.com/nextprepbd/platform/internal/platform/domain"
	"github.com/nextprepbd/platform/internal/platform/store"
	"github.com/nextprepbd/platform/pkg/cryptox"
	"github.com/nextprepbd/platform/pkg/idx"
	"github.com/nextprepbd/platform/pkg/jwtx"
	"github.com/nextprepbd/platform/pkg/slogx"
)

var (
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidRegistration    = errors.New("invalid registration request")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
)

// DefaultSessionTTL is how long a minted session token stays valid.
const DefaultSessionTTL = 24 * time.Hour

// minPasswordLength is a floor, not a policy engine.
const minPasswordLength = 8

// SessionService handles registration and sign-in. Every new registration
// starts as a student; elevated roles only arrive through invitation
// redemption or an administrative grant.
type SessionService struct {
	Store  store.Store
	Signer jwtx.Signer
	Issuer string

	// SessionTTL defaults to DefaultSessionTTL when zero.
	SessionTTL time.Duration
}

// TTL returns the effective session lifetime.
func (s *SessionService) TTL() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return DefaultSessionTTL
}

// Register creates a new identity and its student profile atomically.
func (s *SessionService) Register(ctx context.Context, email, password string) (domain.Profile, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input
	if email == "" || password == "" {
		return domain.Profile{}, ErrInvalidRegistration
	}
	if _, err := mail.ParseAddress(email); err != nil {
		log.Warn("registration with unparseable email")
		return domain.Profile{}, ErrInvalidRegistration
	}
	if len(password) < minPasswordLength {
		return domain.Profile{}, ErrInvalidRegistration
	}

	// 2. Hash the password (argon2id, peppered)
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.Profile{}, err
	}

	now := time.Now().UTC()
	ident := domain.Identity{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	profile := domain.Profile{
		ID:        ident.ID,
		Email:     email,
		Role:      domain.RoleStudent,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// 3. Persist identity and profile together; a half-created account is
	// worse than no account.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Identities().CreateIdentity(ctx, ident); err != nil {
			return err
		}
		return tx.Profiles().CreateProfile(ctx, profile)
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			log.Warn("registration for already registered email")
			return domain.Profile{}, ErrEmailAlreadyRegistered
		}
		log.Error("failed to create account", slog.Any("error", err))
		return domain.Profile{}, fmt.Errorf("create account: %w", err)
	}

	log.Info("account registered", slog.String("user_id", ident.ID))

	return profile, nil
}

// SignIn verifies credentials and mints a session token carrying the
// profile's current role and scopes.
func (s *SessionService) SignIn(ctx context.Context, email, password string) (string, domain.Profile, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input
	if email == "" || password == "" {
		return "", domain.Profile{}, ErrInvalidCredentials
	}

	// 2. Fetch the identity. Unknown emails and wrong passwords collapse
	// into the same error so sign-in can't be used to probe accounts.
	ident, err := s.Store.Identities().GetIdentityByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("sign-in for unknown email")
			return "", domain.Profile{}, ErrInvalidCredentials
		}
		log.Error("failed to fetch identity", slog.Any("error", err))
		return "", domain.Profile{}, err
	}

	// 3. Verify the password
	if err := cryptox.VerifyPassword(password, ident.PasswordHash); err != nil {
		log.Warn("sign-in with wrong password", slog.String("user_id", ident.ID))
		return "", domain.Profile{}, ErrInvalidCredentials
	}

	// 4. Load the profile for role and scopes
	profile, err := s.Store.Profiles().GetProfileByID(ctx, ident.ID)
	if err != nil {
		log.Error("failed to fetch profile",
			slog.String("user_id", ident.ID),
			slog.Any("error", err),
		)
		return "", domain.Profile{}, err
	}

	// 5. Mint the session token
	now := time.Now().UTC()
	token, err := s.Signer.Sign(jwtx.Claims{
		Subject:   ident.ID,
		Email:     ident.Email,
		Role:      profile.Role.String(),
		Scopes:    profile.Role.Scopes(),
		Issuer:    s.Issuer,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.TTL()),
	})
	if err != nil {
		log.Error("failed to sign session token", slog.Any("error", err))
		return "", domain.Profile{}, err
	}

	log.Info("session created",
		slog.String("user_id", ident.ID),
		slog.String("role", profile.Role.String()),
	)

	return token, profile, nil
}

// Profile returns the profile for a signed-in user.
func (s *SessionService) Profile(ctx context.Context, userID string) (domain.Profile, error) {
	return s.Store.Profiles().GetProfileByID(ctx, userID)
}
