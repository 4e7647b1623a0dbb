package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"time"

	"github.com/nextprepbd/platform/internal/platform/domain"
	platformmail "github.com/nextprepbd/platform/internal/platform/mail"
	"github.com/nextprepbd/platform/internal/platform/store"
	"github.com/nextprepbd/platform/pkg/cryptox"
	"github.com/nextprepbd/platform/pkg/idx"
	"github.com/nextprepbd/platform/pkg/slogx"
)

var (
	ErrInvalidInviteRequest = errors.New("invalid invite request")
	ErrInvalidRole          = errors.New("invalid role")
	ErrInviteNotFound       = errors.New("invitation not found or expired")
	ErrNotificationFailed   = errors.New("notification delivery failed")
	ErrGrantFailed          = errors.New("role grant failed")
)

// DefaultInviteTTL bounds how long an unredeemed invitation stays valid.
const DefaultInviteTTL = 7 * 24 * time.Hour

// InviteService issues and redeems role invitations. Issue and Accept are
// the two halves of the only multi-step protocol in the platform: a token
// minted here is redeemable exactly once, and redemption is what grants the
// role.
type InviteService struct {
	Store   store.Store
	Mailer  platformmail.Mailer
	BaseURL string // Public site URL embedded in invitation links

	// InviteTTL defaults to DefaultInviteTTL when zero.
	InviteTTL time.Duration
}

func (s *InviteService) ttl() time.Duration {
	if s.InviteTTL > 0 {
		return s.InviteTTL
	}
	return DefaultInviteTTL
}

// Issue creates a new invitation for email to join as role and sends the
// invitation email. invitedByEmail is display-only and never checked.
//
// On notification failure the invitation record already exists and is NOT
// rolled back; the token is still returned alongside ErrNotificationFailed
// so the caller can deliver it manually or re-send.
func (s *InviteService) Issue(
	ctx context.Context,
	email string,
	role domain.Role,
	invitedByEmail string,
) (string, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input. The email must at least parse as an address.
	if email == "" {
		return "", ErrInvalidInviteRequest
	}
	if _, err := mail.ParseAddress(email); err != nil {
		log.Warn("invite requested for unparseable email")
		return "", ErrInvalidInviteRequest
	}
	if !role.Valid() {
		log.Warn("invite requested with invalid role", slog.String("role", role.String()))
		return "", ErrInvalidRole
	}

	// 2. Generate the opaque token and fingerprint it. Only the fingerprint
	// is persisted; the raw token travels in the email alone.
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate invite token", slog.Any("error", err))
		return "", err
	}
	fingerprint := cryptox.FingerprintToken(token)

	now := time.Now().UTC()
	invite := domain.Invitation{
		ID:        idx.New().String(),
		Email:     email,
		Role:      role,
		TokenHash: fingerprint,
		InvitedBy: invitedByEmail,
		ExpiresAt: now.Add(s.ttl()),
		CreatedAt: now,
	}

	// 3. Persist. Multiple outstanding invitations for the same email are
	// allowed on purpose; each stays independently redeemable.
	if err := s.Store.Invitations().CreateInvitation(ctx, invite); err != nil {
		log.Error("failed to persist invitation",
			slog.String("invite_id", invite.ID),
			slog.Any("error", err),
		)
		return "", fmt.Errorf("persist invitation: %w", err)
	}

	log.Debug("invitation created",
		slog.String("invite_id", invite.ID),
		slog.String("role", role.String()),
		slog.Time("expires_at", invite.ExpiresAt),
	)

	// 4. Send the invitation email. The record stays if this fails.
	subject, body := platformmail.InvitationBody(s.BaseURL, email, token, role.String(), invitedByEmail)
	if err := s.Mailer.Send(email, subject, body); err != nil {
		log.Error("failed to send invitation email",
			slog.String("invite_id", invite.ID),
			slog.Any("error", err),
		)
		return token, fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}

	return token, nil
}

// Accept redeems an invitation. userID is the identity of the session
// completing acceptance; handlers take it from the verified session, never
// from the request body. It performs, in one transaction:
//
//  1. lookup of the active invitation by (email, token fingerprint)
//  2. the role grant on the profile
//  3. a conditional delete of the invitation
//
// The transaction means the grant is durable if and only if the invitation
// was consumed, and the rows-affected check on the delete makes concurrent
// redeemers mutually exclusive: at most one commits.
func (s *InviteService) Accept(ctx context.Context, email, token, userID string) (domain.Role, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input
	if email == "" || token == "" || userID == "" {
		log.Warn("invite acceptance missing required fields")
		return "", ErrInvalidInviteRequest
	}

	fingerprint := cryptox.FingerprintToken(token)

	var granted domain.Role
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		// 2. Look up the invitation. Expired rows are invisible here.
		invite, err := tx.Invitations().GetActiveInvitation(ctx, email, fingerprint)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				log.Warn("invite acceptance with invalid or expired token")
				return ErrInviteNotFound
			}
			log.Error("failed to fetch invitation", slog.Any("error", err))
			return err
		}

		// 3. Grant the role. A missing profile fails the whole transaction,
		// so the invitation survives and the user can retry after fixing
		// their account.
		if err := tx.Profiles().UpdateProfileRole(ctx, userID, invite.Role); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				log.Warn("invite acceptance for unknown profile",
					slog.String("user_id", userID),
					slog.String("invite_id", invite.ID),
				)
				return fmt.Errorf("%w: no profile for user", ErrGrantFailed)
			}
			log.Error("failed to grant role",
				slog.String("user_id", userID),
				slog.Any("error", err),
			)
			return fmt.Errorf("%w: %v", ErrGrantFailed, err)
		}

		// 4. Consume the invitation. Zero rows deleted means a concurrent
		// redeemer got here first; fail so only one grant commits.
		deleted, err := tx.Invitations().DeleteInvitation(ctx, invite.ID)
		if err != nil {
			log.Error("failed to delete invitation",
				slog.String("invite_id", invite.ID),
				slog.Any("error", err),
			)
			return err
		}
		if !deleted {
			return ErrInviteNotFound
		}

		granted = invite.Role
		return nil
	})
	if err != nil {
		return "", err
	}

	log.Info("invitation redeemed",
		slog.String("user_id", userID),
		slog.String("role", granted.String()),
	)

	return granted, nil
}

// ListForEmail returns the outstanding invitations for an email address.
// Admin surface only; raw tokens are not recoverable from the records.
func (s *InviteService) ListForEmail(ctx context.Context, email string) ([]domain.Invitation, error) {
	return s.Store.Invitations().ListInvitationsByEmail(ctx, email)
}
