package sqlite

import (
	"context"
	"time"

	"github.com/nextprepbd/platform/internal/platform/domain"
)

type invitationsRepo struct {
	db dbtx
}

func (r *invitationsRepo) CreateInvitation(ctx context.Context, inv domain.Invitation) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO invitations (id, email, role, token_hash, invited_by, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.Email, string(inv.Role), inv.TokenHash, inv.InvitedBy, inv.ExpiresAt, inv.CreatedAt,
	)
	return mapConstraint(err)
}

func (r *invitationsRepo) GetActiveInvitation(
	ctx context.Context,
	email, tokenHash string,
) (domain.Invitation, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, role, token_hash, invited_by, expires_at, created_at
		FROM invitations
		WHERE email = ? AND token_hash = ? AND expires_at > ?
		ORDER BY created_at ASC
		LIMIT 1`,
		email, tokenHash, time.Now().UTC(),
	)
	return scanInvitation(row)
}

func (r *invitationsRepo) DeleteInvitation(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM invitations WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *invitationsRepo) ListInvitationsByEmail(
	ctx context.Context,
	email string,
) ([]domain.Invitation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, email, role, token_hash, invited_by, expires_at, created_at
		FROM invitations
		WHERE email = ?
		ORDER BY created_at DESC`,
		email,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []domain.Invitation
	for rows.Next() {
		var inv domain.Invitation
		var role string
		if err := rows.Scan(
			&inv.ID, &inv.Email, &role, &inv.TokenHash,
			&inv.InvitedBy, &inv.ExpiresAt, &inv.CreatedAt,
		); err != nil {
			return nil, err
		}
		inv.Role = domain.Role(role)
		invitations = append(invitations, inv)
	}
	return invitations, rows.Err()
}

func (r *invitationsRepo) DeleteExpiredInvitations(ctx context.Context, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM invitations WHERE expires_at <= ?`, now)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvitation(row rowScanner) (domain.Invitation, error) {
	var inv domain.Invitation
	var role string
	err := row.Scan(
		&inv.ID, &inv.Email, &role, &inv.TokenHash,
		&inv.InvitedBy, &inv.ExpiresAt, &inv.CreatedAt,
	)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	inv.Role = domain.Role(role)
	return inv, nil
}
