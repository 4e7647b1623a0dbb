package sqlite

import (
	"context"
	"time"

	"github.com/nextprepbd/platform/internal/platform/domain"
)

type recoveryTokensRepo struct {
	db dbtx
}

func (r *recoveryTokensRepo) CreateRecoveryToken(ctx context.Context, t domain.RecoveryToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO recovery_tokens (id, identity_id, token_hash, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.IdentityID, t.TokenHash, t.ExpiresAt, t.CreatedAt,
	)
	return mapConstraint(err)
}

func (r *recoveryTokensRepo) GetActiveRecoveryToken(
	ctx context.Context,
	tokenHash string,
) (domain.RecoveryToken, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, identity_id, token_hash, expires_at, created_at
		FROM recovery_tokens
		WHERE token_hash = ? AND expires_at > ?`,
		tokenHash, time.Now().UTC(),
	)

	var t domain.RecoveryToken
	err := row.Scan(&t.ID, &t.IdentityID, &t.TokenHash, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		return domain.RecoveryToken{}, mapNotFound(err)
	}
	return t, nil
}

func (r *recoveryTokensRepo) DeleteRecoveryToken(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recovery_tokens WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *recoveryTokensRepo) DeleteExpiredRecoveryTokens(ctx context.Context, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM recovery_tokens WHERE expires_at <= ?`, now)
	return err
}
