package postgres

import (
	"context"

	"github.com/nextprepbd/platform/internal/platform/domain"
)

type identitiesRepo struct {
	db dbtx
}

func (r *identitiesRepo) GetIdentityByID(ctx context.Context, id string) (domain.Identity, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at, updated_at
		FROM identities WHERE id = $1`, id)
	return scanIdentity(row)
}

func (r *identitiesRepo) GetIdentityByEmail(ctx context.Context, email string) (domain.Identity, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at, updated_at
		FROM identities WHERE email = $1`, email)
	return scanIdentity(row)
}

func (r *identitiesRepo) CreateIdentity(ctx context.Context, ident domain.Identity) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO identities (id, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		ident.ID, ident.Email, ident.PasswordHash, ident.CreatedAt, ident.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *identitiesRepo) UpdatePasswordHash(ctx context.Context, identityID, newHash string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE identities SET password_hash = $1, updated_at = now() WHERE id = $2`,
		newHash, identityID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *identitiesRepo) DeleteIdentity(ctx context.Context, identityID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM identities WHERE id = $1`, identityID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func scanIdentity(row rowScanner) (domain.Identity, error) {
	var ident domain.Identity
	err := row.Scan(&ident.ID, &ident.Email, &ident.PasswordHash, &ident.CreatedAt, &ident.UpdatedAt)
	if err != nil {
		return domain.Identity{}, mapNotFound(err)
	}
	return ident, nil
}
