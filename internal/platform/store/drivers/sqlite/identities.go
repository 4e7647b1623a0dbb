package sqlite

import (
	"context"
	"time"

	"github.com/nextprepbd/platform/internal/platform/domain"
	"github.com/nextprepbd/platform/internal/platform/store"
)

type identitiesRepo struct {
	db dbtx
}

func (r *identitiesRepo) GetIdentityByID(ctx context.Context, id string) (domain.Identity, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at, updated_at
		FROM identities WHERE id = ?`, id)
	return scanIdentity(row)
}

func (r *identitiesRepo) GetIdentityByEmail(ctx context.Context, email string) (domain.Identity, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at, updated_at
		FROM identities WHERE email = ?`, email)
	return scanIdentity(row)
}

func (r *identitiesRepo) CreateIdentity(ctx context.Context, ident domain.Identity) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO identities (id, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		ident.ID, ident.Email, ident.PasswordHash, ident.CreatedAt, ident.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *identitiesRepo) UpdatePasswordHash(ctx context.Context, identityID, newHash string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE identities SET password_hash = ?, updated_at = ? WHERE id = ?`,
		newHash, time.Now().UTC(), identityID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *identitiesRepo) DeleteIdentity(ctx context.Context, identityID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM identities WHERE id = ?`, identityID)
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

// requireRow maps a zero rows-affected result to store.ErrNotFound so
// updates and deletes against missing rows surface consistently.
func requireRow(res interface{ RowsAffected() (int64, error) }) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
