package sqlite

import (
	"context"
	"time"

	"github.com/nextprepbd/platform/internal/platform/domain"
)

type profilesRepo struct {
	db dbtx
}

func (r *profilesRepo) GetProfileByID(ctx context.Context, id string) (domain.Profile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, role, created_at, updated_at
		FROM profiles WHERE id = ?`, id)

	var p domain.Profile
	var role string
	if err := row.Scan(&p.ID, &p.Email, &role, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return domain.Profile{}, mapNotFound(err)
	}
	p.Role = domain.Role(role)
	return p, nil
}

func (r *profilesRepo) CreateProfile(ctx context.Context, p domain.Profile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (id, email, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Email, string(p.Role), p.CreatedAt, p.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *profilesRepo) UpdateProfileRole(ctx context.Context, id string, role domain.Role) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE profiles SET role = ?, updated_at = ? WHERE id = ?`,
		string(role), time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *profilesRepo) CountByRole(ctx context.Context, role domain.Role) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM profiles WHERE role = ?`, string(role),
	).Scan(&count)
	return count, err
}
