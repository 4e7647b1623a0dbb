package sqlite

import (
	"context"
	"database/sql"

	"github.com/nextprepbd/platform/internal/platform/domain"
)

type resourcesRepo struct {
	db dbtx
}

const resourceColumns = `id, author_id, course_id, title, url, kind, created_at, updated_at`

func (r *resourcesRepo) CreateResource(ctx context.Context, res domain.Resource) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO resources (`+resourceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		res.ID, res.AuthorID, mapStringNull(res.CourseID), res.Title, res.URL, res.Kind,
		res.CreatedAt, res.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *resourcesRepo) GetResourceByID(ctx context.Context, id string) (domain.Resource, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+resourceColumns+` FROM resources WHERE id = ?`, id)
	return scanResource(row)
}

func (r *resourcesRepo) ListResourcesByAuthor(
	ctx context.Context,
	authorID string,
) ([]domain.Resource, error) {
	return r.list(ctx,
		`SELECT `+resourceColumns+` FROM resources WHERE author_id = ? ORDER BY created_at DESC`,
		authorID)
}

func (r *resourcesRepo) ListResourcesByCourse(
	ctx context.Context,
	courseID string,
) ([]domain.Resource, error) {
	return r.list(ctx,
		`SELECT `+resourceColumns+` FROM resources WHERE course_id = ? ORDER BY created_at DESC`,
		courseID)
}

func (r *resourcesRepo) list(ctx context.Context, query string, args ...any) ([]domain.Resource, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resources []domain.Resource
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		resources = append(resources, res)
	}
	return resources, rows.Err()
}

func (r *resourcesRepo) DeleteResource(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM resources WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func scanResource(row rowScanner) (domain.Resource, error) {
	var res domain.Resource
	var courseID sql.NullString
	err := row.Scan(
		&res.ID, &res.AuthorID, &courseID, &res.Title, &res.URL, &res.Kind,
		&res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return domain.Resource{}, mapNotFound(err)
	}
	res.CourseID = mapNullString(courseID)
	return res, nil
}
