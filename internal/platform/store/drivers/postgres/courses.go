package postgres

import (
	"context"

	"github.com/nextprepbd/platform/internal/platform/domain"
)

type coursesRepo struct {
	db dbtx
}

const courseColumns = `id, tutor_id, title, description, published, created_at, updated_at`

func (r *coursesRepo) CreateCourse(ctx context.Context, c domain.Course) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO courses (`+courseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.TutorID, c.Title, c.Description, c.Published, c.CreatedAt, c.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *coursesRepo) GetCourseByID(ctx context.Context, id string) (domain.Course, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE id = $1`, id)
	return scanCourse(row)
}

func (r *coursesRepo) ListCoursesByTutor(ctx context.Context, tutorID string) ([]domain.Course, error) {
	return r.list(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE tutor_id = $1 ORDER BY created_at DESC`, tutorID)
}

func (r *coursesRepo) ListPublishedCourses(ctx context.Context) ([]domain.Course, error) {
	return r.list(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE published ORDER BY created_at DESC`)
}

func (r *coursesRepo) list(ctx context.Context, query string, args ...any) ([]domain.Course, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []domain.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (r *coursesRepo) UpdateCourse(ctx context.Context, c domain.Course) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE courses SET title = $1, description = $2, published = $3, updated_at = now()
		WHERE id = $4`,
		c.Title, c.Description, c.Published, c.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *coursesRepo) DeleteCourse(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func scanCourse(row rowScanner) (domain.Course, error) {
	var c domain.Course
	err := row.Scan(&c.ID, &c.TutorID, &c.Title, &c.Description, &c.Published, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Course{}, mapNotFound(err)
	}
	return c, nil
}
