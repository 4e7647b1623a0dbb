package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/nextprepbd/platform/internal/platform/domain"
	"github.com/nextprepbd/platform/internal/platform/store"
	"github.com/nextprepbd/platform/pkg/idx"
	"github.com/nextprepbd/platform/pkg/slogx"
)

var (
	ErrInvalidContent  = errors.New("invalid content")
	ErrContentNotFound = errors.New("content not found")
	ErrNotOwner        = errors.New("not the owner of this content")
)

// ContentService manages courses and resources. Writes require content:write
// scope (enforced at the router); on top of that this layer checks row
// ownership, with admins allowed to act on anyone's content.
type ContentService struct {
	Store store.Store
}

func (s *ContentService) canMutate(ctx context.Context, ownerID, callerID string) error {
	if ownerID == callerID {
		return nil
	}
	profile, err := s.Store.Profiles().GetProfileByID(ctx, callerID)
	if err != nil {
		return ErrNotOwner
	}
	if profile.Role != domain.RoleAdmin {
		return ErrNotOwner
	}
	return nil
}

func (s *ContentService) CreateCourse(ctx context.Context, tutorID, title, description string) (domain.Course, error) {
	log := slogx.FromContext(ctx)

	if strings.TrimSpace(title) == "" {
		return domain.Course{}, ErrInvalidContent
	}

	now := time.Now().UTC()
	course := domain.Course{
		ID:          idx.New().String(),
		TutorID:     tutorID,
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Store.Courses().CreateCourse(ctx, course); err != nil {
		log.Error("failed to create course", slog.Any("error", err))
		return domain.Course{}, err
	}

	log.Info("course created",
		slog.String("course_id", course.ID),
		slog.String("tutor_id", tutorID),
	)

	return course, nil
}

func (s *ContentService) GetCourse(ctx context.Context, id string) (domain.Course, error) {
	course, err := s.Store.Courses().GetCourseByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Course{}, ErrContentNotFound
		}
		return domain.Course{}, err
	}
	return course, nil
}

// ListCourses returns published courses for everyone, plus the caller's own
// unpublished drafts when callerID is set.
func (s *ContentService) ListCourses(ctx context.Context, callerID string) ([]domain.Course, error) {
	published, err := s.Store.Courses().ListPublishedCourses(ctx)
	if err != nil {
		return nil, err
	}
	if callerID == "" {
		return published, nil
	}

	own, err := s.Store.Courses().ListCoursesByTutor(ctx, callerID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(published))
	for _, c := range published {
		seen[c.ID] = struct{}{}
	}
	for _, c := range own {
		if _, ok := seen[c.ID]; !ok {
			published = append(published, c)
		}
	}
	return published, nil
}

// UpdateCourse replaces the mutable fields of a course the caller owns.
func (s *ContentService) UpdateCourse(ctx context.Context, callerID string, course domain.Course) (domain.Course, error) {
	log := slogx.FromContext(ctx)

	if strings.TrimSpace(course.Title) == "" {
		return domain.Course{}, ErrInvalidContent
	}

	existing, err := s.Store.Courses().GetCourseByID(ctx, course.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Course{}, ErrContentNotFound
		}
		return domain.Course{}, err
	}
	if err := s.canMutate(ctx, existing.TutorID, callerID); err != nil {
		return domain.Course{}, err
	}

	existing.Title = course.Title
	existing.Description = course.Description
	existing.Published = course.Published
	existing.UpdatedAt = time.Now().UTC()

	if err := s.Store.Courses().UpdateCourse(ctx, existing); err != nil {
		log.Error("failed to update course",
			slog.String("course_id", course.ID),
			slog.Any("error", err),
		)
		return domain.Course{}, err
	}

	return existing, nil
}

func (s *ContentService) DeleteCourse(ctx context.Context, callerID, id string) error {
	existing, err := s.Store.Courses().GetCourseByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrContentNotFound
		}
		return err
	}
	if err := s.canMutate(ctx, existing.TutorID, callerID); err != nil {
		return err
	}
	return s.Store.Courses().DeleteCourse(ctx, id)
}

func (s *ContentService) CreateResource(ctx context.Context, authorID string, r domain.Resource) (domain.Resource, error) {
	log := slogx.FromContext(ctx)

	if strings.TrimSpace(r.Title) == "" || strings.TrimSpace(r.URL) == "" {
		return domain.Resource{}, ErrInvalidContent
	}

	// A resource attached to a course must point at a real one, and only
	// the course owner (or an admin) may attach to it.
	if r.CourseID != "" {
		course, err := s.Store.Courses().GetCourseByID(ctx, r.CourseID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.Resource{}, ErrContentNotFound
			}
			return domain.Resource{}, err
		}
		if err := s.canMutate(ctx, course.TutorID, authorID); err != nil {
			return domain.Resource{}, err
		}
	}

	now := time.Now().UTC()
	r.ID = idx.New().String()
	r.AuthorID = authorID
	r.CreatedAt = now
	r.UpdatedAt = now

	if err := s.Store.Resources().CreateResource(ctx, r); err != nil {
		log.Error("failed to create resource", slog.Any("error", err))
		return domain.Resource{}, err
	}

	log.Info("resource created",
		slog.String("resource_id", r.ID),
		slog.String("author_id", authorID),
	)

	return r, nil
}

func (s *ContentService) ListResourcesByCourse(ctx context.Context, courseID string) ([]domain.Resource, error) {
	return s.Store.Resources().ListResourcesByCourse(ctx, courseID)
}

func (s *ContentService) ListResourcesByAuthor(ctx context.Context, authorID string) ([]domain.Resource, error) {
	return s.Store.Resources().ListResourcesByAuthor(ctx, authorID)
}

func (s *ContentService) DeleteResource(ctx context.Context, callerID, id string) error {
	existing, err := s.Store.Resources().GetResourceByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrContentNotFound
		}
		return err
	}
	if err := s.canMutate(ctx, existing.AuthorID, callerID); err != nil {
		return err
	}
	return s.Store.Resources().DeleteResource(ctx, id)
}
