package domain

import "time"

// Course is tutor-authored study material. Ownership is the tutor_id column;
// the service layer enforces that only the owner (or an admin) mutates it.
type Course struct {
	ID          string
	TutorID     string
	Title       string
	Description string
	Published   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Resource is a single study artifact (PDF link, video, question bank),
// optionally attached to a course.
type Resource struct {
	ID        string
	AuthorID  string
	CourseID  string // Empty when the resource is standalone
	Title     string
	URL       string
	Kind      string // e.g. "pdf", "video", "question-bank"
	CreatedAt time.Time
	UpdatedAt time.Time
}
