package store

import (
	"context"
	"errors"
	"time"

	"github.com/nextprepbd/platform/internal/platform/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable, and to stop callers from accidentally nesting transactions.
type Store interface {
	Identities() Identities
	Profiles() Profiles
	Invitations() Invitations
	RecoveryTokens() RecoveryTokens
	Donations() Donations
	Messages() Messages
	Courses() Courses
	Resources() Resources

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to run multi-step operations that must be atomic
	// (e.g. invitation redemption).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Identities interface {
	// GetIdentityByID returns an identity by id.
	GetIdentityByID(ctx context.Context, id string) (domain.Identity, error)

	// GetIdentityByEmail is used during sign-in and recovery.
	GetIdentityByEmail(ctx context.Context, email string) (domain.Identity, error)

	// CreateIdentity inserts a new identity (id is provided by app via ULID).
	CreateIdentity(ctx context.Context, ident domain.Identity) error

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, identityID string, newHash string) error

	// DeleteIdentity removes the identity row. Profiles cascade per schema.
	DeleteIdentity(ctx context.Context, identityID string) error
}

type Profiles interface {
	// GetProfileByID returns the profile for an identity.
	GetProfileByID(ctx context.Context, id string) (domain.Profile, error)

	// CreateProfile inserts a profile sharing the identity's id.
	CreateProfile(ctx context.Context, p domain.Profile) error

	// UpdateProfileRole sets role and bumps updated_at. Returns
	// store.ErrNotFound when no profile exists for the id.
	UpdateProfileRole(ctx context.Context, id string, role domain.Role) error

	// CountByRole returns how many profiles currently hold the role.
	CountByRole(ctx context.Context, role domain.Role) (int, error)
}

type Invitations interface {
	// CreateInvitation writes a new invitation (token_hash is the SHA-256
	// fingerprint of the opaque invite token).
	CreateInvitation(ctx context.Context, inv domain.Invitation) error

	// GetActiveInvitation returns a not-expired invitation matching the
	// (email, token_hash) pair exactly.
	GetActiveInvitation(ctx context.Context, email, tokenHash string) (domain.Invitation, error)

	// DeleteInvitation removes the invitation by id and reports whether a
	// row was actually deleted. The rows-affected signal is what makes
	// concurrent redemption mutually exclusive.
	DeleteInvitation(ctx context.Context, id string) (bool, error)

	// ListInvitationsByEmail returns all outstanding invitations for an
	// email, newest first.
	ListInvitationsByEmail(ctx context.Context, email string) ([]domain.Invitation, error)

	// DeleteExpiredInvitations is housekeeping.
	DeleteExpiredInvitations(ctx context.Context, now time.Time) error
}

type RecoveryTokens interface {
	// CreateRecoveryToken stores a fingerprinted single-use recovery token.
	CreateRecoveryToken(ctx context.Context, t domain.RecoveryToken) error

	// GetActiveRecoveryToken returns a not-expired token by fingerprint.
	GetActiveRecoveryToken(ctx context.Context, tokenHash string) (domain.RecoveryToken, error)

	// DeleteRecoveryToken consumes a token, reporting whether a row existed.
	DeleteRecoveryToken(ctx context.Context, id string) (bool, error)

	// DeleteExpiredRecoveryTokens is housekeeping.
	DeleteExpiredRecoveryTokens(ctx context.Context, now time.Time) error
}

type Donations interface {
	CreateDonation(ctx context.Context, d domain.Donation) error
	GetDonationByID(ctx context.Context, id string) (domain.Donation, error)
	ListDonations(ctx context.Context) ([]domain.Donation, error)

	// UpdateDonationStatus moves a donation through its status field.
	UpdateDonationStatus(ctx context.Context, id string, status domain.DonationStatus) error
}

type Messages interface {
	CreateMessage(ctx context.Context, m domain.Message) error
	ListMessages(ctx context.Context) ([]domain.Message, error)
	DeleteMessage(ctx context.Context, id string) error
}

type Courses interface {
	CreateCourse(ctx context.Context, c domain.Course) error
	GetCourseByID(ctx context.Context, id string) (domain.Course, error)
	ListCoursesByTutor(ctx context.Context, tutorID string) ([]domain.Course, error)
	ListPublishedCourses(ctx context.Context) ([]domain.Course, error)
	UpdateCourse(ctx context.Context, c domain.Course) error
	DeleteCourse(ctx context.Context, id string) error
}

type Resources interface {
	CreateResource(ctx context.Context, r domain.Resource) error
	GetResourceByID(ctx context.Context, id string) (domain.Resource, error)
	ListResourcesByAuthor(ctx context.Context, authorID string) ([]domain.Resource, error)
	ListResourcesByCourse(ctx context.Context, courseID string) ([]domain.Resource, error)
	DeleteResource(ctx context.Context, id string) error
}
