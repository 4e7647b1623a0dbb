package domain

import "time"

// Identity is a credential-store record: who can sign in and with what
// password. Role metadata lives on the Profile, not here.
type Identity struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile carries the platform role for one identity. Exactly one profile
// exists per identity and shares its ID.
type Profile struct {
	ID        string // Identity ID
	Email     string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecoveryToken authorizes a single password reset for an identity. Stored
// fingerprinted, expired rows are swept by housekeeping.
type RecoveryToken struct {
	ID         string
	IdentityID string
	TokenHash  string
	ExpiresAt  time.Time
	CreatedAt  time.Time
}
