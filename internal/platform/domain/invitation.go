package domain

import "time"

// Invitation is a pending offer of a role to an email address. The raw token
// is only ever held by the invitee; the record stores its fingerprint.
// Redemption is destructive: the row is deleted, which is what makes the
// token single-use.
type Invitation struct {
	ID        string
	Email     string
	Role      Role
	TokenHash string
	InvitedBy string // Display-only issuer email, may be empty
	ExpiresAt time.Time
	CreatedAt time.Time
}
