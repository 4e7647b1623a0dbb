package domain

// Role is the platform role stored on a profile. It gates which operations a
// session may perform; the profiles table is the source of truth for it.
type Role string

const (
	RoleStudent Role = "student"
	RoleTutor   Role = "tutor"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the enumerated platform roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTutor, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// Scopes returns the access scopes granted to sessions holding this role.
// Scopes accumulate: tutors keep student scopes, admins keep both.
func (r Role) Scopes() []string {
	switch r {
	case RoleAdmin:
		return []string{"profile:read", "content:read", "content:write", "admin:read", "admin:write"}
	case RoleTutor:
		return []string{"profile:read", "content:read", "content:write"}
	default:
		return []string{"profile:read", "content:read"}
	}
}
