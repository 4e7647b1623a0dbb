package domain

// Tier is the trust level a caller presents for an operation. Privileged
// account operations take it as an explicit parameter so the call site has to
// declare which tier it is acting under, rather than the tier being implied by
// whichever credential happened to be configured.
type Tier int

const (
	// TierAnonymous is an unauthenticated caller.
	TierAnonymous Tier = iota
	// TierSession is a caller holding a verified user session.
	TierSession
	// TierService is a backend caller holding the service key. Only this
	// tier may bypass per-row ownership checks.
	TierService
)

func (t Tier) String() string {
	switch t {
	case TierSession:
		return "session"
	case TierService:
		return "service"
	default:
		return "anonymous"
	}
}
