package core

// SessionID identifies one signaling connection for its whole lifetime.
// Domain records are keyed by it; the transport holds only the id.
type SessionID string

type Role int

const (
	RoleUnclassified Role = iota
	RoleAdmin
	RoleAudience
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleAudience:
		return "audience"
	default:
		return "unclassified"
	}
}
