package domain

// Role is the single tagged-variant type behind every authorization check.
// A principal holds exactly one role and it never changes.
type Role string

const (
	RoleHost     Role = "host"
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleHost, RoleEmployee, RoleAdmin:
		return Role(s), true
	default:
		return "", false
	}
}

// Principal is whoever is acting on a gated operation. Guests are not
// principals; their access is bound to invitation links.
type Principal struct {
	ID   int64
	Role Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
