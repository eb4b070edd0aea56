package domain

import "strings"

// Role represents the authorization level of a platform account.
// Roles form a strict hierarchy; any label outside the known set maps to
// RoleUnknown and never outranks a real role.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleEventManager Role = "eventmanager"
	RoleParent       Role = "parent"
	RoleStudent      Role = "student"
	RoleUnknown      Role = ""
)

// ParseRole normalizes a raw role label from the platform API.
// Comparison is case-insensitive; unrecognized labels become RoleUnknown.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleEventManager:
		return RoleEventManager
	case RoleParent:
		return RoleParent
	case RoleStudent:
		return RoleStudent
	default:
		return RoleUnknown
	}
}

// rank maps a role to its numeric hierarchy level. RoleUnknown ranks 0 so it
// loses to every real role under AtLeast.
func (r Role) rank() int {
	switch r {
	case RoleAdmin:
		return 4
	case RoleEventManager:
		return 3
	case RoleParent:
		return 2
	case RoleStudent:
		return 1
	default:
		return 0
	}
}

// Display returns the label shown in user-facing views. RoleUnknown has an
// empty wire value and renders as the literal "unknown".
func (r Role) Display() string {
	if r == RoleUnknown {
		return "unknown"
	}
	return string(r)
}

// AtLeast reports whether r meets or exceeds the required role in the
// hierarchy.
func (r Role) AtLeast(required Role) bool {
	return r.rank() >= required.rank()
}

// Requirement declares the access rule attached to a route.
//
// When AnyOf is non-empty the rule is satisfied by membership. Otherwise Role
// is the single required label: with Exact set only that exact role passes,
// without it any role ranking at least as high passes.
type Requirement struct {
	Role  Role
	AnyOf []Role
	Exact bool
}

// DisplayRole returns the role shown to a rejected visitor: the single
// required role, or the first of the set.
func (q Requirement) DisplayRole() Role {
	if len(q.AnyOf) > 0 {
		return q.AnyOf[0]
	}
	return q.Role
}

// Decide is the pure authorization verdict for a visitor role against a
// route requirement. It performs no I/O and is deterministic.
func Decide(userRole Role, req Requirement) bool {
	if len(req.AnyOf) > 0 {
		for _, allowed := range req.AnyOf {
			if userRole == allowed {
				return true
			}
		}
		return false
	}
	if req.Exact {
		return userRole == req.Role
	}
	return userRole.AtLeast(req.Role)
}
