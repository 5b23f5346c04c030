package domain

import "fmt"

// Role determines which views and transitions an identity may reach.
type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleManager  Role = "MANAGER"
	RoleAdmin    Role = "ADMIN"
)

// ParseRole validates a wire-level role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleEmployee, RoleManager, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role: %q", s)
	}
}

// CanReview reports whether the role may decide leave requests and
// drive complaint status.
func (r Role) CanReview() bool {
	return r == RoleManager || r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}
