package models

import "fmt"

// Role is the closed set of account roles. There is no hierarchy: an account
// is either an administrator or a standard user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole maps a stored role string onto the enumeration. Anything outside
// the two known variants is an error rather than a silently-denied role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	default:
		return "", fmt.Errorf("models: unknown role %q", s)
	}
}

// LandingPath returns the dashboard a role is routed to.
func (r Role) LandingPath() string {
	switch r {
	case RoleAdmin:
		return "/dashboard"
	default:
		return "/user_dashboard"
	}
}

func (r Role) String() string { return string(r) }
