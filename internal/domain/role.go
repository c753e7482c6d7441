package domain

import "fmt"

// Role is the authorization role of a user.
type Role string

const (
	// RoleUser is the default role; users may only mutate what they own.
	RoleUser Role = "user"

	// RoleAdmin bypasses ownership checks.
	RoleAdmin Role = "admin"
)

// ParseRole converts s into a Role. Any value other than "user" or "admin"
// returns ErrInvalidRole.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// IsAdmin reports whether r is the elevated role.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}
