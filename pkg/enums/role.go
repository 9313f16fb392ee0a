package enums

import "fmt"

// Role is the storefront-wide permission level of a signed-in profile.
type Role string

const (
	// RoleNone is the zero value and stands for an anonymous visitor.
	RoleNone  Role = ""
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

var validRoles = []Role{
	RoleUser,
	RoleAdmin,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	if r == RoleNone {
		return "anonymous"
	}
	return string(r)
}

// IsValid reports whether the value is an assignable Role. RoleNone is not.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return RoleNone, fmt.Errorf("invalid role %q", value)
}
