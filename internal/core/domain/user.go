package domain

import (
	"fmt"
)

// Role is the closed set of permission levels a user can hold.
// The zero value is not a valid role.
type Role uint8

const (
	RoleMember Role = iota + 1
	RoleAdmin
)

const (
	roleMemberText = "member"
	roleAdminText  = "admin"
	// legacyMemberText is how self-registered accounts were stored before
	// the member role was named.
	legacyMemberText = "user"
)

// DefaultMemberName is assigned to self-registered users that omit a name.
const DefaultMemberName = "Community Member"

// ParseRole converts the persisted text form of a role into a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case roleAdminText:
		return RoleAdmin, nil
	case roleMemberText, legacyMemberText:
		return RoleMember, nil
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	return r == RoleMember || r == RoleAdmin
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return roleAdminText
	case RoleMember:
		return roleMemberText
	default:
		return fmt.Sprintf("Role(%d)", uint8(r))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("marshal role: invalid value %d", uint8(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// User models an account stored in the shared document.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
	Role         Role   `json:"role"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
