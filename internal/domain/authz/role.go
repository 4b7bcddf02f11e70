package authz

import "strings"

// Role identifies a user's class in the marketplace.
// The zero value means no role (anonymous or not yet loaded).
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RolePublisher Role = "publisher"
	RoleBuyer     Role = "buyer"
)

// RoleNone is the absent role.
const RoleNone Role = ""

// Roles returns every defined role, highest authority first.
func Roles() []Role {
	return []Role{RoleAdmin, RoleModerator, RolePublisher, RoleBuyer}
}

// ParseRole converts an untrusted string (token claim, DB column, request
// body) into a Role. Matching is exact: "Admin" is not admin. The bool
// reports whether the value names a defined role. Unknown values are
// returned as-is so callers can still pass them to the engine, which treats
// them as having no permissions.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.IsValid()
}

// NormalizeRole trims and lower-cases typed input (CLI flags, list filters)
// before parsing it.
func NormalizeRole(s string) (Role, bool) {
	return ParseRole(strings.ToLower(strings.TrimSpace(s)))
}

// IsValid reports whether r is one of the defined roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RolePublisher, RoleBuyer:
		return true
	}
	return false
}

// IsNone reports whether the role is absent.
func (r Role) IsNone() bool {
	return r == RoleNone
}

func (r Role) String() string {
	return string(r)
}
