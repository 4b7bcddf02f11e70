// Package authz implements the marketplace's role-based authorization model:
// a static role to permission table, a role hierarchy used for management
// decisions, and display metadata for roles.
//
// Every query on an Engine is total. Absent or unknown roles and permissions
// resolve to "no access" rather than an error, so callers never need error
// handling to gate a feature.
package authz

// RoleInfo describes a role for display and introspection.
type RoleInfo struct {
	Role        Role
	DisplayName string
	Color       string
	Rank        int
	Permissions []Permission
}

// Engine answers authorization queries over an immutable Policy.
// It is safe for concurrent use.
type Engine struct {
	grants       map[Role]map[Permission]struct{}
	ranks        map[Role]int
	displayNames map[Role]string
	colors       map[Role]string
	defaultColor string
}

// NewEngine validates the policy and builds an engine from a private copy of it.
func NewEngine(p Policy) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		grants:       make(map[Role]map[Permission]struct{}, len(p.RolePermissions)),
		ranks:        make(map[Role]int, len(p.Hierarchy)),
		displayNames: make(map[Role]string, len(p.DisplayNames)),
		colors:       make(map[Role]string, len(p.Colors)),
		defaultColor: p.DefaultColor,
	}

	for role, perms := range p.RolePermissions {
		set := make(map[Permission]struct{}, len(perms))
		for _, perm := range perms {
			set[perm] = struct{}{}
		}
		e.grants[role] = set
	}
	for role, rank := range p.Hierarchy {
		e.ranks[role] = rank
	}
	for role, name := range p.DisplayNames {
		e.displayNames[role] = name
	}
	for role, color := range p.Colors {
		e.colors[role] = color
	}

	return e, nil
}

// Default returns an engine over DefaultPolicy.
func Default() *Engine {
	e, err := NewEngine(DefaultPolicy())
	if err != nil {
		panic("authz: default policy is invalid: " + err.Error())
	}
	return e
}

// HasPermission reports whether role is granted perm.
func (e *Engine) HasPermission(role Role, perm Permission) bool {
	if role == RoleNone || perm == "" {
		return false
	}
	set, ok := e.grants[role]
	if !ok {
		return false
	}
	_, granted := set[perm]
	return granted
}

// HasAnyPermission reports whether role holds at least one of perms.
// An empty list is denied.
func (e *Engine) HasAnyPermission(role Role, perms []Permission) bool {
	if role == RoleNone || len(perms) == 0 {
		return false
	}
	for _, perm := range perms {
		if e.HasPermission(role, perm) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether role holds every one of perms.
// An empty list is denied: an empty requirement set never grants access.
func (e *Engine) HasAllPermissions(role Role, perms []Permission) bool {
	if role == RoleNone || len(perms) == 0 {
		return false
	}
	for _, perm := range perms {
		if !e.HasPermission(role, perm) {
			return false
		}
	}
	return true
}

// Rank returns the hierarchy rank of role, or 0 for absent and unknown roles.
func (e *Engine) Rank(role Role) int {
	return e.ranks[role]
}

// CanManageUser reports whether a user holding acting may administer a user
// holding target. The comparison is strict, so peers never manage each other.
func (e *Engine) CanManageUser(acting, target Role) bool {
	return e.Rank(acting) > e.Rank(target)
}

// ManageableRoles lists the defined roles acting outranks, highest first.
func (e *Engine) ManageableRoles(acting Role) []Role {
	out := make([]Role, 0, len(e.ranks))
	for _, role := range Roles() {
		if e.CanManageUser(acting, role) {
			out = append(out, role)
		}
	}
	return out
}

// RoleDisplayName returns the label for role. Unknown values pass through
// unchanged.
func (e *Engine) RoleDisplayName(role Role) string {
	if name, ok := e.displayNames[role]; ok {
		return name
	}
	return string(role)
}

// RoleColor returns the badge style tag for role, or the neutral default.
func (e *Engine) RoleColor(role Role) string {
	if color, ok := e.colors[role]; ok {
		return color
	}
	return e.defaultColor
}

// PermissionsFor returns the permissions granted to role in declaration order.
// Unknown roles get an empty, non-nil slice.
func (e *Engine) PermissionsFor(role Role) []Permission {
	set := e.grants[role]
	out := make([]Permission, 0, len(set))
	for _, perm := range Permissions() {
		if _, ok := set[perm]; ok {
			out = append(out, perm)
		}
	}
	return out
}

// Describe collects the display metadata and grants for role.
func (e *Engine) Describe(role Role) RoleInfo {
	return RoleInfo{
		Role:        role,
		DisplayName: e.RoleDisplayName(role),
		Color:       e.RoleColor(role),
		Rank:        e.Rank(role),
		Permissions: e.PermissionsFor(role),
	}
}
