package authz

// Gate describes the permission requirement guarding a piece of UI or a route.
//
// When Permission is set it alone is checked. Otherwise Permissions is checked
// with "all" or "any" semantics depending on RequireAll. A Gate with neither
// set denies.
type Gate struct {
	Permission  Permission
	Permissions []Permission
	RequireAll  bool
}

// Allows evaluates the gate for role.
func (g Gate) Allows(e *Engine, role Role) bool {
	if g.Permission != "" {
		return e.HasPermission(role, g.Permission)
	}
	if g.Permissions != nil {
		if g.RequireAll {
			return e.HasAllPermissions(role, g.Permissions)
		}
		return e.HasAnyPermission(role, g.Permissions)
	}
	return false
}

// Render returns children when the gate allows role and fallback otherwise.
func Render[T any](g Gate, e *Engine, role Role, children, fallback T) T {
	if g.Allows(e, role) {
		return children
	}
	return fallback
}
