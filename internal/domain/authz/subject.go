package authz

// Subject binds an Engine to the role of one caller, so request-scoped code
// can ask questions without threading the role through every call.
type Subject struct {
	engine *Engine
	role   Role
}

// For returns a Subject for role. role may be RoleNone.
func (e *Engine) For(role Role) Subject {
	return Subject{engine: e, role: role}
}

// Role returns the bound role.
func (s Subject) Role() Role { return s.role }

func (s Subject) HasPermission(perm Permission) bool {
	return s.engine.HasPermission(s.role, perm)
}

func (s Subject) HasAnyPermission(perms ...Permission) bool {
	return s.engine.HasAnyPermission(s.role, perms)
}

func (s Subject) HasAllPermissions(perms ...Permission) bool {
	return s.engine.HasAllPermissions(s.role, perms)
}

// CanManage reports whether the subject outranks target.
func (s Subject) CanManage(target Role) bool {
	return s.engine.CanManageUser(s.role, target)
}

func (s Subject) IsAdmin() bool     { return s.role == RoleAdmin }
func (s Subject) IsModerator() bool { return s.role == RoleModerator }
func (s Subject) IsPublisher() bool { return s.role == RolePublisher }
func (s Subject) IsBuyer() bool     { return s.role == RoleBuyer }
