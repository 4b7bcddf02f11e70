package authz

// RoleResponse represents a role in API
type RoleResponse struct {
	Role        string   `json:"role"`
	DisplayName string   `json:"display_name"`
	Color       string   `json:"color"`
	Rank        int      `json:"rank"`
	Permissions []string `json:"permissions"`
}

// RoleResponseFromInfo converts RoleInfo to response
func RoleResponseFromInfo(info RoleInfo) RoleResponse {
	return RoleResponse{
		Role:        string(info.Role),
		DisplayName: info.DisplayName,
		Color:       info.Color,
		Rank:        info.Rank,
		Permissions: permissionStrings(info.Permissions),
	}
}

// PermissionResponse represents a permission in API
type PermissionResponse struct {
	Permission string `json:"permission"`
	Category   string `json:"category"`
}

// MeResponse for GET /authz/me
type MeResponse struct {
	Role            string   `json:"role"`
	DisplayName     string   `json:"display_name"`
	Color           string   `json:"color"`
	Permissions     []string `json:"permissions"`
	IsAdmin         bool     `json:"is_admin"`
	IsModerator     bool     `json:"is_moderator"`
	IsPublisher     bool     `json:"is_publisher"`
	IsBuyer         bool     `json:"is_buyer"`
	ManageableRoles []string `json:"manageable_roles"`
}

// CheckRequest for POST /authz/check.
// Role is optional; when omitted the caller's own role is checked.
type CheckRequest struct {
	Role        *string  `json:"role,omitempty" validate:"omitempty,max=32"`
	Permission  string   `json:"permission,omitempty" validate:"max=64"`
	Permissions []string `json:"permissions,omitempty" validate:"omitempty,max=50,dive,max=64"`
	RequireAll  bool     `json:"require_all"`
}

// Gate converts the request into a Gate.
func (req *CheckRequest) Gate() Gate {
	perm, _ := ParsePermission(req.Permission)
	return Gate{
		Permission:  perm,
		Permissions: ParsePermissions(req.Permissions),
		RequireAll:  req.RequireAll,
	}
}

// CheckResponse is the result of an authorization query
type CheckResponse struct {
	Role    string `json:"role"`
	Allowed bool   `json:"allowed"`
}

// CanManageResponse for GET /authz/can-manage
type CanManageResponse struct {
	Actor   string `json:"actor"`
	Target  string `json:"target"`
	Allowed bool   `json:"allowed"`
}

// NavItemResponse represents a visible admin panel section
type NavItemResponse struct {
	Key        string `json:"key"`
	Name       string `json:"name"`
	Href       string `json:"href"`
	Permission string `json:"permission"`
}

func permissionStrings(perms []Permission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}

func roleStrings(roles []Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}
