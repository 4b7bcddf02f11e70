package authz

import (
	"net/http"

	"github.com/guestpost/guestpost-api/internal/pkg/response"
	"github.com/guestpost/guestpost-api/internal/pkg/validator"
)

// Handler exposes authorization queries over HTTP
type Handler struct {
	engine  *Engine
	resolve RoleResolver
}

// NewHandler creates authz handler
func NewHandler(engine *Engine, resolve RoleResolver) *Handler {
	return &Handler{engine: engine, resolve: resolve}
}

// ListRoles handles GET /authz/roles
func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles := Roles()
	items := make([]RoleResponse, len(roles))
	for i, role := range roles {
		items[i] = RoleResponseFromInfo(h.engine.Describe(role))
	}
	response.OK(w, items)
}

// ListPermissions handles GET /authz/permissions
func (h *Handler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	perms := Permissions()
	items := make([]PermissionResponse, len(perms))
	for i, p := range perms {
		items[i] = PermissionResponse{Permission: string(p), Category: string(p.Category())}
	}
	response.OK(w, items)
}

// Me handles GET /authz/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	role := h.callerRole(r)
	subject := h.engine.For(role)

	response.OK(w, &MeResponse{
		Role:            string(role),
		DisplayName:     h.engine.RoleDisplayName(role),
		Color:           h.engine.RoleColor(role),
		Permissions:     permissionStrings(h.engine.PermissionsFor(role)),
		IsAdmin:         subject.IsAdmin(),
		IsModerator:     subject.IsModerator(),
		IsPublisher:     subject.IsPublisher(),
		IsBuyer:         subject.IsBuyer(),
		ManageableRoles: roleStrings(h.engine.ManageableRoles(role)),
	})
}

// Check handles POST /authz/check
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	role := h.callerRole(r)
	if req.Role != nil {
		role, _ = ParseRole(*req.Role)
	}

	response.OK(w, &CheckResponse{
		Role:    string(role),
		Allowed: req.Gate().Allows(h.engine, role),
	})
}

// CanManage handles GET /authz/can-manage?actor=&target=
func (h *Handler) CanManage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	actor := h.callerRole(r)
	if q.Has("actor") {
		actor, _ = ParseRole(q.Get("actor"))
	}
	target, _ := ParseRole(q.Get("target"))

	response.OK(w, &CanManageResponse{
		Actor:   string(actor),
		Target:  string(target),
		Allowed: h.engine.CanManageUser(actor, target),
	})
}

// Navigation handles GET /authz/navigation
func (h *Handler) Navigation(w http.ResponseWriter, r *http.Request) {
	visible := h.engine.VisibleNavigation(h.callerRole(r), AdminNavigation())
	items := make([]NavItemResponse, len(visible))
	for i, item := range visible {
		items[i] = NavItemResponse{
			Key:        item.Key,
			Name:       item.Name,
			Href:       item.Href,
			Permission: string(item.Permission),
		}
	}
	response.OK(w, items)
}

func (h *Handler) callerRole(r *http.Request) Role {
	if h.resolve == nil {
		return RoleNone
	}
	return h.resolve(r.Context())
}
