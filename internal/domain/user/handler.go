package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/guestpost/guestpost-api/internal/domain/authz"
	"github.com/guestpost/guestpost-api/internal/middleware"
	"github.com/guestpost/guestpost-api/internal/pkg/errorhandler"
	"github.com/guestpost/guestpost-api/internal/pkg/response"
	"github.com/guestpost/guestpost-api/internal/pkg/validator"
)

// Handler handles admin user management endpoints
type Handler struct {
	service *Service
}

// NewHandler creates user handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /admin/users
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	q := r.URL.Query()

	filter := Filter{
		Search: q.Get("search"),
		Limit:  queryInt(q.Get("limit"), defaultLimit),
		Offset: queryInt(q.Get("offset"), 0),
	}
	if role := q.Get("role"); role != "" && role != "all" {
		parsed, ok := authz.NormalizeRole(role)
		if !ok {
			response.ValidationError(w, map[string]string{"role": "Invalid role"})
			return
		}
		filter.Role = parsed
	}
	if status := q.Get("status"); status != "" && status != "all" {
		parsed, ok := ParseStatus(status)
		if !ok {
			response.ValidationError(w, map[string]string{"status": "Invalid status"})
			return
		}
		filter.Status = parsed
	}
	filter = filter.normalize()

	users, total, err := h.service.List(r.Context(), actor, filter)
	if err != nil {
		h.handleError(w, r, "list users", err)
		return
	}

	items := make([]*UserResponse, len(users))
	for i, u := range users {
		items[i] = h.toResponse(actor, u)
	}

	response.WithMeta(w, items, response.NewMeta(total, filter.Limit, filter.Offset))
}

// Get handles GET /admin/users/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	actor := actorFrom(r)
	u, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		h.handleError(w, r, "get user", err)
		return
	}

	response.OK(w, h.toResponse(actor, u))
}

// ChangeRole handles PATCH /admin/users/{id}/role
func (h *Handler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req ChangeRoleRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		errorhandler.LogValidationError(r.Context(), errs)
		response.ValidationError(w, errs)
		return
	}

	actor := actorFrom(r)
	u, err := h.service.ChangeRole(r.Context(), actor, id, req.Role, req.Reason)
	if err != nil {
		h.handleError(w, r, "change role", err)
		return
	}

	response.OK(w, h.toResponse(actor, u))
}

// UpdateStatus handles PATCH /admin/users/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		errorhandler.LogValidationError(r.Context(), errs)
		response.ValidationError(w, errs)
		return
	}

	actor := actorFrom(r)
	u, err := h.service.SetStatus(r.Context(), actor, id, req.Status, req.Reason)
	if err != nil {
		h.handleError(w, r, "update status", err)
		return
	}

	response.OK(w, h.toResponse(actor, u))
}

// Audit handles GET /admin/users/{id}/audit
func (h *Handler) Audit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	page := Filter{Limit: queryInt(q.Get("limit"), defaultLimit), Offset: queryInt(q.Get("offset"), 0)}.normalize()

	entries, total, err := h.service.ListAudit(r.Context(), actorFrom(r), id, page.Limit, page.Offset)
	if err != nil {
		h.handleError(w, r, "list audit", err)
		return
	}

	items := make([]*AuditEntryResponse, len(entries))
	for i, e := range entries {
		items[i] = AuditEntryResponseFromEntity(e)
	}

	response.WithMeta(w, items, response.NewMeta(total, page.Limit, page.Offset))
}

func (h *Handler) toResponse(actor Actor, u *User) *UserResponse {
	return UserResponseFromEntity(u, h.service.Engine(), h.service.CanManage(actor, u))
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		response.NotFound(w, "User not found")
	case errors.Is(err, ErrPermissionDenied):
		response.Forbidden(w, "Permission denied")
	case errors.Is(err, ErrCannotManageRole):
		response.Forbidden(w, "Cannot manage user with equal or higher role")
	case errors.Is(err, ErrCannotManageSelf):
		response.BadRequest(w, "Cannot change your own account")
	case errors.Is(err, ErrInvalidRole):
		response.ValidationError(w, map[string]string{"role": "Invalid role"})
	case errors.Is(err, ErrInvalidStatus):
		response.ValidationError(w, map[string]string{"status": "Invalid status"})
	default:
		errorhandler.Internal(r.Context(), w, op, err)
	}
}

func actorFrom(r *http.Request) Actor {
	return Actor{
		ID:   middleware.GetUserID(r.Context()),
		Role: middleware.GetRole(r.Context()),
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
