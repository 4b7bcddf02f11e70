package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/guestpost/guestpost-api/internal/domain/authz"
)

// Routes returns admin user routes. authn must require a valid token.
func (h *Handler) Routes(authn func(http.Handler) http.Handler, gate authz.Middleware) chi.Router {
	r := chi.NewRouter()
	r.Use(authn)

	r.Group(func(r chi.Router) {
		r.Use(gate.RequirePermission(authz.PermViewAllUsers))
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Get("/{id}/audit", h.Audit)
	})

	r.With(gate.RequirePermission(authz.PermChangeUserRole)).Patch("/{id}/role", h.ChangeRole)
	r.With(gate.RequirePermission(authz.PermSuspendUser)).Patch("/{id}/status", h.UpdateStatus)

	return r
}
