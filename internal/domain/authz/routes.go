package authz

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns authz router. identify should populate the caller's role
// when a token is present and let anonymous requests through.
func (h *Handler) Routes(identify func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/roles", h.ListRoles)
	r.Get("/permissions", h.ListPermissions)

	r.Group(func(r chi.Router) {
		if identify != nil {
			r.Use(identify)
		}
		r.Get("/me", h.Me)
		r.Post("/check", h.Check)
		r.Get("/can-manage", h.CanManage)
		r.Get("/navigation", h.Navigation)
	})

	return r
}
