package realtime

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/guestpost/guestpost-api/internal/middleware"
)

// Routes returns the WebSocket router. authn must require a valid token.
func (h *Handler) Routes(authn func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.With(middleware.QueryToken, authn).Get("/", h.WebSocket)
	return r
}
