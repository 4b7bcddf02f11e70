package authz

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/guestpost/guestpost-api/internal/pkg/response"
)

// RoleResolver extracts the caller's role from a request context.
// It returns RoleNone when the caller is anonymous.
type RoleResolver func(ctx context.Context) Role

// Middleware gates HTTP routes with the engine.
type Middleware struct {
	Engine  *Engine
	Resolve RoleResolver
}

// NewMiddleware creates gating middleware.
func NewMiddleware(engine *Engine, resolve RoleResolver) Middleware {
	return Middleware{Engine: engine, Resolve: resolve}
}

// RequirePermission allows the request only if the caller holds perm.
func (m Middleware) RequirePermission(perm Permission) func(http.Handler) http.Handler {
	return m.RequireGate(Gate{Permission: perm})
}

// RequireAny allows the request if the caller holds at least one of perms.
// An empty list denies every request.
func (m Middleware) RequireAny(perms ...Permission) func(http.Handler) http.Handler {
	return m.RequireGate(Gate{Permissions: nonNil(perms)})
}

// RequireAll allows the request only if the caller holds every one of perms.
// An empty list denies every request.
func (m Middleware) RequireAll(perms ...Permission) func(http.Handler) http.Handler {
	return m.RequireGate(Gate{Permissions: nonNil(perms), RequireAll: true})
}

// RequireGate allows the request when g allows the caller's role.
func (m Middleware) RequireGate(g Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := m.role(r)
			if m.Engine == nil || !g.Allows(m.Engine, role) {
				log.Debug().
					Str("role", string(role)).
					Str("permission", string(g.Permission)).
					Interface("permissions", g.Permissions).
					Bool("require_all", g.RequireAll).
					Str("path", r.URL.Path).
					Msg("Permission denied")
				response.Forbidden(w, "Permission denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m Middleware) role(r *http.Request) Role {
	if m.Resolve == nil {
		return RoleNone
	}
	return m.Resolve(r.Context())
}

func nonNil(perms []Permission) []Permission {
	if perms == nil {
		return []Permission{}
	}
	return perms
}
