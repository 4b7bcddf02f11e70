package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/guestpost/guestpost-api/internal/config"
	"github.com/guestpost/guestpost-api/internal/domain/authz"
	"github.com/guestpost/guestpost-api/internal/domain/realtime"
	"github.com/guestpost/guestpost-api/internal/domain/user"
	"github.com/guestpost/guestpost-api/internal/middleware"
	"github.com/guestpost/guestpost-api/internal/pkg/jwt"
)

func testRouter(t *testing.T) chi.Router {
	t.Helper()
	engine := authz.Default()
	cfg := &config.Config{Env: "test", RateLimitPerMinute: 1000}

	return newRouter(cfg, routerDeps{
		engine:   engine,
		auth:     middleware.NewAuthenticator(jwt.NewService("secret", time.Minute), nil),
		authz:    authz.NewHandler(engine, middleware.GetRole),
		users:    user.NewHandler(nil),
		realtime: realtime.NewHandler(realtime.NewHub(nil), engine, nil),
	})
}

func TestRouterRegistersRoutes(t *testing.T) {
	r := testRouter(t)

	patterns := map[string]bool{}
	if err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		patterns[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk routes: %v", err)
	}

	for _, want := range []string{
		"GET /health",
		"GET /ready",
		"GET /ws/",
		"GET /api/v1/authz/roles",
		"GET /api/v1/authz/permissions",
		"GET /api/v1/authz/me",
		"POST /api/v1/authz/check",
		"GET /api/v1/authz/can-manage",
		"GET /api/v1/authz/navigation",
		"GET /api/v1/admin/users/",
		"PATCH /api/v1/admin/users/{id}/role",
		"PATCH /api/v1/admin/users/{id}/status",
	} {
		if !patterns[want] {
			t.Fatalf("expected %s to be registered", want)
		}
	}
}

func TestAdminUsersRequireAuth(t *testing.T) {
	r := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users/", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rr.Code)
	}
}

func TestAuthzRolesIsPublic(t *testing.T) {
	r := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/authz/roles", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header")
	}
}
