package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/guestpost/guestpost-api/internal/domain/authz"
	"github.com/guestpost/guestpost-api/internal/pkg/jwt"
)

type stubRoles struct {
	role authz.Role
	err  error
}

func (s stubRoles) CurrentRole(ctx context.Context, userID uuid.UUID) (authz.Role, error) {
	return s.role, s.err
}

func issue(t *testing.T, svc *jwt.Service, id jwt.Identity) string {
	t.Helper()
	token, err := svc.GenerateAccessToken(id)
	if err != nil {
		t.Fatalf("token gen failed: %v", err)
	}
	return token
}

func serve(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func roleCapture(seen *authz.Role) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = GetRole(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddlewareAllowsValidAccessToken(t *testing.T) {
	jwtSvc := jwt.NewService("secret", time.Minute)
	token := issue(t, jwtSvc, jwt.Identity{UserID: uuid.New(), Role: "publisher"})

	var seen authz.Role
	w := serve(NewAuthenticator(jwtSvc, nil).Auth(roleCapture(&seen)), token)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if seen != authz.RolePublisher {
		t.Fatalf("expected publisher role in context, got %q", seen)
	}
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	jwtSvc := jwt.NewService("secret", time.Minute)

	var seen authz.Role
	w := serve(NewAuthenticator(jwtSvc, nil).Auth(roleCapture(&seen)), "")

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthMiddlewareRejectsSuspendedUser(t *testing.T) {
	jwtSvc := jwt.NewService("secret", time.Minute)
	token := issue(t, jwtSvc, jwt.Identity{UserID: uuid.New(), Role: "buyer", Suspended: true})

	var seen authz.Role
	w := serve(NewAuthenticator(jwtSvc, nil).Auth(roleCapture(&seen)), token)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestOptionalAuthPassesAnonymous(t *testing.T) {
	jwtSvc := jwt.NewService("secret", time.Minute)

	seen := authz.RoleAdmin
	w := serve(NewAuthenticator(jwtSvc, nil).OptionalAuth(roleCapture(&seen)), "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !seen.IsNone() {
		t.Fatalf("expected absent role, got %q", seen)
	}
}

func TestOptionalAuthRejectsBadToken(t *testing.T) {
	jwtSvc := jwt.NewService("secret", time.Minute)

	var seen authz.Role
	w := serve(NewAuthenticator(jwtSvc, nil).OptionalAuth(roleCapture(&seen)), "garbage")

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthUsesCurrentRoleFromSource(t *testing.T) {
	jwtSvc := jwt.NewService("secret", time.Minute)
	token := issue(t, jwtSvc, jwt.Identity{UserID: uuid.New(), Role: "admin"})

	var seen authz.Role
	auth := NewAuthenticator(jwtSvc, stubRoles{role: authz.RoleBuyer})
	w := serve(auth.Auth(roleCapture(&seen)), token)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if seen != authz.RoleBuyer {
		t.Fatalf("expected demoted role buyer, got %q", seen)
	}
}

func TestAuthRejectsWhenRoleSourceFails(t *testing.T) {
	jwtSvc := jwt.NewService("secret", time.Minute)
	token := issue(t, jwtSvc, jwt.Identity{UserID: uuid.New(), Role: "admin"})

	var seen authz.Role
	auth := NewAuthenticator(jwtSvc, stubRoles{err: errors.New("user not found")})
	w := serve(auth.Auth(roleCapture(&seen)), token)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestGetRoleWithoutIdentity(t *testing.T) {
	if role := GetRole(context.Background()); role != authz.RoleNone {
		t.Fatalf("expected absent role, got %q", role)
	}
	if id := GetUserID(context.Background()); id != uuid.Nil {
		t.Fatalf("expected nil user id, got %s", id)
	}
}

func TestAuthRoleClaimComparedExactly(t *testing.T) {
	jwtSvc := jwt.NewService("secret", time.Minute)
	token := issue(t, jwtSvc, jwt.Identity{UserID: uuid.New(), Role: "ADMIN"})

	var seen authz.Role
	w := serve(NewAuthenticator(jwtSvc, nil).Auth(roleCapture(&seen)), token)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if seen == authz.RoleAdmin {
		t.Fatalf("upper-case claim must not resolve to admin")
	}
	if authz.Default().HasPermission(seen, authz.PermViewAllUsers) {
		t.Fatalf("unknown role %q must hold no permissions", seen)
	}
}
