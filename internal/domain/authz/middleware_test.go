package authz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type roleKey struct{}

func withRole(r *http.Request, role Role) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), roleKey{}, role))
}

func roleFromTestContext(ctx context.Context) Role {
	role, _ := ctx.Value(roleKey{}).(Role)
	return role
}

func serveGated(mw func(http.Handler) http.Handler, role Role) int {
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	req := withRole(httptest.NewRequest(http.MethodGet, "/", nil), role)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w.Code
}

func TestMiddlewareRequirePermission(t *testing.T) {
	m := NewMiddleware(Default(), roleFromTestContext)

	assert.Equal(t, http.StatusNoContent, serveGated(m.RequirePermission(PermViewAllUsers), RoleModerator))
	assert.Equal(t, http.StatusForbidden, serveGated(m.RequirePermission(PermViewAllUsers), RolePublisher))
	assert.Equal(t, http.StatusForbidden, serveGated(m.RequirePermission(PermViewAllUsers), RoleNone))
}

func TestMiddlewareAnyAll(t *testing.T) {
	m := NewMiddleware(Default(), roleFromTestContext)

	assert.Equal(t, http.StatusNoContent, serveGated(m.RequireAny(PermChangeUserRole, PermApproveListing), RoleModerator))
	assert.Equal(t, http.StatusForbidden, serveGated(m.RequireAll(PermChangeUserRole, PermApproveListing), RoleModerator))
	assert.Equal(t, http.StatusNoContent, serveGated(m.RequireAll(PermChangeUserRole, PermApproveListing), RoleAdmin))
}

func TestMiddlewareEmptyRequirementDenies(t *testing.T) {
	m := NewMiddleware(Default(), roleFromTestContext)

	assert.Equal(t, http.StatusForbidden, serveGated(m.RequireAny(), RoleAdmin))
	assert.Equal(t, http.StatusForbidden, serveGated(m.RequireAll(), RoleAdmin))
	assert.Equal(t, http.StatusForbidden, serveGated(m.RequireGate(Gate{}), RoleAdmin))
}

func TestMiddlewareWithoutResolverOrEngineDenies(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, serveGated(NewMiddleware(Default(), nil).RequirePermission(PermViewOrder), RoleAdmin))
	assert.Equal(t, http.StatusForbidden, serveGated(NewMiddleware(nil, roleFromTestContext).RequirePermission(PermViewOrder), RoleAdmin))
}
