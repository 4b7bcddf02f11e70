package authz

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

// asRole stands in for the optional-auth middleware
func asRole(role Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, withRole(r, role))
		})
	}
}

func call(t *testing.T, role Role, method, path, body string, out any) *httptest.ResponseRecorder {
	t.Helper()
	h := NewHandler(Default(), roleFromTestContext)
	router := h.Routes(asRole(role))

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if out != nil && env.Data != nil {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return w
}

func TestHandlerListRoles(t *testing.T) {
	var roles []RoleResponse
	w := call(t, RoleNone, http.MethodGet, "/roles", "", &roles)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, roles, 4)
	assert.Equal(t, "admin", roles[0].Role)
	assert.Equal(t, "Administrator", roles[0].DisplayName)
	assert.Equal(t, 4, roles[0].Rank)
	assert.Len(t, roles[0].Permissions, 30)
	assert.Equal(t, "buyer", roles[3].Role)
}

func TestHandlerListPermissions(t *testing.T) {
	var perms []PermissionResponse
	w := call(t, RoleNone, http.MethodGet, "/permissions", "", &perms)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, perms, 30)
	assert.Equal(t, PermissionResponse{Permission: "view_all_users", Category: "users"}, perms[0])
}

func TestHandlerMe(t *testing.T) {
	var me MeResponse
	call(t, RoleModerator, http.MethodGet, "/me", "", &me)

	assert.Equal(t, "moderator", me.Role)
	assert.True(t, me.IsModerator)
	assert.False(t, me.IsAdmin)
	assert.Equal(t, []string{"publisher", "buyer"}, me.ManageableRoles)
	assert.Contains(t, me.Permissions, "approve_listing")
}

func TestHandlerMeAnonymous(t *testing.T) {
	var me MeResponse
	w := call(t, RoleNone, http.MethodGet, "/me", "", &me)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", me.Role)
	assert.NotNil(t, me.Permissions)
	assert.Empty(t, me.Permissions)
	assert.Equal(t, "bg-gray-100 text-gray-800", me.Color)
}

func TestHandlerCheck(t *testing.T) {
	tests := []struct {
		name string
		role Role
		body string
		want bool
	}{
		{"caller role single", RolePublisher, `{"permission":"create_listing"}`, true},
		{"explicit role overrides caller", RoleAdmin, `{"role":"buyer","permission":"change_user_role"}`, false},
		{"any", RoleModerator, `{"permissions":["change_user_role","approve_listing"]}`, true},
		{"all", RoleModerator, `{"permissions":["change_user_role","approve_listing"],"require_all":true}`, false},
		{"empty list", RoleAdmin, `{"permissions":[]}`, false},
		{"unknown permission", RoleAdmin, `{"permission":"launch_missiles"}`, false},
		{"unknown role", RoleNone, `{"role":"wizard","permission":"view_order"}`, false},
		{"anonymous", RoleNone, `{"permission":"view_order"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp CheckResponse
			w := call(t, tt.role, http.MethodPost, "/check", tt.body, &resp)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, resp.Allowed)
		})
	}
}

func TestHandlerCheckRejectsBadBody(t *testing.T) {
	w := call(t, RoleAdmin, http.MethodPost, "/check", `{not json`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	many := `{"permissions":[` + strings.TrimSuffix(strings.Repeat(`"view_order",`, 51), ",") + `]}`
	w = call(t, RoleAdmin, http.MethodPost, "/check", many, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHandlerCanManage(t *testing.T) {
	var resp CanManageResponse

	call(t, RoleAdmin, http.MethodGet, "/can-manage?target=moderator", "", &resp)
	assert.True(t, resp.Allowed)
	assert.Equal(t, "admin", resp.Actor)

	call(t, RoleAdmin, http.MethodGet, "/can-manage?actor=moderator&target=admin", "", &resp)
	assert.False(t, resp.Allowed)

	call(t, RoleNone, http.MethodGet, "/can-manage?actor=buyer&target=buyer", "", &resp)
	assert.False(t, resp.Allowed)
}

func TestHandlerNavigation(t *testing.T) {
	var items []NavItemResponse
	call(t, RoleModerator, http.MethodGet, "/navigation", "", &items)

	require.Len(t, items, 4)
	assert.Equal(t, "dashboard", items[0].Key)
	assert.Equal(t, "view_analytics", items[0].Permission)
}

func TestRoutesRegistered(t *testing.T) {
	r := NewHandler(Default(), nil).Routes(nil)

	patterns := map[string]bool{}
	if err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		patterns[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk routes: %v", err)
	}

	for _, want := range []string{"GET /roles", "GET /permissions", "GET /me", "POST /check", "GET /can-manage", "GET /navigation"} {
		if !patterns[want] {
			t.Fatalf("expected %s to be registered", want)
		}
	}
}
