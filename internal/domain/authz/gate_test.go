package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGateAllows(t *testing.T) {
	e := Default()

	tests := []struct {
		name string
		gate Gate
		role Role
		want bool
	}{
		{"single granted", Gate{Permission: PermCreateListing}, RolePublisher, true},
		{"single denied", Gate{Permission: PermChangeUserRole}, RolePublisher, false},
		{"single wins over list", Gate{Permission: PermCreateOrder, Permissions: []Permission{PermChangeUserRole}, RequireAll: true}, RoleBuyer, true},
		{"any", Gate{Permissions: []Permission{PermChangeUserRole, PermApproveListing}}, RoleModerator, true},
		{"all", Gate{Permissions: []Permission{PermChangeUserRole, PermApproveListing}, RequireAll: true}, RoleModerator, false},
		{"empty list any", Gate{Permissions: []Permission{}}, RoleAdmin, false},
		{"empty list all", Gate{Permissions: []Permission{}, RequireAll: true}, RoleAdmin, false},
		{"nothing set", Gate{}, RoleAdmin, false},
		{"absent role", Gate{Permission: PermViewOrder}, RoleNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.gate.Allows(e, tt.role))
		})
	}
}

func TestRender(t *testing.T) {
	e := Default()
	g := Gate{Permission: PermManageSettings}

	assert.Equal(t, "settings", Render(g, e, RoleAdmin, "settings", "nope"))
	assert.Equal(t, "nope", Render(g, e, RoleModerator, "settings", "nope"))
	assert.Nil(t, Render[[]string](g, e, RoleBuyer, []string{"x"}, nil))
}

func TestSubject(t *testing.T) {
	e := Default()

	mod := e.For(RoleModerator)
	assert.Equal(t, RoleModerator, mod.Role())
	assert.True(t, mod.IsModerator())
	assert.False(t, mod.IsAdmin())
	assert.True(t, mod.HasPermission(PermSuspendUser))
	assert.True(t, mod.HasAnyPermission(PermChangeUserRole, PermApproveListing))
	assert.False(t, mod.HasAllPermissions(PermChangeUserRole, PermApproveListing))
	assert.False(t, mod.HasAnyPermission())
	assert.False(t, mod.HasAllPermissions())
	assert.True(t, mod.CanManage(RolePublisher))
	assert.False(t, mod.CanManage(RoleAdmin))

	anon := e.For(RoleNone)
	assert.False(t, anon.IsAdmin() || anon.IsModerator() || anon.IsPublisher() || anon.IsBuyer())
	assert.False(t, anon.HasPermission(PermViewOrder))
}

func TestVisibleNavigation(t *testing.T) {
	e := Default()
	keys := func(items []NavItem) []string {
		out := make([]string, len(items))
		for i, item := range items {
			out[i] = item.Key
		}
		return out
	}

	assert.Equal(t, []string{"dashboard", "users", "roles", "listings", "transactions", "blog", "settings"},
		keys(e.VisibleNavigation(RoleAdmin, AdminNavigation())))
	assert.Equal(t, []string{"dashboard", "users", "listings", "blog"},
		keys(e.VisibleNavigation(RoleModerator, AdminNavigation())))
	assert.Empty(t, e.VisibleNavigation(RoleBuyer, AdminNavigation()))
	assert.Empty(t, e.VisibleNavigation(RoleNone, AdminNavigation()))
}
