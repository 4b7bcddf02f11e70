package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guestpost/guestpost-api/internal/domain/authz"
)

func TestProvision_CreatesWithDerivedRole(t *testing.T) {
	svc, repo, _ := newTestService()

	u, err := svc.Provision(context.Background(), "  publisher.bob@example.com ", authz.RoleNone)
	require.NoError(t, err)

	assert.Equal(t, authz.RolePublisher, u.Role)
	assert.Equal(t, StatusActive, u.Status)
	assert.Equal(t, "publisher.bob", u.Name)
	assert.Equal(t, "publisher.bob@example.com", repo.users[u.ID].Email)
}

func TestProvision_KeepsExistingRoleUnlessSet(t *testing.T) {
	mod := newUser(authz.RoleModerator)
	svc, repo, _ := newTestService(mod)
	ctx := context.Background()

	u, err := svc.Provision(ctx, mod.Email, authz.RoleNone)
	require.NoError(t, err)
	assert.Equal(t, mod.ID, u.ID)
	assert.Equal(t, authz.RoleModerator, u.Role)

	u, err = svc.Provision(ctx, mod.Email, authz.RoleBuyer)
	require.NoError(t, err)
	assert.Equal(t, authz.RoleBuyer, u.Role)
	assert.Equal(t, authz.RoleBuyer, repo.users[mod.ID].Role)
	assert.Len(t, repo.users, 1)
}

func TestProvision_Rejects(t *testing.T) {
	suspended := newUser(authz.RoleBuyer)
	suspended.Status = StatusSuspended
	svc, _, _ := newTestService(suspended)
	ctx := context.Background()

	_, err := svc.Provision(ctx, "x@example.com", authz.Role("wizard"))
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = svc.Provision(ctx, suspended.Email, authz.RoleNone)
	assert.ErrorIs(t, err, ErrUserInactive)
}
