package user

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/guestpost/guestpost-api/internal/domain/authz"
)

// EventPublisher notifies connected clients about account changes
type EventPublisher interface {
	PublishRoleChanged(ctx context.Context, userID uuid.UUID, role authz.Role)
	PublishStatusChanged(ctx context.Context, userID uuid.UUID, status Status)
}

// Service handles user role management
type Service struct {
	repo   Repository
	engine *authz.Engine
	cache  *RoleCache
	events EventPublisher
	now    func() time.Time
}

// NewService creates user service. cache and events may be nil.
func NewService(repo Repository, engine *authz.Engine, cache *RoleCache, events EventPublisher) *Service {
	return &Service{
		repo:   repo,
		engine: engine,
		cache:  cache,
		events: events,
		now:    time.Now,
	}
}

// List returns a page of users visible to actor
func (s *Service) List(ctx context.Context, actor Actor, filter Filter) ([]*User, int, error) {
	if !s.engine.HasPermission(actor.Role, authz.PermViewAllUsers) {
		return nil, 0, ErrPermissionDenied
	}
	return s.repo.List(ctx, filter)
}

// Get returns a single user
func (s *Service) Get(ctx context.Context, actor Actor, id uuid.UUID) (*User, error) {
	if !s.engine.HasPermission(actor.Role, authz.PermViewAllUsers) {
		return nil, ErrPermissionDenied
	}
	return s.getTarget(ctx, id)
}

// ChangeRole assigns newRole to target. The actor needs change_user_role and
// must outrank the target's current role.
func (s *Service) ChangeRole(ctx context.Context, actor Actor, targetID uuid.UUID, newRole, reason string) (*User, error) {
	if !s.engine.HasPermission(actor.Role, authz.PermChangeUserRole) {
		return nil, ErrPermissionDenied
	}

	role, ok := authz.ParseRole(newRole)
	if !ok {
		return nil, ErrInvalidRole
	}

	if actor.ID == targetID {
		return nil, ErrCannotManageSelf
	}

	target, err := s.getTarget(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if !s.engine.CanManageUser(actor.Role, target.Role) {
		return nil, ErrCannotManageRole
	}

	if target.Role == role {
		return target, nil
	}

	if err := s.repo.UpdateRole(ctx, target.ID, role); err != nil {
		return nil, err
	}

	old := target.Role
	target.Role = role
	target.UpdatedAt = s.now()

	s.invalidate(ctx, target.ID)
	s.audit(ctx, actor, target.ID, ActionRoleChange, string(old), string(role), reason)

	if s.events != nil {
		s.events.PublishRoleChanged(ctx, target.ID, role)
	}

	log.Info().
		Str("actor_id", actor.ID.String()).
		Str("target_id", target.ID.String()).
		Str("old_role", string(old)).
		Str("new_role", string(role)).
		Msg("User role changed")

	return target, nil
}

// SetStatus suspends, reactivates or marks a user pending. The actor needs
// suspend_user and must outrank the target.
func (s *Service) SetStatus(ctx context.Context, actor Actor, targetID uuid.UUID, status, reason string) (*User, error) {
	if !s.engine.HasPermission(actor.Role, authz.PermSuspendUser) {
		return nil, ErrPermissionDenied
	}

	st, ok := ParseStatus(status)
	if !ok {
		return nil, ErrInvalidStatus
	}

	if actor.ID == targetID {
		return nil, ErrCannotManageSelf
	}

	target, err := s.getTarget(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if !s.engine.CanManageUser(actor.Role, target.Role) {
		return nil, ErrCannotManageRole
	}

	if target.Status == st {
		return target, nil
	}

	if err := s.repo.UpdateStatus(ctx, target.ID, st); err != nil {
		return nil, err
	}

	old := target.Status
	target.Status = st
	target.UpdatedAt = s.now()

	s.invalidate(ctx, target.ID)
	s.audit(ctx, actor, target.ID, ActionStatusChange, string(old), string(st), reason)

	if s.events != nil {
		s.events.PublishStatusChanged(ctx, target.ID, st)
	}

	log.Info().
		Str("actor_id", actor.ID.String()).
		Str("target_id", target.ID.String()).
		Str("status", string(st)).
		Msg("User status changed")

	return target, nil
}

// ListAudit returns the role/status history of a user
func (s *Service) ListAudit(ctx context.Context, actor Actor, targetID uuid.UUID, limit, offset int) ([]*AuditEntry, int, error) {
	if !s.engine.HasPermission(actor.Role, authz.PermViewAllUsers) {
		return nil, 0, ErrPermissionDenied
	}
	if _, err := s.getTarget(ctx, targetID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListAudit(ctx, AuditFilter{TargetID: targetID, Limit: limit, Offset: offset})
}

// CanManage reports whether actor outranks u
func (s *Service) CanManage(actor Actor, u *User) bool {
	return actor.ID != u.ID && s.engine.CanManageUser(actor.Role, u.Role)
}

// Engine returns the authorization engine the service decides with
func (s *Service) Engine() *authz.Engine {
	return s.engine
}

func (s *Service) getTarget(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *Service) invalidate(ctx context.Context, userID uuid.UUID) {
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to invalidate role cache")
	}
}

// audit records a change; failures are logged and do not fail the operation
func (s *Service) audit(ctx context.Context, actor Actor, targetID uuid.UUID, action, oldValue, newValue, reason string) {
	entry := &AuditEntry{
		ID:        uuid.New(),
		ActorID:   actor.ID,
		ActorRole: actor.Role,
		TargetID:  targetID,
		Action:    action,
		OldValue:  oldValue,
		NewValue:  newValue,
		Reason:    sql.NullString{String: reason, Valid: reason != ""},
		CreatedAt: s.now(),
	}
	if err := s.repo.CreateAudit(ctx, entry); err != nil {
		log.Error().Err(err).Str("action", action).Msg("Failed to create audit log")
	}
}
