package user

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/guestpost/guestpost-api/internal/domain/authz"
)

// Provision returns the user with email, creating it when absent.
// New users get role, or a role derived from the address when role is
// RoleNone. Existing users keep their role unless role is set.
//
// Used by developer tooling only; no actor or permission check is made.
func (s *Service) Provision(ctx context.Context, email string, role authz.Role) (*User, error) {
	email = strings.TrimSpace(email)
	if role != authz.RoleNone && !role.IsValid() {
		return nil, ErrInvalidRole
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if u == nil {
		if role == authz.RoleNone {
			role = RoleFromEmail(email)
		}
		now := s.now()
		u = &User{
			ID:        uuid.New(),
			Email:     email,
			Name:      nameFromEmail(email),
			Role:      role,
			Status:    StatusActive,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.repo.Create(ctx, u); err != nil {
			return nil, err
		}
		log.Info().Str("user_id", u.ID.String()).Str("role", string(role)).Msg("Provisioned user")
		return u, nil
	}

	if !u.IsActive() {
		return u, ErrUserInactive
	}

	if role != authz.RoleNone && role != u.Role {
		if err := s.repo.UpdateRole(ctx, u.ID, role); err != nil {
			return nil, err
		}
		u.Role = role
		u.UpdatedAt = s.now()
		s.invalidate(ctx, u.ID)
	}

	return u, nil
}

func nameFromEmail(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}
