package user

import (
	"time"

	"github.com/google/uuid"

	"github.com/guestpost/guestpost-api/internal/domain/authz"
	"github.com/guestpost/guestpost-api/internal/pkg/validator"
)

func init() {
	validator.RegisterString("user_status", func(s string) bool {
		_, ok := ParseStatus(s)
		return ok
	}, "Invalid status. Must be: active, suspended, or pending")
}

// ChangeRoleRequest for PATCH /admin/users/{id}/role
type ChangeRoleRequest struct {
	Role   string `json:"role" validate:"required,role"`
	Reason string `json:"reason" validate:"max=500"`
}

// UpdateStatusRequest for PATCH /admin/users/{id}/status
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,user_status"`
	Reason string `json:"reason" validate:"max=500"`
}

// UserResponse represents user in admin API
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	DisplayName string    `json:"display_name"`
	Color       string    `json:"color"`
	Status      string    `json:"status"`
	CanManage   bool      `json:"can_manage"`
	CreatedAt   string    `json:"created_at"`
	LastLoginAt *string   `json:"last_login_at,omitempty"`
}

// UserResponseFromEntity converts user entity for actor
func UserResponseFromEntity(u *User, engine *authz.Engine, canManage bool) *UserResponse {
	resp := &UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        string(u.Role),
		DisplayName: engine.RoleDisplayName(u.Role),
		Color:       engine.RoleColor(u.Role),
		Status:      string(u.Status),
		CanManage:   canManage,
		CreatedAt:   u.CreatedAt.Format(time.RFC3339),
	}
	if u.LastLoginAt.Valid {
		s := u.LastLoginAt.Time.Format(time.RFC3339)
		resp.LastLoginAt = &s
	}
	return resp
}

// AuditEntryResponse represents audit entry in API
type AuditEntryResponse struct {
	ID        uuid.UUID `json:"id"`
	ActorID   uuid.UUID `json:"actor_id"`
	ActorRole string    `json:"actor_role"`
	Action    string    `json:"action"`
	OldValue  string    `json:"old_value"`
	NewValue  string    `json:"new_value"`
	Reason    *string   `json:"reason,omitempty"`
	CreatedAt string    `json:"created_at"`
}

// AuditEntryResponseFromEntity converts audit entry
func AuditEntryResponseFromEntity(e *AuditEntry) *AuditEntryResponse {
	resp := &AuditEntryResponse{
		ID:        e.ID,
		ActorID:   e.ActorID,
		ActorRole: string(e.ActorRole),
		Action:    e.Action,
		OldValue:  e.OldValue,
		NewValue:  e.NewValue,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
	if e.Reason.Valid {
		resp.Reason = &e.Reason.String
	}
	return resp
}
