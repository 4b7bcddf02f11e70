package user

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/guestpost/guestpost-api/internal/domain/authz"
)

// Status represents user status (matches user_status enum)
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusPending   Status = "pending"
)

// Statuses returns every valid status
func Statuses() []Status {
	return []Status{StatusActive, StatusSuspended, StatusPending}
}

// ParseStatus converts a string into a Status, reporting whether it is valid.
// Matching is exact.
func ParseStatus(s string) (Status, bool) {
	st := Status(s)
	for _, v := range Statuses() {
		if st == v {
			return st, true
		}
	}
	return st, false
}

// User represents a marketplace account (matches users table)
type User struct {
	ID          uuid.UUID    `db:"id"`
	Email       string       `db:"email"`
	Name        string       `db:"name"`
	Role        authz.Role   `db:"role"`
	Status      Status       `db:"status"`
	CreatedAt   time.Time    `db:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at"`
	LastLoginAt sql.NullTime `db:"last_login_at"`
}

// IsActive returns true if user can sign in
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// Actor is the authenticated user performing a management operation
type Actor struct {
	ID   uuid.UUID
	Role authz.Role
}

// Audit actions
const (
	ActionRoleChange   = "role.change"
	ActionStatusChange = "status.change"
)

// AuditEntry records a role or status change (matches user_audit_logs table)
type AuditEntry struct {
	ID        uuid.UUID      `db:"id"`
	ActorID   uuid.UUID      `db:"actor_id"`
	ActorRole authz.Role     `db:"actor_role"`
	TargetID  uuid.UUID      `db:"target_id"`
	Action    string         `db:"action"`
	OldValue  string         `db:"old_value"`
	NewValue  string         `db:"new_value"`
	Reason    sql.NullString `db:"reason"`
	CreatedAt time.Time      `db:"created_at"`
}

// RoleFromEmail derives a role from keywords in an email address.
// Used by developer tooling to mint tokens for accounts that do not exist yet.
func RoleFromEmail(email string) authz.Role {
	e := strings.ToLower(email)
	switch {
	case strings.Contains(e, "admin"):
		return authz.RoleAdmin
	case strings.Contains(e, "moderator"):
		return authz.RoleModerator
	case strings.Contains(e, "publisher"):
		return authz.RolePublisher
	default:
		return authz.RoleBuyer
	}
}
