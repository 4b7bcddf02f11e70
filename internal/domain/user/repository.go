package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/guestpost/guestpost-api/internal/domain/authz"
)

// Filter narrows user listings
type Filter struct {
	Role   authz.Role
	Status Status
	Search string
	Limit  int
	Offset int
}

// AuditFilter narrows audit listings
type AuditFilter struct {
	TargetID uuid.UUID
	Limit    int
	Offset   int
}

const (
	defaultLimit = 20
	maxLimit     = 100
)

// normalize clamps pagination to sane bounds
func (f Filter) normalize() Filter {
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// Repository defines user data access interface
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) error
	List(ctx context.Context, filter Filter) ([]*User, int, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role authz.Role) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error

	CreateAudit(ctx context.Context, entry *AuditEntry) error
	ListAudit(ctx context.Context, filter AuditFilter) ([]*AuditEntry, int, error)
}

// repository implements Repository
type repository struct {
	db *sqlx.DB
}

// NewRepository creates new user repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const userColumns = `id, email, name, role, status, created_at, updated_at, last_login_at`

// GetByID returns user by ID, nil when absent
func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("user repository get by id: %w", err)
	}
	return &user, nil
}

// GetByEmail returns user by email, nil when absent
func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`

	var user User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("user repository get by email: %w", err)
	}
	return &user, nil
}

// Create inserts a new user
func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, email, name, role, status, created_at, updated_at)
		VALUES (:id, :email, :name, :role, :status, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("user repository create: %w", err)
	}
	return nil
}

// List returns a page of users and the total matching count
func (r *repository) List(ctx context.Context, filter Filter) ([]*User, int, error) {
	filter = filter.normalize()

	var (
		where []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Role != authz.RoleNone {
		where = append(where, "role = "+arg(filter.Role))
	}
	if filter.Status != "" {
		where = append(where, "status = "+arg(filter.Status))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		p := arg("%" + escapeLike(s) + "%")
		where = append(where, "(email ILIKE "+p+` ESCAPE '\' OR name ILIKE `+p+` ESCAPE '\')`)
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM users`+clause, args...); err != nil {
		return nil, 0, fmt.Errorf("user repository count: %w", err)
	}

	query := `SELECT ` + userColumns + ` FROM users` + clause +
		` ORDER BY created_at DESC LIMIT ` + arg(filter.Limit) + ` OFFSET ` + arg(filter.Offset)

	users := []*User{}
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("user repository list: %w", err)
	}

	return users, total, nil
}

// UpdateRole sets user role
func (r *repository) UpdateRole(ctx context.Context, id uuid.UUID, role authz.Role) error {
	query := `UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1`
	return r.execOne(ctx, "update role", query, id, role)
}

// UpdateStatus sets user status
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	query := `UPDATE users SET status = $2, updated_at = NOW() WHERE id = $1`
	return r.execOne(ctx, "update status", query, id, status)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (r *repository) execOne(ctx context.Context, op, query string, args ...interface{}) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("user repository %s: %w", op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// CreateAudit inserts an audit entry
func (r *repository) CreateAudit(ctx context.Context, entry *AuditEntry) error {
	query := `
		INSERT INTO user_audit_logs (id, actor_id, actor_role, target_id, action, old_value, new_value, reason, created_at)
		VALUES (:id, :actor_id, :actor_role, :target_id, :action, :old_value, :new_value, :reason, :created_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("user repository create audit: %w", err)
	}
	return nil
}

// ListAudit returns audit entries for a user, newest first
func (r *repository) ListAudit(ctx context.Context, filter AuditFilter) ([]*AuditEntry, int, error) {
	page := Filter{Limit: filter.Limit, Offset: filter.Offset}.normalize()

	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM user_audit_logs WHERE target_id = $1`, filter.TargetID); err != nil {
		return nil, 0, fmt.Errorf("user repository count audit: %w", err)
	}

	query := `
		SELECT id, actor_id, actor_role, target_id, action, old_value, new_value, reason, created_at
		FROM user_audit_logs
		WHERE target_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	entries := []*AuditEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, filter.TargetID, page.Limit, page.Offset); err != nil {
		return nil, 0, fmt.Errorf("user repository list audit: %w", err)
	}
	return entries, total, nil
}
