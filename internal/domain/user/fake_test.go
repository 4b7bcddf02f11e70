package user

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/guestpost/guestpost-api/internal/domain/authz"
)

type fakeRepo struct {
	mu     sync.Mutex
	users  map[uuid.UUID]*User
	audits []*AuditEntry
	gets   int
	err    error
}

func newFakeRepo(users ...*User) *fakeRepo {
	r := &fakeRepo{users: map[uuid.UUID]*User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) Create(ctx context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeRepo) List(ctx context.Context, filter Filter) ([]*User, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*User
	for _, u := range r.users {
		if filter.Role != authz.RoleNone && u.Role != filter.Role {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *fakeRepo) UpdateRole(ctx context.Context, id uuid.UUID, role authz.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.Role = role
	return nil
}

func (r *fakeRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.Status = status
	return nil
}

func (r *fakeRepo) CreateAudit(ctx context.Context, entry *AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.audits = append(r.audits, entry)
	return nil
}

func (r *fakeRepo) ListAudit(ctx context.Context, filter AuditFilter) ([]*AuditEntry, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*AuditEntry
	for _, e := range r.audits {
		if e.TargetID == filter.TargetID {
			out = append(out, e)
		}
	}
	return out, len(out), nil
}

type roleEvent struct {
	userID uuid.UUID
	role   authz.Role
}

type statusEvent struct {
	userID uuid.UUID
	status Status
}

type fakeEvents struct {
	roles    []roleEvent
	statuses []statusEvent
}

func (f *fakeEvents) PublishRoleChanged(ctx context.Context, userID uuid.UUID, role authz.Role) {
	f.roles = append(f.roles, roleEvent{userID, role})
}

func (f *fakeEvents) PublishStatusChanged(ctx context.Context, userID uuid.UUID, status Status) {
	f.statuses = append(f.statuses, statusEvent{userID, status})
}

func newUser(role authz.Role) *User {
	return &User{
		ID:     uuid.New(),
		Email:  string(role) + "@example.com",
		Name:   string(role),
		Role:   role,
		Status: StatusActive,
	}
}
