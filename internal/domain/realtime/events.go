package realtime

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/guestpost/guestpost-api/internal/domain/authz"
	"github.com/guestpost/guestpost-api/internal/domain/user"
)

// Event types pushed to clients
const (
	EventRoleCurrent   = "role:current"
	EventRoleChanged   = "role:changed"
	EventStatusChanged = "account:status_changed"
)

// Event is the envelope written to WebSocket clients
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// RolePayload describes a role so clients can re-evaluate their gates
type RolePayload struct {
	Role        string   `json:"role"`
	DisplayName string   `json:"display_name"`
	Color       string   `json:"color"`
	Permissions []string `json:"permissions"`
}

// StatusPayload carries an account status change
type StatusPayload struct {
	Status string `json:"status"`
}

// NewRolePayload builds the payload for role
func NewRolePayload(engine *authz.Engine, role authz.Role) RolePayload {
	perms := engine.PermissionsFor(role)
	names := make([]string, len(perms))
	for i, p := range perms {
		names[i] = string(p)
	}
	return RolePayload{
		Role:        string(role),
		DisplayName: engine.RoleDisplayName(role),
		Color:       engine.RoleColor(role),
		Permissions: names,
	}
}

type userSender interface {
	SendToUserJSON(userID uuid.UUID, payload any) error
}

// RolePublisher pushes account changes to the affected user's sockets
type RolePublisher struct {
	sender userSender
	engine *authz.Engine
}

var _ user.EventPublisher = (*RolePublisher)(nil)

// NewRolePublisher creates a WS-backed publisher
func NewRolePublisher(sender userSender, engine *authz.Engine) *RolePublisher {
	return &RolePublisher{sender: sender, engine: engine}
}

// PublishRoleChanged sends role:changed with the new role's permissions
func (p *RolePublisher) PublishRoleChanged(ctx context.Context, userID uuid.UUID, role authz.Role) {
	p.send(userID, Event{Type: EventRoleChanged, Data: NewRolePayload(p.engine, role)})
}

// PublishStatusChanged sends account:status_changed
func (p *RolePublisher) PublishStatusChanged(ctx context.Context, userID uuid.UUID, status user.Status) {
	p.send(userID, Event{Type: EventStatusChanged, Data: StatusPayload{Status: string(status)}})
}

func (p *RolePublisher) send(userID uuid.UUID, event Event) {
	if p == nil || p.sender == nil {
		return
	}
	if err := p.sender.SendToUserJSON(userID, event); err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Str("event", event.Type).Msg("Failed to publish realtime event")
	}
}
