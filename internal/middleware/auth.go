package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/guestpost/guestpost-api/internal/domain/authz"
	"github.com/guestpost/guestpost-api/internal/pkg/jwt"
	"github.com/guestpost/guestpost-api/internal/pkg/logger"
	"github.com/guestpost/guestpost-api/internal/pkg/response"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	RoleKey   contextKey = "role"
)

var errNoToken = errors.New("missing authorization header")

// RoleSource returns a user's current role. When configured, it overrides
// the role baked into the token so demotions apply before the token expires.
type RoleSource interface {
	CurrentRole(ctx context.Context, userID uuid.UUID) (authz.Role, error)
}

// Authenticator validates bearer tokens and stores the caller's identity in the request context
type Authenticator struct {
	jwt   *jwt.Service
	roles RoleSource
}

// NewAuthenticator creates authenticator. roles may be nil.
func NewAuthenticator(jwtService *jwt.Service, roles RoleSource) *Authenticator {
	return &Authenticator{jwt: jwtService, roles: roles}
}

// Auth returns middleware that requires a valid JWT
func (a *Authenticator) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, err := a.identify(r)
		if err != nil {
			a.reject(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth identifies the caller when a token is present.
// Anonymous requests pass through with no role; a bad token is still rejected.
func (a *Authenticator) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, err := a.identify(r)
		if errors.Is(err, errNoToken) {
			next.ServeHTTP(w, r)
			return
		}
		if err != nil {
			a.reject(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Authenticator) identify(r *http.Request) (context.Context, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, errNoToken
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil, errBadHeader
	}

	claims, err := a.jwt.ValidateAccessToken(parts[1])
	if err != nil {
		return nil, err
	}

	if claims.Suspended {
		return nil, errSuspended
	}

	role, _ := authz.ParseRole(claims.Role)
	if a.roles != nil {
		current, err := a.roles.CurrentRole(r.Context(), claims.UserID)
		if err != nil {
			logger.FromContext(r.Context()).Warn().Err(err).
				Str("user_id", claims.UserID.String()).
				Msg("Failed to resolve current role")
			return nil, errStaleSession
		}
		role = current
	}

	ctx := WithIdentity(r.Context(), claims.UserID, role)
	ctx = logger.WithFields(ctx, map[string]string{
		"user_id": claims.UserID.String(),
		"role":    string(role),
	})
	return ctx, nil
}

var (
	errBadHeader    = errors.New("invalid authorization header format")
	errSuspended    = errors.New("account suspended")
	errStaleSession = errors.New("session no longer valid")
)

func (a *Authenticator) reject(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errNoToken):
		response.Unauthorized(w, "Missing authorization header")
	case errors.Is(err, errBadHeader):
		response.Unauthorized(w, "Invalid authorization header format")
	case errors.Is(err, jwt.ErrExpiredToken):
		response.Unauthorized(w, "Token expired")
	case errors.Is(err, errSuspended):
		response.Forbidden(w, "Your account has been suspended")
	case errors.Is(err, errStaleSession):
		response.Unauthorized(w, "Session no longer valid")
	default:
		response.Unauthorized(w, "Invalid token")
	}
}

// WithIdentity stores user ID and role in ctx
func WithIdentity(ctx context.Context, userID uuid.UUID, role authz.Role) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, RoleKey, role)
}

// GetUserID extracts user ID from context
func GetUserID(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(UserIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// GetRole extracts role from context. Absent role is authz.RoleNone.
func GetRole(ctx context.Context) authz.Role {
	if role, ok := ctx.Value(RoleKey).(authz.Role); ok {
		return role
	}
	return authz.RoleNone
}

// QueryToken copies a ?token= query value into the Authorization header.
// Browsers cannot set headers on WebSocket handshakes.
func QueryToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := r.URL.Query().Get("token"); token != "" && r.Header.Get("Authorization") == "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		next.ServeHTTP(w, r)
	})
}
