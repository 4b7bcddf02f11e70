package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/guestpost/guestpost-api/internal/domain/authz"
)

const (
	roleCachePrefix   = "authz:role:"
	roleVersionPrefix = "authz:role-version:"

	// versionTTL must outlive any in-flight lookup
	versionTTL = 24 * time.Hour
)

var errStaleFill = errors.New("role cache: entry changed since read")

// CachedRole is the authorization state kept per user
type CachedRole struct {
	Role   authz.Role `json:"role"`
	Status Status     `json:"status"`
}

// resolve returns the role of an active user and ErrUserInactive otherwise
func (c CachedRole) resolve() (authz.Role, error) {
	if c.Status != StatusActive {
		return authz.RoleNone, ErrUserInactive
	}
	return c.Role, nil
}

// RoleCache caches user_id -> role and status in Redis. A nil client disables caching.
//
// Every write to a user's role or status bumps a per-user version counter.
// Lookups capture the version before reading the database and only fill the
// cache if it is unchanged, so a slow read cannot overwrite newer state.
type RoleCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRoleCache creates role cache
func NewRoleCache(client *redis.Client, ttl time.Duration) *RoleCache {
	return &RoleCache{redis: client, ttl: ttl}
}

func roleCacheKey(userID uuid.UUID) string {
	return roleCachePrefix + userID.String()
}

func roleVersionKey(userID uuid.UUID) string {
	return roleVersionPrefix + userID.String()
}

func (c *RoleCache) disabled() bool {
	return c == nil || c.redis == nil
}

// Get returns the cached entry. ok is false on a miss or when caching is disabled.
func (c *RoleCache) Get(ctx context.Context, userID uuid.UUID) (entry CachedRole, ok bool, err error) {
	if c.disabled() {
		return CachedRole{}, false, nil
	}

	val, err := c.redis.Get(ctx, roleCacheKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return CachedRole{}, false, nil
	}
	if err != nil {
		return CachedRole{}, false, fmt.Errorf("role cache get: %w", err)
	}

	if err := json.Unmarshal(val, &entry); err != nil {
		return CachedRole{}, false, nil
	}
	if !entry.Role.IsValid() {
		// Stale value from an older role table; treat as a miss
		return CachedRole{}, false, nil
	}
	if _, valid := ParseStatus(string(entry.Status)); !valid {
		return CachedRole{}, false, nil
	}
	return entry, true, nil
}

// Version returns the current write version for userID
func (c *RoleCache) Version(ctx context.Context, userID uuid.UUID) (int64, error) {
	if c.disabled() {
		return 0, nil
	}
	v, err := c.redis.Get(ctx, roleVersionKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("role cache version: %w", err)
	}
	return v, nil
}

// Fill stores entry only if the user's version still equals version.
// A lost race is not an error; the entry is simply not cached.
func (c *RoleCache) Fill(ctx context.Context, userID uuid.UUID, entry CachedRole, version int64) error {
	if c.disabled() {
		return nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("role cache fill: %w", err)
	}

	verKey := roleVersionKey(userID)
	err = c.redis.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, verKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return errStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, roleCacheKey(userID), data, c.ttl)
			return nil
		})
		return err
	}, verKey)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, errStaleFill), errors.Is(err, redis.TxFailedErr):
		log.Debug().Str("user_id", userID.String()).Msg("Skipped stale role cache fill")
		return nil
	default:
		return fmt.Errorf("role cache fill: %w", err)
	}
}

// Invalidate drops the cached entry for userID and bumps its version so
// lookups already in flight cannot repopulate it
func (c *RoleCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if c.disabled() {
		return nil
	}
	verKey := roleVersionKey(userID)
	_, err := c.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, verKey)
		pipe.Expire(ctx, verKey, versionTTL)
		pipe.Del(ctx, roleCacheKey(userID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("role cache invalidate: %w", err)
	}
	return nil
}

// CachedRoleLookup resolves a user's current role through the cache, falling
// back to the repository. Only active users resolve; suspended or pending
// accounts yield an error so their sessions stop working immediately.
type CachedRoleLookup struct {
	repo  Repository
	cache *RoleCache
}

// NewCachedRoleLookup creates role lookup
func NewCachedRoleLookup(repo Repository, cache *RoleCache) *CachedRoleLookup {
	return &CachedRoleLookup{repo: repo, cache: cache}
}

// CurrentRole returns the user's current role
func (l *CachedRoleLookup) CurrentRole(ctx context.Context, userID uuid.UUID) (authz.Role, error) {
	entry, ok, err := l.cache.Get(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("Role cache unavailable, reading from database")
	}
	if ok {
		return entry.resolve()
	}

	// Captured before the read so a concurrent change wins over this fill
	version, verErr := l.cache.Version(ctx, userID)

	u, err := l.repo.GetByID(ctx, userID)
	if err != nil {
		return authz.RoleNone, err
	}
	if u == nil {
		return authz.RoleNone, ErrUserNotFound
	}

	entry = CachedRole{Role: u.Role, Status: u.Status}
	if verErr == nil {
		if err := l.cache.Fill(ctx, userID, entry, version); err != nil {
			log.Warn().Err(err).Str("user_id", userID.String()).Msg("Failed to cache role")
		}
	}
	return entry.resolve()
}
