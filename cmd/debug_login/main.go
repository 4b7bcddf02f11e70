package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/guestpost/guestpost-api/internal/config"
	"github.com/guestpost/guestpost-api/internal/domain/authz"
	"github.com/guestpost/guestpost-api/internal/domain/user"
	"github.com/guestpost/guestpost-api/internal/pkg/database"
	"github.com/guestpost/guestpost-api/internal/pkg/jwt"
	"github.com/guestpost/guestpost-api/internal/pkg/logger"
)

// debug_login mints an access token for local development.
// The user is looked up by email and created when absent, with a role derived
// from keywords in the address (admin, moderator, publisher, otherwise buyer).
// -role overwrites the stored role so the server resolves the same role the
// token carries.
func main() {
	email := flag.String("email", "", "email to sign in as")
	role := flag.String("role", "", "set role (admin, moderator, publisher, buyer)")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "usage: debug_login -email someone@example.com [-role admin]")
		os.Exit(2)
	}

	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	if cfg.IsProduction() {
		log.Fatal().Msg("debug_login is disabled in production")
	}

	override := authz.RoleNone
	if *role != "" {
		parsed, ok := authz.NormalizeRole(*role)
		if !ok {
			log.Fatal().Str("role", *role).Msg("Unknown role")
		}
		override = parsed
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.NewPostgres(ctx, cfg.DatabaseURL, database.PoolConfig{MaxOpenConns: 1})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.ClosePostgres(db)

	redis, err := database.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	engine := authz.Default()
	users := user.NewService(user.NewRepository(db), engine, user.NewRoleCache(redis, cfg.RoleCacheTTL), nil)
	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)

	token, u, err := mint(ctx, users, jwtService, *email, override)
	if err != nil {
		log.Fatal().Err(err).Str("email", *email).Msg("Failed to mint token")
	}

	fmt.Printf("user_id: %s\nrole:    %s (%s)\nperms:   %v\n\n%s\n",
		u.ID, u.Role, engine.RoleDisplayName(u.Role), engine.PermissionsFor(u.Role), token)
}

// mint provisions the user and signs a token matching the stored row
func mint(ctx context.Context, users *user.Service, jwtService *jwt.Service, email string, role authz.Role) (string, *user.User, error) {
	u, err := users.Provision(ctx, email, role)
	if err != nil {
		return "", nil, err
	}

	token, err := jwtService.GenerateAccessToken(jwt.Identity{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Role:   string(u.Role),
	})
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}
