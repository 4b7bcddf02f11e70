package main

import (
	"context"
	"errors"
	"expvar"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/guestpost/guestpost-api/internal/config"
	"github.com/guestpost/guestpost-api/internal/domain/authz"
	"github.com/guestpost/guestpost-api/internal/domain/realtime"
	"github.com/guestpost/guestpost-api/internal/domain/user"
	"github.com/guestpost/guestpost-api/internal/middleware"
	"github.com/guestpost/guestpost-api/internal/pkg/database"
	"github.com/guestpost/guestpost-api/internal/pkg/jwt"
	"github.com/guestpost/guestpost-api/internal/pkg/logger"
	pkgresponse "github.com/guestpost/guestpost-api/internal/pkg/response"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
		LogFile:     cfg.LogFile,
	})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting GuestPost API")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
		os.Exit(1)
	}

	log.Info().Msg("Server exited properly")
}

func run(ctx context.Context, cfg *config.Config) error {
	engine, err := authz.NewEngine(authz.DefaultPolicy())
	if err != nil {
		return err
	}

	db, err := database.NewPostgres(ctx, cfg.DatabaseURL, database.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		return err
	}
	defer database.ClosePostgres(db)

	redis, err := database.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	defer database.CloseRedis(redis)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)

	// ---------- Realtime ----------
	hub := realtime.NewHub(redis)
	publisher := realtime.NewRolePublisher(hub, engine)

	// ---------- Users ----------
	userRepo := user.NewRepository(db)
	roleCache := user.NewRoleCache(redis, cfg.RoleCacheTTL)
	userService := user.NewService(userRepo, engine, roleCache, publisher)

	authenticator := middleware.NewAuthenticator(jwtService, user.NewCachedRoleLookup(userRepo, roleCache))

	router := newRouter(cfg, routerDeps{
		engine:   engine,
		auth:     authenticator,
		authz:    authz.NewHandler(engine, middleware.GetRole),
		users:    user.NewHandler(userService),
		realtime: realtime.NewHandler(hub, engine, cfg.AllowedOrigins),
		ready: func(ctx context.Context) error {
			if err := db.PingContext(ctx); err != nil {
				return err
			}
			if redis != nil {
				return redis.Ping(ctx).Err()
			}
			return nil
		},
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return hub.Run(gctx)
	})

	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		hub.Shutdown()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

type routerDeps struct {
	engine   *authz.Engine
	auth     *middleware.Authenticator
	authz    *authz.Handler
	users    *user.Handler
	realtime *realtime.Handler
	ready    func(ctx context.Context) error
}

func newRouter(cfg *config.Config, deps routerDeps) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.SecureHeaders(cfg.IsProduction()))
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	// WebSocket endpoint (outside Compress)
	r.Mount("/ws", deps.realtime.Routes(deps.auth.Auth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if deps.ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := deps.ready(ctx); err != nil {
				log.Warn().Err(err).Msg("Readiness check failed")
				pkgresponse.Error(w, http.StatusServiceUnavailable, "NOT_READY", "Dependencies unavailable")
				return
			}
		}
		pkgresponse.OK(w, map[string]string{"status": "ready"})
	})

	if !cfg.IsProduction() {
		r.Handle("/debug/vars", expvar.Handler())
	}

	gate := authz.NewMiddleware(deps.engine, middleware.GetRole)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.Compress(5))
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute))

		r.Mount("/authz", deps.authz.Routes(deps.auth.OptionalAuth))
		r.Mount("/admin/users", deps.users.Routes(deps.auth.Auth, gate))
	})

	return r
}
