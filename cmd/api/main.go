// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/yassaka/internal/account"
	"github.com/carterperez-dev/yassaka/internal/activity"
	"github.com/carterperez-dev/yassaka/internal/admin"
	"github.com/carterperez-dev/yassaka/internal/auth"
	"github.com/carterperez-dev/yassaka/internal/certificate"
	"github.com/carterperez-dev/yassaka/internal/config"
	"github.com/carterperez-dev/yassaka/internal/core"
	"github.com/carterperez-dev/yassaka/internal/educator"
	"github.com/carterperez-dev/yassaka/internal/health"
	"github.com/carterperez-dev/yassaka/internal/middleware"
	"github.com/carterperez-dev/yassaka/internal/proposal"
	"github.com/carterperez-dev/yassaka/internal/schema"
	"github.com/carterperez-dev/yassaka/internal/server"
	"github.com/carterperez-dev/yassaka/internal/session"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("database close error", "error", err)
		}
	}()
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if _, err := schema.NewMigrator(db.DB, logger).EnsureSchema(ctx); err != nil {
		return err
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}()
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	hasher := core.NewPasswordHasher(cfg.Security.PasswordAlgorithm, cfg.Security.BcryptCost)

	accountSvc := account.NewService(account.NewRepository(db.DB), hasher, logger)

	created, err := accountSvc.EnsureAdmin(ctx, cfg.Bootstrap.AdminUsername, cfg.Bootstrap.AdminPassword)
	if err != nil {
		return err
	}
	if created {
		logger.Info("bootstrap admin created", "username", cfg.Bootstrap.AdminUsername)
	}

	tokens, err := auth.NewTokenManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("session tokens initialized",
		"algorithm", "ES256",
		"key_id", tokens.KeyID(),
	)

	authSvc := auth.NewService(
		auth.NewGate(accountSvc, hasher, logger),
		tokens,
		auth.NewRedisRevocations(redis.Client),
		accountSvc,
		hasher,
		logger,
	)

	loc := cfg.App.Location()
	limits := core.Limits{Default: cfg.List.DefaultLimit, Max: cfg.List.MaxLimit}

	proposalSvc := proposal.NewService(proposal.NewRepository(db.DB), logger)
	meetingSvc := activity.NewService(activity.Meetings,
		activity.NewRepository(db.DB, activity.Meetings), logger)
	contactSvc := activity.NewService(activity.Contacts,
		activity.NewRepository(db.DB, activity.Contacts), logger)
	certificateSvc := certificate.NewService(certificate.NewRepository(db.DB), logger)
	educatorSvc := educator.NewService(educator.NewRepository(db.DB), logger)

	healthHandler := health.NewHandler(cfg.App.Version,
		health.Dependency{Name: "database", Checker: db},
		health.Dependency{Name: "redis", Checker: redis},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		Proposals: proposalSvc,
		Accounts:  accountSvc,
		Counters: []admin.NamedCounter{
			{Name: "meetings", Counter: meetingSvc},
			{Name: "contacts", Counter: contactSvc},
			{Name: "certificates", Counter: certificateSvc},
			{Name: "educator_profiles", Counter: educatorSvc},
		},
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Tracing)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.Per(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
				cfg.RateLimit.Window,
			),
			FailOpen:   true,
			BypassFunc: isProbe,
		}).Handler,
	)

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", tokens.JWKSHandler())

	loginLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit: middleware.PerMinute(
			cfg.RateLimit.LoginRequests,
			cfg.RateLimit.LoginBurst,
		),
		KeyFunc: middleware.KeyByLoginUsername,
	}).Handler

	authenticated := chain(
		middleware.Authenticator(authSvc),
		middleware.RoleRateLimiter(redis.Client, middleware.DefaultRoleLimits),
	)
	adminOnly := chain(middleware.RequirePasswordChanged, middleware.RequireAdmin)
	sales := chain(
		authenticated,
		middleware.RequirePasswordChanged,
		middleware.RequireRole(session.RoleUser, session.RoleAdmin),
	)
	panel := chain(
		authenticated,
		middleware.RequirePasswordChanged,
		middleware.RequireRole(session.RoleEducator, session.RoleAdmin),
	)

	router.Route("/v1", func(r chi.Router) {
		auth.NewHandler(authSvc).RegisterRoutes(r, authenticated, loginLimiter)

		proposal.NewHandler(proposalSvc, limits, loc).RegisterRoutes(r, sales)
		activity.NewHandler(meetingSvc, limits, loc).RegisterRoutes(r, panel)
		activity.NewHandler(contactSvc, limits, loc).RegisterRoutes(r, panel)
		certificate.NewHandler(certificateSvc, limits, loc).RegisterRoutes(r, panel)
		educator.NewHandler(educatorSvc, limits, loc).RegisterRoutes(r, panel, middleware.RequireAdmin)

		account.NewHandler(accountSvc).RegisterRoutes(r, authenticated, adminOnly)
		adminHandler.RegisterRoutes(r, authenticated, adminOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	logger.Info("application stopped")
	return nil
}

func chain(mws ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return chi.Chain(mws...).Handler(next)
	}
}

func isProbe(r *http.Request) bool {
	switch r.URL.Path {
	case "/healthz", "/livez", "/readyz":
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/.well-known/")
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
