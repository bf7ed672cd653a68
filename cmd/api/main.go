// Package main is the entrypoint for the utilgate API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/utilgate/utilgate/internal/accesslog"
	"github.com/utilgate/utilgate/internal/auth"
	"github.com/utilgate/utilgate/internal/cache"
	"github.com/utilgate/utilgate/internal/config"
	"github.com/utilgate/utilgate/internal/handler"
	"github.com/utilgate/utilgate/internal/lookup"
	"github.com/utilgate/utilgate/internal/middleware"
	"github.com/utilgate/utilgate/internal/ratelimit"
	"github.com/utilgate/utilgate/internal/repository"
	"github.com/utilgate/utilgate/internal/server"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	// Initialize cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	// Access log writer
	accessLog, err := accesslog.NewWriter(cfg.AccessLogDir, logger)
	if err != nil {
		logger.Error("failed to initialize access log", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("access log ready", slog.String("dir", accessLog.Dir()))

	// Core components
	tokens := auth.NewTokenManager(cfg.JWTSecret)
	admins := auth.NewAdminList(cfg.GetAdminEmails())
	limiter := ratelimit.New(cfg.RateLimitWindow, cfg.RateLimitMax)
	lastfm := lookup.NewLastFM(cfg.LastFMBaseURL, cfg.LastFMAPIKey, cfg.LookupTimeout)
	pricer := lookup.NewPricer(cfg.FiatRateURL, cfg.CryptoPriceURL, cfg.LookupTimeout, cacheClient)

	// Handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	authHandler := handler.NewAuthHandler(logger, repo, tokens)
	apiKeyHandler := handler.NewAPIKeyHandler(logger, repo)
	adminHandler := handler.NewAdminHandler(logger, repo, accessLog)
	utilHandler := handler.NewUtilHandler()
	lookupHandler := handler.NewLookupHandler(logger, lastfm, pricer)

	r := setupRouter(routerDeps{
		cfg:           cfg,
		logger:        logger,
		repo:          repo,
		cache:         cacheClient,
		tokens:        tokens,
		admins:        admins,
		limiter:       limiter,
		accessLog:     accessLog,
		base:          h,
		health:        healthHandler,
		auth:          authHandler,
		apiKeys:       apiKeyHandler,
		admin:         adminHandler,
		util:          utilHandler,
		lookupHandler: lookupHandler,
	})

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	// Drain the access log after the HTTP server stops.
	srv.OnShutdown("access log", accessLog.Close)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type routerDeps struct {
	cfg           *config.Config
	logger        *slog.Logger
	repo          *repository.Repository
	cache         *cache.Cache
	tokens        *auth.TokenManager
	admins        *auth.AdminList
	limiter       *ratelimit.Limiter
	accessLog     *accesslog.Writer
	base          *handler.Handler
	health        *handler.HealthHandler
	auth          *handler.AuthHandler
	apiKeys       *handler.APIKeyHandler
	admin         *handler.AdminHandler
	util          *handler.UtilHandler
	lookupHandler *handler.LookupHandler
}

// setupRouter configures the chi router with all routes and middleware.
// The gate order is fixed: rate limiting runs before any routing or
// authentication, and every completed request lands in the access log.
func setupRouter(d routerDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.logger, d.accessLog))
	r.Use(middleware.Recoverer(d.logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment:      d.cfg.IsDevelopment(),
		MaxRequestBodySize: d.cfg.MaxRequestBodySize,
	}))
	r.Use(middleware.RateLimit(d.limiter, d.logger))

	sessionAuth := middleware.SessionAuth(middleware.SessionAuthConfig{
		Logger: d.logger,
		Tokens: d.tokens,
	})
	requireAdmin := middleware.RequireAdmin(middleware.AdminConfig{
		Logger: d.logger,
		Users:  d.repo,
		Admins: d.admins,
	})
	apiKeyAuth := middleware.APIKeyAuth(middleware.APIKeyAuthConfig{
		Logger: d.logger,
		Keys:   d.repo,
		Usage:  d.repo,
		Cache:  d.cache,
	})

	// Health endpoints (no auth required)
	r.Get("/healthz", d.health.Healthz)
	r.Get("/readyz", d.health.Readyz)

	// Root info endpoint
	r.Get("/", d.base.Hello)

	// Public auth routes
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", d.auth.Register)
		r.Post("/login", d.auth.Login)
	})

	// Key management (session auth)
	r.Route("/keys", func(r chi.Router) {
		r.Use(sessionAuth)
		r.Post("/generate-key", d.apiKeys.GenerateKey)
		r.Get("/stats", d.apiKeys.Stats)
	})

	// Admin views (session auth + allow-list)
	r.Route("/admin", func(r chi.Router) {
		r.Use(sessionAuth)
		r.Use(requireAdmin)
		r.Get("/users", d.admin.Users)
		r.Get("/logs", d.admin.Logs)
	})

	// Utility API (service auth)
	r.Group(func(r chi.Router) {
		r.Use(apiKeyAuth)

		r.Get("/hash", d.util.Hash)
		r.Post("/compare", d.util.Compare)
		r.Post("/base64/encode", d.util.Base64Encode)
		r.Post("/base64/decode", d.util.Base64Decode)
		r.Post("/hex/encode", d.util.HexEncode)
		r.Post("/hex/decode", d.util.HexDecode)
		r.Post("/cpf", d.util.CPF)
		r.Post("/cep", d.util.CEP)
		r.Get("/timestamp", d.util.Timestamp)
		r.Get("/lastfm/{username}", d.lookupHandler.LastFM)
		r.Get("/valor/{symbol}", d.lookupHandler.Price)
	})

	// 404 and 405 handlers
	r.NotFound(d.base.NotFound)
	r.MethodNotAllowed(d.base.MethodNotAllowed)

	return r
}

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		msg = strings.ReplaceAll(msg, secret, "[redacted]")
	}
	return msg
}
