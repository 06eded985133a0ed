package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/decodedesk/decodedesk/internal/analytics"
	"github.com/decodedesk/decodedesk/internal/api"
	"github.com/decodedesk/decodedesk/internal/auth"
	"github.com/decodedesk/decodedesk/internal/config"
	"github.com/decodedesk/decodedesk/internal/contact"
	"github.com/decodedesk/decodedesk/internal/database"
	"github.com/decodedesk/decodedesk/internal/events"
	"github.com/decodedesk/decodedesk/internal/history"
	"github.com/decodedesk/decodedesk/internal/middleware"
	"github.com/decodedesk/decodedesk/internal/quota"
	iredis "github.com/decodedesk/decodedesk/internal/redis"
	"github.com/decodedesk/decodedesk/internal/server"
	"github.com/decodedesk/decodedesk/internal/session"
	"github.com/decodedesk/decodedesk/internal/translate"
	"github.com/decodedesk/decodedesk/internal/users"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// PostgreSQL
	pool, err := database.NewPostgresPool(ctx, cfg.DB)
	if err != nil {
		slog.Error("connecting to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.RunMigrations(cfg.DB.DSN(), "migrations"); err != nil {
		slog.Error("running migrations", "error", err)
		os.Exit(1)
	}

	// Redis
	redisClient, err := iredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		slog.Error("connecting to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// NATS is optional: without it, translations still work and only the
	// analytics pipeline is disabled.
	var (
		eventsClient *events.Client
		publisher    *events.Publisher
	)
	eventsClient, err = events.NewClient(ctx, cfg.NATS)
	if err != nil {
		slog.Warn("connecting to NATS, analytics disabled", "error", err)
		eventsClient = nil
	} else {
		defer eventsClient.Close()
		publisher = events.NewPublisher(eventsClient.JetStream())
	}

	// Users
	userRepo := users.NewRepository(pool)
	userSvc := users.NewService(userRepo)
	adminHandler := users.NewAdminHandler(userSvc, cfg.Admin.Emails)

	// Sessions and quota
	sessionSvc := session.NewService(redisClient, cfg.Quota.SessionTTL)
	sessionHandler := session.NewHandler(sessionSvc)
	quotaMgr := quota.NewManager(quota.NewRedisStore(redisClient, cfg.Quota.SessionTTL), cfg.Quota)
	quotaHandler := quota.NewHandler(quotaMgr)

	// Auth
	jwtManager := auth.NewJWTManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)
	authSvc := auth.NewService(jwtManager, redisClient, userSvc)
	authHandler := auth.NewHandler(authSvc, userSvc, quotaMgr, sessionSvc)

	// History
	historySvc := history.NewService(history.NewRepository(pool))
	historyHandler := history.NewHandler(historySvc)

	// Translation
	cache, err := translate.NewCache()
	if err != nil {
		slog.Error("creating translation cache", "error", err)
		os.Exit(1)
	}
	client := translate.NewClient(cfg.OpenRouter)
	translateHandler := translate.NewHandler(client, cache, quotaMgr, historySvc, publisher)

	// Analytics
	analyticsRepo := analytics.NewRepository(pool)
	analyticsHandler := analytics.NewHandler(analyticsRepo)
	if eventsClient != nil {
		consumer := analytics.NewConsumer(analyticsRepo, events.NewConsumerManager(eventsClient.JetStream()))
		go func() {
			if err := consumer.Start(ctx); err != nil {
				slog.Error("analytics consumer stopped", "error", err)
			}
		}()
	}

	// Contact
	contactHandler := contact.NewHandler(contact.NewRepository(pool), publisher)

	// Identity middleware bridges auth tokens into session identities.
	validateToken := func(token string) (*session.Claims, error) {
		claims, err := authSvc.ValidateAccessToken(token)
		if err != nil {
			return nil, err
		}
		return &session.Claims{UserID: claims.UserID, Email: claims.Email, Plan: claims.Plan}, nil
	}

	authLimiter := middleware.NewRateLimiter(redisClient, 10, 60)

	// Router
	router := api.NewRouter(pool, redisClient, eventsClient,
		api.RouterConfig{
			CORSAllowedOrigins: cfg.CORS.AllowedOrigins,
			AuthRateLimiter:    authLimiter.Middleware,
		},
		api.HandlerSet{
			CreateSession: sessionHandler.Create,

			Register: authHandler.Register,
			Login:    authHandler.Login,
			Refresh:  authHandler.Refresh,
			Logout:   authHandler.Logout,

			Translate:  translateHandler.Translate,
			GetQuota:   quotaHandler.Get,
			ResetQuota: quotaHandler.Reset(sessionSvc),

			ListHistory:   historyHandler.List,
			DeleteHistory: historyHandler.Delete,

			ListExamples:  analyticsHandler.Examples,
			StatsSummary:  analyticsHandler.Summary,
			SubmitContact: contactHandler.Submit,

			GrantPlan: adminHandler.GrantPlan,

			IdentityMiddleware: session.Middleware(validateToken, sessionSvc),
			RequireUser:        session.RequireUser,
		})

	// Start server
	srv := server.New(cfg.Server, router)
	if err := srv.Start(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(cfg config.LogConfig) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{}
	switch cfg.Level {
	case "debug":
		opts.Level = slog.LevelDebug
	case "info":
		opts.Level = slog.LevelInfo
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelInfo
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
