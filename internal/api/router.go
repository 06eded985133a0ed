package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"

	"github.com/decodedesk/decodedesk/internal/database"
	"github.com/decodedesk/decodedesk/internal/events"
	mw "github.com/decodedesk/decodedesk/internal/middleware"
)

// HandlerSet holds handler functions injected from main.go to avoid import cycles.
type HandlerSet struct {
	// Session
	CreateSession http.HandlerFunc

	// Auth handlers
	Register http.HandlerFunc
	Login    http.HandlerFunc
	Refresh  http.HandlerFunc
	Logout   http.HandlerFunc

	// Core product
	Translate  http.HandlerFunc
	GetQuota   http.HandlerFunc
	ResetQuota http.HandlerFunc

	// History
	ListHistory   http.HandlerFunc
	DeleteHistory http.HandlerFunc

	// Public analytics + contact
	ListExamples  http.HandlerFunc
	StatsSummary  http.HandlerFunc
	SubmitContact http.HandlerFunc

	// Admin
	GrantPlan http.HandlerFunc

	// Middleware
	IdentityMiddleware func(http.Handler) http.Handler
	RequireUser        func(http.Handler) http.Handler
}

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	CORSAllowedOrigins []string
	AuthRateLimiter    func(http.Handler) http.Handler
}

func NewRouter(pool *pgxpool.Pool, rdb *goredis.Client, eventsClient *events.Client, cfg RouterConfig, h HandlerSet) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.SecurityHeaders)
	r.Use(mw.Logging)
	r.Use(mw.Recovery)
	r.Use(mw.Metrics)
	r.Use(cors.Handler(mw.CORS(cfg.CORSAllowedOrigins)))

	// Liveness probe, always 200, no dependency checks
	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		JSON(w, http.StatusOK, map[string]string{"status": "alive"})
	})

	// Readiness probe checks DB, Redis, NATS
	readinessHandler := func(w http.ResponseWriter, r *http.Request) {
		health := map[string]string{
			"status":   "healthy",
			"database": "healthy",
			"redis":    "healthy",
			"nats":     "healthy",
		}

		status := http.StatusOK

		if err := database.HealthCheck(r.Context(), pool); err != nil {
			health["database"] = "unhealthy"
			health["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}

		if err := rdb.Ping(r.Context()).Err(); err != nil {
			health["redis"] = "unhealthy"
			health["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}

		if eventsClient != nil && !eventsClient.Healthy() {
			health["nats"] = "unhealthy"
			health["status"] = "degraded"
			status = http.StatusServiceUnavailable
		} else if eventsClient == nil {
			health["nats"] = "not configured"
		}

		JSON(w, status, health)
	}

	r.Get("/health/ready", readinessHandler)
	r.Get("/health", readinessHandler)

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/session", h.CreateSession)
		r.Get("/examples", h.ListExamples)
		r.Get("/stats/summary", h.StatsSummary)
		r.Post("/contact", h.SubmitContact)

		// Auth routes (public), optionally rate-limited
		r.Route("/auth", func(r chi.Router) {
			if cfg.AuthRateLimiter != nil {
				r.Use(cfg.AuthRateLimiter)
			}
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.Post("/refresh", h.Refresh)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(h.IdentityMiddleware)
				r.Post("/logout", h.Logout)
			})
		})

		// Routes requiring an identity (guest session or account)
		r.Group(func(r chi.Router) {
			r.Use(h.IdentityMiddleware)

			r.Post("/translate", h.Translate)
			r.Route("/quota", func(r chi.Router) {
				r.Get("/", h.GetQuota)
				r.Delete("/", h.ResetQuota)
			})

			// Account-only routes
			r.Group(func(r chi.Router) {
				r.Use(h.RequireUser)

				r.Route("/history", func(r chi.Router) {
					r.Get("/", h.ListHistory)
					r.Delete("/{translationID}", h.DeleteHistory)
				})

				r.Patch("/admin/users/plan", h.GrantPlan)
			})
		})
	})

	return r
}
