package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	mw "github.com/sgk-rpa/rpa-dashboard/internal/adapters/primary/http/middleware"
	wsAdapter "github.com/sgk-rpa/rpa-dashboard/internal/adapters/primary/websocket"
	"github.com/sgk-rpa/rpa-dashboard/internal/auth"
	"github.com/sgk-rpa/rpa-dashboard/internal/core/ports"
)

// RouterDeps collects everything the HTTP surface is built from.
type RouterDeps struct {
	Dashboards ports.DashboardService
	Assistant  ports.AssistantService
	Hub        *wsAdapter.Hub

	// TokenManager guards the admin routes; they are not mounted when nil.
	TokenManager *auth.TokenManager

	// HealthCheckers are pinged by the health endpoints.
	HealthCheckers map[string]ports.HealthChecker
	Version        string

	CORSAllowedOrigins []string
	CORSMaxAge         int
	WebSocket          WebSocketConfig

	// Rate limiters are optional.
	RateLimiter     *mw.RateLimiter
	ChatRateLimiter *mw.RateLimiter

	Logger *slog.Logger
}

// NewRouter wires handlers and middleware into a chi router.
func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger
	errorHandler := NewErrorHandler(logger)

	dashboardHandler := NewDashboardHandler(deps.Dashboards, errorHandler, logger)
	chatHandler := NewChatHandler(deps.Assistant, errorHandler, logger)
	adminHandler := NewAdminHandler(deps.Dashboards, errorHandler, logger)
	healthHandler := NewHealthHandler(deps.Dashboards, deps.HealthCheckers, deps.Version)

	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.RecoveryLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", mw.RequestIDHeader},
		ExposedHeaders:   []string{mw.RequestIDHeader, "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           deps.CORSMaxAge,
	}))

	if deps.RateLimiter != nil {
		r.Use(deps.RateLimiter.Middleware)
	}

	// Health check endpoints (outside /api/v1 for standard probe paths)
	healthHandler.RegisterRoutes(r)

	r.Route("/api/v1", func(r chi.Router) {
		dashboardHandler.RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			if deps.ChatRateLimiter != nil {
				r.Use(deps.ChatRateLimiter.Middleware)
			}
			r.Route("/chat", chatHandler.RegisterRoutes)
		})

		if deps.Hub != nil {
			wsHandler := NewWebSocketHandler(deps.Hub, deps.WebSocket, errorHandler, logger)
			r.Get("/ws", wsHandler.ServeHTTP)
		}

		if deps.TokenManager != nil {
			r.Group(func(r chi.Router) {
				r.Use(mw.JWTMiddleware(deps.TokenManager))
				r.Use(mw.RequireScope(auth.ScopeReload))
				r.Route("/admin", adminHandler.RegisterRoutes)
			})
		}
	})

	return r
}
