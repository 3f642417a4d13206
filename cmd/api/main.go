package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpAdapter "github.com/sgk-rpa/rpa-dashboard/internal/adapters/primary/http"
	mw "github.com/sgk-rpa/rpa-dashboard/internal/adapters/primary/http/middleware"
	"github.com/sgk-rpa/rpa-dashboard/internal/adapters/primary/websocket"
	"github.com/sgk-rpa/rpa-dashboard/internal/adapters/secondary/jsonfile"
	"github.com/sgk-rpa/rpa-dashboard/internal/adapters/secondary/llm"
	"github.com/sgk-rpa/rpa-dashboard/internal/adapters/secondary/postgres"
	"github.com/sgk-rpa/rpa-dashboard/internal/adapters/secondary/rediscache"
	"github.com/sgk-rpa/rpa-dashboard/internal/auth"
	"github.com/sgk-rpa/rpa-dashboard/internal/config"
	"github.com/sgk-rpa/rpa-dashboard/internal/core/ports"
	"github.com/sgk-rpa/rpa-dashboard/internal/core/services"
	"github.com/sgk-rpa/rpa-dashboard/internal/infrastructure/logging"
	"github.com/sgk-rpa/rpa-dashboard/internal/scheduler"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	variants, err := config.LoadVariants(cfg.Data.ProfilesPath)
	if err != nil {
		logger.Error("failed to load dashboard profiles", "error", err)
		os.Exit(1)
	}
	names := make([]string, 0, len(variants))
	for _, v := range variants {
		names = append(names, v.Name)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Record source: Postgres when configured, JSON exports otherwise
	checkers := make(map[string]ports.HealthChecker)
	var source ports.RecordSource
	var watchPaths map[string]string
	if cfg.Database.URL != "" {
		pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
			URL:             cfg.Database.URL,
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		})
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		logger.Info("database connection established")

		store := postgres.NewRecordStore(pool)
		source = store
		checkers["database"] = store
	} else {
		watchPaths = cfg.VariantPaths(variants)
		files := jsonfile.NewSource(watchPaths)
		source = files
		checkers["files"] = files
	}

	// 4. Real-time hub
	hub := websocket.NewHub(logger, names...)
	go hub.Run(ctx)

	// 5. Services (Core)
	dashboardService := services.NewDashboardService(source, hub, logger, variants...)

	if cfg.Cache.RedisURL != "" {
		client, err := rediscache.Connect(ctx, cfg.Cache.RedisURL)
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer func() { _ = client.Close() }()

		cache := rediscache.New(client, rediscache.DefaultPrefix)
		dashboardService.WithCache(cache, cfg.Cache.TTL)
		checkers["cache"] = cache
		logger.Info("summary cache enabled", "ttl", cfg.Cache.TTL)
	}

	var model ports.LanguageModel
	if cfg.LLM.APIKey != "" {
		anthropicModel, err := llm.NewAnthropic(llm.Config{
			APIKey:    cfg.LLM.APIKey,
			Model:     cfg.LLM.Model,
			MaxTokens: cfg.LLM.MaxTokens,
			Timeout:   cfg.LLM.Timeout,
		}, logger)
		if err != nil {
			logger.Error("failed to initialize language model", "error", err)
			os.Exit(1)
		}
		model = anthropicModel
	} else {
		logger.Info("assistant runs without a language model")
	}
	assistantService := services.NewAssistantService(dashboardService, model, logger)

	// Initial load; variants that fail are served as not loaded until the
	// next reload succeeds.
	if err := dashboardService.ReloadAll(ctx); err != nil {
		logger.Warn("initial load incomplete", "error", err)
	}

	if cfg.Data.Watch && watchPaths != nil {
		watcher, err := jsonfile.NewWatcher(watchPaths, cfg.Data.WatchDebounce,
			func(ctx context.Context, variant string) {
				// Failures are logged and broadcast by the service.
				_, _ = dashboardService.Reload(ctx, variant)
			}, logger)
		if err != nil {
			logger.Error("failed to watch export files", "error", err)
			os.Exit(1)
		}
		logger.Info("watching export files", "debounce", cfg.Data.WatchDebounce)
		go watcher.Run(ctx)
	}

	if cfg.Reload.Schedule != "" {
		reloader, err := scheduler.New(cfg.Reload.Schedule, dashboardService, logger)
		if err != nil {
			logger.Error("invalid reload schedule", "error", err)
			os.Exit(1)
		}
		logger.Info("scheduled reloads enabled",
			"schedule", cfg.Reload.Schedule,
			"next", reloader.Next(time.Now()).Format(time.RFC3339),
		)
		go reloader.Run(ctx)
	}

	// 6. Security & rate limiting
	var tokenManager *auth.TokenManager
	if cfg.AdminEnabled() {
		tokenManager = auth.NewTokenManager(cfg.Admin.JWTSecret, cfg.Admin.TokenTTL)
	} else {
		logger.Info("admin routes disabled (ADMIN_JWT_SECRET not set)")
	}

	var generalRateLimiter, chatRateLimiter *mw.RateLimiter
	if cfg.RateLimit.Enabled {
		generalRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstSize:         cfg.RateLimit.BurstSize,
			CleanupInterval:   time.Minute,
			TTL:               3 * time.Minute,
		})

		chatRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.ChatRPS,
			BurstSize:         cfg.RateLimit.ChatBurst,
			CleanupInterval:   time.Minute,
			TTL:               5 * time.Minute,
		})
	}

	// 7. Setup Router
	router := httpAdapter.NewRouter(httpAdapter.RouterDeps{
		Dashboards:         dashboardService,
		Assistant:          assistantService,
		Hub:                hub,
		TokenManager:       tokenManager,
		HealthCheckers:     checkers,
		Version:            cfg.App.Version,
		CORSAllowedOrigins: cfg.CORS.AllowedOrigins,
		CORSMaxAge:         cfg.CORS.MaxAge,
		WebSocket: httpAdapter.WebSocketConfig{
			AllowedOrigins:  cfg.WebSocket.AllowedOrigins,
			ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
			WriteBufferSize: cfg.WebSocket.WriteBufferSize,
			IsDevelopment:   cfg.IsDevelopment(),
		},
		RateLimiter:     generalRateLimiter,
		ChatRateLimiter: chatRateLimiter,
		Logger:          logger,
	})

	// 8. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Server.Port, "variants", names)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		logger.Error("server error", "error", err)
		stop()
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		return
	}

	logger.Info("server shutdown complete")
}
