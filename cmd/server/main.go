// Package main is the entrypoint for the textgate API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ferndale-io/textgate/internal/api"
	"github.com/ferndale-io/textgate/internal/api/handler"
	mw "github.com/ferndale-io/textgate/internal/api/middleware"
	"github.com/ferndale-io/textgate/internal/api/response"
	"github.com/ferndale-io/textgate/internal/cache"
	"github.com/ferndale-io/textgate/internal/config"
	"github.com/ferndale-io/textgate/internal/provider"
	"github.com/ferndale-io/textgate/internal/store"
	"github.com/ferndale-io/textgate/pkg/models"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config, fail fast on invalid config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "ai_provider", cfg.AI.Provider, "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to database
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	// 3. Run migrations
	if err := store.RunMigrations(cfg.Database.URL, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	// 4. Create Redis cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	// 5. Create text provider and kick off background model discovery
	textProvider, err := provider.New(cfg.AI)
	if err != nil {
		return fmt.Errorf("create text provider: %w", err)
	}
	if err := textProvider.Start(ctx); err != nil {
		return fmt.Errorf("start text provider: %w", err)
	}
	defer textProvider.Stop(context.Background())
	slog.Info("text provider initialized", "provider", textProvider.Name())

	// 6. Create store and service layer
	pgStore := store.NewPostgresStore(pool)
	genService := provider.NewGenerationService(textProvider, pgStore, redisCache, cfg.AI.GenerationTimeout)

	// 7. Build router with dependencies
	auth := mw.NewAuth(pgStore)
	rateLimit := mw.NewRateLimit(redisCache, 60)

	deps := api.Dependencies{
		Auth:      auth,
		RateLimit: rateLimit,

		HealthHandler:          healthHandler(pgStore, redisCache, textProvider),
		GenerateHandler:        handler.NewGenerateHandler(genService),
		ListModelsHandler:      handler.NewListModelsHandler(textProvider),
		GetModelHandler:        handler.NewGetModelHandler(textProvider),
		CreateKeyHandler:       handler.NewCreateKeyHandler(pgStore),
		ListKeysHandler:        handler.NewListKeysHandler(pgStore),
		RevokeKeyHandler:       handler.NewRevokeKeyHandler(pgStore),
		ListGenerationsHandler: handler.NewListGenerationsHandler(pgStore),
	}

	router := api.NewRouter(deps)

	// 8. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.AI.GenerationTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// healthHandler checks database, cache, and provider connectivity. The
// provider probe uses a short deadline so a slow upstream cannot stall the
// health endpoint.
func healthHandler(s store.Store, c cache.Cache, p models.TextProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database": "ok",
			"cache":    "ok",
			"provider": "ok",
		}

		if err := s.Ping(r.Context()); err != nil {
			checks["database"] = "degraded"
		}
		if err := c.Ping(r.Context()); err != nil {
			checks["cache"] = "degraded"
		}

		probeCtx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if !p.Available(probeCtx) {
			checks["provider"] = "degraded"
		}

		// Provider degradation is reported but does not fail the health
		// check: the gateway itself is still serving.
		if checks["database"] != "ok" || checks["cache"] != "ok" {
			response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
				"One or more services degraded", checks)
			return
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
