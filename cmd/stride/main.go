// Command stride runs the Stride goal-planning API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	sthttp "github.com/stridehq/stride/internal/adapter/http"
	stnats "github.com/stridehq/stride/internal/adapter/nats"
	"github.com/stridehq/stride/internal/adapter/otel"
	"github.com/stridehq/stride/internal/adapter/plannerhttp"
	"github.com/stridehq/stride/internal/adapter/postgres"
	"github.com/stridehq/stride/internal/adapter/ristretto"
	"github.com/stridehq/stride/internal/adapter/ws"
	"github.com/stridehq/stride/internal/config"
	"github.com/stridehq/stride/internal/logger"
	"github.com/stridehq/stride/internal/middleware"
	"github.com/stridehq/stride/internal/resilience"
	"github.com/stridehq/stride/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	slog.SetDefault(logger.New(cfg.Logging))
	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"planner_url", cfg.Planner.URL,
	)

	ctx := context.Background()

	// --- Infrastructure ---

	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()
	slog.Info("postgres connected")

	if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	slog.Info("migrations applied")

	bus, err := stnats.Connect(ctx, cfg.NATS.URL)
	if err != nil {
		return fmt.Errorf("nats: %w", err)
	}
	defer func() { _ = bus.Close() }()

	cache, err := ristretto.New(cfg.Cache.MaxSizeMB)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer cache.Close()

	metrics, err := otel.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	plannerClient := plannerhttp.NewClient(cfg.Planner)
	plannerClient.SetBreaker(resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout))

	// --- Services ---

	hub := ws.NewHub()
	store := postgres.NewStore(pool)

	authSvc := service.NewAuthService(store, cfg.Auth)
	scheduleSvc := service.NewScheduleService(store, cache, cfg.Cache.ScheduleTTL)
	goalSvc := service.NewGoalService(store, bus, scheduleSvc, metrics)
	milestoneSvc := service.NewMilestoneService(store, goalSvc)
	taskSvc := service.NewTaskService(store, milestoneSvc, scheduleSvc, metrics)
	sessionSvc := service.NewSessionService(store, plannerClient, scheduleSvc, bus, hub, metrics)

	// --- HTTP ---

	handlers := &sthttp.Handlers{
		Auth:       authSvc,
		Goals:      goalSvc,
		Milestones: milestoneSvc,
		Tasks:      taskSvc,
		Sessions:   sessionSvc,
		Schedule:   scheduleSvc,
		Hub:        hub,
		Bus:        bus,
		Ready: func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Ping(pingCtx)
		},
	}

	r := chi.NewRouter()

	r.Use(sthttp.CORS(cfg.Server.CORSOrigin))
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(sthttp.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(otel.Middleware(cfg.Logging.Service))
	r.Use(middleware.Auth(authSvc))

	sthttp.MountRoutes(r, handlers)

	addr := ":" + cfg.Server.Port

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-done
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
