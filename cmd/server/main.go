package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/af-corp/bughunt-backend/internal/completion"
	"github.com/af-corp/bughunt-backend/internal/config"
	"github.com/af-corp/bughunt-backend/internal/content"
	"github.com/af-corp/bughunt-backend/internal/journal"
	"github.com/af-corp/bughunt-backend/internal/ratelimit"
	"github.com/af-corp/bughunt-backend/internal/skill"
	"github.com/af-corp/bughunt-backend/internal/telemetry"
)

var version = "dev"

func main() {
	configDir := flag.String("config", "configs", "path to configuration directory")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	loader := config.NewLoader(*configDir, logger)
	if err := loader.Load(); err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if err := loader.Watch(); err != nil {
		logger.Warn("failed to start config watcher", "error", err)
	}

	cfg := loader.Config()
	metrics := telemetry.NewMetrics()

	// Connect to Postgres for the transcript journal (optional)
	var journalStore *journal.Store
	if cfg.Journal.Enabled() {
		dbPool, err := pgxpool.New(context.Background(), cfg.Journal.DSN())
		if err != nil {
			logger.Warn("journal database unavailable (transcripts disabled)", "error", err)
		} else {
			defer dbPool.Close()
			if err := dbPool.Ping(context.Background()); err != nil {
				logger.Warn("journal database not reachable (transcripts disabled)", "error", err)
			} else {
				logger.Info("journal database connected")
				journalStore = journal.NewStore(dbPool, logger)
			}
		}
	}

	// Connect to Redis for rate limiting (optional)
	var rdb *redis.Client
	if len(cfg.Redis.Addresses) > 0 && cfg.Redis.Addresses[0] != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addresses[0],
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Warn("redis not reachable (rate limiting fails open)", "error", err)
			rdb = nil
		} else {
			logger.Info("redis connected")
		}
	}

	// Build provider registry
	providerRegistry := completion.BuildFromConfig(loader.Providers())
	loader.OnReload(func() {
		providerRegistry.Swap(completion.BuildFromConfig(loader.Providers()))
		logger.Info("provider registry reloaded")
	})

	health := completion.NewHealthTracker(5, 30*time.Second)
	completer := completion.NewClient(providerRegistry, health, func() config.CompletionConfig {
		return loader.Config().Completion
	}, metrics, logger)

	grounder := content.NewProvider(cfg.Content, logger, metrics)
	handler := skill.NewHandler(grounder, completer, journalStore, metrics, logger)
	diag := &skill.Diagnostics{Version: version}

	// Router setup
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", diag.Health)
	r.Get("/version", diag.VersionInfo)
	r.Get("/debug/env", diag.Env)

	r.Group(func(r chi.Router) {
		r.Use(ratelimit.Middleware(ratelimit.NewLimiter(rdb), cfg.RateLimit, metrics))
		r.Post("/ask", handler.Ask)
		r.Options("/ask", handler.AskOptions)
	})

	// Metrics on a separate listener
	go func() {
		metricsAddr := fmt.Sprintf(":%d", cfg.Telemetry.MetricsPort)
		logger.Info("metrics listening", "addr", metricsAddr)
		if err := http.ListenAndServe(metricsAddr, promhttp.Handler()); err != nil {
			logger.Warn("metrics server stopped", "error", err)
		}
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", addr, "version", version)
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", "signal", sig)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdown)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
