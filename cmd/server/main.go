/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the labour wage ledger server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env, then environment)
  2. Set up logging
  3. Open the store (SQLite or PostgreSQL) and run migrations
  4. Build the coordinator with notifier and metrics
  5. Start the repair scheduler (when enabled)
  6. Start the HTTP server with graceful shutdown

ENVIRONMENT:
  PORT, DB_DRIVER, DB_PATH, DATABASE_URL, LOG_LEVEL, LOG_FORMAT,
  CORS_ORIGINS, AMQP_URL, AMQP_EXCHANGE, AMQP_ROUTING_KEY,
  REPAIR_ENABLED, REPAIR_INTERVAL, RECALC_CONCURRENCY, SERVER_*_TIMEOUT
  See config/config.go for defaults.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the repair scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (SERVER_SHUTDOWN_TIMEOUT)
  4. Close the broker connection and the database
  5. Exit

EXAMPLES:
  # Run with a file database
  DB_PATH=./data/ledger.db ./server

  # Run against PostgreSQL with notifications
  DB_DRIVER=postgres DATABASE_URL=postgres://... AMQP_URL=amqp://... ./server

SEE ALSO:
  - api/server.go: Router configuration
  - ledger/coordinator.go: Mutation flow
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/warp/labour-ledger/api"
	"github.com/warp/labour-ledger/config"
	"github.com/warp/labour-ledger/ledger"
	"github.com/warp/labour-ledger/logging"
	"github.com/warp/labour-ledger/metrics"
	"github.com/warp/labour-ledger/notify"
	"github.com/warp/labour-ledger/store/sqlstore"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize store
	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()
	logger.Info("database ready", "driver", store.Dialect())

	m := metrics.New()

	coord := ledger.NewCoordinator(store)
	coord.Logger = logger.With("component", "ledger")
	coord.Metrics = m

	if cfg.AMQP.URL != "" {
		publisher, err := notify.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.RoutingKey, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to message broker: %w", err)
		}
		defer publisher.Close()
		coord.Notifier = publisher
		logger.Info("balance notifications enabled", "exchange", cfg.AMQP.Exchange, "routing_key", cfg.AMQP.RoutingKey)
	}

	recalc := ledger.NewRecalculator(store, coord.Locks)
	recalc.Logger = logger.With("component", "recalc")
	recalc.Metrics = m
	recalc.Concurrency = cfg.RecalcConcurrency

	scheduler := api.NewRepairScheduler(recalc, logger)
	scheduler.Enabled = cfg.Repair.Enabled
	scheduler.CheckInterval = cfg.Repair.Interval
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(coord, recalc, store)
	handler.Logger = logger.With("component", "api")
	router := api.NewRouter(handler, api.RouterOptions{
		AllowedOrigins: cfg.CORSOrigins,
		Metrics:        m.Handler(),
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func openStore(ctx context.Context, cfg *config.Config) (*sqlstore.Store, error) {
	if cfg.DB.Driver == "postgres" {
		return sqlstore.OpenPostgres(ctx, cfg.DB.URL)
	}
	if cfg.DB.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DB.Path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	return sqlstore.OpenSQLite(ctx, cfg.DB.Path)
}
