package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/catalogcompare/backend/config"
	httpDelivery "github.com/catalogcompare/backend/internal/delivery/http"
	"github.com/catalogcompare/backend/internal/domain"
	"github.com/catalogcompare/backend/internal/infrastructure/filestore"
	"github.com/catalogcompare/backend/internal/infrastructure/postgres"
	"github.com/catalogcompare/backend/internal/infrastructure/ratelimit"
	"github.com/catalogcompare/backend/internal/infrastructure/remote"
	"github.com/catalogcompare/backend/internal/logging"
	"github.com/catalogcompare/backend/internal/observability"
	"github.com/catalogcompare/backend/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("starting CatalogCompare backend",
		zap.String("version", "1.0.0"),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("catalog_source", cfg.Catalog.Source))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize infrastructure dependencies
	source, closeSource, err := newCatalogSource(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize catalog source", zap.Error(err))
	}
	defer closeSource()

	if cfg.Metrics.Enabled {
		source = observability.InstrumentSource(cfg.Catalog.Source, source)
	}

	limiter := ratelimit.NewStore(cfg.RateLimit.PerIP, cfg.RateLimit.Window)
	defer limiter.Close()

	// Initialize usecase layer
	catalog := usecase.NewCatalogService(source, logger)
	comparisons := usecase.NewComparisonService(catalog, logger)

	handler := httpDelivery.NewHandler(catalog, comparisons, cfg.Server.Environment, logger)
	router := httpDelivery.SetupRouter(cfg, handler, logger, limiter)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}

// newCatalogSource builds the configured catalog backend and its cleanup function.
func newCatalogSource(ctx context.Context, cfg *config.Config, logger *zap.Logger) (domain.CatalogSource, func(), error) {
	noop := func() {}

	switch cfg.Catalog.Source {
	case config.SourceHTTP:
		client, err := remote.NewClient(cfg.Catalog.URL, cfg.Catalog.Timeout, logger)
		if err != nil {
			return nil, noop, err
		}
		return client, noop, nil

	case config.SourcePostgres:
		connectCtx, cancel := context.WithTimeout(ctx, cfg.Catalog.Timeout)
		defer cancel()
		store, err := postgres.NewStore(connectCtx, cfg.Catalog.DatabaseURL, cfg.Catalog.Table, logger)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil

	default:
		store := filestore.NewStore(cfg.Catalog.Path)
		if _, err := os.Stat(store.Path()); err != nil {
			// not fatal: the file is re-read per request and may appear later
			logger.Warn("catalog file not readable yet", zap.String("path", store.Path()), zap.Error(err))
		}
		return store, noop, nil
	}
}
