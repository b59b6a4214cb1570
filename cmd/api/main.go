package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalog "github.com/fluxstack/catalog"
	"github.com/fluxstack/catalog/api"
	"github.com/fluxstack/catalog/config"
	"github.com/fluxstack/catalog/db"
	"github.com/fluxstack/catalog/enrich"
	"github.com/fluxstack/catalog/storage"
)

func main() {
	// Setup structured logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("catalog service initializing", "version", "1.0.0")

	configPath := flag.String("config", ".", "Directory to search for config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}

	server := api.NewServer(api.Config{
		Addr:        cfg.Addr,
		AdminToken:  cfg.AdminToken,
		CORSEnabled: cfg.CORSEnabled,
	}, store, enrich.NewService(cfg.FetchTimeout))

	// Refresh collection-size gauges on a ticker
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			server.UpdateCatalogMetrics()
		}
	}()
	logger.Info("catalog metrics initialized")

	// Start server in a goroutine
	go func() {
		logger.Info("catalog service starting",
			"addr", cfg.Addr,
			"backend", cfg.Backend,
			"fetch_timeout", cfg.FetchTimeout,
			"cors_enabled", cfg.CORSEnabled,
		)

		if err := server.Start(); err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	logger.Info("shutting down gracefully")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// openStore selects the persistence backend from configuration. Both
// backends satisfy the same contract; the rest of the service cannot tell
// them apart.
func openStore(cfg config.Config, logger *slog.Logger) (catalog.Store, error) {
	switch cfg.Backend {
	case "file":
		logger.Info("using flat-file store", "path", cfg.DataPath)
		return storage.New(storage.Config{Path: cfg.DataPath})
	default:
		logger.Info("using PostgreSQL store")
		return db.New(db.Config{DSN: cfg.DatabaseURL})
	}
}
