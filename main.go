package main

import (
	"context"
	"log" // Use standard log only for initial fatal errors before logger is set up
	"os/signal"
	"syscall"

	"github.com/shreyas6123/stock-portfolio-dashboard/config"
	"github.com/shreyas6123/stock-portfolio-dashboard/internal/adapters/binancefeed"
	"github.com/shreyas6123/stock-portfolio-dashboard/internal/adapters/logger"
	"github.com/shreyas6123/stock-portfolio-dashboard/internal/adapters/quotestream"
	"github.com/shreyas6123/stock-portfolio-dashboard/internal/adapters/sqlite"
	"github.com/shreyas6123/stock-portfolio-dashboard/internal/app"
	"github.com/shreyas6123/stock-portfolio-dashboard/internal/ports"
	"github.com/shreyas6123/stock-portfolio-dashboard/internal/quotes"
	"github.com/shreyas6123/stock-portfolio-dashboard/internal/server"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	// 2. Initialize Logger
	appLogger := logger.NewStdLogger(cfg.LogLevel)
	appLogger.Info(context.Background(), "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	// 3. Initialize Repository (Database Adapter)
	repo, err := sqlite.NewRepository(sqlite.Config{
		DBPath: cfg.DBPath,
		Logger: appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize database repository")
		log.Fatalf("FATAL: Failed to initialize database repository: %v", err) // Also log to stderr
	}
	defer func() {
		if err := repo.Close(); err != nil {
			appLogger.Error(context.Background(), err, "Error closing database repository")
		}
	}()
	appLogger.Info(context.Background(), "Database repository initialized")

	// 4. Initialize Quote Feeds
	equityFeed, err := quotestream.New(quotestream.Config{
		URL:            cfg.FeedURL,
		Token:          cfg.FeedToken,
		Logger:         appLogger,
		ReconnectDelay: cfg.ReconnectDelay,
		MaxReconnect:   cfg.MaxReconnectDelay,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize equity quote feed")
		log.Fatalf("FATAL: Failed to initialize equity quote feed: %v", err)
	}

	var cryptoFeed ports.QuoteSource
	if cfg.EnableCryptoFeed {
		cryptoFeed, err = binancefeed.New(binancefeed.Config{
			Logger:         appLogger,
			ReconnectDelay: cfg.ReconnectDelay,
			MaxReconnect:   cfg.MaxReconnectDelay,
		})
		if err != nil {
			appLogger.Error(context.Background(), err, "FATAL: Failed to initialize crypto quote feed")
			log.Fatalf("FATAL: Failed to initialize crypto quote feed: %v", err)
		}
	}

	quoteRouter := quotes.NewRouter(equityFeed, cryptoFeed)
	defer func() {
		if err := quoteRouter.Close(); err != nil {
			appLogger.Error(context.Background(), err, "Error closing quote feeds")
		}
	}()
	appLogger.Info(context.Background(), "Quote feeds initialized", map[string]interface{}{"crypto_enabled": cfg.EnableCryptoFeed})

	// 5. Initialize Application Service
	dashboardService, err := app.NewDashboardService(
		cfg,
		appLogger,
		repo,        // Pass the concrete implementation, service expects the interface
		quoteRouter, // Pass the concrete implementation, service expects the interface
	)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize dashboard service")
		log.Fatalf("FATAL: Failed to initialize dashboard service: %v", err)
	}
	appLogger.Info(context.Background(), "Dashboard service initialized")

	// 6. Start the Service and HTTP Server
	// Shut down gracefully on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := dashboardService.Start(ctx); err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to start dashboard service")
		log.Fatalf("FATAL: Failed to start dashboard service: %v", err)
	}

	httpServer := server.NewServer(server.Config{Addr: cfg.ServerAddr}, dashboardService, appLogger)
	if err := httpServer.Start(ctx); err != nil {
		appLogger.Error(ctx, err, "Dashboard server exited with error")
		log.Fatalf("FATAL: Dashboard server exited with error: %v", err)
	}

	appLogger.Info(context.Background(), "Application finished gracefully.")
}
