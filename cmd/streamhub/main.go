package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/amaumene/streamhub/internal/api"
	"github.com/amaumene/streamhub/internal/bot"
	"github.com/amaumene/streamhub/internal/cache"
	"github.com/amaumene/streamhub/internal/config"
	"github.com/amaumene/streamhub/internal/models"
	"github.com/amaumene/streamhub/internal/scheduler"
	"github.com/amaumene/streamhub/internal/services/telegram"
	"github.com/amaumene/streamhub/internal/utils"
	"github.com/amaumene/streamhub/internal/views"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Setup logger
	logger := utils.NewLogger(cfg.LogLevel)
	logger.Info("Starting StreamHub")
	logger.WithField("config_dir", filepath.Dir(cfg.DatabaseFile)).Info("Configuration loaded")

	// 3. Initialize database
	db, err := models.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	logger.Info("Database initialized")

	// 4. Initialize response cache and view batcher
	respCache := cache.NewResponseCache(cfg.CacheTTL, cfg.CacheMaxEntries, logger)
	batcher := views.NewBatcher(db, logger)

	// 5. Initialize Telegram bot (optional subsystem)
	var botHandler *bot.Handler
	if cfg.BotEnabled() {
		tgClient, err := telegram.NewClient(cfg, logger)
		if err != nil {
			logger.WithError(err).Warn("Telegram initialization failed, bot disabled")
		} else {
			botHandler = bot.NewHandler(tgClient.API(), db, respCache, logger)
			logger.Info("Telegram bot initialized")

			if cfg.AppURL != "" {
				if err := tgClient.RegisterWebhook(context.Background(), cfg.AppURL, cfg.BotToken); err != nil {
					logger.WithError(err).Warn("Failed to register Telegram webhook")
				}
			} else {
				logger.Warn("APP_URL not set, skipping webhook registration")
			}
		}
	} else {
		logger.Warn("BOT_TOKEN not set, bot disabled")
	}

	// 6. Initialize scheduler
	sched := scheduler.NewScheduler(batcher, respCache, cfg.FlushInterval, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	// 7. Initialize HTTP server
	server := api.NewServer(cfg, db, respCache, batcher, botHandler, logger)

	// Start server in goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	// 8. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("StreamHub is running")

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	logger.Info("StreamHub stopped")
	return nil
}
