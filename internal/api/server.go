package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/streamhub/internal/api/handlers"
	"github.com/amaumene/streamhub/internal/api/middleware"
	"github.com/amaumene/streamhub/internal/bot"
	"github.com/amaumene/streamhub/internal/cache"
	"github.com/amaumene/streamhub/internal/config"
	"github.com/amaumene/streamhub/internal/models"
	"github.com/amaumene/streamhub/internal/views"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	logger *logrus.Logger
}

// NewServer creates the HTTP server with all routes configured. botHandler
// may be nil when the bot subsystem is disabled.
func NewServer(
	cfg *config.Config,
	db *models.Database,
	respCache *cache.ResponseCache,
	batcher *views.Batcher,
	botHandler *bot.Handler,
	logger *logrus.Logger,
) *Server {
	s := &Server{logger: logger}

	mux := http.NewServeMux()
	s.setupRoutes(mux, cfg, db, respCache, batcher, botHandler)

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      middleware.Logging(mux, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(
	mux *http.ServeMux,
	cfg *config.Config,
	db *models.Database,
	respCache *cache.ResponseCache,
	batcher *views.Batcher,
	botHandler *bot.Handler,
) {
	mux.Handle("/", handlers.NewIndexHandler())
	mux.Handle("/health", handlers.NewHealthHandler(db, s.logger))
	mux.Handle("/metrics", promhttp.Handler())

	// Public content API
	contentHandler := handlers.NewContentHandler(db, respCache, s.logger)
	mux.HandleFunc("/api/content", contentHandler.ServeList)
	mux.HandleFunc("/api/content/", contentHandler.ServeItem)

	mux.Handle("/api/track-view", handlers.NewTrackHandler(batcher, s.logger))

	// Admin API
	adminHandler := handlers.NewAdminHandler(db, respCache, s.logger)
	mux.Handle("/api/admin/content",
		middleware.BasicAuth(http.HandlerFunc(adminHandler.ServeCreate), cfg.AdminUsername, cfg.AdminPassword))
	mux.Handle("/api/admin/content/",
		middleware.BasicAuth(http.HandlerFunc(adminHandler.ServeDelete), cfg.AdminUsername, cfg.AdminPassword))

	// Telegram webhook, routed by bot token so only Telegram knows the path
	if cfg.BotToken != "" {
		mux.Handle("/"+cfg.BotToken, handlers.NewWebhookHandler(botHandler, s.logger))
	}
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
