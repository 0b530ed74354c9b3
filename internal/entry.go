// Package internal provides the main application initialization and runtime logic.
package internal

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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/othala/internal/api"
	"github.com/starford/othala/internal/mcpserver"
	"github.com/starford/othala/internal/resource"
	"github.com/starford/othala/internal/sse"
	"github.com/starford/othala/internal/store"
	"github.com/starford/othala/internal/web"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("store_mode", cfg.Store.Mode),
		slog.Int("resources", len(cfg.Resources)),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Build the immutable schema table; it never changes after this point.
	table, err := cfg.SchemaTable()
	if err != nil {
		return fmt.Errorf("build schema table: %w", err)
	}

	// Initialize the store client.
	var client store.Client
	switch cfg.Store.Mode {
	case StoreModeRemote:
		client = store.NewRemote(cfg.Store.Endpoint, nil)
	default:
		db, err := store.OpenSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return fmt.Errorf("init embedded store: %w", err)
		}
		defer db.Close()
		client = db
	}

	// SSE broker, fed by pipeline change events.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	svc := resource.NewService(table, client, broker.PublishChange)

	if app.mcpMode {
		logger.Info("Starting MCP server on stdio")
		return mcpserver.New(svc).ServeStdio()
	}

	views, err := web.NewViews()
	if err != nil {
		return fmt.Errorf("init views: %w", err)
	}

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints.
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// SSE endpoint.
	r.Get("/events", broker.ServeHTTP)

	// JSON API under /api, HTML UI at the root.
	r.Mount("/api", api.NewRouter(svc))
	r.Mount("/", web.NewRouter(svc, views, cfg.UI.ListDetailLevel))

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
