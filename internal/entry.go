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

	"github.com/starford/recipebook/internal/api"
	"github.com/starford/recipebook/internal/dataset"
	"github.com/starford/recipebook/internal/kvstore"
	"github.com/starford/recipebook/internal/mcpserver"
	"github.com/starford/recipebook/internal/recipeservice"
	"github.com/starford/recipebook/internal/session"
	"github.com/starford/recipebook/internal/sse"
)

// runtime is the state shared by the HTTP and MCP entry points.
type runtime struct {
	cfg      *Config
	logger   *slog.Logger
	catalog  *dataset.Catalog
	kv       kvstore.Store
	sessions *session.Registry
}

func setup(opts []Option) (*runtime, error) {
	app := &application{logOutput: os.Stdout}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(app.logOutput, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("dataset_path", cfg.Dataset.Path),
		slog.String("store_backend", cfg.Store.Backend),
		slog.String("store_path", cfg.Store.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	cat, err := dataset.Load(cfg.Dataset.Path)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	logger.Info("Dataset loaded",
		slog.Int("recipes", cat.Len()),
		slog.String("checksum", cat.Checksum()))

	kv, err := kvstore.Open(cfg.Store.Backend, cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open favorites store: %w", err)
	}

	return &runtime{
		cfg:      cfg,
		logger:   logger,
		catalog:  cat,
		kv:       kv,
		sessions: session.NewRegistry(kv, logger, session.WithCapacity(cfg.Store.MaxSessions)),
	}, nil
}

// Run starts the HTTP application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	rt, err := setup(opts)
	if err != nil {
		return err
	}
	defer rt.kv.Close()

	cfg, logger := rt.cfg, rt.logger

	// SSE broker.
	broker := sse.NewBroker(cfg.Events.ReloadThrottle)
	defer broker.Close()

	svc := recipeservice.NewService(rt.catalog, rt.sessions, broker, cfg.Catalog.MaxStars)
	appRouter := api.NewRouter(svc, api.RouterOptions{
		AuthEnabled:    cfg.Auth.AuthEnabled(),
		Token:          cfg.Auth.Token,
		Events:         broker,
		ImagesDir:      cfg.Dataset.ImagesDir,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		SecureCookie:   cfg.App.HTTP.SecureCookies,
	})

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := rt.kv.Get(r.Context(), "health", "ready"); err != nil && !errors.Is(err, kvstore.ErrNotFound) {
			logger.Warn("readiness check failed", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Page, API and images.
	r.Mount("/", appRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	// Open event streams never go idle; end them when shutdown starts.
	httpServer.RegisterOnShutdown(broker.Close)

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Reload the dataset on change and tell connected pages.
	if cfg.Dataset.Watch && rt.catalog.Path() != "" {
		g.Go(func() error {
			err := dataset.Watch(gCtx, rt.catalog, logger, func(recipes int) {
				broker.PublishReload(recipes)
			})
			if err != nil {
				// A broken watcher leaves the served catalog intact.
				logger.Error("dataset watcher failed", slog.String("error", err.Error()))
			}
			return nil
		})
	}

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
		defer signal.Stop(quit)

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

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown stops the errgroup once the server has been shut down, so
// the watcher goroutine sees a cancelled context.
var errShutdown = errors.New("shutdown")

// RunMCP serves the MCP tools on stdio until the client disconnects.
// Logs go to stderr since stdout carries the protocol.
func RunMCP(_ context.Context, opts ...Option) error {
	rt, err := setup(append([]Option{WithLogOutput(os.Stderr)}, opts...))
	if err != nil {
		return err
	}
	defer rt.kv.Close()

	svc := recipeservice.NewService(rt.catalog, rt.sessions, nil, rt.cfg.Catalog.MaxStars)
	rt.logger.Info("Starting MCP server on stdio", slog.Int("recipes", rt.catalog.Len()))
	if err := mcpserver.New(svc).ServeStdio(); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
