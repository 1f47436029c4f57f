package app

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/renderq/renderq/pkg/config"
	"github.com/renderq/renderq/pkg/server/api"
	"github.com/renderq/renderq/pkg/server/httpx"
	"github.com/renderq/renderq/pkg/server/jobs"
)

// App orchestrates the server runtime components:
// - HTTP server (job API + health endpoints)
// - Per-category job queues
// - Lifecycle management
type App struct {
	HTTP     *http.Server
	Registry *jobs.Registry
	Ready    *atomic.Bool
	Config   config.ServerConfig
	Deps     *Deps
}

// New creates and configures a new server application.
func New(cfg config.Config, deps *Deps) (*App, error) {
	deps.Logger.Info().Msg("Initializing server application")

	if err := cfg.Server.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server config: %w", err)
	}

	processor := deps.Processor
	if processor == nil {
		processor = jobs.NewSimulatedProcessor(deps.Logger)
	}

	registry := jobs.NewRegistry(cfg.Queues, processor, deps.Logger)

	ready := &atomic.Bool{}
	apiDeps := &api.Deps{
		Registry: registry,
		Config:   api.DefaultConfig(),
		Ready:    ready,
	}

	// Create router with all endpoints mounted
	router := httpx.NewRouter(cfg.Server, apiDeps)

	if cfg.Server.APIEnabled {
		deps.Logger.Info().Msg("API endpoints enabled")
	} else {
		deps.Logger.Warn().Msg("API endpoints disabled")
	}

	// Create HTTP server with middleware
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Addr, cfg.Server.Port),
		Handler:      httpx.Chain(router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &App{
		HTTP:     httpServer,
		Registry: registry,
		Ready:    ready,
		Config:   cfg.Server,
		Deps:     deps,
	}, nil
}

// Run starts the server and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	a.Deps.Logger.Info().
		Str("addr", a.HTTP.Addr).
		Bool("api", a.Config.APIEnabled).
		Int("categories", len(a.Registry.Categories())).
		Msg("Starting RenderQ server")

	// Start HTTP server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		if err := a.HTTP.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	// Mark as ready
	a.Ready.Store(true)
	a.Deps.Logger.Info().Msg("Server is ready and accepting connections")

	// Wait for shutdown signal or server error
	select {
	case <-ctx.Done():
		a.Deps.Logger.Info().Msg("Shutdown signal received")
	case err := <-serverErr:
		a.Deps.Logger.Error().Err(err).Msg("Server error")
		return err
	}

	// Graceful shutdown
	return a.shutdown()
}

// shutdown performs graceful shutdown of all components.
func (a *App) shutdown() error {
	a.Deps.Logger.Info().Msg("Initiating graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Mark as not ready
	a.Ready.Store(false)

	// Shutdown HTTP server
	a.Deps.Logger.Info().Msg("Shutting down HTTP server...")
	if err := a.HTTP.Shutdown(shutdownCtx); err != nil {
		a.Deps.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
		return err
	}
	a.Deps.Logger.Info().Msg("HTTP server stopped")

	// Close queues, waiting for the in-flight job on each. Jobs still
	// in a backlog are dropped - queue state is in-memory only.
	a.Deps.Logger.Info().Msg("Closing job queues...")
	if err := a.Registry.Close(shutdownCtx); err != nil {
		a.Deps.Logger.Error().Err(err).Msg("Queue shutdown failed")
		return err
	}
	a.Deps.Logger.Info().Msg("Job queues closed")

	a.Deps.Logger.Info().Msg("Server shutdown complete")
	return nil
}
