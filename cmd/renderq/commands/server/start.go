// Package server provides the Cobra command implementation for the
// RenderQ server lifecycle. It wires CLI flags to the server runtime.
package server

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/renderq/renderq/pkg/appctx"
	"github.com/renderq/renderq/pkg/config"
	"github.com/renderq/renderq/pkg/logging"
	"github.com/renderq/renderq/pkg/server/app"
	"github.com/renderq/renderq/pkg/workspace"
)

// newStartServerCommand creates and returns the 'renderq server start' command.
//
// This command initializes the RenderQ server runtime, which includes:
//   - HTTP API server with REST endpoints (/api/v1/jobs, /api/v1/queues)
//   - Health and readiness endpoints (/healthz, /readyz)
//   - One worker goroutine per configured job category
//
// The server runs until interrupted (SIGINT/SIGTERM) or context
// cancellation, then performs graceful shutdown (HTTP close → queues
// drain their in-flight job).
//
// Configuration is loaded from:
//   - Config file (--config renderq.yaml)
//   - Environment variables (RENDERQ_*)
//   - Server-specific flags (--server.addr, --server.port, ...)
//
// Example usage:
//
//	renderq server start
//	renderq server start --server.addr 0.0.0.0 --server.port 8080
//	renderq server start --config /etc/renderq/renderq.yaml
func newStartServerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the RenderQ server",
		Long: `Start the RenderQ server process.

The server hosts the job API and one in-memory queue per configured
category. Each queue executes jobs strictly one at a time in submission
order and keeps finished job records for the configured retention
window.

The server runs until interrupted (Ctrl+C) or killed, performing
graceful shutdown to drain in-flight requests and finish the job
currently being processed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			// Config manager is prepared by the root command.
			cfgMgr, ok := appctx.Config(ctx)
			if !ok {
				return fmt.Errorf("configuration unavailable on command context")
			}

			cfg := cfgMgr.Get()
			applyServerFlags(cmd.Flags(), &cfg.Server)

			if err := cfg.Server.Validate(); err != nil {
				return fmt.Errorf("invalid server config: %w", err)
			}

			logger := logging.NewComponentLogger("server")

			// Hold the workspace lock so two servers never share a root.
			root, ok := workspace.FromContext(ctx)
			if !ok {
				prepared, err := workspace.Prepare(cfg.Server.WorkspaceDir)
				if err != nil {
					return fmt.Errorf("prepare workspace: %w", err)
				}
				root = prepared
			}
			lock, err := workspace.Lock(root)
			if err != nil {
				return err
			}
			defer func() { _ = lock.Unlock() }()

			// Watch the config file (when one is in use) so log level and
			// queue defaults can change without a restart.
			configPath, _ := cmd.Root().PersistentFlags().GetString("config")
			if configPath != "" {
				watcher, werr := config.NewFileWatcher(configPath, func() {
					if rerr := cfgMgr.Reload(config.DefaultSources(configPath, nil, false)); rerr != nil {
						logger.Warn().Err(rerr).Msg("Config reload failed")
						return
					}
					logging.SetLevel(cfgMgr.Get().Log.Level)
					logger.Info().Str("path", configPath).Msg("Configuration reloaded")
				}, logger)
				if werr != nil {
					logger.Warn().Err(werr).Msg("Config watcher unavailable")
				} else {
					go func() { _ = watcher.Start(ctx) }()
					defer func() { _ = watcher.Close() }()
				}
			}

			deps := &app.Deps{
				Config: cfgMgr,
				Logger: logger,
			}

			serverApp, err := app.New(cfg, deps)
			if err != nil {
				return fmt.Errorf("initialize server: %w", err)
			}

			// Run server (blocks until shutdown)
			return serverApp.Run(ctx)
		},
	}

	config.BindServerFlags(cmd.Flags())

	return cmd
}

// applyServerFlags overrides config values with flags the user set
// explicitly. Flags outrank every other configuration source.
func applyServerFlags(flags *pflag.FlagSet, cfg *config.ServerConfig) {
	if flags.Changed("server.addr") {
		cfg.Addr, _ = flags.GetString("server.addr")
	}
	if flags.Changed("server.port") {
		cfg.Port, _ = flags.GetInt("server.port")
	}
	if flags.Changed("server.api_enabled") {
		cfg.APIEnabled, _ = flags.GetBool("server.api_enabled")
	}
	if flags.Changed("server.workspace_dir") {
		cfg.WorkspaceDir, _ = flags.GetString("server.workspace_dir")
	}
	if flags.Changed("server.read_timeout") {
		cfg.ReadTimeout, _ = flags.GetDuration("server.read_timeout")
	}
	if flags.Changed("server.write_timeout") {
		cfg.WriteTimeout, _ = flags.GetDuration("server.write_timeout")
	}
}
