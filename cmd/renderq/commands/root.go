package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	serverCmd "github.com/renderq/renderq/cmd/renderq/commands/server"
	"github.com/renderq/renderq/pkg/appctx"
	"github.com/renderq/renderq/pkg/config"
	"github.com/renderq/renderq/pkg/logging"
	"github.com/renderq/renderq/pkg/workspace"
)

const cliExecutable = "renderq"

// NewCommand constructs the top-level renderq CLI command, wiring global
// flags, configuration loading, and shared workspace preparation.
func NewCommand() *cobra.Command {
	var (
		configFile   string
		workspaceDir string
	)

	cmd := &cobra.Command{
		Use:   cliExecutable,
		Short: "RenderQ is a queue server for generative media jobs",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")

			manager := config.NewManager()
			if err := manager.Load(config.DefaultSources(configFile, cmd.Flags(), debug)); err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			if err := logging.Configure(manager.Get().Log); err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}

			ctx := appctx.WithConfig(cmd.Context(), manager)

			if workspaceDir == "" {
				workspaceDir = manager.Get().Server.WorkspaceDir
			}
			prepared, err := workspace.Prepare(workspaceDir)
			if err != nil {
				return fmt.Errorf("prepare workspace: %w", err)
			}
			ctx = workspace.WithContext(ctx, prepared)
			log.Debug().Str("workspace", prepared).Msg("workspace ready")

			cmd.SetContext(ctx)
			if root := cmd.Root(); root != nil && root != cmd {
				root.SetContext(ctx)
			}
			return nil
		},
	}

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file path")
	cmd.PersistentFlags().StringVar(&workspaceDir, "workspace-dir", "", "Override workspace root directory")

	config.BindFlags(cmd.PersistentFlags())

	cmd.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands"})

	cmd.AddCommand(serverCmd.NewCommand())
	cmd.AddCommand(NewStatsCommand())
	cmd.AddCommand(NewVersionCommand(cliExecutable))

	return cmd
}
