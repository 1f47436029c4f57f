package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	v "github.com/renderq/renderq/pkg/version"
)

// NewVersionCommand prints build metadata for the named executable.
func NewVersionCommand(executable string) *cobra.Command {
	var (
		shortOnly bool
		checkMin  string
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if checkMin != "" {
				ok, err := v.CheckMinimum(checkMin)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("version %s does not satisfy %q", v.Version, checkMin)
				}
			}

			info := v.Get()
			fmt.Fprintf(cmd.OutOrStdout(), "%s version: %s\n", executable, info.Version)
			if shortOnly {
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Commit: %s\n", info.Commit)
			fmt.Fprintf(cmd.OutOrStdout(), "Build Date: %s\n", info.BuildDate)
			fmt.Fprintf(cmd.OutOrStdout(), "Go Version: %s\n", info.GoVersion)
			fmt.Fprintf(cmd.OutOrStdout(), "Platform: %s\n", info.Platform)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&shortOnly, "short", "s", false, "Print only the version number")
	cmd.Flags().StringVar(&checkMin, "check", "", "Fail unless the version satisfies this semver constraint (e.g. '>= 1.2.0')")

	return cmd
}
