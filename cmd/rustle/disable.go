// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"rustle/internal/experiment"
)

// disableParams bundles the dependencies and flags for the disable command.
// Unlike enable, disable never refreshes the package lists: the packages to
// remove are already present.
type disableParams struct {
	stdout      io.Writer
	stderr      io.Writer
	experiments []*experiment.Experiment
	style       string
	yes         bool
}

// newDisableCommand creates the `rustle disable` command.
func newDisableCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "disable",
		Short: "Restore the original utilities and remove the experiments",
		Long: `Restore the original utilities and remove the experiments.

Every binary an experiment replaced is restored from its backup, then
the experiment's package is removed. Experiments that were never
enabled are skipped.`,
		Example: `  # Disable the default experiments
  sudo rustle disable

  # Disable everything without prompting
  sudo rustle disable -y --all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			setup, err := app.setupMutation(cmd)
			if err != nil {
				return err
			}

			return runDisable(cmd.Context(), disableParams{
				stdout:      app.stdout,
				stderr:      app.stderr,
				experiments: setup.selected,
				style:       setup.style,
				yes:         yes,
			})
		},
	}
}

// runDisable is the core disable flow, separated from Cobra for
// testability. Each experiment restores its backups before its package is
// removed, so a failed removal still leaves a fully restored system.
func runDisable(ctx context.Context, p disableParams) error {
	if err := confirmOrAbort(p.yes); err != nil {
		return err
	}

	for _, e := range p.experiments {
		enabled := e.Installed(ctx)
		if err := e.Disable(ctx); err != nil {
			return reportPackageFailure(p.stderr, err, p.style)
		}
		if enabled {
			fmt.Fprintf(p.stdout, "%s Disabled %s\n", SuccessStyle.Render("✓"), e.Name())
		}
	}
	return nil
}
