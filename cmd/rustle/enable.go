// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"rustle/internal/experiment"
	"rustle/internal/system"
)

// enableParams bundles the dependencies and flags for the enable command,
// keeping the core logic in runEnable testable without a Cobra command or
// a real host.
type enableParams struct {
	stdout      io.Writer
	stderr      io.Writer
	worker      system.Worker
	experiments []*experiment.Experiment
	style       string
	yes         bool
	skipChecks  bool
	updateLists bool
}

// newEnableCommand creates the `rustle enable` command.
func newEnableCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "enable",
		Short: "Install the selected experiments and switch the system over",
		Long: `Install the selected experiments and switch the system over.

For every selected experiment the Ubuntu package shipping the Rust
rewrite is installed, each covered system binary is backed up, and the
original path becomes a symlink to the replacement. The backups are
byte-for-byte copies; 'rustle disable' puts them back.`,
		Example: `  # Enable the default experiments (coreutils, sudo-rs)
  sudo rustle enable

  # Enable a single experiment without prompting
  sudo rustle enable -y -e coreutils

  # Enable everything the catalog knows
  sudo rustle enable --all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			setup, err := app.setupMutation(cmd)
			if err != nil {
				return err
			}

			return runEnable(cmd.Context(), enableParams{
				stdout:      app.stdout,
				stderr:      app.stderr,
				worker:      setup.worker,
				experiments: setup.selected,
				style:       setup.style,
				yes:         yes,
				skipChecks:  noCompatibilityCheck,
				updateLists: setup.cfg.Apt.UpdateBeforeEnable,
			})
		},
	}
}

// runEnable is the core enable flow, separated from Cobra for testability.
//
// Flow:
//  1. Confirm with the user (unless --yes).
//  2. Refresh the apt package lists (unless disabled in config).
//  3. Enable each selected experiment in catalog order, stopping at the
//     first failure so a broken host is not mutated further.
func runEnable(ctx context.Context, p enableParams) error {
	if err := confirmOrAbort(p.yes); err != nil {
		return err
	}

	if p.updateLists {
		log.Info("Updating apt package cache")
		if err := p.worker.UpdatePackageLists(ctx); err != nil {
			return reportPackageFailure(p.stderr, err, p.style)
		}
	}

	for _, e := range p.experiments {
		if err := e.Enable(ctx, p.skipChecks); err != nil {
			return reportPackageFailure(p.stderr, err, p.style)
		}
		// Enable skips incompatible hosts with a warning; only the ones
		// that actually switched get a success line.
		if e.Installed(ctx) {
			fmt.Fprintf(p.stdout, "%s Enabled %s\n", SuccessStyle.Render("✓"), e.Name())
		}
	}
	return nil
}
