// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"rustle/internal/experiment"
)

// newStatusCommand creates the `rustle status` command, a read-only listing
// of every cataloged experiment. It issues no mutating operations and does
// not require root.
func newStatusCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show every experiment and whether it is enabled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runStatus(cmd.Context(), app)
		},
	}
}

func runStatus(ctx context.Context, app *App) error {
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}

	w, err := app.worker(cfg)
	if err != nil {
		return err
	}

	out := app.stdout
	fmt.Fprintln(out, TitleStyle.Render("Experiments"))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s%s%s%s\n",
		SubtitleStyle.Width(12).Render("NAME"),
		SubtitleStyle.Width(17).Render("PACKAGE"),
		SubtitleStyle.Width(14).Render("STATE"),
		SubtitleStyle.Render("SUPPORTED RELEASES"),
	)

	for _, e := range experiment.All(w) {
		state := SubtitleStyle.Width(14).Render("disabled")
		switch {
		case e.Installed(ctx):
			state = SuccessStyle.Width(14).Render("enabled")
		case !e.Compatible(ctx):
			state = WarningStyle.Width(14).Render("incompatible")
		}

		fmt.Fprintf(out, "  %s%s%s%s\n",
			CmdStyle.Width(12).Render(e.Name()),
			VerboseStyle.Width(17).Render(e.PackageName()),
			state,
			SubtitleStyle.Render(e.ReleaseRequirement()),
		)
	}
	return nil
}
