// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"rustle/internal/config"
	"rustle/internal/experiment"
	"rustle/internal/system"
)

// selectionFlags captures the command-line selection state, decoupled from
// Cobra so the resolution rules can be tested directly.
type selectionFlags struct {
	// All selects the whole catalog, overriding Names.
	All bool
	// Names holds the --experiments values. When the flag was not given
	// this is the flag's default set.
	Names []string
	// NamesChanged reports whether --experiments was given explicitly.
	NamesChanged bool
}

// selectionFromCommand reads the selection flags for cmd.
func selectionFromCommand(cmd *cobra.Command) selectionFlags {
	return selectionFlags{
		All:          allExperiments,
		Names:        experimentNames,
		NamesChanged: cmd.Flags().Changed("experiments"),
	}
}

// resolveExperiments maps the selection flags and the configuration onto
// catalog entries. --all wins over everything; an explicit --experiments
// beats the configured list, which beats the flag's default set. Unknown
// names are an error.
func resolveExperiments(flags selectionFlags, cfg *config.Config, w system.Worker) ([]*experiment.Experiment, error) {
	catalog := experiment.All(w)

	if flags.All {
		if flags.NamesChanged {
			log.Warn("Ignoring --experiments flag as --all is set")
		}
		return catalog, nil
	}

	names := flags.Names
	if !flags.NamesChanged && len(cfg.Experiments) > 0 {
		names = cfg.ExperimentNames()
	}

	return experiment.Select(catalog, names)
}
