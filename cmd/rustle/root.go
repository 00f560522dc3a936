// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"rustle/internal/config"
	"rustle/internal/experiment"
	"rustle/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// yes skips all confirmation prompts
	yes bool
	// allExperiments selects every known experiment
	allExperiments bool
	// experimentNames selects experiments by name
	experimentNames []string
	// noCompatibilityCheck bypasses distribution and release checks
	noCompatibilityCheck bool
	// verbose enables verbose output
	verbose bool
	// quiet restricts output to warnings and errors
	quiet bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "rustle",
		Short: "Replace Ubuntu system utilities with Rust-based alternatives",
		Long: TitleStyle.Render("rustle") + SubtitleStyle.Render(" - Replace Ubuntu system utilities with Rust-based alternatives") + `

rustle installs modern Rust-based replacements for core system
utilities (coreutils, findutils, diffutils, sudo) and links them
into place, keeping a byte-for-byte backup of every file it touches
so the stock utilities can be restored at any time.

Each replacement is an experiment. Experiments are selected with
--experiments or --all, or persistently via the config file.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Check experiment states with: rustle status
  2. Switch the default set with:  sudo rustle enable
  3. Restore the stock tools with: sudo rustle disable --all

` + SubtitleStyle.Render("Examples:") + `
  rustle status                  Show the state of all experiments
  sudo rustle enable             Enable the default experiments
  sudo rustle enable --all       Enable every known experiment
  sudo rustle enable -e sudo-rs  Enable only sudo-rs
  sudo rustle disable --all      Restore all stock utilities
  rustle config show             Show current configuration`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&yes, "yes", "y", false, "skip confirmation prompts")
	rootCmd.PersistentFlags().BoolVarP(&allExperiments, "all", "a", false, "enable or disable all known experiments")
	rootCmd.PersistentFlags().StringSliceVarP(&experimentNames, "experiments", "e", experiment.DefaultNames(), "experiments to enable or disable")
	rootCmd.PersistentFlags().BoolVar(&noCompatibilityCheck, "no-compatibility-check", false, "skip distribution compatibility checks (unsupported)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only report warnings and errors")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/rustle/config.cue)")

	// Subcommands share one App so tests can swap its dependencies
	app := NewApp(Dependencies{})
	rootCmd.AddCommand(newEnableCommand(app))
	rootCmd.AddCommand(newDisableCommand(app))
	rootCmd.AddCommand(newStatusCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))
}

// versionString is what --version prints. Release builds inject the parts
// via -ldflags; a source build reports itself as dev.
func versionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the root command and exits the process on failure. Handlers
// signal a specific exit status by returning an ExitError.
func Execute() {
	// fang wraps Cobra with styled help and errors. It ignores
	// rootCmd.Version, so the version goes in as an option.
	err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(versionString()),
		fang.WithNotifySignal(os.Interrupt),
	)
	if err == nil {
		return
	}

	if exitErr, ok := errors.AsType[*ExitError](err); ok {
		os.Exit(exitErr.Code)
	}
	os.Exit(1)
}

// initRootConfig loads the configuration before any command runs, honoring
// the --config override. A broken config file downgrades to a warning so
// that read-only commands keep working on defaults.
func initRootConfig() {
	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}

	// The config can switch verbose on, but never off, so the flag and the
	// file compose instead of racing.
	if cfg != nil && !verbose {
		verbose = cfg.UI.Verbose
	}

	configureLogging()
}

// configureLogging maps the output flags onto the global logger.
// Quiet wins over verbose when both are set.
func configureLogging() {
	log.SetReportTimestamp(false)

	switch {
	case quiet:
		log.SetLevel(log.WarnLevel)
	case verbose:
		log.SetLevel(log.DebugLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

// formatErrorForDisplay prefers the actionable rendering with suggestions
// when the chain carries one; any other error prints as-is.
func formatErrorForDisplay(err error, verboseMode bool) string {
	if ae, ok := errors.AsType[*issue.ActionableError](err); ok {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
