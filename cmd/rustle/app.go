// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"rustle/internal/config"
	"rustle/internal/experiment"
	"rustle/internal/issue"
	"rustle/internal/system"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: command handlers receive an App reference and
	// reach the host only through its Worker and its ConfigProvider.
	App struct {
		Config  ConfigProvider
		System  system.Worker
		Geteuid func() int
		stdout  io.Writer
		stderr  io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp. Tests supply a
	// Recorder worker and a stub provider to stay off the real host.
	Dependencies struct {
		Config  ConfigProvider
		System  system.Worker
		Geteuid func() int
		Stdout  io.Writer
		Stderr  io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	// This abstraction enables testing with custom config sources or mock
	// implementations.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// mutationSetup is everything a mutating command needs once the shared
	// guards have passed.
	mutationSetup struct {
		cfg      *config.Config
		worker   system.Worker
		selected []*experiment.Experiment
		style    string
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Geteuid == nil {
		deps.Geteuid = os.Geteuid
	}

	return &App{
		Config:  deps.Config,
		System:  deps.System,
		Geteuid: deps.Geteuid,
		stdout:  deps.Stdout,
		stderr:  deps.Stderr,
	}
}

// worker returns the Worker commands act through. An injected Worker wins;
// otherwise a System is built from the loaded configuration, including the
// shell-quoted apt command override.
func (a *App) worker(cfg *config.Config) (system.Worker, error) {
	if a.System != nil {
		return a.System, nil
	}

	var opts []system.Option
	if override := cfg.Apt.Command.String(); override != "" {
		argv, err := system.ParseAptOverride(override)
		if err != nil {
			return nil, fmt.Errorf("apt.command: %w", err)
		}
		opts = append(opts, system.WithAptCommand(argv))
	}
	return system.New(opts...), nil
}

// loadConfig loads configuration through the provider, honoring the --config
// flag. Failures render the guidance card before the error is returned.
func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		renderIssue(a.stderr, issue.ConfigLoadFailedId, config.ColorSchemeAuto.String())
		return nil, err
	}
	return cfg, nil
}

// setupMutation runs the shared preconditions for enable and disable: load
// the configuration, construct the worker, require root, gate on Ubuntu,
// and resolve the experiment selection. The root check comes before any
// probe of the host.
func (a *App) setupMutation(cmd *cobra.Command) (*mutationSetup, error) {
	ctx := cmd.Context()

	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	style := cfg.UI.ColorScheme.String()

	w, err := a.worker(cfg)
	if err != nil {
		return nil, err
	}

	if a.Geteuid() != 0 {
		renderIssue(a.stderr, issue.NotRootId, style)
		return nil, errors.New("This program must be run as root")
	}

	dist, err := w.Distribution(ctx)
	if err != nil {
		return nil, err
	}
	if !dist.IsUbuntu() {
		if !noCompatibilityCheck {
			renderIssue(a.stderr, issue.UnsupportedDistributionId, style)
			return nil, errors.New("This program only supports Ubuntu")
		}
		log.Warn("Running on a non-Ubuntu distribution. This is unsupported and may cause system instability.")
	}

	selected, err := resolveExperiments(selectionFromCommand(cmd), cfg, w)
	if err != nil {
		renderIssue(a.stderr, issue.UnknownExperimentId, style)
		return nil, err
	}

	return &mutationSetup{cfg: cfg, worker: w, selected: selected, style: style}, nil
}

// renderIssue writes the guidance card for id. The card accompanies an error
// that is returned anyway, so rendering failures are ignored.
func renderIssue(w io.Writer, id issue.Id, style string) {
	rendered, err := issue.Get(id).Render(style)
	if err != nil {
		return
	}
	fmt.Fprint(w, rendered)
}

// reportPackageFailure renders the package manager guidance card when err
// came out of an apt invocation, then hands the error back unchanged.
func reportPackageFailure(w io.Writer, err error, style string) error {
	var pmErr *system.PackageManagerError
	if errors.As(err, &pmErr) {
		renderIssue(w, issue.PackageManagerFailedId, style)
	}
	return err
}
