// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"rustle/internal/config"
	"rustle/internal/issue"
	"rustle/internal/system"
)

// newConfigCommand creates the `rustle config` command tree. Subcommands
// that read configuration go through the App's ConfigProvider.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage rustle configuration",
		Long: `Manage rustle configuration.

Configuration is stored in ~/.config/rustle/config.cue (or under
$XDG_CONFIG_HOME when set). A config.cue in the working directory is
used when no file exists there.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show current configuration",
			RunE:  func(cmd *cobra.Command, args []string) error { return showConfig(cmd.Context(), app) },
		},
		&cobra.Command{
			Use:   "init",
			Short: "Create default configuration file",
			RunE:  func(cmd *cobra.Command, args []string) error { return initConfig(app) },
		},
		&cobra.Command{
			Use:   "path",
			Short: "Show configuration file path",
			RunE:  func(cmd *cobra.Command, args []string) error { return showConfigPath(app) },
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Set a configuration value",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return setConfigValue(cmd.Context(), app, args[0], args[1])
			},
		},
		&cobra.Command{
			Use:   "dump",
			Short: "Output raw configuration as CUE",
			RunE:  func(cmd *cobra.Command, args []string) error { return dumpConfig(cmd.Context(), app) },
		},
	)

	return cfgCmd
}

// configFilePathIn returns the standard config file path under dir.
func configFilePathIn(dir string) string {
	return filepath.Join(dir, config.ConfigFileName+"."+config.ConfigFileExt)
}

// truthy matches the loose boolean forms accepted on the command line.
func truthy(value string) bool {
	return value == "true" || value == "1"
}

func showConfig(ctx context.Context, app *App) error {
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}

	out := app.stdout
	fmt.Fprintln(out, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(out)

	// The package cache records which file the last Load actually used;
	// empty means every candidate location was missing.
	if path := config.ConfigFilePath(); path != "" {
		fmt.Fprintf(out, "%s: %s\n", CmdStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(out, "%s: %s\n", CmdStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "%s:\n", CmdStyle.Render("experiments"))
	if len(cfg.Experiments) == 0 {
		fmt.Fprintf(out, "  %s\n", SubtitleStyle.Render("(none configured, built-in defaults apply)"))
	} else {
		for _, name := range cfg.Experiments {
			fmt.Fprintf(out, "  - %s\n", SuccessStyle.Render(name.String()))
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", CmdStyle.Render("apt"))
	if cfg.Apt.Command == "" {
		fmt.Fprintf(out, "  command: %s\n", SubtitleStyle.Render("(apt-get from PATH)"))
	} else {
		fmt.Fprintf(out, "  command: %s\n", SuccessStyle.Render(cfg.Apt.Command.String()))
	}
	fmt.Fprintf(out, "  update_before_enable: %s\n", SuccessStyle.Render(fmt.Sprintf("%v", cfg.Apt.UpdateBeforeEnable)))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", CmdStyle.Render("ui"))
	fmt.Fprintf(out, "  color_scheme: %s\n", SuccessStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(out, "  verbose: %s\n", SuccessStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}

func initConfig(app *App) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	cfgPath := configFilePathIn(cfgDir)

	if err := config.CreateDefaultConfig(); err != nil {
		return issue.WrapWithContext(err, "create configuration file", cfgPath)
	}

	fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), cfgPath)
	return nil
}

func showConfigPath(app *App) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "Config directory: %s\nConfig file: %s\n", cfgDir, configFilePathIn(cfgDir))
	return nil
}

func dumpConfig(ctx context.Context, app *App) error {
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}

	fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
	return nil
}

func setConfigValue(ctx context.Context, app *App, key, value string) error {
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}

	switch key {
	case "experiments":
		var names []config.ExperimentName
		if value != "" {
			for _, raw := range strings.Split(value, ",") {
				name := config.ExperimentName(strings.TrimSpace(raw))
				if ok, errs := name.IsValid(); !ok {
					return fmt.Errorf("invalid experiment name %q: %w", raw, errors.Join(errs...))
				}
				names = append(names, name)
			}
		}
		cfg.Experiments = names

	case "apt.command":
		if value != "" {
			if _, err := system.ParseAptOverride(value); err != nil {
				return err
			}
		}
		cfg.Apt.Command = config.AptCommandLine(value)

	case "apt.update_before_enable":
		cfg.Apt.UpdateBeforeEnable = truthy(value)

	case "ui.color_scheme":
		scheme := config.ColorScheme(value)
		if ok, _ := scheme.IsValid(); !ok {
			return fmt.Errorf("invalid ui.color_scheme: must be 'auto', 'dark', or 'light'")
		}
		cfg.UI.ColorScheme = scheme

	case "ui.verbose":
		cfg.UI.Verbose = truthy(value)

	default:
		return fmt.Errorf("unknown configuration key: %s\nValid keys: experiments, apt.command, apt.update_before_enable, ui.color_scheme, ui.verbose", key)
	}

	// Final whole-config check before persisting: the per-key validation
	// above covers the new value, this covers everything already loaded.
	if ok, errs := cfg.IsValid(); !ok {
		return errors.Join(errs...)
	}

	if err := config.Save(cfg); err != nil {
		return issue.WrapWithOperation(err, "save configuration")
	}

	fmt.Fprintf(app.stdout, "%s Set %s = %s\n", SuccessStyle.Render("✓"), key, value)
	return nil
}
