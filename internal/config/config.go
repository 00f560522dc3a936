// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"rustle/internal/cueutil"
	"rustle/internal/issue"
	"rustle/internal/system"
)

const (
	// AppName is the application name.
	AppName = "rustle"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the rustle configuration directory. The tool only runs on
// Linux, so the lookup follows the XDG convention: $XDG_CONFIG_HOME when set,
// ~/.config otherwise.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, AppName), nil
}

// configFileName returns the config file basename, "config.cue".
func configFileName() string {
	return ConfigFileName + "." + ConfigFileExt
}

// loadWithOptions performs one option-driven load with no package-level
// caching; the cached entry points in global.go wrap it. The returned string
// is the path of the file that was merged, empty when defaults were used.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	applyDefaults(v)

	path, err := resolveConfigFile(opts)
	if err != nil {
		return nil, "", err
	}
	if path != "" {
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, "", invalidConfigError(path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validateExperiments(cfg.Experiments); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithSuggestion("Remove the duplicate entry from the experiments list").
			WithSuggestion("Run 'rustle status' to see the known experiments").
			Wrap(err).
			BuildError()
	}
	if err := validateAptCommand(cfg.Apt.Command); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithSuggestion("Quote apt.command arguments as a POSIX shell would").
			WithSuggestion("Leave apt.command empty to use apt-get from PATH").
			Wrap(err).
			BuildError()
	}

	return &cfg, path, nil
}

// applyDefaults seeds v with the built-in defaults so fields absent from the
// config file keep their documented values after the merge.
func applyDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("experiments", defaults.Experiments)
	v.SetDefault("apt.command", defaults.Apt.Command)
	v.SetDefault("apt.update_before_enable", defaults.Apt.UpdateBeforeEnable)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
}

// resolveConfigFile picks the configuration file for this load. An explicit
// --config path is used exclusively and must exist. Otherwise the first of
// <config dir>/config.cue and ./config.cue wins, and neither existing means
// defaults only, which is not an error.
func resolveConfigFile(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestions(
					"Verify the file path is correct",
					"Check that the file exists and is readable",
					"Use 'rustle config show' to see the effective configuration").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	dir := opts.ConfigDirPath
	if dir == "" {
		var err error
		dir, err = ConfigDir()
		if err != nil {
			return "", err
		}
	}

	if path := filepath.Join(dir, configFileName()); fileExists(path) {
		return path, nil
	}
	if fileExists(configFileName()) {
		return configFileName(), nil
	}
	return "", nil
}

// invalidConfigError wraps a config parse or schema failure with pointers at
// the offending file.
func invalidConfigError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithSuggestion("Check that the file contains valid CUE syntax").
		WithSuggestion("Verify the configuration values match the expected schema").
		WithSuggestion("See 'rustle config --help' for configuration options").
		Wrap(err).
		BuildError()
}

// loadCUEIntoViper parses path, validates it against the embedded #Config
// schema, and merges the result over v's defaults. Validation runs
// non-concrete: every field is optional and defaults fill the gaps.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	result, err := cueutil.ParseAndDecodeString[map[string]any](configSchema, data, "#Config",
		cueutil.WithFilename(path),
		cueutil.WithConcrete(false))
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(*result.Value); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// validateExperiments checks experiment entries for constraints that CUE
// cannot express: every name must be non-empty and listed at most once.
func validateExperiments(experiments []ExperimentName) error {
	seen := make(map[ExperimentName]int) // name -> index of first occurrence

	for i, name := range experiments {
		if valid, errs := name.IsValid(); !valid {
			return fmt.Errorf("experiments[%d]: %w", i, errs[0])
		}
		if firstIdx, exists := seen[name]; exists {
			return fmt.Errorf("experiments[%d]: duplicate experiment %q (same as experiments[%d])", i, name, firstIdx)
		}
		seen[name] = i
	}

	return nil
}

// validateAptCommand splits a non-empty apt command with POSIX word-splitting
// rules to catch quoting mistakes at load time instead of at first use.
func validateAptCommand(command AptCommandLine) error {
	if command == "" {
		return nil
	}
	if _, err := system.ParseAptOverride(string(command)); err != nil {
		return fmt.Errorf("apt.command: %w", err)
	}
	return nil
}

// fileExists reports whether path is an existing regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// EnsureConfigDir creates the configuration directory if it is missing.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// defaultConfigPath returns the file Save and CreateDefaultConfig write to,
// creating the configuration directory on the way.
func defaultConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return filepath.Join(dir, configFileName()), nil
}

// CreateDefaultConfig writes a config file holding the built-in defaults,
// leaving any existing file untouched.
func CreateDefaultConfig() error {
	path, err := defaultConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return writeConfig(path, DefaultConfig())
}

// Save writes cfg to the default config file location.
func Save(cfg *Config) error {
	path, err := defaultConfigPath()
	if err != nil {
		return err
	}
	return writeConfig(path, cfg)
}

func writeConfig(path string, cfg *Config) error {
	if err := os.WriteFile(path, []byte(GenerateCUE(cfg)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateCUE renders cfg as a commented CUE document, the format Save and
// `rustle config init` write. Empty optional fields are omitted.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// rustle configuration file.\n")
	sb.WriteString("// Experiments listed here apply when the command line names none.\n")

	if len(cfg.Experiments) > 0 {
		sb.WriteString("\nexperiments: [\n")
		for _, name := range cfg.Experiments {
			sb.WriteString(fmt.Sprintf("\t%q,\n", name))
		}
		sb.WriteString("]\n")
	}

	sb.WriteString("\napt: {\n")
	if cfg.Apt.Command != "" {
		sb.WriteString(fmt.Sprintf("\tcommand: %q\n", cfg.Apt.Command))
	}
	sb.WriteString(fmt.Sprintf("\tupdate_before_enable: %v\n", cfg.Apt.UpdateBeforeEnable))
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	sb.WriteString(fmt.Sprintf("\tcolor_scheme: %q\n", cfg.UI.ColorScheme))
	sb.WriteString(fmt.Sprintf("\tverbose: %v\n", cfg.UI.Verbose))
	sb.WriteString("}\n")

	return sb.String()
}
