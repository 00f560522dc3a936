// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidExperimentName is returned when an ExperimentName value is empty or whitespace-only.
	ErrInvalidExperimentName = errors.New("invalid experiment name")
	// ErrInvalidAptCommandLine is returned when an AptCommandLine value is whitespace-only.
	ErrInvalidAptCommandLine = errors.New("invalid apt command")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// Config holds the application configuration.
	Config struct {
		// Experiments selects the experiments acted on when the command line
		// names none. Empty means the built-in default selection.
		Experiments []ExperimentName `json:"experiments" mapstructure:"experiments"`
		// Apt configures package manager behavior.
		Apt AptConfig `json:"apt" mapstructure:"apt"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// AptConfig configures package manager behavior.
	AptConfig struct {
		// Command overrides the command used for package operations.
		Command AptCommandLine `json:"command,omitempty" mapstructure:"command"`
		// UpdateBeforeEnable refreshes the package lists before enabling
		// experiments. Defaults to true.
		UpdateBeforeEnable bool `json:"update_before_enable" mapstructure:"update_before_enable"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme for rendered output.
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// ExperimentName identifies an experiment in a config file, e.g.
	// "coreutils" or "sudo-rs". A valid name must be non-empty and not
	// whitespace-only; whether the name exists in the catalog is decided at
	// selection time.
	ExperimentName string

	// AptCommandLine is the shell-quoted command used for package operations,
	// e.g. "apt-get" or "sudo apt-get -o Dpkg::Options::=--force-confold".
	// The zero value ("") is valid and means "use apt-get from PATH".
	// Non-zero values must not be whitespace-only.
	AptCommandLine string

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidExperimentNameError reports an empty or whitespace-only
	// ExperimentName. It wraps ErrInvalidExperimentName for errors.Is.
	InvalidExperimentNameError struct {
		Value ExperimentName
	}

	// InvalidAptCommandLineError reports a non-empty but whitespace-only
	// AptCommandLine. It wraps ErrInvalidAptCommandLine for errors.Is.
	InvalidAptCommandLineError struct {
		Value AptCommandLine
	}

	// InvalidColorSchemeError reports an unrecognized ColorScheme. It wraps
	// ErrInvalidColorScheme for errors.Is.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidConfigError collects the field-level failures of a Config. It
	// wraps ErrInvalidConfig for errors.Is.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the built-in defaults: no configured experiment
// selection, apt-get from PATH with a list refresh before enable, automatic
// color scheme.
func DefaultConfig() *Config {
	return &Config{
		Experiments: []ExperimentName{},
		Apt: AptConfig{
			Command:            "",
			UpdateBeforeEnable: true,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}

// IsValid reports whether every field of the Config is valid, collecting
// the failures of all sections into a single InvalidConfigError.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	for _, name := range c.Experiments {
		if valid, fieldErrs := name.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if valid, fieldErrs := c.Apt.Command.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// ExperimentNames returns the configured experiment names as plain strings,
// in config order.
func (c *Config) ExperimentNames() []string {
	names := make([]string, len(c.Experiments))
	for i, name := range c.Experiments {
		names[i] = string(name)
	}
	return names
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// String returns the name as a plain string.
func (n ExperimentName) String() string { return string(n) }

// IsValid reports whether the name could refer to an experiment: non-empty
// and not whitespace-only.
func (n ExperimentName) IsValid() (bool, []error) {
	if strings.TrimSpace(string(n)) == "" {
		return false, []error{&InvalidExperimentNameError{Value: n}}
	}
	return true, nil
}

func (e *InvalidExperimentNameError) Error() string {
	return fmt.Sprintf("invalid experiment name %q: must be non-empty", e.Value)
}

func (e *InvalidExperimentNameError) Unwrap() error { return ErrInvalidExperimentName }

// String returns the command line as a plain string.
func (c AptCommandLine) String() string { return string(c) }

// IsValid reports whether the command line is usable. The zero value is
// valid; a non-empty value must contain more than whitespace.
func (c AptCommandLine) IsValid() (bool, []error) {
	if c == "" {
		return true, nil
	}
	if strings.TrimSpace(string(c)) == "" {
		return false, []error{&InvalidAptCommandLineError{Value: c}}
	}
	return true, nil
}

func (e *InvalidAptCommandLineError) Error() string {
	return fmt.Sprintf("invalid apt command %q: non-empty value must not be whitespace-only", e.Value)
}

func (e *InvalidAptCommandLineError) Unwrap() error { return ErrInvalidAptCommandLine }

// String returns the scheme as a plain string.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid reports whether the scheme is one of auto, dark, or light.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }
