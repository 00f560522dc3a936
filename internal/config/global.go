// SPDX-License-Identifier: MPL-2.0

package config

import "context"

// Package-level cache for the CLI entry path. Cobra's initialization hook
// loads configuration once; command handlers read the cached value through
// Get(). The provider API in provider.go is the stateless alternative.
var (
	// configDirOverride allows tests to override the config directory.
	// This is necessary because os.UserHomeDir() doesn't reliably respect
	// the HOME environment variable in every CI environment.
	configDirOverride string

	// configFilePathOverride forces loading from an explicit file,
	// set from the --config flag before the first Load().
	configFilePathOverride string

	// globalConfig is the cached result of the last successful Load().
	globalConfig *Config

	// configPath is the file the cached config was loaded from; empty when
	// defaults are in effect.
	configPath string

	// errLastLoad records the most recent load failure so Get() callers can
	// surface it after falling back to defaults.
	errLastLoad error
)

// Load returns the cached configuration, loading it on first use. The
// --config override, the config directory, and the current directory are
// consulted in that order.
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	cfg, path, err := loadWithOptions(context.Background(), LoadOptions{ConfigFilePath: configFilePathOverride})
	if err != nil {
		errLastLoad = err
		return nil, err
	}

	globalConfig = cfg
	configPath = path
	errLastLoad = nil
	return cfg, nil
}

// Get returns the loaded configuration, falling back to defaults when
// loading fails. The failure is retained and available via LastLoadError.
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// LastLoadError returns the error from the most recent failed load, or nil
// when the last load succeeded.
func LastLoadError() error {
	return errLastLoad
}

// ConfigFilePath returns the path of the loaded config file. It is empty
// before the first Load() and when defaults are in effect.
func ConfigFilePath() string {
	return configPath
}

// SetConfigDirOverride sets a custom config directory path.
// This is primarily intended for testing to bypass os.UserHomeDir() which
// doesn't reliably respect the HOME env var in every CI environment.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// SetConfigFilePathOverride forces subsequent loads to read the given file
// exclusively. Any cached configuration is discarded.
func SetConfigFilePathOverride(path string) {
	configFilePathOverride = path
	ResetCache()
}

// ResetCache discards the cached configuration while keeping overrides in
// place, forcing the next Load() to hit the disk again.
func ResetCache() {
	globalConfig = nil
	configPath = ""
	errLastLoad = nil
}

// Reset clears the cache and all overrides. Call from test cleanup to
// restore defaults.
func Reset() {
	ResetCache()
	configDirOverride = ""
	configFilePathOverride = ""
}
