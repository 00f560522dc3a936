// SPDX-License-Identifier: MPL-2.0

package config

import "context"

// LoadOptions defines explicit configuration loading inputs. The zero value
// means "resolve the config file the usual way": config directory first,
// then the current directory.
type LoadOptions struct {
	// ConfigFilePath forces loading from a specific file when set.
	ConfigFilePath string
	// ConfigDirPath overrides the config directory lookup when set.
	ConfigDirPath string
}

// Provider loads configuration from explicit options. Unlike the package
// cache in global.go, a Provider holds no state between calls.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Config, error)
}

// NewProvider creates a configuration provider backed by the filesystem.
func NewProvider() Provider {
	return fsProvider{}
}

type fsProvider struct{}

func (fsProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
