// SPDX-License-Identifier: MPL-2.0

// Package config loads and persists rustle's configuration, a CUE file read
// through Viper.
//
// The file is resolved from $XDG_CONFIG_HOME/rustle/config.cue (defaulting
// to ~/.config/rustle/config.cue), falling back to ./config.cue when no
// user-level file exists. It carries the experiment selection, the apt
// override, and the UI settings; everything is validated against the schema
// in config_schema.cue before use, so callers only ever see well-formed
// values.
package config
