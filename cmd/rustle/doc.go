// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for rustle.
//
// This package implements the Cobra command hierarchy: the root command,
// the mutating enable and disable commands, the read-only status listing,
// and the config management tree. Command handlers delegate to an App,
// the composition root that carries the configuration provider and the
// system worker so tests can substitute both.
package cmd
