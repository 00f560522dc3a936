// SPDX-License-Identifier: MPL-2.0

// Package experiment models the swappable Rust replacements for core system
// utilities. An experiment ties an Ubuntu package to the set of system
// binaries it substitutes: enabling installs the package and points each
// binary at its replacement through a symlink, disabling restores the
// original binaries and removes the package again.
//
// The catalog of known experiments lives in registry.go. All host access
// goes through a system.Worker, so the catalog and the lifecycle logic are
// testable without touching the machine.
package experiment
