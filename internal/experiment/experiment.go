// SPDX-License-Identifier: MPL-2.0

package experiment

import (
	"context"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"rustle/internal/system"
)

// Experiment is one swappable utility set from the catalog. The zero value
// is not usable; experiments come from the constructors in registry.go.
type Experiment struct {
	name        string
	packageName string

	// minimumRelease is the oldest Ubuntu release that ships the package.
	// supportedReleases, when set, takes precedence and restricts the
	// experiment to exactly those releases.
	minimumRelease    string
	supportedReleases []string

	// unifiedBinary, when set, is a multicall binary every symlink points
	// at. Otherwise each replacement file is linked individually.
	unifiedBinary string

	// binDirectory is listed to discover the replacement files. files,
	// when set, is used verbatim instead.
	binDirectory string
	files        []string

	system system.Worker
	logger *log.Logger
}

// Option configures an Experiment.
type Option func(*Experiment)

// WithLogger replaces the default logger.
func WithLogger(logger *log.Logger) Option {
	return func(e *Experiment) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Name returns the experiment's catalog name.
func (e *Experiment) Name() string { return e.name }

// PackageName returns the Ubuntu package backing the experiment.
func (e *Experiment) PackageName() string { return e.packageName }

// FirstSupportedRelease returns the oldest Ubuntu release the experiment
// supports.
func (e *Experiment) FirstSupportedRelease() string {
	if len(e.supportedReleases) > 0 {
		return e.supportedReleases[0]
	}
	return e.minimumRelease
}

// ReleaseRequirement describes the releases the experiment supports, for
// warnings and status output.
func (e *Experiment) ReleaseRequirement() string {
	if len(e.supportedReleases) == 0 {
		return e.minimumRelease + " or later"
	}
	if len(e.supportedReleases) == 1 {
		return e.supportedReleases[0]
	}
	last := len(e.supportedReleases) - 1
	return strings.Join(e.supportedReleases[:last], ", ") + " or " + e.supportedReleases[last]
}

// Compatible reports whether the host's release satisfies the experiment's
// requirement. A host whose distribution cannot be determined is treated as
// incompatible.
func (e *Experiment) Compatible(ctx context.Context) bool {
	dist, err := e.system.Distribution(ctx)
	if err != nil {
		e.logger.Debug("could not determine distribution, assuming incompatible", "experiment", e.name, "err", err)
		return false
	}
	if len(e.supportedReleases) > 0 {
		return slices.Contains(e.supportedReleases, dist.Release)
	}
	return dist.AtLeast(e.minimumRelease)
}

// Installed reports whether the experiment's package is installed.
func (e *Experiment) Installed(ctx context.Context) bool {
	return e.system.CheckInstalled(ctx, e.packageName)
}

// Enable installs the experiment's package and replaces each system binary
// it covers with a symlink to its replacement. An incompatible host is
// skipped with a warning rather than an error, unless the compatibility
// check is bypassed.
func (e *Experiment) Enable(ctx context.Context, skipCompatibilityCheck bool) error {
	if !skipCompatibilityCheck && !e.Compatible(ctx) {
		e.logger.Warn("skipping experiment, release requirement not met",
			"experiment", e.name, "requires", e.ReleaseRequirement())
		return nil
	}

	e.logger.Info("installing and configuring package", "experiment", e.name, "package", e.packageName)
	if err := e.system.InstallPackage(ctx, e.packageName); err != nil {
		return err
	}

	files, err := e.fileSet()
	if err != nil {
		return err
	}
	for _, file := range files {
		source := file
		if e.unifiedBinary != "" {
			source = e.unifiedBinary
		}
		if err := e.system.ReplaceFileWithSymlink(source, e.targetFor(file)); err != nil {
			return err
		}
	}
	return nil
}

// Disable restores every binary the experiment covers and then removes the
// package. Removal comes last: deriving the file set needs the package
// present, and a failed removal then leaves a fully restored system. A
// host without the package is skipped with a warning.
func (e *Experiment) Disable(ctx context.Context) error {
	if !e.Installed(ctx) {
		e.logger.Warn("not enabled, skipping restore", "experiment", e.name)
		return nil
	}

	files, err := e.fileSet()
	if err != nil {
		return err
	}
	for _, file := range files {
		if err := e.system.RestoreFile(e.targetFor(file)); err != nil {
			return err
		}
	}

	e.logger.Info("removing package", "experiment", e.name, "package", e.packageName)
	return e.system.RemovePackage(ctx, e.packageName)
}

// fileSet returns the replacement binaries shipped by the package: the
// fixed list when one is declared, otherwise the contents of the package's
// bin directory.
func (e *Experiment) fileSet() ([]string, error) {
	if len(e.files) > 0 {
		return e.files, nil
	}
	return e.system.ListFiles(e.binDirectory)
}

// targetFor maps a replacement binary to the system path it substitutes.
// Fixed-list binaries may live outside /usr/bin (visudo sits in /usr/sbin),
// so those resolve through PATH first; directory-derived binaries always
// land in /usr/bin.
func (e *Experiment) targetFor(file string) string {
	name := filepath.Base(file)
	if len(e.files) > 0 {
		if path, err := e.system.Which(name); err == nil {
			return path
		}
	}
	return filepath.Join("/usr/bin", name)
}
