// SPDX-License-Identifier: MPL-2.0

package system

import (
	"context"
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/shell"
)

// aptCommandName is the default package manager binary.
const aptCommandName = "apt-get"

// PackageManagerError reports a failed package manager invocation. Callers
// match it with errors.As to distinguish apt failures from file engine
// failures.
type PackageManagerError struct {
	// Op is the apt subcommand that failed: "update", "install" or "remove".
	Op string
	// Pkg is the package being acted on, empty for list updates.
	Pkg string
	Err error
}

func (e *PackageManagerError) Error() string {
	if e.Pkg == "" {
		return fmt.Sprintf("failed to %s package lists: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("failed to %s package %s: %v", e.Op, e.Pkg, e.Err)
}

func (e *PackageManagerError) Unwrap() error { return e.Err }

// ParseAptOverride splits a shell-quoted apt command override (for example
// "apt-get -o Dpkg::Options::=--force-confold") into argv form. The string
// is parsed with POSIX word-splitting rules; no shell is ever invoked.
func ParseAptOverride(override string) ([]string, error) {
	fields, err := shell.Fields(override, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid apt command %q: %w", override, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("invalid apt command %q: no command given", override)
	}
	return fields, nil
}

// apt assembles a package manager invocation from the configured argv
// prefix, a subcommand, and its arguments.
func (s *System) apt(args ...string) Command {
	return Command{
		Name: s.aptCommand[0],
		Args: append(append([]string{}, s.aptCommand[1:]...), args...),
	}
}

// UpdatePackageLists refreshes the apt package lists.
func (s *System) UpdatePackageLists(ctx context.Context) error {
	s.logger.Debug("updating package lists")
	if _, err := s.Run(ctx, s.apt("update")); err != nil {
		return &PackageManagerError{Op: "update", Err: err}
	}
	return nil
}

// InstallPackage installs a package without prompting.
func (s *System) InstallPackage(ctx context.Context, name string) error {
	s.logger.Debug("installing package", "package", name)
	if _, err := s.Run(ctx, s.apt("install", "-y", name)); err != nil {
		return &PackageManagerError{Op: "install", Pkg: name, Err: err}
	}
	return nil
}

// RemovePackage removes a package without prompting.
func (s *System) RemovePackage(ctx context.Context, name string) error {
	s.logger.Debug("removing package", "package", name)
	if _, err := s.Run(ctx, s.apt("remove", "-y", name)); err != nil {
		return &PackageManagerError{Op: "remove", Pkg: name, Err: err}
	}
	return nil
}

// CheckInstalled reports whether a package is installed according to
// dpkg-query. Any failure, including dpkg-query being absent, reports the
// package as not installed.
func (s *System) CheckInstalled(ctx context.Context, name string) bool {
	result, err := s.Run(ctx, NewCommand("dpkg-query", "-s", name))
	if err != nil {
		return false
	}
	// dpkg-query exits zero for removed-but-not-purged packages too; the
	// status line distinguishes a real installation.
	return strings.Contains(result.Stdout, "Status: install ok installed")
}
