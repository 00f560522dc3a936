// SPDX-License-Identifier: MPL-2.0

package system

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

type (
	// System is the Worker implementation that acts on the real host. It
	// shells out to lsb_release, the apt tooling, and dpkg-query, and
	// performs file substitutions directly on the filesystem.
	System struct {
		// aptCommand is the argv prefix used for package operations,
		// e.g. ["apt-get"]. Subcommands and package names are appended.
		aptCommand []string

		logger *log.Logger

		// The distribution probe shells out twice; the result cannot
		// change for the life of the process, so it is gathered once.
		distOnce sync.Once
		dist     Distribution
		distErr  error
	}

	// Option configures a System.
	Option func(*System)
)

// WithAptCommand overrides the argv prefix used for package operations.
// Empty slices are ignored.
func WithAptCommand(argv []string) Option {
	return func(s *System) {
		if len(argv) > 0 {
			s.aptCommand = argv
		}
	}
}

// WithLogger overrides the logger, primarily for tests.
func WithLogger(logger *log.Logger) Option {
	return func(s *System) {
		s.logger = logger
	}
}

// New creates a System bound to the default apt-get tooling.
func New(opts ...Option) *System {
	s := &System{
		aptCommand: []string{aptCommandName},
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Distribution reports the host's distributor ID and release via lsb_release.
// The probe runs once; later calls return the cached result.
func (s *System) Distribution(ctx context.Context) (Distribution, error) {
	s.distOnce.Do(func() {
		id, err := s.runTrimmed(ctx, NewCommand("lsb_release", "-is"))
		if err != nil {
			s.distErr = fmt.Errorf("determine distribution id: %w", err)
			return
		}
		release, err := s.runTrimmed(ctx, NewCommand("lsb_release", "-rs"))
		if err != nil {
			s.distErr = fmt.Errorf("determine distribution release: %w", err)
			return
		}
		s.dist = Distribution{ID: id, Release: release}
	})
	return s.dist, s.distErr
}

// Run executes cmd and captures its output. A non-zero exit status becomes
// an error carrying the command's stderr; the captured result is returned
// either way.
func (s *System) Run(ctx context.Context, cmd Command) (CommandResult, error) {
	s.logger.Debug("running command", "command", cmd.String())

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	result := CommandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, fmt.Errorf("command %q failed with status %d: %s",
				cmd.String(), result.ExitCode, strings.TrimSpace(result.Stderr))
		}
		result.ExitCode = -1
		return result, fmt.Errorf("failed to run %q: %w", cmd.String(), err)
	}

	return result, nil
}

// runTrimmed runs cmd and returns its stdout with surrounding whitespace
// removed.
func (s *System) runTrimmed(ctx context.Context, cmd Command) (string, error) {
	result, err := s.Run(ctx, cmd)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result.Stdout), nil
}

// ListFiles returns the full paths of the entries in directory, sorted by
// name. A missing path or a non-directory is an error.
func (s *System) ListFiles(directory string) ([]string, error) {
	info, err := os.Stat(directory)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", directory, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("failed to list %s: not a directory", directory)
	}

	entries, err := os.ReadDir(directory)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", directory, err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		files = append(files, filepath.Join(directory, entry.Name()))
	}
	return files, nil
}

// Which resolves a binary name against PATH.
func (s *System) Which(name string) (string, error) {
	return exec.LookPath(name)
}
