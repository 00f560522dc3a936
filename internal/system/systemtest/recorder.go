// SPDX-License-Identifier: MPL-2.0

package systemtest

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"rustle/internal/system"
)

var _ system.Worker = (*Recorder)(nil)

// Recorder is a system.Worker that touches nothing. Package operations
// append their command line to Commands, file operations mutate a fake
// filesystem of paths, and tests assert on the recorded state afterwards.
//
// The zero value is not usable; construct one with NewRecorder.
type Recorder struct {
	// Dist is what Distribution reports. DistErr, when set, wins.
	Dist    system.Distribution
	DistErr error

	// Commands holds every recorded command line, oldest first.
	Commands []string

	// Installed tracks package state. CheckInstalled reads it,
	// InstallPackage and RemovePackage mutate it.
	Installed map[string]bool

	// Existing is the fake filesystem: the set of paths that exist.
	Existing map[string]bool

	// Paths maps a command name to the path Which resolves it to.
	Paths map[string]string

	// Results and Errs override the outcome of Run for a given command
	// line. Without an entry Run succeeds with an empty result.
	Results map[string]system.CommandResult
	Errs    map[string]error

	// Symlinks maps target to source for every symlink in place.
	Symlinks map[string]string

	// BackedUp and Restored list the paths handed to BackupFile and
	// RestoreFile, in call order.
	BackedUp []string
	Restored []string
}

// NewRecorder returns a Recorder reporting Ubuntu 24.04, with no packages
// installed and an empty filesystem.
func NewRecorder() *Recorder {
	return &Recorder{
		Dist:      system.Distribution{ID: system.DistributionUbuntu, Release: "24.04"},
		Installed: map[string]bool{},
		Existing:  map[string]bool{},
		Paths:     map[string]string{},
		Results:   map[string]system.CommandResult{},
		Errs:      map[string]error{},
		Symlinks:  map[string]string{},
	}
}

// AddFile registers path in the fake filesystem. With onPath set, the base
// name also resolves through Which.
func (r *Recorder) AddFile(path string, onPath bool) {
	r.Existing[path] = true
	if onPath {
		r.Paths[filepath.Base(path)] = path
	}
}

// MarkInstalled flips a package to installed without recording a command.
func (r *Recorder) MarkInstalled(name string) {
	r.Installed[name] = true
}

// Distribution reports the configured distribution. Probing the host is not
// a package operation, so nothing is recorded.
func (r *Recorder) Distribution(_ context.Context) (system.Distribution, error) {
	if r.DistErr != nil {
		return system.Distribution{}, r.DistErr
	}
	return r.Dist, nil
}

// Run records the command line and returns whatever result the test
// configured for it.
func (r *Recorder) Run(_ context.Context, cmd system.Command) (system.CommandResult, error) {
	line := cmd.String()
	r.Commands = append(r.Commands, line)
	if err, ok := r.Errs[line]; ok {
		return system.CommandResult{ExitCode: 1}, err
	}
	return r.Results[line], nil
}

func (r *Recorder) UpdatePackageLists(ctx context.Context) error {
	_, err := r.Run(ctx, system.NewCommand("apt-get", "update"))
	return err
}

// InstallPackage records the installation and marks the package installed.
func (r *Recorder) InstallPackage(ctx context.Context, name string) error {
	if _, err := r.Run(ctx, system.NewCommand("apt-get", "install", "-y", name)); err != nil {
		return err
	}
	r.Installed[name] = true
	return nil
}

// RemovePackage records the removal and marks the package absent.
func (r *Recorder) RemovePackage(ctx context.Context, name string) error {
	if _, err := r.Run(ctx, system.NewCommand("apt-get", "remove", "-y", name)); err != nil {
		return err
	}
	r.Installed[name] = false
	return nil
}

// CheckInstalled reads the recorded package state without recording a
// command, matching the real worker's read-only probe.
func (r *Recorder) CheckInstalled(_ context.Context, name string) bool {
	return r.Installed[name]
}

// ListFiles returns the registered paths directly inside directory, sorted.
func (r *Recorder) ListFiles(directory string) ([]string, error) {
	var files []string
	for path := range r.Existing {
		if filepath.Dir(path) == directory {
			files = append(files, path)
		}
	}
	sort.Strings(files)
	return files, nil
}

// Which resolves name through the paths registered with AddFile.
func (r *Recorder) Which(name string) (string, error) {
	path, ok := r.Paths[name]
	if !ok {
		return "", fmt.Errorf("%s not found", name)
	}
	return path, nil
}

// ReplaceFileWithSymlink mirrors the real sequencing: targets that are
// already symlinks are left alone, existing files are backed up before the
// symlink is recorded, and missing targets simply gain the link.
func (r *Recorder) ReplaceFileWithSymlink(source, target string) error {
	if _, ok := r.Symlinks[target]; ok {
		return nil
	}
	if r.Existing[target] {
		if err := r.BackupFile(target); err != nil {
			return err
		}
	}
	return r.CreateSymlink(source, target)
}

// BackupFile records the backup and adds the backup path to the filesystem.
func (r *Recorder) BackupFile(path string) error {
	r.BackedUp = append(r.BackedUp, path)
	r.Existing[system.BackupPath(path)] = true
	return nil
}

// RestoreFile records the restore request. The fake filesystem only changes
// when a backup is registered; the real worker's missing-backup tolerance is
// exercised against a real filesystem instead.
func (r *Recorder) RestoreFile(target string) error {
	r.Restored = append(r.Restored, target)
	backup := system.BackupPath(target)
	if r.Existing[backup] {
		delete(r.Existing, backup)
		delete(r.Symlinks, target)
		r.Existing[target] = true
	}
	return nil
}

// CreateSymlink records the link, replacing whatever held target before.
func (r *Recorder) CreateSymlink(source, target string) error {
	r.Symlinks[target] = source
	r.Existing[target] = true
	return nil
}
