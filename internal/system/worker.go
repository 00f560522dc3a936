// SPDX-License-Identifier: MPL-2.0

package system

import "context"

// Worker is the complete set of host capabilities the experiment engine
// needs. Every interaction with the machine - running commands, querying the
// package manager, rewriting binary paths - goes through this interface, so
// a recording double can stand in for the host under test.
type Worker interface {
	// Distribution reports the distribution ID and release of the host.
	Distribution(ctx context.Context) (Distribution, error)

	// Run executes a command and captures its output. A non-zero exit
	// status is returned as an error carrying the command's stderr.
	Run(ctx context.Context, cmd Command) (CommandResult, error)

	// UpdatePackageLists refreshes the package manager's package lists.
	UpdatePackageLists(ctx context.Context) error

	// InstallPackage installs a package non-interactively.
	InstallPackage(ctx context.Context, name string) error

	// RemovePackage removes a package non-interactively.
	RemovePackage(ctx context.Context, name string) error

	// CheckInstalled reports whether a package is currently installed.
	// It never fails: if the state cannot be determined the package is
	// reported as not installed.
	CheckInstalled(ctx context.Context, name string) bool

	// ListFiles returns the full paths of the entries in directory,
	// erroring if the directory does not exist or is not a directory.
	ListFiles(directory string) ([]string, error)

	// Which resolves a binary name against the system PATH.
	Which(name string) (string, error)

	// ReplaceFileWithSymlink points target at source, backing up target
	// first when it is a regular file. A target that is already a symlink
	// is left untouched.
	ReplaceFileWithSymlink(source, target string) error

	// BackupFile copies path to its backup location, preserving the file
	// mode including setuid, setgid, and sticky bits.
	BackupFile(path string) error

	// RestoreFile moves the backup of target back into place. A missing
	// backup is not an error; the current target is left untouched.
	RestoreFile(target string) error

	// CreateSymlink links target to source, removing whatever currently
	// occupies target.
	CreateSymlink(source, target string) error
}
