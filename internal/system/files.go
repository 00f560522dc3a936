// SPDX-License-Identifier: MPL-2.0

package system

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// BackupSuffix is the extension appended to backup files.
const BackupSuffix = ".rustle.bak"

// BackupPath returns the backup location for path: a hidden sibling in the
// same directory. For /usr/bin/date that is /usr/bin/.date.rustle.bak.
func BackupPath(path string) string {
	return filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+BackupSuffix)
}

// ReplaceFileWithSymlink points target at source. If target is already a
// symlink nothing happens, regardless of where it points. If target is a
// regular file it is backed up first, then replaced. A missing target simply
// gains the symlink.
func (s *System) ReplaceFileWithSymlink(source, target string) error {
	info, err := os.Lstat(target)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s.CreateSymlink(source, target)
	case err != nil:
		return fmt.Errorf("failed to inspect %s: %w", target, err)
	case info.Mode()&os.ModeSymlink != 0:
		s.logger.Debug("skipping, symlink already exists", "target", target)
		return nil
	}

	if err := s.BackupFile(target); err != nil {
		return err
	}
	return s.CreateSymlink(source, target)
}

// BackupFile copies path to its backup location. The original's file mode is
// re-applied to the copy afterwards: setuid, setgid, and sticky bits do not
// survive the copy itself.
func (s *System) BackupFile(path string) error {
	backup := BackupPath(path)
	s.logger.Debug("backing up file", "path", path, "backup", backup)

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to back up %s: %w", path, err)
	}
	if err := copyFile(path, backup); err != nil {
		return fmt.Errorf("failed to back up %s: %w", path, err)
	}
	if err := os.Chmod(backup, info.Mode()); err != nil {
		return fmt.Errorf("failed to restore permissions on %s: %w", backup, err)
	}
	return nil
}

// RestoreFile moves the backup of target back over target, reinstating the
// original content and mode in a single rename. Without a backup the call is
// a no-op: there is nothing to restore, which is normal for files that were
// never replaced.
func (s *System) RestoreFile(target string) error {
	backup := BackupPath(target)

	if _, err := os.Lstat(backup); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("no backup found, skipping restore", "target", target)
			return nil
		}
		return fmt.Errorf("failed to inspect backup %s: %w", backup, err)
	}

	s.logger.Debug("restoring file", "backup", backup, "target", target)
	if err := os.Rename(backup, target); err != nil {
		return fmt.Errorf("failed to restore %s: %w", target, err)
	}
	return nil
}

// CreateSymlink links target to source, removing whatever currently occupies
// target first.
func (s *System) CreateSymlink(source, target string) error {
	s.logger.Debug("creating symlink", "source", source, "target", target)

	if _, err := os.Lstat(target); err == nil {
		if err := os.Remove(target); err != nil {
			return fmt.Errorf("failed to remove %s: %w", target, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to inspect %s: %w", target, err)
	}

	if err := os.Symlink(source, target); err != nil {
		return fmt.Errorf("failed to link %s to %s: %w", target, source, err)
	}
	return nil
}

// copyFile streams source into dest, creating or truncating dest. Close
// errors on the destination are surfaced via the named return.
func copyFile(source, dest string) (err error) {
	src, err := os.Open(source)
	if err != nil {
		return err
	}
	defer src.Close() //nolint:errcheck // read-only handle

	dst, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := dst.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	_, err = io.Copy(dst, src)
	return err
}
