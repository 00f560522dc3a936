// SPDX-License-Identifier: MPL-2.0

package system

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestBackupPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "absolute path", path: "/etc/hosts", want: "/etc/.hosts.rustle.bak"},
		{name: "binary under /usr/bin", path: "/usr/bin/date", want: "/usr/bin/.date.rustle.bak"},
		{name: "bare file name", path: "config", want: ".config.rustle.bak"},
		{name: "hidden file", path: ".hidden", want: "..hidden.rustle.bak"},
		{name: "relative path", path: "dir/file.txt", want: filepath.Join("dir", ".file.txt.rustle.bak")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := BackupPath(tt.path); got != tt.want {
				t.Errorf("BackupPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestBackupFile_PreservesContentAndMode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "date")
	writeFile(t, target, "original binary")
	if err := os.Chmod(target, 0o755); err != nil {
		t.Fatal(err)
	}

	s := newTestSystem()
	if err := s.BackupFile(target); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	backup := filepath.Join(dir, ".date.rustle.bak")
	content, err := os.ReadFile(backup)
	if err != nil {
		t.Fatalf("backup not readable: %v", err)
	}
	if string(content) != "original binary" {
		t.Errorf("backup content = %q, want %q", content, "original binary")
	}

	info, err := os.Stat(backup)
	if err != nil {
		t.Fatal(err)
	}
	if got := info.Mode().Perm(); got != 0o755 {
		t.Errorf("backup mode = %v, want %v", got, os.FileMode(0o755))
	}
}

func TestBackupFile_PreservesSetuid(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "sudo")
	writeFile(t, target, "#!/bin/sh\n")
	if err := os.Chmod(target, 0o755|os.ModeSetuid); err != nil {
		t.Fatal(err)
	}

	s := newTestSystem()
	if err := s.BackupFile(target); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, err := os.Stat(BackupPath(target))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode()&os.ModeSetuid == 0 {
		t.Error("backup lost the setuid bit")
	}
	if got := info.Mode().Perm(); got != 0o755 {
		t.Errorf("backup mode = %v, want %v", got, os.FileMode(0o755))
	}
}

func TestBackupFile_MissingSource(t *testing.T) {
	t.Parallel()

	s := newTestSystem()
	if err := s.BackupFile(filepath.Join(t.TempDir(), "ghost")); err == nil {
		t.Fatal("expected error")
	}
}

func TestReplaceFileWithSymlink_BacksUpAndLinks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	source := filepath.Join(dir, "coreutils")
	target := filepath.Join(dir, "ls")
	writeFile(t, source, "multicall binary")
	writeFile(t, target, "original ls")

	s := newTestSystem()
	if err := s.ReplaceFileWithSymlink(source, target); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dest, err := os.Readlink(target)
	if err != nil {
		t.Fatalf("target is not a symlink: %v", err)
	}
	if dest != source {
		t.Errorf("symlink points at %q, want %q", dest, source)
	}

	content, err := os.ReadFile(BackupPath(target))
	if err != nil {
		t.Fatalf("backup not readable: %v", err)
	}
	if string(content) != "original ls" {
		t.Errorf("backup content = %q, want %q", content, "original ls")
	}
}

func TestReplaceFileWithSymlink_MissingTarget(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	source := filepath.Join(dir, "coreutils")
	target := filepath.Join(dir, "ls")
	writeFile(t, source, "multicall binary")

	s := newTestSystem()
	if err := s.ReplaceFileWithSymlink(source, target); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dest, err := os.Readlink(target); err != nil || dest != source {
		t.Errorf("Readlink = %q, %v, want %q, nil", dest, err, source)
	}
	if _, err := os.Lstat(BackupPath(target)); !os.IsNotExist(err) {
		t.Error("no backup should be created for a missing target")
	}
}

func TestReplaceFileWithSymlink_SecondCallIsNoOp(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	source := filepath.Join(dir, "coreutils")
	target := filepath.Join(dir, "ls")
	writeFile(t, source, "multicall binary")
	writeFile(t, target, "original ls")

	s := newTestSystem()
	if err := s.ReplaceFileWithSymlink(source, target); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.ReplaceFileWithSymlink(source, target); err != nil {
		t.Fatalf("unexpected error on second call: %v", err)
	}

	content, err := os.ReadFile(BackupPath(target))
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "original ls" {
		t.Errorf("backup content = %q, want the original, not the symlinked content", content)
	}
}

func TestReplaceFileWithSymlink_LeavesForeignSymlinkAlone(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	source := filepath.Join(dir, "coreutils")
	target := filepath.Join(dir, "ls")
	writeFile(t, source, "multicall binary")
	if err := os.Symlink(filepath.Join(dir, "nonexistent"), target); err != nil {
		t.Fatal(err)
	}

	s := newTestSystem()
	if err := s.ReplaceFileWithSymlink(source, target); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dest, err := os.Readlink(target)
	if err != nil {
		t.Fatal(err)
	}
	if dest != filepath.Join(dir, "nonexistent") {
		t.Errorf("existing symlink was retargeted to %q", dest)
	}
	if _, err := os.Lstat(BackupPath(target)); !os.IsNotExist(err) {
		t.Error("no backup should be created for an existing symlink")
	}
}

func TestRestoreFile_MovesBackupBack(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	source := filepath.Join(dir, "coreutils")
	target := filepath.Join(dir, "ls")
	writeFile(t, source, "multicall binary")
	writeFile(t, target, "original ls")
	if err := os.Chmod(target, 0o700); err != nil {
		t.Fatal(err)
	}

	s := newTestSystem()
	if err := s.ReplaceFileWithSymlink(source, target); err != nil {
		t.Fatal(err)
	}
	if err := s.RestoreFile(target); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, err := os.Lstat(target)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		t.Fatal("target is still a symlink after restore")
	}
	if got := info.Mode().Perm(); got != 0o700 {
		t.Errorf("restored mode = %v, want %v", got, os.FileMode(0o700))
	}

	content, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "original ls" {
		t.Errorf("restored content = %q, want %q", content, "original ls")
	}
	if _, err := os.Lstat(BackupPath(target)); !os.IsNotExist(err) {
		t.Error("backup should be gone after restore")
	}
}

func TestRestoreFile_NoBackup(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "ls")
	writeFile(t, target, "untouched")

	s := newTestSystem()
	if err := s.RestoreFile(target); err != nil {
		t.Fatalf("expected missing backup to be tolerated, got: %v", err)
	}

	content, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "untouched" {
		t.Errorf("target content = %q, want %q", content, "untouched")
	}
}

func TestCreateSymlink_ReplacesExistingFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	source := filepath.Join(dir, "coreutils")
	target := filepath.Join(dir, "ls")
	writeFile(t, source, "multicall binary")
	writeFile(t, target, "doomed")

	s := newTestSystem()
	if err := s.CreateSymlink(source, target); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dest, err := os.Readlink(target); err != nil || dest != source {
		t.Errorf("Readlink = %q, %v, want %q, nil", dest, err, source)
	}
	if _, err := os.Lstat(BackupPath(target)); !os.IsNotExist(err) {
		t.Error("CreateSymlink must not create backups")
	}
}
