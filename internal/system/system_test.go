// SPDX-License-Identifier: MPL-2.0

package system

import (
	"context"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func newTestSystem() *System {
	return New(WithLogger(log.New(io.Discard)))
}

func TestRun_CapturesOutput(t *testing.T) {
	t.Parallel()

	s := newTestSystem()
	result, err := s.Run(context.Background(), NewCommand("sh", "-c", "echo out; echo err >&2"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.TrimSpace(result.Stdout); got != "out" {
		t.Errorf("stdout = %q, want %q", got, "out")
	}
	if got := strings.TrimSpace(result.Stderr); got != "err" {
		t.Errorf("stderr = %q, want %q", got, "err")
	}
	if result.ExitCode != 0 {
		t.Errorf("exit code = %d, want 0", result.ExitCode)
	}
}

func TestRun_NonZeroExit(t *testing.T) {
	t.Parallel()

	s := newTestSystem()
	result, err := s.Run(context.Background(), NewCommand("sh", "-c", "echo boom >&2; exit 3"))
	if err == nil {
		t.Fatal("expected error")
	}
	if result.ExitCode != 3 {
		t.Errorf("exit code = %d, want 3", result.ExitCode)
	}
	if !strings.Contains(err.Error(), "status 3") {
		t.Errorf("error does not mention the exit status: %v", err)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error does not carry stderr: %v", err)
	}
}

func TestRun_MissingBinary(t *testing.T) {
	t.Parallel()

	s := newTestSystem()
	result, err := s.Run(context.Background(), NewCommand("rustle-no-such-binary"))
	if err == nil {
		t.Fatal("expected error")
	}
	if result.ExitCode != -1 {
		t.Errorf("exit code = %d, want -1", result.ExitCode)
	}
}

func TestListFiles_ReturnsSortedPaths(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"ls", "cp", "date"} {
		writeFile(t, filepath.Join(dir, name), "binary")
	}

	s := newTestSystem()
	got, err := s.ListFiles(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		filepath.Join(dir, "cp"),
		filepath.Join(dir, "date"),
		filepath.Join(dir, "ls"),
	}
	if !slices.Equal(got, want) {
		t.Errorf("ListFiles = %v, want %v", got, want)
	}
}

func TestListFiles_MissingDirectory(t *testing.T) {
	t.Parallel()

	s := newTestSystem()
	if _, err := s.ListFiles(filepath.Join(t.TempDir(), "ghost")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestListFiles_NotADirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "file")
	writeFile(t, path, "not a directory")

	s := newTestSystem()
	if _, err := s.ListFiles(path); err == nil {
		t.Fatal("expected error for non-directory")
	}
}

func TestWhich_FindsShell(t *testing.T) {
	t.Parallel()

	s := newTestSystem()
	path, err := s.Which("sh")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !filepath.IsAbs(path) {
		t.Errorf("expected absolute path, got %q", path)
	}
}

func TestWhich_UnknownBinary(t *testing.T) {
	t.Parallel()

	s := newTestSystem()
	if _, err := s.Which("rustle-no-such-binary"); err == nil {
		t.Fatal("expected error")
	}
}
