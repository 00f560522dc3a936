// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"testing"
)

// Chdir switches the working directory to dir and restores the original one
// when the test ends.
func Chdir(t testing.TB, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(orig); err != nil {
			t.Errorf("restore working directory %s: %v", orig, err)
		}
	})
}

// Setenv sets key to value and restores the previous state when the test
// ends. It exists alongside testing.T.Setenv because helpers here only hold
// a testing.TB.
func Setenv(t testing.TB, key, value string) {
	t.Helper()
	prev, had := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("setenv %s: %v", key, err)
	}
	t.Cleanup(func() { restoreEnv(t, key, prev, had) })
}

// Unsetenv clears key and restores the previous value, if any, when the
// test ends.
func Unsetenv(t testing.TB, key string) {
	t.Helper()
	prev, had := os.LookupEnv(key)
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unsetenv %s: %v", key, err)
	}
	t.Cleanup(func() { restoreEnv(t, key, prev, had) })
}

func restoreEnv(t testing.TB, key, prev string, had bool) {
	t.Helper()
	var err error
	if had {
		err = os.Setenv(key, prev)
	} else {
		err = os.Unsetenv(key)
	}
	if err != nil {
		t.Errorf("restore env %s: %v", key, err)
	}
}

// MkdirAll creates path along with any missing parents, failing the test on
// error.
func MkdirAll(t testing.TB, path string, perm os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(path, perm); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}
