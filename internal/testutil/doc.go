// SPDX-License-Identifier: MPL-2.0

// Package testutil carries small test helpers shared across packages:
// environment and working-directory overrides that restore themselves via
// t.Cleanup, plus the shared container-test semaphore.
package testutil
