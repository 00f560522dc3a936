// SPDX-License-Identifier: MPL-2.0

// Package systemtest provides an in-memory system.Worker for tests that
// records every package operation instead of executing it.
package systemtest
