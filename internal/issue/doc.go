// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling for the CLI: errors that
// carry the failed operation, the resource involved and remediation steps,
// plus a small catalog of Markdown guidance cards for the known fatal
// conditions (missing root privileges, unsupported distribution, package
// manager failures, bad experiment selections).
package issue
