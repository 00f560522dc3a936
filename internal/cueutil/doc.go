// SPDX-License-Identifier: MPL-2.0

// Package cueutil wraps the CUE compile-unify-validate flow behind a generic
// decode function and formats evaluator errors with JSON-path context.
package cueutil
