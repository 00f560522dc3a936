// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// FormatError rewrites a CUE error into "<file-path>: <json-path>: <message>"
// form, one line per underlying error. Errors that did not come out of the
// CUE evaluator are wrapped with the file path and left otherwise intact.
//
// Examples:
//   - config.cue: apt.command: conflicting values 42 and string
//   - config.cue: experiments[1]: conflicting values true and string
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	var cueErr cueerrors.Error
	if !errors.As(err, &cueErr) {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	var lines []string
	for _, e := range cueerrors.Errors(err) {
		pathStr := formatPath(cueerrors.Path(e))
		msg := e.Error()

		// CUE sometimes includes the path in the message itself.
		if pathStr != "" && strings.HasPrefix(msg, pathStr) {
			msg = strings.TrimPrefix(msg, pathStr)
			msg = strings.TrimPrefix(msg, ":")
			msg = strings.TrimSpace(msg)
		}

		if pathStr != "" {
			lines = append(lines, pathStr+": "+msg)
		} else {
			lines = append(lines, msg)
		}
	}

	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", filePath, lines[0])
	}
	return fmt.Errorf("%s: validation failed:\n  %s", filePath, strings.Join(lines, "\n  "))
}

// formatPath renders a CUE error path in JSON-path notation. CUE reports
// paths as flat string slices where numeric elements are list indices, so
// ["experiments", "0"] becomes "experiments[0]".
func formatPath(path []string) string {
	if len(path) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(path[0])
	for _, part := range path[1:] {
		if isAllDigits(part) {
			b.WriteString("[")
			b.WriteString(part)
			b.WriteString("]")
		} else {
			b.WriteString(".")
			b.WriteString(part)
		}
	}
	return b.String()
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize rejects data larger than maxSize bytes before it reaches the
// CUE evaluator.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes",
			filename, len(data), maxSize)
	}
	return nil
}
