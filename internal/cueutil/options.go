// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize caps how large a CUE file may be before parsing (5MB).
// Configuration files are tiny; anything larger is a mistake or an attack.
const DefaultMaxFileSize int64 = 5 * 1024 * 1024

type (
	// parseOptions holds configuration for CUE parsing.
	parseOptions struct {
		filename    string
		concrete    bool
		maxFileSize int64
	}

	// Option configures parsing behavior.
	Option func(*parseOptions)
)

func defaultOptions() parseOptions {
	return parseOptions{concrete: true, maxFileSize: DefaultMaxFileSize}
}

// WithFilename sets the filename used in error messages.
func WithFilename(name string) Option {
	return func(o *parseOptions) {
		o.filename = name
	}
}

// WithConcrete sets whether all values must be concrete after unification.
// Defaults to true; disable it for config files whose fields are optional.
func WithConcrete(concrete bool) Option {
	return func(o *parseOptions) {
		o.concrete = concrete
	}
}
