// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

// ActionableError carries enough context to tell the user what failed and
// what to try next: the attempted operation, the resource involved, and
// remediation suggestions. The cmd layer renders it through Format;
// everywhere else it behaves like a regular wrapped error.
//
// Most call sites build one through the ErrorContext builder:
//
//	err := issue.NewErrorContext().
//		WithOperation("load configuration").
//		WithResource("~/.config/rustle/config.cue").
//		WithSuggestion("Run 'rustle config init' to create a default one").
//		Wrap(parseErr).
//		BuildError()
type ActionableError struct {
	// Operation is the verb phrase that failed, e.g. "install package"
	// or "restore backup".
	Operation string

	// Resource is the file, package, or experiment involved. Optional.
	Resource string

	// Suggestions are remediation hints shown under the message. Optional.
	Suggestions []string

	// Cause is the underlying error. Optional.
	Cause error
}

// Error returns the concise one-line form:
// "failed to <operation>[: <resource>][: <cause>]".
func (e *ActionableError) Error() string {
	parts := []string{"failed to " + e.Operation}
	if e.Resource != "" {
		parts = append(parts, e.Resource)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders the error for terminal output: the one-line message, then
// one bullet per suggestion. With verbose set, the numbered cause chain is
// appended so nested wrapping stays inspectable.
func (e *ActionableError) Format(verbose bool) string {
	var b strings.Builder
	b.WriteString(e.Error())

	if len(e.Suggestions) > 0 {
		b.WriteString("\n")
	}
	for _, hint := range e.Suggestions {
		b.WriteString("\n  • " + hint)
	}

	if verbose && e.Cause != nil {
		b.WriteString("\n\nError chain:")
		depth := 1
		for err := e.Cause; err != nil; err = errors.Unwrap(err) {
			fmt.Fprintf(&b, "\n  %d. %s", depth, err.Error())
			depth++
		}
	}

	return b.String()
}

// ErrorContext accumulates ActionableError fields step by step. A context
// can be prepared before the failing call and completed with Wrap once the
// call returns.
type ErrorContext struct {
	operation   string
	resource    string
	suggestions []string
	cause       error
}

// NewErrorContext starts an empty builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// WithOperation sets the failed operation, a verb phrase like "install
// package". Build refuses a context without one.
func (c *ErrorContext) WithOperation(operation string) *ErrorContext {
	c.operation = operation
	return c
}

// WithResource names the file, package, or experiment involved.
func (c *ErrorContext) WithResource(resource string) *ErrorContext {
	c.resource = resource
	return c
}

// WithSuggestion appends one remediation hint. Call repeatedly to stack them.
func (c *ErrorContext) WithSuggestion(hint string) *ErrorContext {
	c.suggestions = append(c.suggestions, hint)
	return c
}

// WithSuggestions appends several remediation hints at once.
func (c *ErrorContext) WithSuggestions(hints ...string) *ErrorContext {
	c.suggestions = append(c.suggestions, hints...)
	return c
}

// Wrap records the underlying error as the cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.cause = err
	return c
}

// Build assembles the ActionableError. A context without an operation
// produces nil.
func (c *ErrorContext) Build() *ActionableError {
	if c.operation == "" {
		return nil
	}
	return &ActionableError{
		Operation:   c.operation,
		Resource:    c.resource,
		Suggestions: c.suggestions,
		Cause:       c.cause,
	}
}

// BuildError is Build typed as error for direct use in return statements. A
// missing operation yields an untyped nil, never a typed-nil pointer.
func (c *ErrorContext) BuildError() error {
	ae := c.Build()
	if ae == nil {
		return nil
	}
	return ae
}

// WrapWithOperation attaches an operation to err. It returns nil when err is
// nil so call sites can wrap unconditionally.
func WrapWithOperation(err error, operation string) *ActionableError {
	if err == nil {
		return nil
	}
	return &ActionableError{Operation: operation, Cause: err}
}

// WrapWithContext attaches an operation and a resource to err, with the same
// nil passthrough as WrapWithOperation.
func WrapWithContext(err error, operation, resource string) *ActionableError {
	if err == nil {
		return nil
	}
	return &ActionableError{Operation: operation, Resource: resource, Cause: err}
}
