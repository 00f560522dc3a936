// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// ParseResult is what a successful parse yields.
type ParseResult[T any] struct {
	// Value is the decoded Go value.
	Value *T

	// Unified is the unified CUE value, kept around so callers can pull
	// additional metadata out of it after decoding.
	Unified cue.Value
}

// ParseAndDecode compiles the embedded schema, compiles the user data,
// unifies the two at schemaPath (e.g. "#Config"), validates the result and
// decodes it into T. Errors carry formatted path information pointing at the
// offending field.
func ParseAndDecode[T any](schema, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	filename := o.filename
	if filename == "" {
		filename = "<input>"
	}

	if err := CheckFileSize(data, o.maxFileSize, filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()

	schemaRoot, err := compileSchema(ctx, schema, schemaPath)
	if err != nil {
		return nil, err
	}

	userValue := ctx.CompileBytes(data, cue.Filename(filename))
	if err := userValue.Err(); err != nil {
		return nil, FormatError(err, filename)
	}

	unified := schemaRoot.Unify(userValue)

	var validateOpts []cue.Option
	if o.concrete {
		validateOpts = append(validateOpts, cue.Concrete(true))
	}
	if err := unified.Validate(validateOpts...); err != nil {
		return nil, FormatError(err, filename)
	}

	var decoded T
	if err := unified.Decode(&decoded); err != nil {
		return nil, FormatError(err, filename)
	}

	return &ParseResult[T]{Value: &decoded, Unified: unified}, nil
}

// ParseAndDecodeString is a convenience wrapper that accepts the schema as a
// string, matching how go:embed exposes embedded schemas.
func ParseAndDecodeString[T any](schema string, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	return ParseAndDecode[T]([]byte(schema), data, schemaPath, opts...)
}

// compileSchema compiles the embedded schema and resolves the definition the
// user data will be unified against. Failures here are bugs in the shipped
// schema, not user error.
func compileSchema(ctx *cue.Context, schema []byte, schemaPath string) (cue.Value, error) {
	v := ctx.CompileBytes(schema)
	if v.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: failed to compile schema: %w", v.Err())
	}
	root := v.LookupPath(cue.ParsePath(schemaPath))
	if root.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, root.Err())
	}
	return root, nil
}
