// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  ActionableError
		want string
	}{
		{"operation only", ActionableError{Operation: "install package"}, "failed to install package"},
		{"with resource", ActionableError{Operation: "install package", Resource: "rust-coreutils"}, "failed to install package: rust-coreutils"},
		{"with cause", ActionableError{Operation: "load configuration", Cause: errors.New("syntax error at line 5")}, "failed to load configuration: syntax error at line 5"},
		{"with resource and cause", ActionableError{Operation: "restore backup", Resource: "/usr/bin/date", Cause: errors.New("permission denied")}, "failed to restore backup: /usr/bin/date: permission denied"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("underlying error")
	err := &ActionableError{Operation: "probe distribution", Cause: cause}

	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should see through the wrapper")
	}

	bare := &ActionableError{Operation: "probe distribution"}
	if bare.Unwrap() != nil {
		t.Error("Unwrap without a cause should return nil")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	mustContain := func(t *testing.T, out string, wants ...string) {
		t.Helper()
		for _, want := range wants {
			if !strings.Contains(out, want) {
				t.Errorf("Format() missing %q\ngot:\n%s", want, out)
			}
		}
	}

	t.Run("message only", func(t *testing.T) {
		out := (&ActionableError{Operation: "load configuration"}).Format(false)
		mustContain(t, out, "failed to load configuration")
	})

	t.Run("suggestions render as bullets", func(t *testing.T) {
		err := &ActionableError{
			Operation:   "install package",
			Resource:    "rust-coreutils",
			Suggestions: []string{"Run 'apt-get update' first", "Check the dpkg lock"},
		}
		out := err.Format(false)
		mustContain(t, out,
			"failed to install package",
			"rust-coreutils",
			"• Run 'apt-get update' first",
			"• Check the dpkg lock",
		)
	})

	t.Run("verbose appends the cause chain", func(t *testing.T) {
		err := &ActionableError{Operation: "load configuration", Cause: errors.New("syntax error")}
		mustContain(t, err.Format(true), "failed to load configuration", "Error chain:", "1. syntax error")
	})

	t.Run("non-verbose omits the chain", func(t *testing.T) {
		err := &ActionableError{Operation: "load configuration", Cause: errors.New("syntax error")}
		out := err.Format(false)
		mustContain(t, out, "failed to load configuration: syntax error")
		if strings.Contains(out, "Error chain:") {
			t.Errorf("Format(false) should not render the chain, got:\n%s", out)
		}
	})

	t.Run("nested wrappers number each link", func(t *testing.T) {
		err := &ActionableError{
			Operation: "enable experiment",
			Cause:     &ActionableError{Operation: "install package", Cause: errors.New("exit status 100")},
		}
		mustContain(t, err.Format(true),
			"Error chain:",
			"1. failed to install package: exit status 100",
			"2. exit status 100",
		)
	})
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	t.Run("operation only", func(t *testing.T) {
		err := NewErrorContext().WithOperation("probe distribution").Build()
		if err == nil {
			t.Fatal("Build() returned nil")
		}
		if err.Operation != "probe distribution" {
			t.Errorf("Operation = %q, want %q", err.Operation, "probe distribution")
		}
	})

	t.Run("no operation yields nil", func(t *testing.T) {
		if err := NewErrorContext().WithResource("some/path").Build(); err != nil {
			t.Errorf("Build() = %v, want nil", err)
		}
	})

	t.Run("all fields carried over", func(t *testing.T) {
		err := NewErrorContext().
			WithOperation("load configuration").
			WithResource("/root/.config/rustle/config.cue").
			WithSuggestion("Check the CUE syntax").
			WithSuggestion("Run 'rustle config init'").
			Wrap(errors.New("parse error")).
			Build()
		if err == nil {
			t.Fatal("Build() returned nil")
		}
		if err.Operation != "load configuration" {
			t.Errorf("Operation = %q", err.Operation)
		}
		if err.Resource != "/root/.config/rustle/config.cue" {
			t.Errorf("Resource = %q", err.Resource)
		}
		if len(err.Suggestions) != 2 {
			t.Errorf("len(Suggestions) = %d, want 2", len(err.Suggestions))
		}
		if err.Cause == nil || err.Cause.Error() != "parse error" {
			t.Errorf("Cause = %v", err.Cause)
		}
	})

	t.Run("WithSuggestions appends several at once", func(t *testing.T) {
		err := NewErrorContext().
			WithOperation("enable experiment").
			WithSuggestions("Suggestion 1", "Suggestion 2", "Suggestion 3").
			Build()
		if err == nil {
			t.Fatal("Build() returned nil")
		}
		if len(err.Suggestions) != 3 {
			t.Errorf("len(Suggestions) = %d, want 3", len(err.Suggestions))
		}
	})
}

func TestErrorContext_BuildError(t *testing.T) {
	t.Parallel()

	err := NewErrorContext().WithOperation("remove package").BuildError()
	if err == nil {
		t.Fatal("BuildError() returned nil")
	}
	if _, ok := errors.AsType[*ActionableError](err); !ok {
		t.Errorf("BuildError() = %T, want *ActionableError", err)
	}

	// Without an operation the result must be an untyped nil so err != nil
	// checks at call sites behave.
	if err := NewErrorContext().BuildError(); err != nil {
		t.Errorf("BuildError() without operation = %v, want nil", err)
	}
}

func TestWrapWithOperation(t *testing.T) {
	t.Parallel()

	cause := errors.New("original error")
	err := WrapWithOperation(cause, "remove package")
	if err == nil {
		t.Fatal("WrapWithOperation returned nil")
	}
	if err.Operation != "remove package" {
		t.Errorf("Operation = %q", err.Operation)
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped error should match the cause")
	}

	if err := WrapWithOperation(nil, "remove package"); err != nil {
		t.Errorf("WrapWithOperation(nil) = %v, want nil", err)
	}
}

func TestWrapWithContext(t *testing.T) {
	t.Parallel()

	cause := errors.New("original error")
	err := WrapWithContext(cause, "read config file", "/path/to/config.cue")
	if err == nil {
		t.Fatal("WrapWithContext returned nil")
	}
	if err.Operation != "read config file" {
		t.Errorf("Operation = %q", err.Operation)
	}
	if err.Resource != "/path/to/config.cue" {
		t.Errorf("Resource = %q", err.Resource)
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped error should match the cause")
	}

	if err := WrapWithContext(nil, "read config file", "resource"); err != nil {
		t.Errorf("WrapWithContext(nil) = %v, want nil", err)
	}
}

func TestErrorContext_Reuse(t *testing.T) {
	t.Parallel()

	// One context, two causes: Wrap must not leak state between builds.
	ctx := NewErrorContext().
		WithOperation("install package").
		WithResource("rust-findutils").
		WithSuggestion("Check the package archive")

	err1 := ctx.Wrap(errors.New("error 1")).Build()
	err2 := ctx.Wrap(errors.New("error 2")).Build()

	if err1.Cause.Error() == err2.Cause.Error() {
		t.Error("second Wrap should replace the first cause")
	}
	if err1.Operation != err2.Operation {
		t.Error("operation should survive rebuilds")
	}
}
