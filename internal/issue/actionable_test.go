// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "resolve manifest"},
			expected: "failed to resolve manifest",
		},
		{
			name:     "with resource",
			err:      &ActionableError{Operation: "resolve manifest", Resource: "ftb/79"},
			expected: "failed to resolve manifest: ftb/79",
		},
		{
			name: "with cause",
			err: &ActionableError{
				Operation: "extract overrides",
				Resource:  "42/overrides.zip",
				Cause:     errors.New("zip: not a valid zip file"),
			},
			expected: "failed to extract overrides: 42/overrides.zip: zip: not a valid zip file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("connection refused")
	wrapped := fmt.Errorf("get manifest: %w", sentinel)
	err := NewErrorContext().WithOperation("download pack").Wrap(wrapped).BuildError()

	if !errors.Is(err, sentinel) {
		t.Error("errors.Is should see through the actionable error")
	}

	var ae *ActionableError
	if !errors.As(fmt.Errorf("outer: %w", err), &ae) {
		t.Fatal("errors.As should find the actionable error")
	}
	if ae.Operation != "download pack" {
		t.Errorf("Operation = %q", ae.Operation)
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	inner := errors.New("permission denied")
	err := &ActionableError{
		Operation:   "write file",
		Resource:    "mods/a.jar",
		Suggestions: []string{"Check directory permissions", "Choose another destination"},
		Cause:       fmt.Errorf("open mods/a.jar: %w", inner),
	}

	short := err.Format(false)
	for _, want := range []string{"failed to write file", "mods/a.jar", "• Check directory permissions", "• Choose another destination"} {
		if !strings.Contains(short, want) {
			t.Errorf("Format(false) missing %q:\n%s", want, short)
		}
	}
	if strings.Contains(short, "Error chain") {
		t.Error("non-verbose output must not include the error chain")
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "Error chain:") || !strings.Contains(verbose, "2. permission denied") {
		t.Errorf("Format(true) should list the chain:\n%s", verbose)
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build without an operation should return nil")
	}
	if NewErrorContext().BuildError() != nil {
		t.Error("BuildError without an operation should return a nil error")
	}

	cause := errors.New("boom")
	ae := NewErrorContext().
		WithOperation("load configuration").
		WithResource("config.cue").
		WithSuggestion("Check the syntax").
		WithSuggestions("Run 'packget config init'", "Run 'packget config show'").
		WithIssue(ConfigLoadFailedId).
		Wrap(cause).
		Build()

	if ae.Operation != "load configuration" || ae.Resource != "config.cue" || ae.Cause != cause {
		t.Errorf("unexpected fields: %+v", ae)
	}
	if len(ae.Suggestions) != 3 || !ae.HasSuggestions() {
		t.Errorf("Suggestions = %v", ae.Suggestions)
	}
	if ae.Issue != ConfigLoadFailedId {
		t.Errorf("Issue = %d, want %d", ae.Issue, ConfigLoadFailedId)
	}
}

func TestActionableError_FormatFollowsEveryBranch(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("network failure")
	cause := errors.New("connection refused")
	err := &ActionableError{
		Operation: "download pack",
		Cause:     fmt.Errorf("%w: %w", sentinel, cause),
	}

	out := err.Format(true)
	for _, want := range []string{
		"1. network failure: connection refused",
		"2. network failure",
		"3. connection refused",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format(true) missing %q:\n%s", want, out)
		}
	}
}
