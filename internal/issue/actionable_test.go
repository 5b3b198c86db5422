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
			err:      &ActionableError{Operation: "bundle script"},
			expected: "failed to bundle script",
		},
		{
			name:     "operation with resource",
			err:      &ActionableError{Operation: "bundle script", Resource: "./main.sh"},
			expected: "failed to bundle script: ./main.sh",
		},
		{
			name:     "operation with cause",
			err:      &ActionableError{Operation: "load configuration", Cause: errors.New("expected bool")},
			expected: "failed to load configuration: expected bool",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "bundle script",
				Resource:  "./main.sh",
				Cause:     errors.New("circular dependency"),
			},
			expected: "failed to bundle script: ./main.sh: circular dependency",
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

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	inner := errors.New("no such file")
	err := &ActionableError{
		Operation:   "bundle script",
		Resource:    "main.sh",
		Suggestions: []string{"Check the path", "Use stdin"},
		Cause:       fmt.Errorf("open main.sh: %w", inner),
	}

	short := err.Format(false)
	if !strings.Contains(short, "\n  • Check the path\n  • Use stdin") {
		t.Errorf("Format(false) missing suggestions:\n%s", short)
	}
	if strings.Contains(short, "Error chain") {
		t.Errorf("Format(false) should not include the chain:\n%s", short)
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "Error chain:\n  1. open main.sh: no such file\n  2. no such file") {
		t.Errorf("Format(true) missing chain:\n%s", verbose)
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	ae := NewErrorContext().
		WithOperation("write bundle").
		WithResource("dist/main.sh").
		WithSuggestion("Check permissions").
		WithSuggestions("Check disk space", "Try another directory").
		WithIssue(OutputWriteFailedId).
		Wrap(cause).
		Build()

	if ae == nil {
		t.Fatal("Build() returned nil")
	}
	if len(ae.Suggestions) != 3 || !ae.HasSuggestions() {
		t.Errorf("Suggestions = %v", ae.Suggestions)
	}
	if !errors.Is(ae, cause) {
		t.Error("ActionableError should unwrap to its cause")
	}
	if got := ae.CatalogIssue(); got == nil || got.Id() != OutputWriteFailedId {
		t.Errorf("CatalogIssue() = %v", got)
	}
}

func TestErrorContext_BuildWithoutOperation(t *testing.T) {
	t.Parallel()

	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without operation should return nil")
	}
	if err := NewErrorContext().BuildError(); err != nil {
		t.Errorf("BuildError() without operation = %v, want nil", err)
	}
	if (&ActionableError{Operation: "x"}).CatalogIssue() != nil {
		t.Error("CatalogIssue() without issue should be nil")
	}
}

func TestWrapWithOperation(t *testing.T) {
	t.Parallel()

	if WrapWithOperation(nil, "x") != nil {
		t.Error("WrapWithOperation(nil) should return nil")
	}
	cause := errors.New("boom")
	if ae := WrapWithOperation(cause, "inspect script"); ae.Error() != "failed to inspect script: boom" {
		t.Errorf("Error() = %q", ae.Error())
	}
}
