// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionableErrorError(t *testing.T) {
	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{
			name: "operation only",
			err:  &ActionableError{Operation: "load package"},
			want: "failed to load package",
		},
		{
			name: "operation and resource",
			err: &ActionableError{
				Operation: "load package",
				Resource:  "./broken.pptx",
			},
			want: "failed to load package: ./broken.pptx",
		},
		{
			name: "operation, resource and cause",
			err: &ActionableError{
				Operation: "load package",
				Resource:  "./broken.pptx",
				Cause:     errors.New("zip: not a valid zip file"),
			},
			want: "failed to load package: ./broken.pptx: zip: not a valid zip file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestActionableErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying failure")
	err := WrapWithContext(cause, "write report", "out/report.json")

	require.NotNil(t, err)
	assert.True(t, errors.Is(err, cause))
}

func TestWrapWithContextNilError(t *testing.T) {
	assert.Nil(t, WrapWithContext(nil, "load package", "deck.pptx"))
}

func TestActionableErrorFormat(t *testing.T) {
	err := &ActionableError{
		Operation: "load configuration",
		Resource:  "config.yaml",
		Suggestions: []string{
			"Check YAML syntax",
			"Run with --config to point at another file",
		},
		Cause: errors.New("yaml: line 3: mapping values are not allowed"),
	}

	got := err.Format(false)
	assert.Contains(t, got, "failed to load configuration: config.yaml")
	assert.Contains(t, got, "• Check YAML syntax")
	assert.Contains(t, got, "• Run with --config to point at another file")
	assert.NotContains(t, got, "Error chain:")
}

func TestActionableErrorFormatVerbose(t *testing.T) {
	inner := errors.New("permission denied")
	wrapped := WrapWithContext(inner, "open file", "locked.pptx")
	err := &ActionableError{
		Operation: "load package",
		Resource:  "locked.pptx",
		Cause:     wrapped,
	}

	got := err.Format(true)
	assert.Contains(t, got, "Error chain:")
	assert.Contains(t, got, "1. failed to open file: locked.pptx: permission denied")
	assert.Contains(t, got, "2. permission denied")
}

func TestErrorContextBuilder(t *testing.T) {
	cause := errors.New("no such file")

	err := NewErrorContext().
		WithOperation("load package").
		WithResource("missing.pptx").
		WithSuggestion("Check that the path exists").
		Wrap(cause).
		Build()

	require.NotNil(t, err)
	assert.Equal(t, "load package", err.Operation)
	assert.Equal(t, "missing.pptx", err.Resource)
	assert.Equal(t, []string{"Check that the path exists"}, err.Suggestions)
	assert.True(t, errors.Is(err, cause))
	assert.True(t, err.HasSuggestions())
}

func TestErrorContextRequiresOperation(t *testing.T) {
	assert.Nil(t, NewErrorContext().WithResource("deck.pptx").Build())
	assert.Nil(t, NewErrorContext().BuildError())
}

func TestErrorContextBuildError(t *testing.T) {
	err := NewErrorContext().
		WithOperation("write report").
		Wrap(errors.New("disk full")).
		BuildError()

	require.Error(t, err)

	var ae *ActionableError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "write report", ae.Operation)
}
