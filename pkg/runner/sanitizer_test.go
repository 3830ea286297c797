package runner_test

import (
	"strings"
	"testing"

	"github.com/aretw0/aicode/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeInput_SizeLimit(t *testing.T) {
	limit := runner.DefaultMaxInputSize

	_, err := runner.SanitizeInput(strings.Repeat("a", limit))
	assert.NoError(t, err)

	_, err = runner.SanitizeInput(strings.Repeat("a", limit+1))
	assert.ErrorIs(t, err, runner.ErrInputTooLarge)
}

func TestSanitizeInput_AcceptsPastedCode(t *testing.T) {
	snippet := strings.Repeat("for i := range items {\n\tprocess(items[i])\n}\n", 500)
	require.Greater(t, len(snippet), 4096)

	got, err := runner.SanitizeInput(snippet)
	require.NoError(t, err)
	assert.Equal(t, snippet, got)
}

func TestSanitizeInput_ControlChars(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"normal text", "Hello World", "Hello World"},
		{"safe controls", "Line1\nLine2\tTabbed", "Line1\nLine2\tTabbed"},
		{"colour codes", "\x1b[31mRed\x1b[0m", "Red"},
		{"osc title", "\x1b]0;title\x07hi", "hi"},
		{"null byte", "Null\x00Byte", "NullByte"},
		{"bell", "Ding\x07", "Ding"},
		{"crlf", "a\r\nb\r", "a\nb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runner.SanitizeInput(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSanitizeInput_EnvOverride(t *testing.T) {
	t.Setenv(runner.EnvMaxInputSize, "10")

	_, err := runner.SanitizeInput("12345678901")
	assert.ErrorIs(t, err, runner.ErrInputTooLarge)

	_, err = runner.SanitizeInput("12345")
	assert.NoError(t, err)
}

func TestSanitizeInput_InvalidUTF8(t *testing.T) {
	_, err := runner.SanitizeInput("\xbd\xb2\x3d\xbc\x20\xe2\x8c\x98")
	assert.ErrorIs(t, err, runner.ErrInvalidUTF8)
}
