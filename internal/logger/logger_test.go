package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeKVs(t *testing.T) {
	got := sanitizeKVs([]any{"provider", "openai", "api_key", "sk-123", "auth_token", "abc", "input_tokens", 12, "dangling"})
	assert.Equal(t, []any{"provider", "openai", "api_key", "[REDACTED]", "auth_token", "[REDACTED]", "input_tokens", 12, "dangling"}, got)
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "mathmood.log")
	l, err := New(Options{Mode: "prod", File: path})
	require.NoError(t, err)

	l.Info("question generated", "level", 3, "api_key", "secret-value")
	l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "question generated")
	assert.False(t, strings.Contains(out, "secret-value"), "api key leaked into log")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	require.Error(t, err)
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info("ignored")
	l.With("k", "v").Warn("ignored")
}
