package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathmood/internal/llm"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"MATHMOOD_ADJUSTER", "MATHMOOD_QUESTIONS", "MATHMOOD_WINDOW", "MATHMOOD_ADDR",
		"MATHMOOD_NATS_URL", "MATHMOOD_LOG_FILE", "MATHMOOD_LOG_MODE", "MATHMOOD_LOG_LEVEL",
		"OPENAI_API_KEY", "GEMINI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("MATHMOOD_DB", filepath.Join(t.TempDir(), "test.db"))
	t.Setenv("MATHMOOD_LLM_PROVIDER", llm.ProviderMock)
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "hybrid", cfg.Adjuster)
	assert.Equal(t, 10, cfg.Questions)
	assert.Equal(t, 5, cfg.Window)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Empty(t, cfg.NATSURL)
	assert.Equal(t, "dev", cfg.Log.Mode)
	assert.Equal(t, llm.ProviderMock, cfg.LLM.Provider)
	assert.True(t, strings.HasSuffix(cfg.DBPath, "test.db"))
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("MATHMOOD_ADJUSTER", "RULE")
	t.Setenv("MATHMOOD_QUESTIONS", " 3 ")
	t.Setenv("MATHMOOD_WINDOW", "7")
	t.Setenv("MATHMOOD_NATS_URL", "nats://localhost:4222")
	t.Setenv("MATHMOOD_LOG_MODE", "prod")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "rule", cfg.Adjuster)
	assert.Equal(t, 3, cfg.Questions)
	assert.Equal(t, 7, cfg.Window)
	assert.Equal(t, "nats://localhost:4222", cfg.NATSURL)
	assert.Equal(t, "prod", cfg.Log.Mode)
}

func TestLoad_BadIntFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("MATHMOOD_QUESTIONS", "lots")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Questions)
}

func TestValidate(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name   string
		mutate func(*Config)
		errSub string
	}{
		{"ok", func(*Config) {}, ""},
		{"empty db", func(c *Config) { c.DBPath = "" }, "MATHMOOD_DB"},
		{"unknown adjuster", func(c *Config) { c.Adjuster = "magic" }, "MATHMOOD_ADJUSTER"},
		{"zero questions", func(c *Config) { c.Questions = 0 }, "MATHMOOD_QUESTIONS"},
		{"negative window", func(c *Config) { c.Window = -1 }, "MATHMOOD_WINDOW"},
		{"missing key", func(c *Config) {
			c.LLM.Provider = llm.ProviderOpenAI
			c.LLM.OpenAI.APIKey = ""
		}, "llm:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()
			if tt.errSub == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSub)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()

	found, err := LoadDotEnv(filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.False(t, found)

	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("MATHMOOD_TEST_DOTENV=hello\n"), 0o600))
	t.Setenv("MATHMOOD_TEST_DOTENV", "")
	os.Unsetenv("MATHMOOD_TEST_DOTENV")

	found, err = LoadDotEnv(path)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "hello", os.Getenv("MATHMOOD_TEST_DOTENV"))
}
