// Package config provides application configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/abhisek/mathmood/internal/difficulty"
	"github.com/abhisek/mathmood/internal/llm"
	"github.com/abhisek/mathmood/internal/store"
)

// Config holds all application configuration.
type Config struct {
	// DBPath is a SQLite file path or a postgres:// DSN.
	DBPath string

	// Adjuster names the difficulty strategy: rule, ai or hybrid.
	Adjuster string

	// Questions is the number of questions in a session.
	Questions int

	// Window is how many recent answers the rule strategy looks at.
	Window int

	// Addr is the listen address for the HTTP service.
	Addr string

	// NATSURL enables session-complete events when set.
	NATSURL   string
	NATSToken string

	Log LogConfig
	LLM llm.Config
}

// LogConfig controls the zap logger.
type LogConfig struct {
	File  string
	Mode  string
	Level string
}

// LoadDotEnv loads a .env file from the working directory. A missing file is
// not an error; the return value reports whether one was read.
func LoadDotEnv(paths ...string) (bool, error) {
	if err := godotenv.Load(paths...); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("load .env: %w", err)
	}
	return true, nil
}

// Load reads configuration from environment variables. It does not validate;
// commands call Validate once flag overrides are applied.
func Load() (*Config, error) {
	dbPath, err := store.DefaultDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}

	return &Config{
		DBPath:    dbPath,
		Adjuster:  strings.ToLower(getEnv("MATHMOOD_ADJUSTER", difficulty.StrategyHybrid)),
		Questions: getEnvInt("MATHMOOD_QUESTIONS", 10),
		Window:    getEnvInt("MATHMOOD_WINDOW", 5),
		Addr:      getEnv("MATHMOOD_ADDR", ":8080"),
		NATSURL:   getEnv("MATHMOOD_NATS_URL", ""),
		NATSToken: getEnv("MATHMOOD_NATS_TOKEN", ""),
		Log: LogConfig{
			File:  getEnv("MATHMOOD_LOG_FILE", ""),
			Mode:  getEnv("MATHMOOD_LOG_MODE", "dev"),
			Level: getEnv("MATHMOOD_LOG_LEVEL", "info"),
		},
		LLM: llm.ConfigFromEnv(),
	}, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("MATHMOOD_DB cannot be empty")
	}
	switch c.Adjuster {
	case difficulty.StrategyRule, difficulty.StrategyAI, difficulty.StrategyHybrid:
	default:
		return fmt.Errorf("MATHMOOD_ADJUSTER must be rule, ai or hybrid, got %q", c.Adjuster)
	}
	if c.Questions <= 0 {
		return fmt.Errorf("MATHMOOD_QUESTIONS must be > 0")
	}
	if c.Window <= 0 {
		return fmt.Errorf("MATHMOOD_WINDOW must be > 0")
	}
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	return nil
}

// getEnv treats an empty value like an unset one.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}
