package llm

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Provider names accepted by Config.Provider.
const (
	ProviderAnthropic       = "anthropic"
	ProviderOpenAI          = "openai"
	ProviderOpenAIResponses = "openai-responses"
	ProviderGemini          = "gemini"
	ProviderOpenRouter      = "openrouter"
	ProviderMock            = "mock"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which backend to use. See the Provider* constants.
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single logical LLM call, retries included.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-haiku"
}

// OpenAIConfig is shared by the chat-completions and responses providers.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for compatible APIs.
}

type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.0-flash-exp"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
// MaxAttempts of 1 means every call is attempted exactly once.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with defaults. Calls are attempt-once.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderOpenAI,
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.0-flash-exp",
		},
		Retry: RetryConfig{
			MaxAttempts: 1,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// ConfigFromEnv builds a Config from MATHMOOD_* variables. When no provider
// is named explicitly it falls back to DiscoverConfig.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	explicit := false

	if p := os.Getenv("MATHMOOD_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
		explicit = true
	} else if discovered, ok := DiscoverConfig(); ok {
		cfg = discovered
	}

	setIf(&cfg.Anthropic.APIKey, "MATHMOOD_ANTHROPIC_API_KEY")
	setIf(&cfg.Anthropic.Model, "MATHMOOD_ANTHROPIC_MODEL")
	setIf(&cfg.OpenAI.APIKey, "MATHMOOD_OPENAI_API_KEY")
	setIf(&cfg.OpenAI.Model, "MATHMOOD_OPENAI_MODEL")
	setIf(&cfg.OpenAI.BaseURL, "MATHMOOD_OPENAI_BASE_URL")
	setIf(&cfg.Gemini.APIKey, "MATHMOOD_GEMINI_API_KEY")
	setIf(&cfg.Gemini.Model, "MATHMOOD_GEMINI_MODEL")
	setIf(&cfg.OpenRouter.APIKey, "MATHMOOD_OPENROUTER_API_KEY")
	setIf(&cfg.OpenRouter.Model, "MATHMOOD_OPENROUTER_MODEL")

	// An explicit provider may still rely on the vendor's standard key name.
	if explicit {
		setIf(&cfg.Anthropic.APIKey, "ANTHROPIC_API_KEY")
		setIf(&cfg.OpenAI.APIKey, "OPENAI_API_KEY")
		setIf(&cfg.Gemini.APIKey, "GEMINI_API_KEY")
		setIf(&cfg.OpenRouter.APIKey, "OPENROUTER_API_KEY")
	}

	if v := os.Getenv("MATHMOOD_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if v := os.Getenv("MATHMOOD_LLM_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Retry.MaxAttempts = n
		}
	}

	return cfg
}

// setIf overwrites *dst with the env var when it is non-empty.
func setIf(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// DiscoverConfig probes standard API key env vars in priority order
// (OpenAI → Gemini → Anthropic → OpenRouter) and returns a Config for the
// first provider whose key is found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = ProviderOpenAI
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = ProviderGemini
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = ProviderAnthropic
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = ProviderOpenRouter
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}

	return Config{}, false
}

// Validate checks that the selected provider has its required API key set.
// A failing Validate is fatal at startup.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderAnthropic:
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("MATHMOOD_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case ProviderOpenAI, ProviderOpenAIResponses:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("MATHMOOD_OPENAI_API_KEY (or OPENAI_API_KEY) is required for the %s provider", c.Provider)
		}
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("MATHMOOD_GEMINI_API_KEY is required for the gemini provider")
		}
	case ProviderOpenRouter:
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("MATHMOOD_OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case ProviderMock:
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry max attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	return nil
}
