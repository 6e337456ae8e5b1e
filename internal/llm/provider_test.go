package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestMockProvider_ReturnsCannedResponsesInOrder(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`Great job!`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: json.RawMessage(adjustJSON)},
	)

	first, err := mock.Generate(context.Background(), Request{Messages: UserMessage("motivate")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Text() != "Great job!" {
		t.Fatalf("first = %q", first.Text())
	}
	if first.Usage.InputTokens != 10 || first.StopReason != "end" {
		t.Fatalf("unexpected first response: %+v", first)
	}

	second, err := mock.Generate(context.Background(), Request{Messages: UserMessage("adjust")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(second.Content) != adjustJSON {
		t.Fatalf("second = %s", second.Content)
	}
}

func TestMockProvider_EmptyQueueReturnsUnavailable(t *testing.T) {
	_, err := NewMockProvider().Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	_, _ = mock.Generate(context.Background(), Request{System: "sys", Messages: UserMessage("hello")})

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	if mock.Calls[0].System != "sys" || mock.Calls[0].Messages[0].Role != RoleUser {
		t.Fatalf("unexpected recorded call: %+v", mock.Calls[0])
	}
}

func TestResponseText_Nil(t *testing.T) {
	var r *Response
	if r.Text() != "" {
		t.Fatal("nil response should have empty text")
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}
	ctx = WithPurpose(ctx, PurposeAdjust)
	if p := PurposeFrom(ctx); p != PurposeAdjust {
		t.Fatalf("expected %q, got %q", PurposeAdjust, p)
	}
}

func TestConfig_Validate(t *testing.T) {
	withRetry := func(c Config) Config {
		c.Retry.MaxAttempts = 1
		return c
	}
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"anthropic without key", withRetry(Config{Provider: ProviderAnthropic}), true},
		{"anthropic with key", withRetry(Config{Provider: ProviderAnthropic, Anthropic: AnthropicConfig{APIKey: "k"}}), false},
		{"openai without key", withRetry(Config{Provider: ProviderOpenAI}), true},
		{"responses with key", withRetry(Config{Provider: ProviderOpenAIResponses, OpenAI: OpenAIConfig{APIKey: "k"}}), false},
		{"openrouter without key", withRetry(Config{Provider: ProviderOpenRouter}), true},
		{"gemini with key", withRetry(Config{Provider: ProviderGemini, Gemini: GeminiConfig{APIKey: "k"}}), false},
		{"mock needs no key", withRetry(Config{Provider: ProviderMock}), false},
		{"unknown provider", withRetry(Config{Provider: "unknown"}), true},
		{"zero attempts", Config{Provider: ProviderMock}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"MATHMOOD_LLM_PROVIDER", "MATHMOOD_OPENAI_API_KEY", "MATHMOOD_OPENAI_MODEL",
		"MATHMOOD_LLM_TIMEOUT", "MATHMOOD_LLM_MAX_ATTEMPTS",
		"OPENAI_API_KEY", "GEMINI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestConfigFromEnv_Discovery(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("GEMINI_API_KEY", "g-key")

	cfg := ConfigFromEnv()
	if cfg.Provider != ProviderGemini || cfg.Gemini.APIKey != "g-key" {
		t.Fatalf("unexpected discovery result: %+v", cfg)
	}
	if cfg.Retry.MaxAttempts != 1 {
		t.Fatalf("default attempts = %d, want 1", cfg.Retry.MaxAttempts)
	}
}

func TestConfigFromEnv_Explicit(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("MATHMOOD_LLM_PROVIDER", ProviderOpenAIResponses)
	t.Setenv("OPENAI_API_KEY", "sk-vendor")
	t.Setenv("MATHMOOD_OPENAI_MODEL", "gpt-4.1-mini")
	t.Setenv("MATHMOOD_LLM_TIMEOUT", "5s")
	t.Setenv("MATHMOOD_LLM_MAX_ATTEMPTS", "3")

	cfg := ConfigFromEnv()
	if cfg.Provider != ProviderOpenAIResponses {
		t.Fatalf("provider = %q", cfg.Provider)
	}
	if cfg.OpenAI.APIKey != "sk-vendor" || cfg.OpenAI.Model != "gpt-4.1-mini" {
		t.Fatalf("openai config = %+v", cfg.OpenAI)
	}
	if cfg.Timeout != 5*time.Second || cfg.Retry.MaxAttempts != 3 {
		t.Fatalf("timeout=%s attempts=%d", cfg.Timeout, cfg.Retry.MaxAttempts)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestConfigFromEnv_NothingFound(t *testing.T) {
	clearLLMEnv(t)
	cfg := ConfigFromEnv()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected missing key to fail validation")
	}
}

func TestNewProvider_Mock(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: ProviderMock}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("ModelID = %q", p.ModelID())
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	if _, err := NewProvider(context.Background(), Config{Provider: "nope"}, nil, nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestLookupCost(t *testing.T) {
	if c := LookupCost("gpt-4o-mini"); c == nil || c.InputPerMTok != 0.15 {
		t.Fatalf("gpt-4o-mini cost = %+v", c)
	}
	if c := LookupCost("gpt-4o-mini-2024-07-18"); c == nil || c.InputPerMTok != 0.15 {
		t.Fatalf("dated snapshot should use family pricing, got %+v", c)
	}
	if c := LookupCost("mock"); c != nil {
		t.Fatalf("mock should have no cost, got %+v", c)
	}
	if got := (ModelCost{InputPerMTok: 1, OutputPerMTok: 2}).Cost(1_000_000, 500_000); got != 2 {
		t.Fatalf("Cost = %v, want 2", got)
	}
}
