package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go/option"
)

func newTestResponsesProvider(t *testing.T, handler http.HandlerFunc) *ResponsesProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewResponsesProvider(
		OpenAIConfig{APIKey: "test-key", Model: "gpt-4o-mini", BaseURL: server.URL + "/v1"},
		option.WithMaxRetries(0),
	)
	if err != nil {
		t.Fatalf("NewResponsesProvider: %v", err)
	}
	return p
}

func responsesReply(text string, incomplete string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "completed"
		var details any
		if incomplete != "" {
			status = "incomplete"
			details = map[string]any{"reason": incomplete}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":                 "resp_test",
			"object":             "response",
			"created_at":         1234567890,
			"status":             status,
			"model":              "gpt-4o-mini-2024-07-18",
			"incomplete_details": details,
			"output": []map[string]any{
				{
					"type":   "message",
					"id":     "msg_1",
					"status": "completed",
					"role":   "assistant",
					"content": []map[string]any{
						{"type": "output_text", "text": text, "annotations": []any{}},
					},
				},
			},
			"usage": map[string]any{
				"input_tokens":          30,
				"output_tokens":         12,
				"total_tokens":          42,
				"input_tokens_details":  map[string]any{"cached_tokens": 0},
				"output_tokens_details": map[string]any{"reasoning_tokens": 0},
			},
		})
	}
}

func TestResponsesProvider_Structured(t *testing.T) {
	var body map[string]any
	handler := func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		responsesReply(adjustJSON, "")(w, r)
	}
	p := newTestResponsesProvider(t, handler)

	resp, err := p.Generate(context.Background(), Request{
		System:   "You adjust quiz difficulty.",
		Messages: UserMessage("Reflection: easy"),
		Schema:   MustSchemaFor[testAdjustment]("responses-adjust", "adjustment"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != adjustJSON {
		t.Fatalf("content = %s", resp.Content)
	}
	if resp.Usage.TotalTokens != 42 || resp.Model != "gpt-4o-mini-2024-07-18" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if body["instructions"] != "You adjust quiz difficulty." {
		t.Fatalf("instructions = %v", body["instructions"])
	}
	text, _ := body["text"].(map[string]any)
	format, _ := text["format"].(map[string]any)
	if format["type"] != "json_schema" || format["name"] != "responses-adjust" {
		t.Fatalf("text.format = %v", format)
	}
}

func TestResponsesProvider_FreeText(t *testing.T) {
	p := newTestResponsesProvider(t, responsesReply("You can do this, Sam!", ""))

	resp, err := p.Generate(context.Background(), Request{Messages: UserMessage("cheer")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text() != "You can do this, Sam!" || resp.StopReason != "end" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestResponsesProvider_Truncated(t *testing.T) {
	p := newTestResponsesProvider(t, responsesReply(`{"sentiment":`, "max_output_tokens"))

	_, err := p.Generate(context.Background(), Request{
		Messages: UserMessage("adjust"),
		Schema:   MustSchemaFor[testAdjustment]("responses-adjust", "adjustment"),
	})
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("expected ErrMaxTokensExceeded, got %T (%v)", err, err)
	}
}

func TestResponsesProvider_RateLimit(t *testing.T) {
	p := newTestResponsesProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit"}}`))
	})

	_, err := p.Generate(context.Background(), Request{Messages: UserMessage("x")})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got %T (%v)", err, err)
	}
}
