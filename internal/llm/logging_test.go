package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/mathmood/internal/store"
)

type fakeRecorder struct {
	events []store.LLMRequestEventData
	err    error
}

func (f *fakeRecorder) AppendLLMRequest(_ context.Context, d store.LLMRequestEventData) error {
	f.events = append(f.events, d)
	return f.err
}

func TestLoggingProvider_RecordsSuccess(t *testing.T) {
	rec := &fakeRecorder{}
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`Keep going!`),
		Usage:   Usage{InputTokens: 40, OutputTokens: 6},
	})
	p := WithLogging(mock, ProviderMock, rec, nil)

	ctx := WithPurpose(context.Background(), PurposeMotivation)
	resp, err := p.Generate(ctx, Request{System: "be kind", Messages: UserMessage("answer was 4")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text() != "Keep going!" {
		t.Fatalf("response = %q", resp.Text())
	}

	if len(rec.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(rec.events))
	}
	ev := rec.events[0]
	if ev.Purpose != PurposeMotivation || !ev.Success || ev.Model != "mock" || ev.Provider != ProviderMock {
		t.Errorf("event = %+v", ev)
	}
	if ev.InputTokens != 40 || ev.OutputTokens != 6 {
		t.Errorf("tokens = %d/%d", ev.InputTokens, ev.OutputTokens)
	}
	if !strings.Contains(ev.RequestBody, "[system]\nbe kind") || !strings.Contains(ev.RequestBody, "[user]\nanswer was 4") {
		t.Errorf("request body = %q", ev.RequestBody)
	}
	if ev.ResponseBody != "Keep going!" {
		t.Errorf("response body = %q", ev.ResponseBody)
	}
}

func TestLoggingProvider_RecordsFailure(t *testing.T) {
	rec := &fakeRecorder{}
	mock := NewMockProvider(MockError(&ErrRateLimit{}))
	p := WithLogging(mock, ProviderOpenAI, rec, nil)

	_, err := p.Generate(context.Background(), Request{Messages: UserMessage("hi")})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit to pass through, got %v", err)
	}
	if len(rec.events) != 1 || rec.events[0].Success || rec.events[0].ErrorMessage == "" {
		t.Fatalf("events = %+v", rec.events)
	}
	if rec.events[0].Purpose != "unknown" {
		t.Errorf("purpose = %q, want unknown", rec.events[0].Purpose)
	}
}

func TestLoggingProvider_RecorderErrorIsIgnored(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("disk full")}
	p := WithLogging(NewMockProvider(MockText("ok")), ProviderMock, rec, nil)

	resp, err := p.Generate(context.Background(), Request{Messages: UserMessage("hi")})
	if err != nil {
		t.Fatalf("recorder failure must not fail the request: %v", err)
	}
	if resp.Text() != "ok" {
		t.Fatalf("response = %q", resp.Text())
	}
}

func TestSerializeRequest_IncludesSchema(t *testing.T) {
	schema := &Schema{Name: "adjust", Definition: map[string]any{"type": "object"}}
	out := serializeRequest(Request{Messages: UserMessage("q"), Schema: schema})
	if !strings.Contains(out, "[schema: adjust]") || !strings.Contains(out, `{"type":"object"}`) {
		t.Fatalf("serialized = %q", out)
	}
}
