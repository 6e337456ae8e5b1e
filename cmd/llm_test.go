package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/mathmood/internal/llm"
	"github.com/abhisek/mathmood/internal/store"
)

func TestPrintEvents(t *testing.T) {
	var buf bytes.Buffer
	printEvents(&buf, nil)
	assert.Equal(t, "No LLM events found.\n", buf.String())

	buf.Reset()
	printEvents(&buf, []store.LLMEvent{
		{ID: 7, Timestamp: time.Now(), LLMRequestEventData: store.LLMRequestEventData{
			Model: "gpt-4o-mini", Purpose: llm.PurposeQuestion, InputTokens: 120, OutputTokens: 40, Success: true,
		}},
		{ID: 8, Timestamp: time.Now(), LLMRequestEventData: store.LLMRequestEventData{
			Model: "gpt-4o-mini", Purpose: llm.PurposeAdjust, Success: false,
		}},
	})
	out := buf.String()
	assert.Contains(t, out, "question")
	assert.Contains(t, out, "adjust")
	assert.Contains(t, out, "✓")
	assert.Contains(t, out, "✗")
}

func TestPrintEvent_MissingBodies(t *testing.T) {
	var buf bytes.Buffer
	printEvent(&buf, &store.LLMEvent{ID: 3, LLMRequestEventData: store.LLMRequestEventData{
		Provider: "openai", ErrorMessage: "rate limited",
	}})
	out := buf.String()
	assert.Contains(t, out, "Error:     rate limited")
	assert.Equal(t, 2, strings.Count(out, "(not captured)"))
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	printUsage(&buf, nil, nil)
	assert.Equal(t, "No LLM usage recorded yet.\n", buf.String())

	buf.Reset()
	printUsage(&buf,
		[]store.PurposeUsage{
			{Purpose: llm.PurposeQuestion, Calls: 2, InputTokens: 1000, OutputTokens: 500},
			{Purpose: llm.PurposeSummary, Calls: 1, InputTokens: 200, OutputTokens: 100},
		},
		[]store.ModelUsage{
			{Model: "gpt-4o-mini", Calls: 2, InputTokens: 1_000_000, OutputTokens: 0},
			{Model: "home-grown-model", Calls: 1, InputTokens: 200, OutputTokens: 100},
		},
	)
	out := buf.String()
	assert.Contains(t, out, "1800")
	assert.Contains(t, out, "$0.15")
	assert.Contains(t, out, "TOTAL (partial)")
	assert.Contains(t, out, "Pricing unavailable for: home-grown-model")
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.0012", formatCost(0.00123))
	assert.Equal(t, "$1.50", formatCost(1.5))
}
