package reflection

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/abhisek/mathmood/internal/llm"
)

// FallbackNarrative is used when no narrative could be generated.
const FallbackNarrative = "Amazing effort today! Every question you tried made your math brain stronger. Keep practicing and you'll keep getting better!"

// NarratorConfig holds generation settings for the narrator.
type NarratorConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultNarratorConfig returns sensible defaults.
func DefaultNarratorConfig() NarratorConfig {
	return NarratorConfig{
		MaxTokens:   600,
		Temperature: 0.7,
	}
}

// LLMNarrator summarizes a session's reflections with a language model.
type LLMNarrator struct {
	provider llm.Provider
	cfg      NarratorConfig
}

// NewLLMNarrator creates a narrator backed by provider.
func NewLLMNarrator(provider llm.Provider, cfg NarratorConfig) *LLMNarrator {
	return &LLMNarrator{provider: provider, cfg: cfg}
}

func (n *LLMNarrator) Narrate(ctx context.Context, name string, records []Record) (string, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeSummary)

	userMsg, err := buildNarrativeMessage(name, records)
	if err != nil {
		return "", fmt.Errorf("build summary prompt: %w", err)
	}

	resp, err := n.provider.Generate(ctx, llm.Request{
		System:      narrativeSystemPrompt,
		Messages:    llm.UserMessage(userMsg),
		MaxTokens:   n.cfg.MaxTokens,
		Temperature: n.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("LLM summary failed: %w", err)
	}
	return resp.Text(), nil
}

const narrativeSystemPrompt = `You are a warm math teacher reading a child's reflections after a short quiz.

Instructions:
- For each reflection, in order, write one line: the question number, a child-friendly feeling (happy, neutral or a-little-sad) and a few kind words about it.
- Finish with a short closing paragraph addressed to the child by name that celebrates what went well and gives one gentle, constructive tip.
- Use simple words a young child can read.`

var narrativeUserTemplate = template.Must(template.New("narrative").
	Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
	Parse(`Child's name: {{.Name}}

Reflections:
{{range $i, $r := .Records}}{{inc $i}}. {{if $r.ReflectionText}}{{$r.ReflectionText}}{{else}}(no reflection written){{end}}
{{end}}`))

func buildNarrativeMessage(name string, records []Record) (string, error) {
	var buf bytes.Buffer
	err := narrativeUserTemplate.Execute(&buf, struct {
		Name    string
		Records []Record
	}{name, records})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
