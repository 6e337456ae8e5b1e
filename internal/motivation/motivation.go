// Package motivation writes the short encouragement shown after every
// answer.
package motivation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"text/template"

	"github.com/abhisek/mathmood/internal/llm"
)

// Config holds generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible defaults. A higher temperature keeps
// consecutive messages from repeating.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   120,
		Temperature: 0.9,
	}
}

// Generator produces motivation messages.
type Generator struct {
	provider llm.Provider
	cfg      Config
}

// New creates a Generator backed by provider.
func New(provider llm.Provider, cfg Config) *Generator {
	return &Generator{provider: provider, cfg: cfg}
}

// ErrEmptyMessage is returned when the model replies with nothing.
var ErrEmptyMessage = errors.New("empty motivation message")

// Motivate asks the model for one or two sentences for name, reacting to
// answer and whether it was correct. Errors are returned to the caller.
func (g *Generator) Motivate(ctx context.Context, answer string, correct bool, name string) (string, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeMotivation)

	userMsg, err := buildMessage(answer, correct, name)
	if err != nil {
		return "", fmt.Errorf("build motivation prompt: %w", err)
	}

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    llm.UserMessage(userMsg),
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("LLM motivation failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", ErrEmptyMessage
	}
	return text, nil
}

const systemPrompt = `You are a cheerful math coach for primary-school children.

Instructions:
- Reply with one or two short sentences and nothing else.
- Address the child by name.
- If the answer was correct, celebrate it; if not, be gentle and encourage another try.
- Vary your wording so consecutive messages do not sound the same.`

var userTemplate = template.Must(template.New("motivation").Parse(`Child's name: {{.Name}}
Child's answer: {{.Answer}}
{{if .Correct}}The answer was correct.{{else}}The answer was incorrect.{{end}}`))

func buildMessage(answer string, correct bool, name string) (string, error) {
	var buf bytes.Buffer
	err := userTemplate.Execute(&buf, struct {
		Name    string
		Answer  string
		Correct bool
	}{name, answer, correct})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
