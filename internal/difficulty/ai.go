package difficulty

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/abhisek/mathmood/internal/emotion"
	"github.com/abhisek/mathmood/internal/llm"
)

// FallbackMotivation is shown when the model cannot be reached or replies
// with something unusable.
const FallbackMotivation = "Keep going, you're doing great!"

// sentiments the model may report.
var sentiments = map[emotion.Label]bool{
	emotion.Confident:  true,
	emotion.Curious:    true,
	emotion.Confused:   true,
	emotion.Frustrated: true,
	emotion.Bored:      true,
	emotion.Neutral:    true,
}

// Suggestion is the model's read of a reflection.
type Suggestion struct {
	Sentiment     emotion.Label
	NewDifficulty Level
	Motivation    string
}

// Outcome wraps a Suggestion with how it was produced. When Fallback is set
// the suggestion echoes the current level and Err holds the cause.
type Outcome struct {
	Suggestion
	Fallback bool
	Err      error
}

// AIConfig holds generation settings for the AI adjuster.
type AIConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultAIConfig returns sensible defaults.
func DefaultAIConfig() AIConfig {
	return AIConfig{
		MaxTokens:   256,
		Temperature: 0.3,
	}
}

// AIAdjuster asks a language model to classify a reflection and propose the
// next difficulty level.
type AIAdjuster struct {
	provider llm.Provider
	cfg      AIConfig
}

// NewAIAdjuster creates an AI adjuster backed by provider.
func NewAIAdjuster(provider llm.Provider, cfg AIConfig) *AIAdjuster {
	return &AIAdjuster{provider: provider, cfg: cfg}
}

// adjustOutput is the raw LLM response.
type adjustOutput struct {
	Sentiment     string `json:"sentiment" jsonschema:"enum=confident,enum=curious,enum=confused,enum=frustrated,enum=bored,enum=neutral,description=The learner's dominant feeling in the reflection"`
	NewDifficulty *int   `json:"new_difficulty" jsonschema:"minimum=1,maximum=10,description=Difficulty level for the next question"`
	Motivation    string `json:"motivation" jsonschema:"description=One short encouraging sentence for the learner"`
}

// AdjustSchema is the structured-output contract for DecideAI.
var AdjustSchema = llm.MustSchemaFor[adjustOutput](
	"difficulty-adjustment",
	"Sentiment of a learner reflection and the proposed next difficulty level",
)

// DecideAI classifies reflection and proposes a level. It makes a single
// attempt and never returns an error: any failure yields a neutral fallback
// that keeps the current level.
func (a *AIAdjuster) DecideAI(ctx context.Context, reflection, lastQuestion string, current Level) Outcome {
	current = current.Clamp()
	ctx = llm.WithPurpose(ctx, llm.PurposeAdjust)

	userMsg, err := buildAdjustMessage(reflection, lastQuestion, current)
	if err != nil {
		return fallback(current, fmt.Errorf("build adjust prompt: %w", err))
	}

	resp, err := a.provider.Generate(ctx, llm.Request{
		System:      adjustSystemPrompt,
		Messages:    llm.UserMessage(userMsg),
		Schema:      AdjustSchema,
		MaxTokens:   a.cfg.MaxTokens,
		Temperature: a.cfg.Temperature,
	})
	if err != nil {
		return fallback(current, fmt.Errorf("LLM adjust failed: %w", err))
	}

	var raw adjustOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return fallback(current, fmt.Errorf("failed to parse adjust response: %w", err))
	}

	label := emotion.Label(raw.Sentiment)
	if !sentiments[label] {
		return fallback(current, fmt.Errorf("unexpected sentiment %q", raw.Sentiment))
	}
	if raw.NewDifficulty == nil {
		return fallback(current, fmt.Errorf("adjust response missing new_difficulty"))
	}
	if raw.Motivation == "" {
		raw.Motivation = FallbackMotivation
	}

	return Outcome{Suggestion: Suggestion{
		Sentiment:     label,
		NewDifficulty: Level(*raw.NewDifficulty).Clamp(),
		Motivation:    raw.Motivation,
	}}
}

func fallback(current Level, err error) Outcome {
	return Outcome{
		Suggestion: Suggestion{
			Sentiment:     emotion.Neutral,
			NewDifficulty: current,
			Motivation:    FallbackMotivation,
		},
		Fallback: true,
		Err:      err,
	}
}

const adjustSystemPrompt = `You are a kind math tutor for primary-school children. After each question the learner writes a short reflection about how it went.

Instructions:
- Classify the learner's feeling as exactly one of: confident, curious, confused, frustrated, bored, neutral.
- Propose the difficulty for the next question as an integer from 1 (easiest) to 10 (hardest).
- Raise the level when the learner sounds confident or bored, lower it when they sound confused or frustrated, otherwise keep it close to the current level.
- Write one short, warm motivation sentence addressed to the learner.`

var adjustUserTemplate = template.Must(template.New("adjust").Parse(`Current difficulty: {{.Level}}
Last question: {{.Question}}
Learner's reflection: {{.Reflection}}`))

func buildAdjustMessage(reflection, lastQuestion string, current Level) (string, error) {
	var buf bytes.Buffer
	err := adjustUserTemplate.Execute(&buf, struct {
		Level      Level
		Question   string
		Reflection string
	}{current, lastQuestion, reflection})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
