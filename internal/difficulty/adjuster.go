package difficulty

import (
	"context"
	"fmt"

	"github.com/abhisek/mathmood/internal/emotion"
)

// Strategy names accepted by New.
const (
	StrategyRule   = "rule"
	StrategyAI     = "ai"
	StrategyHybrid = "hybrid"
)

// History supplies the most-recent-first performance window for one learner.
type History interface {
	Recent(ctx context.Context, limit int) ([]PerformanceRecord, error)
}

// HistoryFunc adapts a function to History.
type HistoryFunc func(ctx context.Context, limit int) ([]PerformanceRecord, error)

func (f HistoryFunc) Recent(ctx context.Context, limit int) ([]PerformanceRecord, error) {
	return f(ctx, limit)
}

// Round is a finished question together with the learner's reflection.
type Round struct {
	Question   string
	Correct    bool
	Reflection string
	Emotion    emotion.Label
}

// Result is an adjuster's verdict after a reflection.
type Result struct {
	Level Level

	// Decision is set by the rule strategy.
	Decision Decision

	// Sentiment and Motivation are set by the AI strategies.
	Sentiment  emotion.Label
	Motivation string

	// Fallback reports that the AI could not be used. Err holds the cause.
	Fallback bool
	Err      error
}

// Adjuster moves the difficulty level as a session progresses.
type Adjuster interface {
	// AfterAnswer runs once the answer is checked.
	AfterAnswer(ctx context.Context, current Level, correct bool) Level

	// AfterReflection runs once the reflection for the round is recorded.
	AfterReflection(ctx context.Context, current Level, round Round) Result

	Name() string
}

// New builds the adjuster for strategy. The AI adjuster is required by the
// ai and hybrid strategies; history is required by rule.
func New(strategy string, ai *AIAdjuster, history History, window int) (Adjuster, error) {
	switch strategy {
	case StrategyRule:
		if history == nil {
			return nil, fmt.Errorf("rule strategy needs a performance history")
		}
		if window <= 0 {
			window = 5
		}
		return &RuleStrategy{history: history, window: window}, nil
	case StrategyAI:
		if ai == nil {
			return nil, fmt.Errorf("ai strategy needs an LLM provider")
		}
		return &AIStrategy{ai: ai}, nil
	case StrategyHybrid, "":
		if ai == nil {
			return nil, fmt.Errorf("hybrid strategy needs an LLM provider")
		}
		return &HybridStrategy{AIStrategy{ai: ai}}, nil
	default:
		return nil, fmt.Errorf("unknown adjuster strategy: %q", strategy)
	}
}

// RuleStrategy applies Decide to the stored performance window after every
// reflection and moves one unit step.
type RuleStrategy struct {
	history History
	window  int
}

func (r *RuleStrategy) Name() string { return StrategyRule }

func (r *RuleStrategy) AfterAnswer(_ context.Context, current Level, _ bool) Level {
	return current.Clamp()
}

func (r *RuleStrategy) AfterReflection(ctx context.Context, current Level, _ Round) Result {
	window, err := r.history.Recent(ctx, r.window)
	if err != nil {
		return Result{Level: current.Clamp(), Decision: Maintain, Err: fmt.Errorf("load performance window: %w", err)}
	}
	d := Decide(window)
	return Result{Level: current.Apply(d), Decision: d}
}

// AIStrategy replaces the level with the model's proposal.
type AIStrategy struct {
	ai *AIAdjuster
}

func (a *AIStrategy) Name() string { return StrategyAI }

func (a *AIStrategy) AfterAnswer(_ context.Context, current Level, _ bool) Level {
	return current.Clamp()
}

func (a *AIStrategy) AfterReflection(ctx context.Context, current Level, round Round) Result {
	out := a.ai.DecideAI(ctx, round.Reflection, round.Question, current)
	return Result{
		Level:      out.NewDifficulty,
		Sentiment:  out.Sentiment,
		Motivation: out.Motivation,
		Fallback:   out.Fallback,
		Err:        out.Err,
	}
}

// HybridStrategy bumps the level on every correct answer, then lets the
// model set it after the reflection.
type HybridStrategy struct {
	AIStrategy
}

func (h *HybridStrategy) Name() string { return StrategyHybrid }

func (h *HybridStrategy) AfterAnswer(_ context.Context, current Level, correct bool) Level {
	if correct {
		return current.Apply(Increase)
	}
	return current.Clamp()
}
