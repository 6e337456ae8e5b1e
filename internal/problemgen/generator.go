package problemgen

import (
	"context"
	"errors"
	"strings"
)

// Generator produces math questions.
type Generator interface {
	// Generate produces a single question for the given input context.
	// Returns a validated Question or an error.
	Generate(ctx context.Context, input GenerateInput) (*Question, error)
}

// DefaultUniqueAttempts is how many times GenerateUnique asks for a question
// that has not been asked yet.
const DefaultUniqueAttempts = 8

// GenerateUnique asks gen for a question not already in
// input.PriorQuestions, up to attempts times. Retryable validation failures
// use up an attempt. When every attempt produced a repeat, the last repeat
// is returned rather than failing the session.
func GenerateUnique(ctx context.Context, gen Generator, input GenerateInput, attempts int) (*Question, error) {
	if attempts <= 0 {
		attempts = DefaultUniqueAttempts
	}

	seen := make(map[string]bool, len(input.PriorQuestions))
	for _, q := range input.PriorQuestions {
		seen[normalizeText(q)] = true
	}

	var repeat *Question
	var lastErr error
	for range attempts {
		q, err := gen.Generate(ctx, input)
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) && verr.Retryable && ctx.Err() == nil {
				lastErr = err
				continue
			}
			return nil, err
		}
		if !seen[normalizeText(q.Text)] {
			return q, nil
		}
		repeat = q
	}

	if repeat != nil {
		return repeat, nil
	}
	return nil, lastErr
}

func normalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
