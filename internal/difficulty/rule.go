// Package difficulty decides how hard the next question should be. The rule
// path looks at a window of recent answers; the AI path delegates to a
// language model and falls back to the current level when that fails.
package difficulty

import "github.com/abhisek/mathmood/internal/emotion"

// Level is a question difficulty in [MinLevel, MaxLevel].
type Level int

const (
	MinLevel Level = 1
	MaxLevel Level = 10
)

// Clamp pins l to [MinLevel, MaxLevel].
func (l Level) Clamp() Level {
	return min(max(l, MinLevel), MaxLevel)
}

// Apply moves l one unit step in the direction of d.
func (l Level) Apply(d Decision) Level {
	switch d {
	case Increase:
		l++
	case Decrease:
		l--
	}
	return l.Clamp()
}

// Decision is the outcome of the rule adjuster.
type Decision string

const (
	Increase Decision = "increase"
	Decrease Decision = "decrease"
	Maintain Decision = "maintain"
)

// PerformanceRecord is one answered question as the rule adjuster sees it.
type PerformanceRecord struct {
	Correct bool
	Emotion emotion.Label
}

// Decide applies the threshold rule to a window of recent records. The
// window's order does not matter.
func Decide(window []PerformanceRecord) Decision {
	if len(window) == 0 {
		return Maintain
	}

	var correct, confused int
	for _, r := range window {
		if r.Correct {
			correct++
		}
		if r.Emotion == emotion.Confused {
			confused++
		}
	}

	switch {
	case correct >= 3 && confused == 0:
		return Increase
	case confused >= 2 || correct <= 1:
		return Decrease
	default:
		return Maintain
	}
}
