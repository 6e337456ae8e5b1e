// Package reflection collects one reflection per question and turns the
// finished set into the end-of-session summary.
package reflection

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/abhisek/mathmood/internal/emotion"
)

var (
	// ErrSessionComplete is returned by Append once the target number of
	// records has been collected.
	ErrSessionComplete = errors.New("session already complete")

	// ErrNotReady is returned by Finalize before the target is reached.
	ErrNotReady = errors.New("session still collecting reflections")
)

// Record is the learner's reflection on one question. Records are never
// changed once appended.
type Record struct {
	Question        string
	CanonicalAnswer string
	WasCorrect      bool
	ReflectionText  string
	Glyph           string
	Emotion         emotion.Label
	Confidence      int
}

// State is the aggregator lifecycle.
type State int

const (
	Collecting State = iota
	Finalizing
	Complete
)

func (s State) String() string {
	switch s {
	case Collecting:
		return "collecting"
	case Finalizing:
		return "finalizing"
	case Complete:
		return "complete"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Summary is the end-of-session result.
type Summary struct {
	Score           *big.Rat
	Correct         int
	Target          int
	DominantEmotion emotion.Label
	Narrative       string

	// NarrativeFallback is set when the summarizer failed and Narrative is
	// the fixed encouragement.
	NarrativeFallback bool
	Records           []Record
	Level             int
}

// ScoreString formats the score as "k/target".
func (s *Summary) ScoreString() string {
	return fmt.Sprintf("%d/%d", s.Correct, s.Target)
}

// Narrator writes the closing narrative for a finished session.
type Narrator interface {
	Narrate(ctx context.Context, name string, records []Record) (string, error)
}

// PerformanceSink persists the terminal performance row.
type PerformanceSink interface {
	LogSessionPerformance(ctx context.Context, userID, topic string, score *big.Rat, level int) error
}

// Learner identifies whose session is being finalized.
type Learner struct {
	UserID string
	Name   string
	Topic  string
}

// Aggregator accumulates reflection records for one session.
type Aggregator struct {
	target  int
	records []Record
	state   State
	summary *Summary

	// pending holds the narrated summary across a failed persist so a
	// retried Finalize does not narrate again.
	pending *Summary
}

// NewAggregator creates an aggregator that completes after target records.
func NewAggregator(target int) *Aggregator {
	if target <= 0 {
		target = 10
	}
	return &Aggregator{target: target}
}

// Append adds r. Reaching the target moves the aggregator to Finalizing.
func (a *Aggregator) Append(r Record) error {
	if a.state != Collecting {
		return ErrSessionComplete
	}
	a.records = append(a.records, r)
	if len(a.records) >= a.target {
		a.state = Finalizing
	}
	return nil
}

func (a *Aggregator) State() State { return a.state }
func (a *Aggregator) Len() int     { return len(a.records) }
func (a *Aggregator) Target() int  { return a.target }

// Records returns a copy of the collected records in order.
func (a *Aggregator) Records() []Record {
	return append([]Record(nil), a.records...)
}

// Correct counts correctly answered records.
func (a *Aggregator) Correct() int {
	n := 0
	for _, r := range a.records {
		if r.WasCorrect {
			n++
		}
	}
	return n
}

// Score is correct answers over the target, exactly.
func (a *Aggregator) Score() *big.Rat {
	return big.NewRat(int64(a.Correct()), int64(a.target))
}

// Summary returns the finalized summary, or nil before completion.
func (a *Aggregator) Summary() *Summary {
	return a.summary
}

// Finalize builds the summary, persists the terminal performance row at
// level and completes the session. Narrator failures fall back to a fixed
// narrative. A persistence failure leaves the aggregator in Finalizing so
// the call can be retried without narrating again. Finalizing a complete
// session returns the same summary.
func (a *Aggregator) Finalize(ctx context.Context, who Learner, level int, narrator Narrator, sink PerformanceSink) (*Summary, error) {
	switch a.state {
	case Complete:
		return a.summary, nil
	case Collecting:
		return nil, ErrNotReady
	}

	if a.pending == nil {
		a.pending = a.pendingSummary(ctx, who.Name, level, narrator)
	}
	s := a.pending
	s.Level = level

	if sink != nil {
		if err := sink.LogSessionPerformance(ctx, who.UserID, who.Topic, s.Score, level); err != nil {
			return s, fmt.Errorf("log session performance: %w", err)
		}
	}

	a.summary = s
	a.pending = nil
	a.state = Complete
	return s, nil
}

func (a *Aggregator) pendingSummary(ctx context.Context, name string, level int, narrator Narrator) *Summary {
	records := a.Records()
	s := &Summary{
		Score:           a.Score(),
		Correct:         a.Correct(),
		Target:          a.target,
		DominantEmotion: DominantEmotion(records),
		Records:         records,
		Level:           level,
	}

	var err error
	if narrator != nil {
		s.Narrative, err = narrator.Narrate(ctx, name, records)
	}
	if narrator == nil || err != nil || s.Narrative == "" {
		s.Narrative = FallbackNarrative
		s.NarrativeFallback = true
	}
	return s
}

// DominantEmotion returns the most frequent label. Ties go to the label
// seen first. An empty list is Neutral.
func DominantEmotion(records []Record) emotion.Label {
	counts := make(map[emotion.Label]int)
	var order []emotion.Label
	for _, r := range records {
		if counts[r.Emotion] == 0 {
			order = append(order, r.Emotion)
		}
		counts[r.Emotion]++
	}

	best := emotion.Neutral
	bestN := 0
	for _, l := range order {
		if counts[l] > bestN {
			best, bestN = l, counts[l]
		}
	}
	return best
}
