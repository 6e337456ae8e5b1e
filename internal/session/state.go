package session

import (
	"time"

	"github.com/abhisek/mathmood/internal/difficulty"
	"github.com/abhisek/mathmood/internal/problemgen"
	"github.com/abhisek/mathmood/internal/reflection"
)

// Phase is where a session is in the question/reflection cycle.
type Phase int

const (
	PhaseAnswer     Phase = iota // Waiting for an answer to Current
	PhaseReflection              // Answer checked, waiting for the reflection
	PhaseFinalizing              // All reflections in, summary not yet persisted
	PhaseComplete                // Summary persisted
)

func (p Phase) String() string {
	switch p {
	case PhaseAnswer:
		return "answer"
	case PhaseReflection:
		return "reflection"
	case PhaseFinalizing:
		return "finalizing"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// State is the value object for one quiz session. The Engine is its only
// writer; callers must not mutate it concurrently.
type State struct {
	// ID is the UUID for this session.
	ID string

	UserID string
	Name   string
	Grade  int
	Topic  problemgen.Topic

	// Returning is true when the learner was found by name.
	Returning bool

	// Level is the current difficulty.
	Level difficulty.Level

	Phase Phase

	// Current is the question being asked (nil if generation failed).
	Current *problemgen.Question

	// QuestionID is the stored row for Current once it has been answered.
	QuestionID int64

	// LastAnswer and LastCorrect describe the most recent answer.
	LastAnswer  string
	LastCorrect bool

	// Streak counts consecutive correct answers; BestStreak is the session high.
	Streak     int
	BestStreak int

	// PriorQuestions lists question texts asked so far, oldest first.
	PriorQuestions []string

	StartedAt time.Time

	// Summary is set once the session completes.
	Summary *reflection.Summary

	// feedbackLogged and performanceLogged track the reflection writes for
	// QuestionID so a retried Reflect does not store them twice.
	feedbackLogged    bool
	performanceLogged bool

	aggregator *reflection.Aggregator
	adjuster   difficulty.Adjuster
}

// Done returns the number of rounds with a recorded reflection.
func (s *State) Done() int {
	return s.aggregator.Len()
}

// Target returns the number of questions in the session.
func (s *State) Target() int {
	return s.aggregator.Target()
}

// Records returns the reflections collected so far.
func (s *State) Records() []reflection.Record {
	return s.aggregator.Records()
}

// Correct returns how many answers were correct so far.
func (s *State) Correct() int {
	return s.aggregator.Correct()
}

// Strategy names the difficulty strategy driving this session.
func (s *State) Strategy() string {
	return s.adjuster.Name()
}
