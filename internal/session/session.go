// Package session drives one quiz from setup to summary. The Engine owns the
// lifecycle and commits to the store at three checkpoints: after an answer,
// after a reflection and when the session is finalized.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/mathmood/internal/difficulty"
	"github.com/abhisek/mathmood/internal/emotion"
	"github.com/abhisek/mathmood/internal/events"
	"github.com/abhisek/mathmood/internal/logger"
	"github.com/abhisek/mathmood/internal/problemgen"
	"github.com/abhisek/mathmood/internal/reflection"
	"github.com/abhisek/mathmood/internal/store"
)

var (
	ErrSessionComplete    = errors.New("session is complete")
	ErrNoQuestion         = errors.New("no question is waiting for an answer")
	ErrAwaitingReflection = errors.New("waiting for the reflection on the last answer")
	ErrAwaitingAnswer     = errors.New("waiting for an answer to the current question")
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidSetup       = errors.New("invalid session setup")
)

// MotivationFallback is shown when the motivation call fails.
const MotivationFallback = "Nice effort! Let's keep going."

// StartLevel is the difficulty of the first question.
const StartLevel difficulty.Level = difficulty.MinLevel

// Motivator writes the message shown after an answer.
type Motivator interface {
	Motivate(ctx context.Context, answer string, correct bool, name string) (string, error)
}

// Config tunes the engine.
type Config struct {
	// Strategy is rule, ai or hybrid.
	Strategy string

	// Questions per session. Default: 10.
	Questions int

	// Window is the performance window used by the rule strategy. Default: 5.
	Window int

	// UniqueAttempts bounds question regeneration. Default: problemgen.DefaultUniqueAttempts.
	UniqueAttempts int
}

// Deps are the engine's collaborators. Events and Log may be nil.
type Deps struct {
	Store     store.Repository
	Questions problemgen.Generator
	Motivator Motivator
	AI        *difficulty.AIAdjuster
	Narrator  reflection.Narrator
	Events    events.Publisher
	Log       *logger.Logger
}

// Engine runs quiz sessions. It keeps no per-session state, so one Engine
// may serve many sessions as long as each State has a single owner.
type Engine struct {
	cfg  Config
	deps Deps
	now  func() time.Time
}

// NewEngine validates cfg against deps.
func NewEngine(cfg Config, deps Deps) (*Engine, error) {
	if cfg.Strategy == "" {
		cfg.Strategy = difficulty.StrategyHybrid
	}
	if cfg.Questions <= 0 {
		cfg.Questions = 10
	}
	if cfg.Window <= 0 {
		cfg.Window = 5
	}
	if cfg.UniqueAttempts <= 0 {
		cfg.UniqueAttempts = problemgen.DefaultUniqueAttempts
	}
	if deps.Store == nil || deps.Questions == nil || deps.Motivator == nil {
		return nil, fmt.Errorf("session engine needs a store, a question generator and a motivator")
	}
	if deps.Events == nil {
		deps.Events = events.Nop{}
	}
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}

	// Build a throwaway adjuster so a bad strategy fails at startup.
	if _, err := difficulty.New(cfg.Strategy, deps.AI, history(deps.Store, ""), cfg.Window); err != nil {
		return nil, err
	}

	return &Engine{cfg: cfg, deps: deps, now: time.Now}, nil
}

// Setup is what the learner enters before the first question.
type Setup struct {
	Name  string
	Grade int
	Topic string
}

func (s Setup) validate() (string, problemgen.Topic, error) {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		return "", "", fmt.Errorf("%w: name is required", ErrInvalidSetup)
	}
	if s.Grade < problemgen.MinGrade || s.Grade > problemgen.MaxGrade {
		return "", "", fmt.Errorf("%w: grade must be between %d and %d", ErrInvalidSetup, problemgen.MinGrade, problemgen.MaxGrade)
	}
	if strings.TrimSpace(s.Topic) == "" {
		return "", "", fmt.Errorf("%w: topic is required", ErrInvalidSetup)
	}
	topic, err := problemgen.ParseTopic(s.Topic)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidSetup, err)
	}
	return name, topic, nil
}

// Lookup returns the stored learner with this name, or nil for a new one.
func (e *Engine) Lookup(ctx context.Context, name string) (*store.User, error) {
	u, err := e.deps.Store.FindUserByName(ctx, strings.TrimSpace(name))
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

// Start resolves the learner, creating a profile for a new name, and
// generates the first question.
func (e *Engine) Start(ctx context.Context, setup Setup) (*State, error) {
	name, topic, err := setup.validate()
	if err != nil {
		return nil, err
	}

	st := &State{
		ID:         uuid.New().String(),
		Name:       name,
		Grade:      setup.Grade,
		Topic:      topic,
		Level:      StartLevel,
		Phase:      PhaseAnswer,
		StartedAt:  e.now(),
		aggregator: reflection.NewAggregator(e.cfg.Questions),
	}

	u, err := e.Lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	if u != nil {
		st.UserID = u.ID
		st.Returning = true
	} else {
		st.UserID, err = e.deps.Store.CreateUser(ctx, name, setup.Grade, string(topic))
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
	}

	st.adjuster, err = difficulty.New(e.cfg.Strategy, e.deps.AI, history(e.deps.Store, st.UserID), e.cfg.Window)
	if err != nil {
		return nil, err
	}

	if _, err := e.NextQuestion(ctx, st); err != nil {
		return nil, err
	}

	e.deps.Log.Info("session started",
		"session_id", st.ID,
		"user_id", st.UserID,
		"returning", st.Returning,
		"topic", string(topic),
		"grade", st.Grade,
		"strategy", st.adjuster.Name(),
	)
	return st, nil
}

// NextQuestion generates a question at the current level that has not been
// asked in this session. It is safe to call again after a failure.
func (e *Engine) NextQuestion(ctx context.Context, st *State) (*problemgen.Question, error) {
	switch st.Phase {
	case PhaseFinalizing, PhaseComplete:
		return nil, ErrSessionComplete
	case PhaseReflection:
		return nil, ErrAwaitingReflection
	}
	if st.Current != nil {
		return st.Current, nil
	}

	q, err := problemgen.GenerateUnique(ctx, e.deps.Questions, problemgen.GenerateInput{
		Grade:          st.Grade,
		Topic:          st.Topic,
		Name:           st.Name,
		Level:          int(st.Level),
		PriorQuestions: st.PriorQuestions,
	}, e.cfg.UniqueAttempts)
	if err != nil {
		return nil, fmt.Errorf("generate question: %w", err)
	}

	st.Current = q
	st.QuestionID = 0
	st.PriorQuestions = append(st.PriorQuestions, q.Text)
	return q, nil
}

// AnswerResult is what the learner sees after answering.
type AnswerResult struct {
	Correct         bool
	CanonicalAnswer string
	Explanation     string
	Motivation      string

	// MotivationErr is the generator failure behind a fallback message.
	MotivationErr error
	Level         difficulty.Level
	Streak        int
}

// Answer checks the answer, logs the question and asks for motivation.
func (e *Engine) Answer(ctx context.Context, st *State, answer string) (*AnswerResult, error) {
	switch st.Phase {
	case PhaseFinalizing, PhaseComplete:
		return nil, ErrSessionComplete
	case PhaseReflection:
		return nil, ErrAwaitingReflection
	}
	q := st.Current
	if q == nil {
		return nil, ErrNoQuestion
	}

	answer = strings.TrimSpace(answer)
	correct := problemgen.CheckAnswer(answer, q)

	qid, err := e.deps.Store.LogQuestion(ctx, st.UserID, q.Text, answer, correct)
	if err != nil {
		return nil, fmt.Errorf("log question: %w", err)
	}

	st.QuestionID = qid
	st.feedbackLogged = false
	st.performanceLogged = false
	st.LastAnswer = answer
	st.LastCorrect = correct
	if correct {
		st.Streak++
		st.BestStreak = max(st.BestStreak, st.Streak)
	} else {
		st.Streak = 0
	}
	st.Level = st.adjuster.AfterAnswer(ctx, st.Level, correct)
	st.Phase = PhaseReflection

	res := &AnswerResult{
		Correct:         correct,
		CanonicalAnswer: q.Answer,
		Explanation:     q.Explanation,
		Level:           st.Level,
		Streak:          st.Streak,
	}

	msg, err := e.deps.Motivator.Motivate(ctx, answer, correct, st.Name)
	if err != nil || msg == "" {
		e.deps.Log.Warn("motivation failed", "session_id", st.ID, "error", err)
		msg = MotivationFallback
		res.MotivationErr = err
	}
	res.Motivation = msg
	return res, nil
}

// Reflection is the learner's input after seeing the answer feedback.
type Reflection struct {
	Text       string
	Emoji      string
	Confidence int
}

// ReflectionResult reports the adjustment and what comes next. Exactly one
// of Next and Summary is set on success.
type ReflectionResult struct {
	Emotion    emotion.Label
	Adjustment difficulty.Result
	Level      difficulty.Level
	Next       *problemgen.Question
	Summary    *reflection.Summary
}

// Reflect records the reflection, adjusts the difficulty and either moves
// to the next question or finalizes the session.
func (e *Engine) Reflect(ctx context.Context, st *State, in Reflection) (*ReflectionResult, error) {
	switch st.Phase {
	case PhaseFinalizing, PhaseComplete:
		return nil, ErrSessionComplete
	case PhaseAnswer:
		return nil, ErrAwaitingAnswer
	}
	q := st.Current

	text := strings.TrimSpace(in.Text)
	glyph := strings.TrimSpace(in.Emoji)
	label := classify(glyph, text)
	confidence := min(max(in.Confidence, 0), 100)

	if !st.feedbackLogged {
		if err := e.deps.Store.LogFeedback(ctx, st.QuestionID, text, label, confidence); err != nil {
			return nil, fmt.Errorf("log feedback: %w", err)
		}
		st.feedbackLogged = true
	}
	if !st.performanceLogged {
		if err := e.deps.Store.LogAnswerPerformance(ctx, st.UserID, string(st.Topic), st.LastCorrect, label); err != nil {
			return nil, fmt.Errorf("log answer performance: %w", err)
		}
		st.performanceLogged = true
	}

	if err := st.aggregator.Append(reflection.Record{
		Question:        q.Text,
		CanonicalAnswer: q.Answer,
		WasCorrect:      st.LastCorrect,
		ReflectionText:  text,
		Glyph:           glyph,
		Emotion:         label,
		Confidence:      confidence,
	}); err != nil {
		return nil, err
	}

	adj := st.adjuster.AfterReflection(ctx, st.Level, difficulty.Round{
		Question:   q.Text,
		Correct:    st.LastCorrect,
		Reflection: text,
		Emotion:    label,
	})
	if adj.Err != nil {
		e.deps.Log.Warn("difficulty adjustment degraded",
			"session_id", st.ID,
			"strategy", st.adjuster.Name(),
			"fallback", adj.Fallback,
			"error", adj.Err,
		)
	}
	st.Level = adj.Level
	st.Current = nil

	res := &ReflectionResult{Emotion: label, Adjustment: adj, Level: st.Level}

	if st.aggregator.State() != reflection.Collecting {
		st.Phase = PhaseFinalizing
		summary, err := e.Finalize(ctx, st)
		res.Summary = summary
		return res, err
	}

	st.Phase = PhaseAnswer
	next, err := e.NextQuestion(ctx, st)
	if err != nil {
		return res, err
	}
	res.Next = next
	return res, nil
}

// Finalize builds and persists the summary, then publishes the completion
// event. A persistence failure leaves the session finalizing so the call can
// be retried.
func (e *Engine) Finalize(ctx context.Context, st *State) (*reflection.Summary, error) {
	switch st.Phase {
	case PhaseComplete:
		return st.Summary, nil
	case PhaseAnswer, PhaseReflection:
		return nil, reflection.ErrNotReady
	}

	summary, err := st.aggregator.Finalize(ctx, reflection.Learner{
		UserID: st.UserID,
		Name:   st.Name,
		Topic:  string(st.Topic),
	}, int(st.Level), e.deps.Narrator, e.deps.Store)
	if err != nil {
		return summary, err
	}

	st.Summary = summary
	st.Phase = PhaseComplete

	if summary.NarrativeFallback {
		e.deps.Log.Warn("session narrative fell back", "session_id", st.ID)
	}
	if err := e.deps.Events.SessionCompleted(ctx, completedEvent(st, e.now())); err != nil {
		e.deps.Log.Warn("publish session completed", "session_id", st.ID, "error", err)
	}

	e.deps.Log.Info("session completed",
		"session_id", st.ID,
		"score", summary.ScoreString(),
		"dominant_emotion", string(summary.DominantEmotion),
		"level", summary.Level,
	)
	return summary, nil
}

// classify prefers the emoji signal and falls back to the reflection text
// when no emoji was picked or the glyph is not recognized.
func classify(glyph, text string) emotion.Label {
	if glyph != "" {
		if l := emotion.Interpret(glyph); l != emotion.Unknown {
			return l
		}
	}
	if text == "" && glyph != "" {
		return emotion.Unknown
	}
	return emotion.FromText(text)
}

// history reads the learner's stored performance window.
func history(repo store.QuizRepo, userID string) difficulty.History {
	return difficulty.HistoryFunc(func(ctx context.Context, limit int) ([]difficulty.PerformanceRecord, error) {
		rows, err := repo.RecentPerformance(ctx, userID, limit)
		if err != nil {
			return nil, err
		}
		out := make([]difficulty.PerformanceRecord, len(rows))
		for i, r := range rows {
			out[i] = difficulty.PerformanceRecord{Correct: r.Correct, Emotion: r.Emotion}
		}
		return out, nil
	})
}
