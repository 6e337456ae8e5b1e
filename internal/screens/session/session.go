package session

import (
	"context"
	"errors"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathmood/internal/problemgen"
	"github.com/abhisek/mathmood/internal/router"
	"github.com/abhisek/mathmood/internal/screen"
	"github.com/abhisek/mathmood/internal/screens/summary"
	sess "github.com/abhisek/mathmood/internal/session"
	"github.com/abhisek/mathmood/internal/ui/components"
	"github.com/abhisek/mathmood/internal/ui/layout"
	"github.com/abhisek/mathmood/internal/ui/theme"
)

// mode is what the screen is currently showing.
type mode int

const (
	modeLoading mode = iota
	modeQuestion
	modeFeedback
	modeReflection
	modeError
)

// SessionScreen runs one quiz: question, feedback, reflection, repeat,
// then hands over to the summary screen.
type SessionScreen struct {
	engine *sess.Engine
	setup  sess.Setup

	ctx    context.Context
	cancel context.CancelFunc

	// st is only touched from Update. While busy, a command owns it.
	st       *sess.State
	busy     bool
	mode     mode
	question *problemgen.Question
	answer   *sess.AnswerResult
	lastAdj  *sess.ReflectionResult
	status   layout.Status

	// levelBefore is the level the last reflection started from.
	levelBefore int

	input   components.TextInput
	form    reflectionForm
	spinner spinner.Model

	confirmQuit bool
	errMsg      string
	loadingText string
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)
var _ screen.StatusProvider = (*SessionScreen)(nil)

// New creates a SessionScreen that starts a quiz for setup when pushed.
func New(engine *sess.Engine, setup sess.Setup) *SessionScreen {
	ctx, cancel := context.WithCancel(context.Background())
	return &SessionScreen{
		engine: engine,
		setup:  setup,
		ctx:    ctx,
		cancel: cancel,
		input:  components.NewTextInput("Type your answer...", components.AnswerCharset, 20),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary)),
		),
		loadingText: "Preparing your first question...",
	}
}

func (s *SessionScreen) Init() tea.Cmd {
	return tea.Batch(s.start(), s.spinner.Tick)
}

func (s *SessionScreen) Title() string {
	if t, err := problemgen.ParseTopic(s.setup.Topic); err == nil {
		return string(t)
	}
	return "Quiz"
}

// Status feeds the header with the quiz progress.
func (s *SessionScreen) Status() layout.Status {
	return s.status
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	if s.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "End quiz"},
			{Key: "N", Description: "Keep going"},
		}
	}
	switch s.mode {
	case modeQuestion:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Quit"},
		}
	case modeFeedback:
		return []layout.KeyHint{
			{Key: "any key", Description: "Reflect"},
		}
	case modeReflection:
		return []layout.KeyHint{
			{Key: "Tab", Description: "Next field"},
			{Key: "←→", Description: "Pick"},
			{Key: "Ctrl+S", Description: "Submit"},
			{Key: "Esc", Description: "Quit"},
		}
	case modeError:
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Quit"}}
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case startedMsg:
		return s.handleStarted(msg)

	case questionMsg:
		s.busy = false
		if msg.Err != nil {
			return s.fail(msg.Err)
		}
		return s, s.showQuestion(msg.Question)

	case answeredMsg:
		return s.handleAnswered(msg)

	case reflectedMsg:
		return s.handleReflected(msg)

	case finalizedMsg:
		s.busy = false
		if msg.Err != nil {
			return s.fail(msg.Err)
		}
		return s, s.finish()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	switch s.mode {
	case modeQuestion:
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	case modeReflection:
		_, cmd := s.form.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SessionScreen) handleStarted(msg startedMsg) (screen.Screen, tea.Cmd) {
	s.busy = false
	if msg.Err != nil {
		return s.fail(msg.Err)
	}
	s.st = msg.State
	s.syncStatus()
	return s, s.showQuestion(s.st.Current)
}

func (s *SessionScreen) handleAnswered(msg answeredMsg) (screen.Screen, tea.Cmd) {
	s.busy = false
	if msg.Err != nil {
		return s.fail(msg.Err)
	}
	s.answer = msg.Result
	s.input.Submit(msg.Result.Correct)
	s.syncStatus()
	s.mode = modeFeedback
	return s, nil
}

func (s *SessionScreen) handleReflected(msg reflectedMsg) (screen.Screen, tea.Cmd) {
	s.busy = false
	if msg.Result != nil {
		s.lastAdj = msg.Result
		s.syncStatus()
	}
	if msg.Err != nil {
		return s.fail(msg.Err)
	}
	if msg.Result.Summary != nil {
		return s, s.finish()
	}
	return s, s.showQuestion(msg.Result.Next)
}

func (s *SessionScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			return s, s.quit()
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	if s.busy {
		if key == "esc" {
			s.confirmQuit = true
		}
		return s, nil
	}

	switch s.mode {
	case modeError:
		switch key {
		case "r", "R":
			return s, s.retry()
		case "esc":
			return s, s.quit()
		}
		return s, nil

	case modeQuestion:
		switch key {
		case "esc":
			s.confirmQuit = true
			return s, nil
		case "enter":
			return s, s.submitAnswer()
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd

	case modeFeedback:
		if key == "esc" {
			s.confirmQuit = true
			return s, nil
		}
		s.form = newReflectionForm()
		s.mode = modeReflection
		return s, s.form.Init()

	case modeReflection:
		if key == "esc" {
			s.confirmQuit = true
			return s, nil
		}
		submitted, cmd := s.form.Update(msg)
		if submitted {
			return s, s.submitReflection()
		}
		return s, cmd
	}
	return s, nil
}

// showQuestion resets the answer input for q.
func (s *SessionScreen) showQuestion(q *problemgen.Question) tea.Cmd {
	s.question = q
	s.answer = nil
	s.errMsg = ""
	s.mode = modeQuestion
	s.input.Reset()
	return s.input.Init()
}

func (s *SessionScreen) submitAnswer() tea.Cmd {
	answer := s.input.Value()
	if answer == "" {
		return nil
	}
	s.loadingText = "Checking your answer..."
	return s.run(func(ctx context.Context, st *sess.State) tea.Msg {
		res, err := s.engine.Answer(ctx, st, answer)
		return answeredMsg{Result: res, Err: err}
	})
}

func (s *SessionScreen) submitReflection() tea.Cmd {
	in := s.form.Value()
	s.levelBefore = s.status.Level
	s.loadingText = "Thinking about your next question..."
	if s.st.Done()+1 >= s.st.Target() {
		s.loadingText = "Putting together your summary..."
	}
	return s.run(func(ctx context.Context, st *sess.State) tea.Msg {
		res, err := s.engine.Reflect(ctx, st, in)
		return reflectedMsg{Result: res, Err: err}
	})
}

func (s *SessionScreen) start() tea.Cmd {
	s.busy = true
	s.mode = modeLoading
	engine, setup, ctx := s.engine, s.setup, s.ctx
	return func() tea.Msg {
		st, err := engine.Start(ctx, setup)
		return startedMsg{State: st, Err: err}
	}
}

// run hands the session state to fn on a command goroutine. The screen
// does not read the state again until the resulting message arrives.
func (s *SessionScreen) run(fn func(ctx context.Context, st *sess.State) tea.Msg) tea.Cmd {
	s.busy = true
	s.mode = modeLoading
	ctx, st := s.ctx, s.st
	return func() tea.Msg { return fn(ctx, st) }
}

// retry resumes from wherever the last failure left the session.
func (s *SessionScreen) retry() tea.Cmd {
	s.errMsg = ""
	if s.st == nil {
		s.loadingText = "Preparing your first question..."
		return s.start()
	}

	switch s.st.Phase {
	case sess.PhaseFinalizing:
		s.loadingText = "Putting together your summary..."
		return s.run(func(ctx context.Context, st *sess.State) tea.Msg {
			sum, err := s.engine.Finalize(ctx, st)
			return finalizedMsg{Summary: sum, Err: err}
		})
	case sess.PhaseReflection:
		s.mode = modeReflection
		return s.submitReflection()
	case sess.PhaseComplete:
		return s.finish()
	}

	if s.st.Current != nil {
		s.mode = modeQuestion
		return s.input.Init()
	}
	s.loadingText = "Trying another question..."
	return s.run(func(ctx context.Context, st *sess.State) tea.Msg {
		q, err := s.engine.NextQuestion(ctx, st)
		return questionMsg{Question: q, Err: err}
	})
}

func (s *SessionScreen) fail(err error) (screen.Screen, tea.Cmd) {
	if errors.Is(err, context.Canceled) {
		return s, nil
	}
	s.mode = modeError
	s.errMsg = err.Error()
	return s, nil
}

// finish swaps this screen for the summary.
func (s *SessionScreen) finish() tea.Cmd {
	s.cancel()
	next := summary.New(summary.Result{
		Name:       s.st.Name,
		Topic:      string(s.st.Topic),
		Grade:      s.st.Grade,
		Returning:  s.st.Returning,
		BestStreak: s.st.BestStreak,
		Elapsed:    s.st.Elapsed(time.Now()),
		Summary:    s.st.Summary,
	})
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

// quit abandons the quiz. Rows already written stay in the store.
func (s *SessionScreen) quit() tea.Cmd {
	s.cancel()
	return func() tea.Msg { return router.PopScreenMsg{} }
}

func (s *SessionScreen) syncStatus() {
	if s.st == nil {
		return
	}
	s.status = layout.Status{
		Level:  int(s.st.Level),
		Streak: s.st.Streak,
		Done:   s.st.Done(),
		Target: s.st.Target(),
	}
}

func (s *SessionScreen) View(width, height int) string {
	if s.confirmQuit {
		return renderQuitConfirm(width, height)
	}
	if s.busy || s.mode == modeLoading {
		return renderLoading(width, s.spinner.View(), s.loadingText)
	}
	switch s.mode {
	case modeError:
		return renderError(width, s.errMsg)
	case modeFeedback:
		return s.renderFeedback(width)
	case modeReflection:
		return s.renderReflection(width)
	}
	return s.renderQuestionView(width)
}
