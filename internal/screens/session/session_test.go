package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathmood/internal/emotion"
	"github.com/abhisek/mathmood/internal/problemgen"
	"github.com/abhisek/mathmood/internal/reflection"
	"github.com/abhisek/mathmood/internal/router"
	"github.com/abhisek/mathmood/internal/screens/summary"
	sess "github.com/abhisek/mathmood/internal/session"
	"github.com/abhisek/mathmood/internal/store"
)

type cheer struct{}

func (cheer) Motivate(_ context.Context, _ string, correct bool, _ string) (string, error) {
	if correct {
		return "Brilliant!", nil
	}
	return "Keep at it!", nil
}

type narrator struct{}

func (narrator) Narrate(context.Context, string, []reflection.Record) (string, error) {
	return "A thoughtful quiz.", nil
}

// flaky fails the first n generations.
type flaky struct {
	n   int
	gen problemgen.Generator
}

func (f *flaky) Generate(ctx context.Context, in problemgen.GenerateInput) (*problemgen.Question, error) {
	if f.n > 0 {
		f.n--
		return nil, errors.New("generator offline")
	}
	return f.gen.Generate(ctx, in)
}

func newEngine(t *testing.T, questions int, gen problemgen.Generator) *sess.Engine {
	t.Helper()
	s, err := store.NewSQLite(context.Background(), filepath.Join(t.TempDir(), "tui.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	if gen == nil {
		gen = problemgen.NewLocalGenerator(5)
	}
	engine, err := sess.NewEngine(sess.Config{Strategy: "rule", Questions: questions, UniqueAttempts: 1}, sess.Deps{
		Store:     s,
		Questions: gen,
		Motivator: cheer{},
		Narrator:  narrator{},
	})
	require.NoError(t, err)
	return engine
}

func key(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func char(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// send delivers msg and runs the resulting command once, returning its
// message.
func send(t *testing.T, s *SessionScreen, msg tea.Msg) tea.Msg {
	t.Helper()
	_, cmd := s.Update(msg)
	if cmd == nil {
		return nil
	}
	return cmd()
}

func started(t *testing.T, s *SessionScreen) {
	t.Helper()
	s.Update(s.start()())
	require.Equal(t, modeQuestion, s.mode, s.errMsg)
	require.NotNil(t, s.question)
}

func answer(t *testing.T, s *SessionScreen, text string) {
	t.Helper()
	s.input.Model.SetValue(text)
	s.Update(send(t, s, key(tea.KeyEnter)))
	require.Equal(t, modeFeedback, s.mode, s.errMsg)
}

func TestSessionScreen_FullQuiz(t *testing.T) {
	s := New(newEngine(t, 2, nil), sess.Setup{Name: "Mia", Grade: 3, Topic: "addition"})
	started(t, s)
	assert.Equal(t, "Addition", s.Title())
	assert.Equal(t, 2, s.Status().Target)

	answer(t, s, s.question.Answer)
	assert.True(t, s.answer.Correct)
	assert.Equal(t, "Brilliant!", s.answer.Motivation)
	assert.Contains(t, s.View(100, 40), "Brilliant!")

	s.Update(char('x'))
	require.Equal(t, modeReflection, s.mode)

	s.Update(key(tea.KeyTab))
	s.Update(key(tea.KeySpace))
	s.Update(key(tea.KeyTab))
	s.Update(key(tea.KeyRight))
	s.Update(key(tea.KeyTab))
	assert.Equal(t, emotion.Palette[0].Glyph, s.form.Value().Emoji)
	assert.Equal(t, defaultConfidence+10, s.form.Value().Confidence)

	s.Update(send(t, s, key(tea.KeyEnter)))
	require.Equal(t, modeQuestion, s.mode, s.errMsg)
	require.NotNil(t, s.lastAdj)
	assert.Equal(t, emotion.Happy, s.lastAdj.Emotion)
	assert.Equal(t, 1, s.Status().Done)

	answer(t, s, "-1")
	assert.False(t, s.answer.Correct)
	assert.Equal(t, 0, s.Status().Streak)

	s.Update(char('x'))
	for range int(fieldSubmit) {
		s.Update(key(tea.KeyTab))
	}
	msg := send(t, s, send(t, s, key(tea.KeyEnter)))
	replace, ok := msg.(router.ReplaceScreenMsg)
	require.True(t, ok, "expected ReplaceScreenMsg, got %T", msg)
	_, ok = replace.Screen.(*summary.SummaryScreen)
	assert.True(t, ok)
	assert.Contains(t, replace.Screen.View(100, 40), "Score: 1/2")
}

func TestSessionScreen_EmptyAnswerIgnored(t *testing.T) {
	s := New(newEngine(t, 2, nil), sess.Setup{Name: "Mia", Grade: 3, Topic: "addition"})
	started(t, s)

	_, cmd := s.Update(key(tea.KeyEnter))
	assert.Nil(t, cmd)
	assert.Equal(t, modeQuestion, s.mode)
}

func TestSessionScreen_QuitConfirm(t *testing.T) {
	s := New(newEngine(t, 2, nil), sess.Setup{Name: "Mia", Grade: 3, Topic: "addition"})
	started(t, s)

	s.Update(key(tea.KeyEscape))
	require.True(t, s.confirmQuit)
	assert.Contains(t, s.View(100, 30), "End the quiz early?")

	s.Update(char('n'))
	assert.False(t, s.confirmQuit)

	s.Update(key(tea.KeyEscape))
	msg := send(t, s, char('y'))
	_, ok := msg.(router.PopScreenMsg)
	assert.True(t, ok)
	assert.Error(t, s.ctx.Err())
}

func TestSessionScreen_RetryAfterStartFailure(t *testing.T) {
	gen := &flaky{n: 1, gen: problemgen.NewLocalGenerator(5)}
	s := New(newEngine(t, 2, gen), sess.Setup{Name: "Mia", Grade: 3, Topic: "addition"})

	s.Update(s.start()())
	require.Equal(t, modeError, s.mode)
	assert.Contains(t, s.View(100, 30), "generator offline")

	s.Update(send(t, s, char('r')))
	assert.Equal(t, modeQuestion, s.mode)
	assert.NotNil(t, s.question)
}

func TestSessionScreen_InvalidSetup(t *testing.T) {
	s := New(newEngine(t, 2, nil), sess.Setup{Name: "", Grade: 3, Topic: "addition"})
	s.Update(s.start()())
	assert.Equal(t, modeError, s.mode)
	assert.Contains(t, s.errMsg, "name is required")
}

func TestSessionScreen_KeyHints(t *testing.T) {
	s := New(newEngine(t, 2, nil), sess.Setup{Name: "Mia", Grade: 3, Topic: "addition"})
	started(t, s)
	assert.Equal(t, "Submit", s.KeyHints()[0].Description)

	s.confirmQuit = true
	assert.Equal(t, "Y", s.KeyHints()[0].Key)
}
