package summary

import (
	"math/big"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathmood/internal/emotion"
	"github.com/abhisek/mathmood/internal/reflection"
	"github.com/abhisek/mathmood/internal/router"
)

func testResult() Result {
	return Result{
		Name:       "Mia",
		Topic:      "Addition",
		Grade:      3,
		BestStreak: 2,
		Elapsed:    3*time.Minute + 7*time.Second,
		Summary: &reflection.Summary{
			Score:           big.NewRat(2, 3),
			Correct:         2,
			Target:          3,
			DominantEmotion: emotion.Confident,
			Narrative:       "You stayed calm and kept trying.",
			Level:           4,
			Records: []reflection.Record{
				{Question: "What is 2 + 3?", WasCorrect: true, Glyph: "😊", Emotion: emotion.Confident, Confidence: 80},
				{Question: "What is 9 + 8?", WasCorrect: false, Emotion: emotion.Confused, Confidence: 30},
				{Question: "What is 4 + 4?", WasCorrect: true, Glyph: "😊", Emotion: emotion.Confident, Confidence: 90},
			},
		},
	}
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New(testResult())
	if s.Title() != "Quiz Summary" {
		t.Errorf("Title = %q, want %q", s.Title(), "Quiz Summary")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	view := New(testResult()).View(100, 40)
	for _, want := range []string{"Great work, Mia!", "Score: 2/3", "3:07", "Happy", "kept trying", "What is 9 + 8?", "Confused"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSummaryScreen_NilSummary(t *testing.T) {
	if v := New(Result{}).View(80, 24); v != "" {
		t.Errorf("expected empty view, got %q", v)
	}
}

func TestSummaryScreen_Scroll(t *testing.T) {
	s := New(testResult())
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.offset != 2 {
		t.Errorf("offset = %d, want 2", s.offset)
	}
	if strings.Contains(s.View(100, 40), "What is 2 + 3?") {
		t.Error("scrolled-off record should be hidden")
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if s.offset != 1 {
		t.Errorf("offset = %d, want 1", s.offset)
	}
}

func TestSummaryScreen_Navigation(t *testing.T) {
	for _, key := range []tea.KeyPressMsg{{Code: tea.KeyEnter}, {Code: tea.KeyEscape}} {
		_, cmd := New(testResult()).Update(key)
		if cmd == nil {
			t.Fatalf("expected a command for %s", key.String())
		}
		if _, ok := cmd().(router.PopScreenMsg); !ok {
			t.Errorf("expected PopScreenMsg for %s", key.String())
		}
	}
}

func TestSummaryScreen_KeyHints(t *testing.T) {
	if hints := New(testResult()).KeyHints(); len(hints) != 3 {
		t.Errorf("KeyHints length = %d, want 3", len(hints))
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 4); got != "abc…" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("abc", 10); got != "abc" {
		t.Errorf("truncate = %q", got)
	}
}
