package history

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathmood/internal/emotion"
	"github.com/abhisek/mathmood/internal/router"
	"github.com/abhisek/mathmood/internal/store"
)

type fakeRepo struct {
	user     *store.User
	sessions []store.SessionRecord
	perf     []store.PerformanceRecord
	err      error
}

func (f *fakeRepo) FindUserByName(context.Context, string) (*store.User, error) {
	if f.user == nil {
		return nil, store.ErrNotFound
	}
	return f.user, nil
}

func (f *fakeRepo) RecentSessions(context.Context, string, int) ([]store.SessionRecord, error) {
	return f.sessions, f.err
}

func (f *fakeRepo) RecentPerformance(context.Context, string, int) ([]store.PerformanceRecord, error) {
	return f.perf, nil
}

func load(t *testing.T, s *HistoryScreen) {
	t.Helper()
	s.Update(s.Init()())
	if !s.loaded {
		t.Fatal("expected screen to be loaded")
	}
}

func TestHistory_UnknownLearner(t *testing.T) {
	s := New(&fakeRepo{}, "Zed")
	load(t, s)
	if !strings.Contains(s.View(80, 24), "No quizzes yet for Zed") {
		t.Errorf("unexpected view:\n%s", s.View(80, 24))
	}
}

func TestHistory_ShowsSessionsAndMix(t *testing.T) {
	repo := &fakeRepo{
		user: &store.User{ID: "u1", Name: "Mia"},
		sessions: []store.SessionRecord{
			{Topic: "Addition", Score: big.NewRat(2, 3), Level: 4, CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		},
		perf: []store.PerformanceRecord{
			{Correct: true, Emotion: emotion.Happy},
			{Correct: false, Emotion: emotion.Confused},
			{Correct: true, Emotion: emotion.Happy},
		},
	}
	s := New(repo, "Mia")
	load(t, s)

	view := s.View(100, 30)
	for _, want := range []string{"Mia's quizzes", "Addition", "67%", "level 4", "last 3 answers", "Happy", "Confused"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if s.mix[0].Label != emotion.Happy || s.mix[0].Count != 2 || s.mix[0].Correct != 2 {
		t.Errorf("mix[0] = %+v", s.mix[0])
	}
}

func TestHistory_LoadError(t *testing.T) {
	s := New(&fakeRepo{user: &store.User{ID: "u1"}, err: errors.New("db down")}, "Mia")
	load(t, s)
	if !strings.Contains(s.View(80, 24), "db down") {
		t.Error("expected the error in the view")
	}
}

func TestHistory_EscPops(t *testing.T) {
	_, cmd := New(&fakeRepo{}, "Mia").Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestEmotionMix_Order(t *testing.T) {
	mix := emotionMix([]store.PerformanceRecord{
		{Emotion: emotion.Bored},
		{Emotion: emotion.Curious},
		{Emotion: emotion.Curious},
	})
	if len(mix) != 2 || mix[0].Label != emotion.Curious || mix[1].Label != emotion.Bored {
		t.Errorf("mix = %+v", mix)
	}
}
