package history

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathmood/internal/emotion"
	"github.com/abhisek/mathmood/internal/router"
	"github.com/abhisek/mathmood/internal/screen"
	"github.com/abhisek/mathmood/internal/store"
	"github.com/abhisek/mathmood/internal/ui/layout"
	"github.com/abhisek/mathmood/internal/ui/theme"
)

const (
	sessionLimit     = 20
	performanceLimit = 50
)

// Repo is the slice of the store the history screen reads.
type Repo interface {
	FindUserByName(ctx context.Context, name string) (*store.User, error)
	RecentSessions(ctx context.Context, userID string, limit int) ([]store.SessionRecord, error)
	RecentPerformance(ctx context.Context, userID string, limit int) ([]store.PerformanceRecord, error)
}

type historyLoadedMsg struct {
	Sessions    []store.SessionRecord
	Performance []store.PerformanceRecord
	Err         error
}

// feeling is one row of the emotion mix.
type feeling struct {
	Label   emotion.Label
	Count   int
	Correct int
}

// HistoryScreen displays a learner's past quizzes and how they felt.
type HistoryScreen struct {
	repo     Repo
	name     string
	sessions []store.SessionRecord
	mix      []feeling
	answered int
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a HistoryScreen for the learner called name.
func New(repo Repo, name string) *HistoryScreen {
	return &HistoryScreen{repo: repo, name: name}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo, name := s.repo, s.name
	return func() tea.Msg {
		ctx := context.Background()

		u, err := repo.FindUserByName(ctx, name)
		if errors.Is(err, store.ErrNotFound) {
			return historyLoadedMsg{}
		}
		if err != nil {
			return historyLoadedMsg{Err: err}
		}

		sessions, err := repo.RecentSessions(ctx, u.ID, sessionLimit)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		perf, err := repo.RecentPerformance(ctx, u.ID, performanceLimit)
		if err != nil {
			return historyLoadedMsg{Sessions: sessions}
		}
		return historyLoadedMsg{Sessions: sessions, Performance: perf}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
			s.mix = emotionMix(msg.Performance)
			s.answered = len(msg.Performance)
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
		}
	}
	return s, nil
}

// emotionMix counts how often each emotion was reported, most frequent
// first.
func emotionMix(rows []store.PerformanceRecord) []feeling {
	byLabel := make(map[emotion.Label]*feeling)
	var order []emotion.Label
	for _, r := range rows {
		f, ok := byLabel[r.Emotion]
		if !ok {
			f = &feeling{Label: r.Emotion}
			byLabel[r.Emotion] = f
			order = append(order, r.Emotion)
		}
		f.Count++
		if r.Correct {
			f.Correct++
		}
	}
	mix := make([]feeling, 0, len(order))
	for _, l := range order {
		mix = append(mix, *byLabel[l])
	}
	sort.SliceStable(mix, func(i, j int) bool { return mix[i].Count > mix[j].Count })
	return mix
}

func (s *HistoryScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if s.errMsg != "" {
		return center.Foreground(theme.Error).Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return center.Foreground(theme.TextDim).Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 && s.answered == 0 {
		return center.Foreground(theme.TextDim).Italic(true).
			Render(fmt.Sprintf("\n\n  No quizzes yet for %s. Start one!", s.name))
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.Primary).Bold(true).Render(s.name + "'s quizzes"))
	b.WriteString("\n\n")

	for i, sess := range s.sessions {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "> "
			style = style.Foreground(theme.Primary).Bold(true)
		}
		line := fmt.Sprintf("%s%s  %-14s  score %-6s  level %d",
			prefix, sess.CreatedAt.Local().Format("Jan 02, 2006"), sess.Topic, percent(sess.Score), sess.Level)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	if len(s.mix) > 0 {
		b.WriteString("\n")
		b.WriteString(center.Foreground(theme.TextDim).
			Render(fmt.Sprintf("How you felt over the last %d answers", s.answered)))
		b.WriteString("\n\n")
		for _, f := range s.mix {
			line := fmt.Sprintf("%-12s %3d answers   %3d%% correct",
				emotion.Expression(f.Label), f.Count, f.Correct*100/f.Count)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.EmotionColor(f.Label)).Render(line)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// percent formats a score fraction as "67%".
func percent(score *big.Rat) string {
	if score == nil {
		return "-"
	}
	f, _ := score.Float64()
	return fmt.Sprintf("%.0f%%", f*100)
}
