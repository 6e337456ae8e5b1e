package summary

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathmood/internal/emotion"
	"github.com/abhisek/mathmood/internal/reflection"
	"github.com/abhisek/mathmood/internal/router"
	"github.com/abhisek/mathmood/internal/screen"
	"github.com/abhisek/mathmood/internal/ui/components"
	"github.com/abhisek/mathmood/internal/ui/layout"
	"github.com/abhisek/mathmood/internal/ui/theme"
)

// Result is everything the summary screen shows about a finished quiz.
type Result struct {
	Name       string
	Topic      string
	Grade      int
	Returning  bool
	BestStreak int
	Elapsed    time.Duration
	Summary    *reflection.Summary
}

// SummaryScreen displays the end-of-quiz summary.
type SummaryScreen struct {
	result Result
	offset int
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(result Result) *SummaryScreen {
	return &SummaryScreen{result: result}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Quiz Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.offset > 0 {
				s.offset--
			}
		case "down", "j":
			if sum := s.result.Summary; sum != nil && s.offset < len(sum.Records)-1 {
				s.offset++
			}
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.result.Summary
	if sum == nil {
		return ""
	}
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder

	title := "Quiz complete!"
	if s.result.Name != "" {
		title = fmt.Sprintf("Great work, %s!", s.result.Name)
	}
	b.WriteString(center.Foreground(theme.Primary).Bold(true).Render(title))
	b.WriteString("\n\n")

	b.WriteString(center.Render(components.RenderMascot(components.MoodFor(sum.DominantEmotion))))
	b.WriteString("\n\n")

	stats := fmt.Sprintf("Score: %s     Level reached: %d     Best streak: %d     Time: %s",
		sum.ScoreString(), sum.Level, s.result.BestStreak, formatDuration(s.result.Elapsed))
	b.WriteString(center.Foreground(theme.Text).Bold(true).Render(stats))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.TextDim).
		Render("Mostly feeling " + renderEmotion(sum.DominantEmotion)))
	b.WriteString("\n\n")

	if sum.Narrative != "" {
		narrative := lipgloss.NewStyle().
			Width(min(width-8, 70)).
			Foreground(theme.Text).
			Italic(true).
			Render(sum.Narrative)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, narrative))
		b.WriteString("\n\n")
	}

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 70)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("Questions")))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n")

	head := b.String()
	room := height - lipgloss.Height(head) - 1
	rows := renderRecords(sum.Records, min(width-8, 70))
	if s.offset < len(rows) {
		rows = rows[s.offset:]
	}
	if room > 0 && len(rows) > room {
		rows = rows[:room]
	}
	return head + lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(rows, "\n"))
}

// renderRecords renders one line per reflection record.
func renderRecords(records []reflection.Record, width int) []string {
	lines := make([]string, 0, len(records))
	for i, r := range records {
		mark := lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		if !r.WasCorrect {
			mark = lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
		}

		glyph := r.Glyph
		if glyph == "" {
			glyph = emotion.GlyphFor(r.Emotion)
		}
		feeling := fmt.Sprintf("%s %s %3d%%", glyph, emotion.Expression(r.Emotion), r.Confidence)

		q := truncate(r.Question, width-lipgloss.Width(feeling)-12)
		line := fmt.Sprintf("%2d. %s %s", i+1, mark, q)
		pad := width - lipgloss.Width(line) - lipgloss.Width(feeling)
		if pad < 1 {
			pad = 1
		}
		lines = append(lines, line+strings.Repeat(" ", pad)+
			lipgloss.NewStyle().Foreground(theme.EmotionColor(r.Emotion)).Render(feeling))
	}
	return lines
}

func renderEmotion(l emotion.Label) string {
	return lipgloss.NewStyle().Foreground(theme.EmotionColor(l)).Bold(true).Render(emotion.Expression(l))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func formatDuration(d time.Duration) string {
	secs := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
