package session

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathmood/internal/emotion"
	sess "github.com/abhisek/mathmood/internal/session"
	"github.com/abhisek/mathmood/internal/ui/components"
	"github.com/abhisek/mathmood/internal/ui/theme"
)

func centered(width int) lipgloss.Style {
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
}

// renderProgress renders the question counter and a progress bar.
func (s *SessionScreen) renderProgress(width int) string {
	st := s.status
	info := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Question %d of %d", min(st.Done+1, st.Target), st.Target))

	pct := 0.0
	if st.Target > 0 {
		pct = float64(st.Done) / float64(st.Target)
	}
	bar := components.NewProgressBar("", pct, true, min(width-lipgloss.Width(info)-8, 40)).View()

	line := info
	pad := width - lipgloss.Width(info) - lipgloss.Width(bar) - 4
	if pad > 0 {
		line += strings.Repeat(" ", pad) + bar
	}
	return line + "\n" +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0)))
}

// renderQuestionView renders the active question display.
func (s *SessionScreen) renderQuestionView(width int) string {
	var b strings.Builder
	b.WriteString(s.renderProgress(width))
	b.WriteString("\n\n")

	if s.lastAdj != nil {
		b.WriteString(renderAdjustment(width, s.levelBefore, s.lastAdj))
		b.WriteString("\n\n")
	}

	if q := s.question; q != nil {
		b.WriteString(centered(width).
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("Level %d", q.Level)))
		b.WriteString("\n\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().
				Width(min(width-8, 70)).
				Align(lipgloss.Center).
				Foreground(theme.Text).
				Bold(true).
				Render(q.Text)))
		b.WriteString("\n\n")
	}

	b.WriteString(centered(width).Render("Answer: " + s.input.View()))
	return b.String()
}

// renderAdjustment explains how the last reflection moved the difficulty.
func renderAdjustment(width int, before int, res *sess.ReflectionResult) string {
	var text string
	var fg = theme.TextDim
	switch after := int(res.Level); {
	case after > before:
		text, fg = "▲ Stepping it up a little", theme.Accent
	case after < before:
		text, fg = "▼ Let's take it a bit easier", theme.Secondary
	default:
		text = "● Staying at this level"
	}
	line := centered(width).Foreground(fg).Italic(true).Render(text)
	if m := res.Adjustment.Motivation; m != "" {
		line += "\n" + centered(width).Foreground(theme.Text).Render(m)
	}
	return centered(width).Render("You felt " + renderEmotion(res.Emotion)) + "\n" + line
}

// renderFeedback shows whether the answer was right, the worked solution
// and the motivation message.
func (s *SessionScreen) renderFeedback(width int) string {
	res := s.answer
	var b strings.Builder
	b.WriteString(s.renderProgress(width))
	b.WriteString("\n\n")

	if res.Correct {
		b.WriteString(centered(width).Foreground(theme.Success).Bold(true).Render("Correct!"))
	} else {
		b.WriteString(centered(width).Foreground(theme.Error).Bold(true).Render("Not quite"))
		b.WriteString("\n")
		b.WriteString(centered(width).Foreground(theme.TextDim).
			Render(fmt.Sprintf("Correct answer: %s", res.CanonicalAnswer)))
	}
	b.WriteString("\n\n")

	if res.Explanation != "" {
		exp := lipgloss.NewStyle().
			Width(min(width-8, 70)).
			Foreground(theme.Text).
			Render(res.Explanation)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, exp))
		b.WriteString("\n\n")
	}

	b.WriteString(centered(width).Foreground(theme.Accent).Bold(true).Render(res.Motivation))
	b.WriteString("\n\n")

	if res.Streak > 1 {
		b.WriteString(centered(width).Foreground(theme.ArcadeYellow).
			Render(fmt.Sprintf("★ %d in a row!", res.Streak)))
		b.WriteString("\n\n")
	}

	b.WriteString(centered(width).Foreground(theme.TextDim).Render("Press any key to tell me how it felt..."))
	return b.String()
}

// renderReflection shows the reflection form under a short recap.
func (s *SessionScreen) renderReflection(width int) string {
	var b strings.Builder
	b.WriteString(s.renderProgress(width))
	b.WriteString("\n\n")

	prompt := "How are you feeling about that one?"
	if s.answer != nil && !s.answer.Correct {
		prompt = "That was a tricky one. How are you feeling?"
	}
	b.WriteString(centered(width).Foreground(theme.Text).Bold(true).Render(prompt))
	b.WriteString("\n\n")
	b.WriteString(s.form.View(width))
	return b.String()
}

// renderEmotion renders a classified emotion with its expression word.
func renderEmotion(l emotion.Label) string {
	word := emotion.Expression(l)
	if g := emotion.GlyphFor(l); g != "" {
		word = g + " " + word
	}
	return lipgloss.NewStyle().Foreground(theme.EmotionColor(l)).Render(word)
}

// renderQuitConfirm renders the quit confirmation dialog.
func renderQuitConfirm(width, height int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	b.WriteString(centered(width).Foreground(theme.Text).Bold(true).Render("End the quiz early?"))
	b.WriteString("\n")
	b.WriteString(centered(width).Foreground(theme.TextDim).
		Render("Answers so far are saved, but there will be no summary."))
	b.WriteString("\n\n")
	b.WriteString(centered(width).Foreground(theme.Success).Render("[Y] Yes, end quiz"))
	b.WriteString("\n")
	b.WriteString(centered(width).Foreground(theme.Primary).Render("[N] No, keep going"))

	return lipgloss.NewStyle().Height(height).Render(b.String())
}

// renderLoading renders the spinner with a status line.
func renderLoading(width int, spin, text string) string {
	return centered(width).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("\n\n\n%s %s", spin, text))
}

// renderError renders an error message.
func renderError(width int, errMsg string) string {
	return centered(width).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Something went wrong: %s\n\n  Press R to try again or Esc to go back.", errMsg))
}
