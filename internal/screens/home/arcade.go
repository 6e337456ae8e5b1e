package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathmood/internal/ui/theme"
)

const arcadeTitle = "M · A · T · H · M · O · O · D"

// renderTitle returns the styled title line.
func renderTitle(cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Foreground(theme.ArcadeYellow).
		Bold(true).
		Render(arcadeTitle)
}

// renderChoices renders what the learner has picked so far in a
// double-bordered bar matching the content width.
func renderChoices(name string, grade int, topic string, cw int) string {
	picked := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	pending := lipgloss.NewStyle().Foreground(theme.TextDim)

	field := func(label, value string) string {
		if value == "" {
			return pending.Render(label + " ?")
		}
		return picked.Render(label + " " + value)
	}

	gradeStr := ""
	if grade > 0 {
		gradeStr = fmt.Sprintf("%d", grade)
	}

	bar := strings.Join([]string{
		field("★", name),
		field("GRADE", gradeStr),
		field("◆", strings.ToUpper(topic)),
	}, "   ")

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(bar)
}

// renderLLMBanner warns that questions come from the offline generator.
func renderLLMBanner(cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ No LLM configured: using built-in practice questions (see mathmood --help)")
}
