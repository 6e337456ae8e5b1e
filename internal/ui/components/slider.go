package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathmood/internal/ui/theme"
)

// Slider picks an integer in [0, Max] with the arrow keys and draws it as a
// ProgressBar.
type Slider struct {
	Label   string
	Value   int
	Max     int
	Step    int
	Focused bool
}

// NewSlider creates a slider starting at value.
func NewSlider(label string, value, maxValue, step int) Slider {
	return Slider{Label: label, Value: value, Max: maxValue, Step: step}
}

// Update moves the value with left/right, clamped to [0, Max].
func (s Slider) Update(msg tea.Msg) (Slider, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || !s.Focused {
		return s, nil
	}
	switch kmsg.String() {
	case "left", "h":
		s.Value = max(0, s.Value-s.Step)
	case "right", "l":
		s.Value = min(s.Max, s.Value+s.Step)
	case "home":
		s.Value = 0
	case "end":
		s.Value = s.Max
	}
	return s, nil
}

// View renders the bar followed by the numeric value.
func (s Slider) View(width int) string {
	pct := 0.0
	if s.Max > 0 {
		pct = float64(s.Value) / float64(s.Max)
	}
	bar := NewProgressBar(s.Label, pct, false, width-6).View()

	fg := theme.TextDim
	if s.Focused {
		fg = theme.Primary
	}
	return bar + lipgloss.NewStyle().Foreground(fg).Bold(s.Focused).Render(fmt.Sprintf(" %3d", s.Value))
}
