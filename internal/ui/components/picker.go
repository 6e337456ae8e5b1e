package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathmood/internal/emotion"
	"github.com/abhisek/mathmood/internal/ui/theme"
)

// EmojiPicker is a horizontal selector over a palette of emoji. Nothing is
// chosen until the learner presses space or enter.
type EmojiPicker struct {
	Palette []emotion.Emoji
	Cursor  int
	Chosen  int
	Focused bool
}

// NewEmojiPicker creates a picker over palette with nothing chosen.
func NewEmojiPicker(palette []emotion.Emoji) EmojiPicker {
	return EmojiPicker{
		Palette: palette,
		Chosen:  -1,
	}
}

// Update moves the cursor with left/right and chooses with space or enter.
func (p EmojiPicker) Update(msg tea.Msg) (EmojiPicker, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || !p.Focused {
		return p, nil
	}

	switch kmsg.String() {
	case "left", "h":
		if p.Cursor > 0 {
			p.Cursor--
		}
	case "right", "l":
		if p.Cursor < len(p.Palette)-1 {
			p.Cursor++
		}
	case "space", "enter":
		if p.Chosen == p.Cursor {
			p.Chosen = -1
		} else {
			p.Chosen = p.Cursor
		}
	}
	return p, nil
}

// Glyph returns the chosen glyph, or "" when none is chosen.
func (p EmojiPicker) Glyph() string {
	if p.Chosen < 0 || p.Chosen >= len(p.Palette) {
		return ""
	}
	return p.Palette[p.Chosen].Glyph
}

// View renders the palette on one line with the cursor and the current
// choice highlighted, plus the label under the cursor.
func (p EmojiPicker) View() string {
	cells := make([]string, len(p.Palette))
	for i, e := range p.Palette {
		style := lipgloss.NewStyle().Padding(0, 1)
		switch {
		case i == p.Chosen:
			style = style.Background(theme.Primary)
		case i == p.Cursor && p.Focused:
			style = style.Background(theme.Border)
		}
		cells[i] = style.Render(e.Glyph)
	}

	label := ""
	if p.Cursor < len(p.Palette) {
		l := p.Palette[p.Cursor].Label
		label = lipgloss.NewStyle().Foreground(theme.EmotionColor(l)).Render(emotion.Expression(l))
	}
	return strings.Join(cells, "") + "\n" + label
}
