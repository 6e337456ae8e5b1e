package session

import (
	"strings"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathmood/internal/emotion"
	sess "github.com/abhisek/mathmood/internal/session"
	"github.com/abhisek/mathmood/internal/ui/components"
	"github.com/abhisek/mathmood/internal/ui/theme"
)

// field is a focus stop in the reflection form.
type field int

const (
	fieldText field = iota
	fieldEmoji
	fieldConfidence
	fieldSubmit
	fieldCount
)

const defaultConfidence = 50

// reflectionForm collects the free text, emoji and confidence that follow
// every answer.
type reflectionForm struct {
	text       textarea.Model
	emoji      components.EmojiPicker
	confidence components.Slider
	submit     components.Button
	focus      field
}

func newReflectionForm() reflectionForm {
	ta := textarea.New()
	ta.Placeholder = "How did that one feel? (optional)"
	ta.ShowLineNumbers = false
	ta.CharLimit = 280
	ta.MaxHeight = 3
	ta.SetHeight(3)
	ta.SetWidth(50)

	return reflectionForm{
		text:       ta,
		emoji:      components.NewEmojiPicker(emotion.Palette),
		confidence: components.NewSlider("Confidence", defaultConfidence, 100, 10),
		submit:     components.NewButton("Submit"),
	}
}

// Init focuses the first field.
func (f *reflectionForm) Init() tea.Cmd {
	return f.setFocus(fieldText)
}

func (f *reflectionForm) setFocus(to field) tea.Cmd {
	f.focus = (to + fieldCount) % fieldCount
	f.emoji.Focused = f.focus == fieldEmoji
	f.confidence.Focused = f.focus == fieldConfidence
	f.submit.Focused = f.focus == fieldSubmit
	if f.focus == fieldText {
		return f.text.Focus()
	}
	f.text.Blur()
	return nil
}

// Update routes keys to the focused field. It reports true when the learner
// submits the form.
func (f *reflectionForm) Update(msg tea.Msg) (bool, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "tab", "down":
			return false, f.setFocus(f.focus + 1)
		case "shift+tab", "up":
			return false, f.setFocus(f.focus - 1)
		case "ctrl+s":
			return true, nil
		case "enter":
			switch f.focus {
			case fieldSubmit:
				return true, nil
			case fieldText, fieldConfidence:
				return false, f.setFocus(f.focus + 1)
			}
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldText:
		f.text, cmd = f.text.Update(msg)
	case fieldEmoji:
		f.emoji, cmd = f.emoji.Update(msg)
	case fieldConfidence:
		f.confidence, cmd = f.confidence.Update(msg)
	}
	return false, cmd
}

// Value is the reflection the form currently holds.
func (f *reflectionForm) Value() sess.Reflection {
	return sess.Reflection{
		Text:       strings.TrimSpace(f.text.Value()),
		Emoji:      f.emoji.Glyph(),
		Confidence: f.confidence.Value,
	}
}

func (f *reflectionForm) View(width int) string {
	cw := min(width-8, 60)
	label := func(s string, on bool) string {
		st := lipgloss.NewStyle().Foreground(theme.TextDim)
		if on {
			st = st.Foreground(theme.Primary).Bold(true)
		}
		return st.Render(s)
	}

	var b strings.Builder
	b.WriteString(label("Your thoughts", f.focus == fieldText))
	b.WriteString("\n")
	b.WriteString(f.text.View())
	b.WriteString("\n\n")
	b.WriteString(label("Pick a face", f.focus == fieldEmoji))
	b.WriteString("\n")
	b.WriteString(f.emoji.View())
	b.WriteString("\n\n")
	b.WriteString(f.confidence.View(cw))
	b.WriteString("\n\n")
	b.WriteString(f.submit.View())

	return lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Width(cw).Render(b.String()))
}
