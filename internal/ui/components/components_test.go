package components

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathmood/internal/emotion"
)

func key(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func char(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestEmojiPicker_ChooseAndToggle(t *testing.T) {
	p := NewEmojiPicker(emotion.Palette)
	p.Focused = true

	if p.Glyph() != "" {
		t.Fatalf("nothing should be chosen initially, got %q", p.Glyph())
	}

	p, _ = p.Update(key(tea.KeyRight))
	p, _ = p.Update(key(tea.KeySpace))
	if p.Glyph() != emotion.Palette[1].Glyph {
		t.Errorf("Glyph() = %q, want %q", p.Glyph(), emotion.Palette[1].Glyph)
	}

	p, _ = p.Update(key(tea.KeySpace))
	if p.Glyph() != "" {
		t.Errorf("second press should clear the choice, got %q", p.Glyph())
	}
}

func TestEmojiPicker_CursorBounds(t *testing.T) {
	p := NewEmojiPicker(emotion.Palette)
	p.Focused = true

	p, _ = p.Update(key(tea.KeyLeft))
	if p.Cursor != 0 {
		t.Errorf("cursor moved below 0: %d", p.Cursor)
	}
	for range len(emotion.Palette) + 3 {
		p, _ = p.Update(key(tea.KeyRight))
	}
	if p.Cursor != len(emotion.Palette)-1 {
		t.Errorf("cursor = %d, want %d", p.Cursor, len(emotion.Palette)-1)
	}
}

func TestEmojiPicker_IgnoresKeysWhenBlurred(t *testing.T) {
	p := NewEmojiPicker(emotion.Palette)
	p, _ = p.Update(key(tea.KeyRight))
	p, _ = p.Update(key(tea.KeyEnter))
	if p.Cursor != 0 || p.Chosen != -1 {
		t.Errorf("blurred picker changed: cursor=%d chosen=%d", p.Cursor, p.Chosen)
	}
}

func TestSlider_Clamps(t *testing.T) {
	s := NewSlider("Confidence", 90, 100, 10)
	s.Focused = true

	s, _ = s.Update(key(tea.KeyRight))
	s, _ = s.Update(key(tea.KeyRight))
	if s.Value != 100 {
		t.Errorf("Value = %d, want 100", s.Value)
	}

	s, _ = s.Update(key(tea.KeyHome))
	s, _ = s.Update(key(tea.KeyLeft))
	if s.Value != 0 {
		t.Errorf("Value = %d, want 0", s.Value)
	}

	s, _ = s.Update(key(tea.KeyEnd))
	if s.Value != 100 {
		t.Errorf("end should jump to max, got %d", s.Value)
	}
}

func TestTextInput_CharsetFilter(t *testing.T) {
	ti := NewTextInput("answer", AnswerCharset, 10)
	for _, r := range "1a/2x" {
		ti, _ = ti.Update(char(r))
	}
	if ti.Value() != "1/2" {
		t.Errorf("Value() = %q, want %q", ti.Value(), "1/2")
	}
}

func TestTextInput_FrozenAfterSubmit(t *testing.T) {
	ti := NewTextInput("answer", AnswerCharset, 10)
	ti, _ = ti.Update(char('7'))
	ti.Submit(true)
	ti, _ = ti.Update(char('8'))
	if ti.Value() != "7" {
		t.Errorf("submitted input accepted keys: %q", ti.Value())
	}

	ti.Reset()
	ti, _ = ti.Update(char('9'))
	if ti.Value() != "9" {
		t.Errorf("after Reset, Value() = %q", ti.Value())
	}
}

func TestMenu_SkipsDisabled(t *testing.T) {
	picked := -1
	m := NewMenu([]MenuItem{
		{Label: "A", Action: func() tea.Cmd { picked = 0; return nil }},
		{Label: "B", Disabled: true},
		{Label: "C", Action: func() tea.Cmd { picked = 2; return nil }},
	})

	m, _ = m.Update(key(tea.KeyDown))
	if m.Selected != 2 {
		t.Fatalf("Selected = %d, want 2", m.Selected)
	}
	m, _ = m.Update(key(tea.KeyEnter))
	if picked != 2 {
		t.Errorf("picked = %d, want 2", picked)
	}

	m, _ = m.Update(key(tea.KeyUp))
	if m.Selected != 0 {
		t.Errorf("Selected = %d, want 0", m.Selected)
	}
}

func TestChoiceMenu_ReportsIndex(t *testing.T) {
	type pickedMsg int
	m := NewChoiceMenu([]string{"One", "Two", "Three"}, func(i int) tea.Cmd {
		return func() tea.Msg { return pickedMsg(i) }
	})

	m, _ = m.Update(key(tea.KeyDown))
	m, _ = m.Update(key(tea.KeyDown))
	_, cmd := m.Update(key(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if got := cmd(); got != pickedMsg(2) {
		t.Errorf("picked %v, want 2", got)
	}
}

func TestMoodFor(t *testing.T) {
	tests := []struct {
		label emotion.Label
		want  Mood
	}{
		{emotion.Confident, MoodCheering},
		{emotion.Frustrated, MoodWorried},
		{emotion.Confused, MoodPuzzled},
	}
	for _, tt := range tests {
		if got := MoodFor(tt.label); got != tt.want {
			t.Errorf("MoodFor(%q) = %v, want %v", tt.label, got, tt.want)
		}
	}
}
