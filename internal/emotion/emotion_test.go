package emotion

import "testing"

func TestFromEmoji(t *testing.T) {
	tests := []struct {
		glyph string
		want  Label
	}{
		{"😊", Confident},
		{" 😊 ", Confident},
		{"😕", Confused},
		{"😠", Frustrated},
		{"😐", Neutral},
		{"😀", Happy},
		{"😃", Excited},
		{"😟", Confused},
		{"🤔", Thoughtful},
		{"🤩", Motivated},
		{"😞", Frustrated},
		{"😌", Relieved},
		{"X", Unknown},
		{"", Unknown},
		{"🐙", Unknown},
	}
	for _, tc := range tests {
		if got := FromEmoji(tc.glyph); got != tc.want {
			t.Errorf("FromEmoji(%q) = %q, want %q", tc.glyph, got, tc.want)
		}
	}
}

func TestFromText(t *testing.T) {
	tests := []struct {
		text string
		want Label
	}{
		{"I got it, easy!", Confident},
		{"I'm not sure and confused", Confused},
		{"whatever", Neutral},
		{"", Neutral},
		{"That was HARD", Frustrated},
		{"I DON'T UNDERSTAND fractions", Confused},
		// Group order decides, not keyword position.
		{"hard at first but then easy", Confident},
		{"confused and angry", Confused},
	}
	for _, tc := range tests {
		if got := FromText(tc.text); got != tc.want {
			t.Errorf("FromText(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestInterpret(t *testing.T) {
	tests := []struct {
		signal string
		want   Label
	}{
		{"😊", Confident},
		{"🤔", Thoughtful},
		{"🐙", Unknown},
		{"!!", Unknown},
		{"I got it", Confident},
		{"meh", Neutral},
		{"   ", Neutral},
	}
	for _, tc := range tests {
		if got := Interpret(tc.signal); got != tc.want {
			t.Errorf("Interpret(%q) = %q, want %q", tc.signal, got, tc.want)
		}
	}
}

func TestPaletteGlyphsAreMapped(t *testing.T) {
	for _, e := range Palette {
		if got := FromEmoji(e.Glyph); got != e.Label {
			t.Errorf("palette glyph %q maps to %q, want %q", e.Glyph, got, e.Label)
		}
	}
}

func TestExpression(t *testing.T) {
	if got := Expression(Confident); got != "Happy" {
		t.Errorf("Expression(confident) = %q, want Happy", got)
	}
	if got := Expression(Unknown); got != "Neutral" {
		t.Errorf("Expression(unknown) = %q, want Neutral", got)
	}
	if got := Expression(Label("sleepy")); got != "Neutral" {
		t.Errorf("Expression(sleepy) = %q, want Neutral", got)
	}
}

func TestLabelValid(t *testing.T) {
	for _, l := range []Label{Confident, Curious, Bored, Unknown} {
		if !l.Valid() {
			t.Errorf("%q should be valid", l)
		}
	}
	if Label("sleepy").Valid() {
		t.Error("sleepy should not be valid")
	}
}

func TestGlyphFor(t *testing.T) {
	if got := GlyphFor(Confident); got != "😊" {
		t.Errorf("GlyphFor(confident) = %q", got)
	}
	if got := GlyphFor(Bored); got != "" {
		t.Errorf("GlyphFor(bored) = %q, want empty", got)
	}
}
