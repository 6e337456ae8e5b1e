// Package emotion normalizes raw learner signals (an emoji glyph or a short
// free-text reflection) into a fixed set of emotion labels.
package emotion

import (
	"strings"
	"unicode"
)

// Label is a normalized emotion tag.
type Label string

const (
	Confident  Label = "confident"
	Confused   Label = "confused"
	Frustrated Label = "frustrated"
	Neutral    Label = "neutral"
	Happy      Label = "happy"
	Excited    Label = "excited"
	Thoughtful Label = "thoughtful"
	Motivated  Label = "motivated"
	Relieved   Label = "relieved"
	Curious    Label = "curious"
	Bored      Label = "bored"
	Unknown    Label = "unknown"
)

// Valid reports whether l is one of the known labels.
func (l Label) Valid() bool {
	_, ok := expressions[l]
	return ok || l == Unknown
}

// Emoji is a glyph offered to the learner in the reflection form.
type Emoji struct {
	Glyph string
	Label Label
}

// Palette is the ordered set of emoji the reflection form offers.
var Palette = []Emoji{
	{"😀", Happy},
	{"😃", Excited},
	{"😊", Confident},
	{"😐", Neutral},
	{"😟", Confused},
	{"🤔", Thoughtful},
	{"🤩", Motivated},
	{"😞", Frustrated},
	{"😌", Relieved},
}

// emojiLabels maps every recognized glyph to its label. It covers the
// palette plus the glyphs accepted by the console prompt (😕 😠).
var emojiLabels = map[string]Label{
	"😊": Confident,
	"😕": Confused,
	"😠": Frustrated,
	"😐": Neutral,
	"😀": Happy,
	"😃": Excited,
	"😟": Confused,
	"🤔": Thoughtful,
	"🤩": Motivated,
	"😞": Frustrated,
	"😌": Relieved,
}

// keywordGroup is one priority tier of the text classifier.
type keywordGroup struct {
	label    Label
	keywords []string
}

// textGroups are checked in order; the first group with any hit wins.
var textGroups = []keywordGroup{
	{Confident, []string{"confident", "easy", "got it"}},
	{Confused, []string{"confused", "don't understand", "not sure"}},
	{Frustrated, []string{"angry", "hard", "frustrated"}},
}

// FromEmoji looks up a single glyph. Unmapped glyphs yield Unknown.
func FromEmoji(glyph string) Label {
	if l, ok := emojiLabels[strings.TrimSpace(glyph)]; ok {
		return l
	}
	return Unknown
}

// FromText classifies free text by case-insensitive keyword match.
// Text that matches no group is Neutral.
func FromText(text string) Label {
	lower := strings.ToLower(text)
	for _, g := range textGroups {
		for _, kw := range g.keywords {
			if strings.Contains(lower, kw) {
				return g.label
			}
		}
	}
	return Neutral
}

// Interpret routes a raw signal to the emoji or the text path. A signal is
// treated as an emoji when it is a known glyph or contains no letters or
// digits at all.
func Interpret(signal string) Label {
	s := strings.TrimSpace(signal)
	if _, ok := emojiLabels[s]; ok {
		return emojiLabels[s]
	}
	if s != "" && isSymbolic(s) {
		return Unknown
	}
	return FromText(s)
}

func isSymbolic(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

var expressions = map[Label]string{
	Confident:  "Happy",
	Confused:   "Confused",
	Frustrated: "Frustrated",
	Neutral:    "Neutral",
	Happy:      "Happy",
	Excited:    "Excited",
	Thoughtful: "Thoughtful",
	Motivated:  "Motivated",
	Relieved:   "Relieved",
	Curious:    "Curious",
	Bored:      "Bored",
}

// Expression returns the display word shown next to a label in summaries.
func Expression(l Label) string {
	if e, ok := expressions[l]; ok {
		return e
	}
	return "Neutral"
}

// GlyphFor returns the first palette glyph carrying label l, or "".
func GlyphFor(l Label) string {
	for _, e := range Palette {
		if e.Label == l {
			return e.Glyph
		}
	}
	for g, gl := range emojiLabels {
		if gl == l {
			return g
		}
	}
	return ""
}
