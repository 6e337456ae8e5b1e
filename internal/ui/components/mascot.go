package components

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathmood/internal/emotion"
	"github.com/abhisek/mathmood/internal/ui/theme"
)

// Mood selects which mascot face to draw.
type Mood int

const (
	MoodIdle     Mood = iota // default purple
	MoodCheering             // gold, star eyes
	MoodWorried              // orange, exclamation
	MoodPuzzled              // teal, question mark
)

const mascotIdle = `┌─────┐
│ ◉ ◉ │
│  ▽  │
│ ±×÷ │
└─────┘`

const mascotCheering = `┌─────┐
│ ★ ★ │
│  ▿  │
│ ±×÷ │
└─╥═╥─┘
  ╚═╝`

const mascotWorried = `┌─────┐
│ ◉ ◉ │ !
│  △  │
│ ±×÷ │
└─────┘`

const mascotPuzzled = `┌─────┐
│ ◉ ◔ │ ?
│  ~  │
│ ±×÷ │
└─────┘`

// MoodFor maps a learner emotion onto the mascot face that mirrors it.
func MoodFor(l emotion.Label) Mood {
	switch l {
	case emotion.Happy, emotion.Excited, emotion.Confident, emotion.Motivated, emotion.Relieved:
		return MoodCheering
	case emotion.Frustrated, emotion.Bored:
		return MoodWorried
	case emotion.Confused, emotion.Thoughtful, emotion.Curious:
		return MoodPuzzled
	default:
		return MoodIdle
	}
}

// RenderMascot returns the mascot art for mood.
func RenderMascot(mood Mood) string {
	var art string
	var fg color.Color = theme.Primary

	switch mood {
	case MoodCheering:
		art = mascotCheering
		fg = theme.ArcadeYellow
	case MoodWorried:
		art = mascotWorried
		fg = theme.Accent
	case MoodPuzzled:
		art = mascotPuzzled
		fg = theme.Secondary
	default:
		art = mascotIdle
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
