package home

import (
	"charm.land/lipgloss/v2"

	"github.com/egelkids/egel/internal/progress"
	"github.com/egelkids/egel/internal/scoring"
	"github.com/egelkids/egel/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota // Default purple
	MascotCelebrating                      // Gold, star eyes: on a level-up streak
	MascotAlert                            // Orange, exclamation: progress could not be loaded
)

const mascotIdle = `┌─────┐
│ ◉ ◉ │
│  ▽  │
│ ±×÷ │
└─────┘`

const mascotCelebrating = `┌─────┐
│ ★ ★ │
│  ▿  │
│ ±×÷ │
└─╥═╥─┘
  ╚═╝`

const mascotAlert = `┌─────┐
│ ◉ ◉ │ !
│  ▽  │
│ ±×÷ │
└─────┘`

// mascotFor picks the variant for the loaded progress.
func mascotFor(snap progress.Snapshot, loadErr error) MascotVariant {
	switch {
	case loadErr != nil:
		return MascotAlert
	case snap.Streak >= scoring.LevelUpStreak:
		return MascotCelebrating
	}
	return MascotIdle
}

// RenderMascot returns the mascot ASCII art for the given variant.
func RenderMascot(v MascotVariant) string {
	var art string
	var fg = theme.Primary

	switch v {
	case MascotCelebrating:
		art = mascotCelebrating
		fg = theme.ArcadeYellow
	case MascotAlert:
		art = mascotAlert
		fg = theme.Accent
	default:
		art = mascotIdle
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
