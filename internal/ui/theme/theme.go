package theme

import (
	"charm.land/lipgloss/v2"

	"github.com/egelkids/egel/internal/scoring"
)

// Color palette: bright, readable on dark terminals.
var (
	Primary      = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary    = lipgloss.Color("#14B8A6") // Teal
	Accent       = lipgloss.Color("#F97316") // Orange
	Success      = lipgloss.Color("#22C55E") // Green
	Error        = lipgloss.Color("#F43F5E") // Rose
	Text         = lipgloss.Color("#F8FAFC") // White
	TextDim      = lipgloss.Color("#94A3B8") // Slate
	BgDark       = lipgloss.Color("#0F172A") // Deep Navy
	BgCard       = lipgloss.Color("#1E293B") // Dark Slate
	Border       = lipgloss.Color("#334155") // Slate
	ArcadeYellow = lipgloss.Color("#FACC15")
	ArcadeCyan   = lipgloss.Color("#22D3EE")
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Problem = lipgloss.NewStyle().
		Foreground(Text).
		Bold(true)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Notice = lipgloss.NewStyle().
		Foreground(Accent).
		Italic(true)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 2)
)

// StageLabel names a hint stage for the practice screen.
func StageLabel(s scoring.HintStage) string {
	switch s {
	case scoring.StageNone:
		return "no hints"
	case 1:
		return "hint 1"
	case 2:
		return "hint 2"
	default:
		return "solution"
	}
}

// StageStyle colors the hint stage by how many stars it still pays.
func StageStyle(s scoring.HintStage) lipgloss.Style {
	switch scoring.Reward(s) {
	case 3:
		return lipgloss.NewStyle().Foreground(Success)
	case 2:
		return lipgloss.NewStyle().Foreground(ArcadeYellow)
	default:
		return lipgloss.NewStyle().Foreground(Accent)
	}
}
