package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/egelkids/egel/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int

	// Caption replaces the percentage, e.g. "2 more to level up".
	Caption string
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// NewStepBar creates a bar for done out of total steps with a caption.
func NewStepBar(label string, done, total, width int, caption string) ProgressBar {
	var pct float64
	if total > 0 {
		pct = float64(done) / float64(total)
	}
	return ProgressBar{Label: label, Percent: pct, Width: width, Caption: caption}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	tailWidth := 0
	switch {
	case p.Caption != "":
		tailWidth = len(p.Caption) + 2
	case p.ShowPercent:
		tailWidth = 6 // " 100%"
	}

	barWidth := p.Width - labelWidth - tailWidth
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Percent)
	filled = max(0, min(filled, barWidth))
	empty := barWidth - filled

	result += theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", empty))

	switch {
	case p.Caption != "":
		result += lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render("  " + p.Caption)
	case p.ShowPercent:
		result += lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %d%%", int(p.Percent*100)))
	}

	return result
}
