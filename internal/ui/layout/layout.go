// Package layout draws the frame around every screen: a header bar with
// the learner's score, the screen body and a footer of key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/egelkids/egel/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage renders the "terminal too small" message.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Terminal too small!\n\nPlease resize to at\nleast %d x %d\n\nCurrent: %d x %d",
			MinWidth, MinHeight, width, height,
		))
}

// RenderHeader renders the application header bar with the learner's
// stars and current streak.
func RenderHeader(title string, stars, streak int, width int) string {
	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  egel")
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	right := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Render(fmt.Sprintf("★ %d", stars)) +
		"   " +
		lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("streak %d  ", streak))

	return bar(spread(left, center, right, max(width-4, 0)), width)
}

// RenderFooter renders the footer with key hints. Hints that do not fit
// the width are dropped from the end.
func RenderFooter(hints []KeyHint, width int) string {
	inner := max(width-4, 0)
	content := " "
	for _, h := range hints {
		part := "  " + lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key) +
			" " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description)
		if lipgloss.Width(content+part) > inner {
			break
		}
		content += part
	}
	return bar(content, width)
}

// RenderFrame composes the full frame: header + content + footer.
func RenderFrame(header, content, footer string, width, height int) string {
	body := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	return header + "\n" +
		lipgloss.NewStyle().Width(width).Height(body).Render(content) + "\n" +
		footer
}

// spread places left at the start, center in the middle and right at the
// end of a line of the given width, keeping at least one space between.
func spread(left, center, right string, width int) string {
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)
	leftGap := max((width-cw)/2-lw, 1)
	rightGap := max(width-lw-leftGap-cw-rw, 1)
	return left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right
}

func bar(content string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}
