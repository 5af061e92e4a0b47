package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/egelkids/egel/internal/problemgen"
	"github.com/egelkids/egel/internal/progress"
	"github.com/egelkids/egel/internal/ui/theme"
)

// Block-letter title.
const arcadeTitleFull = ` ███████╗ ██████╗ ███████╗██╗
 ██╔════╝██╔════╝ ██╔════╝██║
 █████╗  ██║  ███╗█████╗  ██║
 ██╔══╝  ██║   ██║██╔══╝  ██║
 ███████╗╚██████╔╝███████╗███████╗
 ╚══════╝ ╚═════╝ ╚══════╝╚══════╝`

const arcadeTitleCompact = "E · G · E · L"

// contentWidth returns the uniform inner width used for all sections.
func contentWidth(frameWidth int) int {
	// Leave room for cabinet border (2) + inner padding (4)
	return max(20, min(frameWidth-6, 60))
}

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true)

	title := arcadeTitleFull
	if compact {
		title = arcadeTitleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(title))
}

// renderStatsBar renders stars, streak and per-operation levels in a
// bordered box matching content width.
func renderStatsBar(snap progress.Snapshot, cw int, compact bool) string {
	starStyle := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	streakStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	levelStyle := lipgloss.NewStyle().Foreground(theme.ArcadeCyan)

	levels := make([]string, 0, len(problemgen.Operations))
	for _, op := range problemgen.Operations {
		levels = append(levels, fmt.Sprintf("%s%d", op.Symbol(), snap.Levels.Level(op)))
	}

	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s  %s",
			starStyle.Render(fmt.Sprintf("★%d", snap.Stars)),
			streakStyle.Render(fmt.Sprintf("»%d", snap.Streak)),
			levelStyle.Render(strings.Join(levels, " ")),
		)
	} else {
		stats = fmt.Sprintf("%s  %s\n%s",
			starStyle.Render(fmt.Sprintf("★ %d STARS", snap.Stars)),
			streakStyle.Render(fmt.Sprintf("» %d STREAK", snap.Streak)),
			levelStyle.Render("LEVELS  "+strings.Join(levels, "   ")),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw - 2). // account for border chars
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 26

// renderArcadeMenu renders each menu item as a fixed-width button.
// Compact terminals get plain lines instead of bordered buttons.
func renderArcadeMenu(items []string, selected int, cw int, compact bool) string {
	var lines []string
	for i, label := range items {
		if compact {
			if i == selected {
				lines = append(lines, lipgloss.NewStyle().
					Foreground(theme.BgDark).
					Background(theme.ArcadeYellow).
					Bold(true).
					Render(" ▸ "+label+" "))
			} else {
				lines = append(lines, lipgloss.NewStyle().
					Foreground(theme.Text).
					Render("   "+label))
			}
			continue
		}

		btn := lipgloss.NewStyle().
			Width(buttonWidth).
			Align(lipgloss.Center).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
		if i == selected {
			lines = append(lines, btn.
				Bold(true).
				Foreground(theme.BgDark).
				Background(theme.ArcadeYellow).
				BorderForeground(theme.ArcadeYellow).
				Render("▸ "+label))
		} else {
			lines = append(lines, btn.
				Foreground(theme.Text).
				BorderForeground(theme.Border).
				Render(label))
		}
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))
}

// renderMascotBox renders the mascot centered in a box matching content width.
func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}

// renderCabinetFrame wraps content in a double-border cabinet frame,
// centering it vertically and horizontally within the given dimensions.
func renderCabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).   // account for border chars
		Height(height - 2). // account for border chars
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
