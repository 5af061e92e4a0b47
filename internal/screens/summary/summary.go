package summary

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/samber/lo"

	"github.com/egelkids/egel/internal/router"
	"github.com/egelkids/egel/internal/screen"
	"github.com/egelkids/egel/internal/session"
	"github.com/egelkids/egel/internal/ui/layout"
	"github.com/egelkids/egel/internal/ui/theme"
)

// SummaryScreen shows how a finished session went. Any key that leaves it
// goes back to the screen underneath.
type SummaryScreen struct {
	sum session.SessionSummary
}

var (
	_ screen.Screen          = (*SummaryScreen)(nil)
	_ screen.KeyHintProvider = (*SummaryScreen)(nil)
)

func New(sum session.SessionSummary) *SummaryScreen {
	return &SummaryScreen{sum: sum}
}

func (s *SummaryScreen) Init() tea.Cmd { return nil }

func (s *SummaryScreen) Title() string { return "Session Summary" }

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Enter", Description: "Home"}}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	if k := kmsg.String(); k == "enter" || k == "esc" || k == "q" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return s, nil
}

// headline picks the banner from overall accuracy.
func headline(sum session.SessionSummary) string {
	switch {
	case sum.TotalQuestions == 0:
		return "See you next time!"
	case sum.Accuracy >= 0.9:
		return "Outstanding session!"
	case sum.Accuracy >= 0.6:
		return "Nice work!"
	default:
		return "Good practice. Keep going!"
	}
}

// opRow is one line of the per-operation breakdown.
func opRow(r session.OpResult) (string, lipgloss.Style) {
	level := fmt.Sprintf("level %d", r.LevelAfter)
	style := lipgloss.NewStyle().Foreground(theme.Text)
	if r.LevelAfter != r.LevelBefore {
		level = fmt.Sprintf("level %d > %d", r.LevelBefore, r.LevelAfter)
		style = style.Foreground(theme.Success)
	}
	row := fmt.Sprintf("%-14s %3d/%-3d %-14s", r.Op.Label(), r.Correct, r.Attempted, level)
	if slip, ok := r.TopSlip(); ok {
		row += "  watch: " + slip.Label()
	}
	return row, style
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.sum
	line := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text)
	}

	title := "Session complete!"
	if sum.Mode == session.ModeLearn {
		title = "Learn session complete!"
	}
	d := sum.Duration.Round(time.Second)
	parts := []string{
		line(theme.Title, title),
		line(lipgloss.NewStyle().Foreground(theme.Secondary), headline(sum)),
		"",
		line(lipgloss.NewStyle().Foreground(theme.Text), fmt.Sprintf(
			"%d of %d correct (%.0f%%) in %d:%02d",
			sum.TotalCorrect, sum.TotalQuestions, sum.Accuracy*100, int(d.Minutes()), int(d.Seconds())%60)),
		line(lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true),
			fmt.Sprintf("★ +%d stars, %d in total", sum.StarsEarned, sum.Stars)),
	}

	if len(sum.OpResults) > 0 {
		rows := lo.Map(sum.OpResults, func(r session.OpResult, _ int) string {
			text, style := opRow(r)
			return style.Render(text)
		})
		card := theme.Card.Width(min(width-4, 72)).Render(strings.Join(rows, "\n"))
		parts = append(parts, "", lipgloss.PlaceHorizontal(width, lipgloss.Center, card))
	}
	return strings.Join(parts, "\n")
}
