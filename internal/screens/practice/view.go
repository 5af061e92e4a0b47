package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/egelkids/egel/internal/problemgen"
	"github.com/egelkids/egel/internal/scoring"
	"github.com/egelkids/egel/internal/session"
	"github.com/egelkids/egel/internal/ui/components"
	"github.com/egelkids/egel/internal/ui/theme"
)

func (s *PracticeScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, s.errMsg)
	}
	if s.ctrl == nil {
		return renderLoading(width)
	}

	center := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text)
	}

	var b strings.Builder
	b.WriteString(s.renderInfoLine(width))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	p := s.state.Problem
	b.WriteString(center(theme.Problem, p.Text()+" = ?"))
	b.WriteString("\n\n")
	b.WriteString(center(lipgloss.NewStyle(), s.renderInputs()))
	b.WriteString("\n")

	if s.outcome != nil {
		style := theme.Correct
		if !s.outcome.IsCorrect() {
			style = theme.Incorrect
		}
		b.WriteString("\n")
		b.WriteString(center(style, s.outcome.String()))
		b.WriteString("\n")
		if s.tip != "" {
			b.WriteString(center(theme.Hint, s.tip))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	streak := s.state.Scoring.Streak
	left := scoring.AnswersToLevelUp(streak)
	bar := components.NewStepBar("Level up", scoring.LevelUpStreak-left, scoring.LevelUpStreak,
		min(width-8, 60), fmt.Sprintf("%d more", left))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n")

	stage := s.state.Stage()
	b.WriteString(center(theme.StageStyle(stage), "Hints: "+theme.StageLabel(stage)))
	b.WriteString("\n")

	if lines := s.visibleTrace(); len(lines) > 0 {
		b.WriteString("\n")
		block := theme.Card.Width(min(width-8, 70)).Render(strings.Join(lines, "\n"))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, block))
		b.WriteString("\n")
	}

	if s.state.Mode == session.ModeLearn {
		b.WriteString("\n")
		b.WriteString(center(theme.Hint, fmt.Sprintf("Custom %s:  a %s  b %s",
			s.state.Op.Label(), s.operandA.View(), s.operandB.View())))
		b.WriteString("\n")
	}

	if s.diagram != "" {
		b.WriteString(center(theme.Hint, s.diagram))
		b.WriteString("\n")
	}
	if s.notice != "" {
		b.WriteString(center(theme.Notice, s.notice))
		b.WriteString("\n")
	}

	return b.String()
}

func (s *PracticeScreen) renderInfoLine(width int) string {
	st := s.state
	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  %s  level %d", st.Op.Label(), st.Level()))

	mode := string(st.Mode)
	if st.Mode == session.ModePlay && st.Op == problemgen.OpDiv && st.AllowRemainder {
		mode += ", remainders"
	}
	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%s  %d/%d correct", mode, st.TotalCorrect, st.TotalQuestions))

	line := infoLeft
	if pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4; pad > 0 {
		line += strings.Repeat(" ", pad) + infoRight
	}
	return line
}

func (s *PracticeScreen) renderInputs() string {
	answer := "Answer: " + s.answer.View()
	if s.state.Problem.Op != problemgen.OpDiv {
		return answer
	}
	return "Quotient: " + s.answer.View() + "   Remainder: " + s.remainder.View()
}

// visibleTrace returns the part of the worked solution the current hint
// stage reveals: a third of the lines per stage.
func (s *PracticeScreen) visibleTrace() []string {
	if s.trace == nil {
		return nil
	}
	lines := s.trace.Lines()
	stage := int(s.state.Stage())
	if stage >= int(scoring.StageFull) {
		return lines
	}
	n := (len(lines)*stage + int(scoring.StageFull) - 1) / int(scoring.StageFull)
	return lines[:min(n, len(lines))]
}

func renderLoading(width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n\n  Getting your problems ready...")
}

func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", errMsg))
}
