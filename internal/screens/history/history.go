package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/egelkids/egel/internal/problemgen"
	"github.com/egelkids/egel/internal/router"
	"github.com/egelkids/egel/internal/screen"
	"github.com/egelkids/egel/internal/store"
	"github.com/egelkids/egel/internal/ui/layout"
	"github.com/egelkids/egel/internal/ui/theme"
)

// recentLimit is how many answers the screen lists.
const recentLimit = 50

type historyLoadedMsg struct {
	Answers []store.AnswerEventRecord
	Stats   []store.OpAnswerStats
	Err     error
}

// HistoryScreen lists recent answers with per-operation accuracy.
type HistoryScreen struct {
	eventRepo store.EventRepo
	answers   []store.AnswerEventRecord
	stats     []store.OpAnswerStats
	offset    int
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{eventRepo: eventRepo}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		ctx := context.Background()

		answers, err := repo.QueryAnswerEvents(ctx, store.QueryOpts{Limit: recentLimit})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		stats, err := repo.AnswerStatsByOp(ctx)
		if err != nil {
			return historyLoadedMsg{Answers: answers}
		}
		return historyLoadedMsg{Answers: answers, Stats: stats}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.answers = msg.Answers
			s.stats = msg.Stats
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.offset > 0 {
				s.offset--
			}
		case "down", "j":
			if s.offset < len(s.answers)-1 {
				s.offset++
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	centered := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if s.errMsg != "" {
		return centered.Foreground(theme.Error).Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return centered.Foreground(theme.TextDim).Render("\n\n  Loading history...")
	}
	if len(s.answers) == 0 {
		return centered.Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No answers yet. Start practicing!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for _, st := range s.stats {
		line := fmt.Sprintf("%-15s %4d answered  %3.0f%% correct  ★ %d",
			problemgen.Operation(st.Op).Label(), st.Answered, st.Accuracy()*100, st.Stars)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Secondary).Render(line)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// Rows that fit below the stats block.
	rows := max(height-len(s.stats)-4, 1)
	end := min(s.offset+rows, len(s.answers))
	for _, a := range s.answers[s.offset:end] {
		op := problemgen.Operation(a.Op)
		mark, style := "✓", lipgloss.NewStyle().Foreground(theme.Success)
		if !a.Correct {
			mark, style = "✗", lipgloss.NewStyle().Foreground(theme.Error)
		}
		line := fmt.Sprintf("%s  %s  %-16s %-12s lvl %-2d hints %d",
			a.Timestamp.Format("Jan 02 15:04"),
			mark,
			fmt.Sprintf("%d %s %d", a.A, op.Symbol(), a.B),
			a.LearnerAnswer,
			a.Level,
			a.HintStage,
		)
		if a.ErrorKind != "" {
			line += "  " + a.ErrorKind
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	return b.String()
}
