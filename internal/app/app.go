// Package app wires the screens into the Bubble Tea program.
package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/egelkids/egel/internal/router"
	"github.com/egelkids/egel/internal/screen"
	"github.com/egelkids/egel/internal/screens/home"
	"github.com/egelkids/egel/internal/screens/practice"
	"github.com/egelkids/egel/internal/ui/layout"
)

// Options configure the TUI.
type Options struct {
	Deps           practice.Deps
	AllowRemainder bool

	// Start, when set, opens a practice session on top of the home screen.
	Start *practice.Options
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	start  screen.Screen
	width  int
	height int
	stars  int
	streak int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(opts Options) AppModel {
	m := AppModel{
		router: router.New(home.New(opts.Deps, opts.AllowRemainder)),
	}
	if opts.Start != nil {
		m.start = practice.New(opts.Deps, *opts.Start)
	}
	return m
}

func (m AppModel) Init() tea.Cmd {
	cmd := m.router.Active().Init()
	if m.start != nil {
		start := m.start
		return tea.Batch(cmd, func() tea.Msg { return router.PushScreenMsg{Screen: start} })
	}
	return cmd
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	if sp, ok := m.router.Active().(screen.ScoreProvider); ok {
		m.stars, m.streak = sp.Score()
	}
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.stars, m.streak, m.width)

	var footerHints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = append(kp.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program and blocks until it exits or ctx is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(newAppModel(opts), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
