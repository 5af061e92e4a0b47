package home

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/samber/lo"

	"github.com/egelkids/egel/internal/problemgen"
	"github.com/egelkids/egel/internal/progress"
	"github.com/egelkids/egel/internal/router"
	"github.com/egelkids/egel/internal/screen"
	"github.com/egelkids/egel/internal/screens/history"
	"github.com/egelkids/egel/internal/screens/practice"
	"github.com/egelkids/egel/internal/session"
	"github.com/egelkids/egel/internal/store"
	"github.com/egelkids/egel/internal/ui/components"
)

// progressLoadedMsg carries the stored progress for the stats bar.
type progressLoadedMsg struct {
	Snapshot progress.Snapshot
	Err      error
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	deps           practice.Deps
	menu           components.Menu
	allowRemainder bool
	remainderItem  int
	snap           progress.Snapshot
	loadErr        error
}

var (
	_ screen.Screen        = (*HomeScreen)(nil)
	_ screen.ScoreProvider = (*HomeScreen)(nil)
)

// New creates a new HomeScreen. allowRemainder is the initial state of
// the division remainder toggle.
func New(deps practice.Deps, allowRemainder bool) *HomeScreen {
	h := &HomeScreen{
		deps:           deps,
		allowRemainder: allowRemainder,
		snap:           progress.Defaults(),
	}

	items := lo.Map(problemgen.Operations, func(op problemgen.Operation, _ int) components.MenuItem {
		return components.MenuItem{
			Label:  "PLAY " + strings.ToUpper(op.Label()),
			Action: func() tea.Cmd { return h.start(session.ModePlay, op) },
		}
	})
	items = append(items, components.MenuItem{
		Label:  "LEARN MODE",
		Action: func() tea.Cmd { return h.start(session.ModeLearn, problemgen.OpAdd) },
	})
	h.remainderItem = len(items)
	items = append(items, components.MenuItem{
		Label:  remainderLabel(allowRemainder),
		Action: h.toggleRemainder,
	})
	items = append(items,
		components.MenuItem{
			Label:    "HISTORY",
			Disabled: deps.Events == nil,
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: history.New(deps.Events)}
				}
			},
		},
		components.MenuItem{
			Label:  "QUIT",
			Action: func() tea.Cmd { return tea.Quit },
		},
	)

	h.menu = components.NewMenu(items)
	return h
}

// AllowRemainder reports the current state of the remainder toggle.
func (h *HomeScreen) AllowRemainder() bool {
	return h.allowRemainder
}

func (h *HomeScreen) start(mode session.Mode, op problemgen.Operation) tea.Cmd {
	scr := practice.New(h.deps, practice.Options{Mode: mode, Op: op, AllowRemainder: h.allowRemainder})
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: scr}
	}
}

func (h *HomeScreen) toggleRemainder() tea.Cmd {
	h.allowRemainder = !h.allowRemainder
	h.menu.SetLabel(h.remainderItem, remainderLabel(h.allowRemainder))
	return nil
}

func remainderLabel(on bool) string {
	if on {
		return "REMAINDERS: ON"
	}
	return "REMAINDERS: OFF"
}

// Init loads the learner's progress. It runs again whenever the screen
// becomes active, so the stats follow finished sessions.
func (h *HomeScreen) Init() tea.Cmd {
	st := h.deps.Store
	return func() tea.Msg {
		if st == nil {
			return progressLoadedMsg{Snapshot: progress.Defaults()}
		}
		snap, err := st.Load(context.Background())
		switch {
		case errors.Is(err, store.ErrCorruptSnapshot):
			return progressLoadedMsg{Snapshot: progress.Defaults()}
		case err != nil:
			return progressLoadedMsg{Snapshot: progress.Defaults(), Err: err}
		case snap == nil:
			return progressLoadedMsg{Snapshot: progress.Defaults()}
		}
		return progressLoadedMsg{Snapshot: snap.Normalize()}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(progressLoadedMsg); ok {
		h.snap = msg.Snapshot
		h.loadErr = msg.Err
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) Score() (int, int) {
	return h.snap.Stars, h.snap.Streak
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := termHeight < 34 || width < 100

	cw := contentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, renderMascotBox(mascotFor(h.snap, h.loadErr), cw))
	}
	sections = append(sections, renderStatsBar(h.snap, cw, compact))
	if h.loadErr != nil {
		sections = append(sections, fmt.Sprintf("Progress could not be loaded: %v", h.loadErr))
	}

	sections = append(sections, renderArcadeMenu(h.menu.Labels(), h.menu.Selected, cw, compact))

	return renderCabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
