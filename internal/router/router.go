// Package router keeps the stack of screens the app navigates through.
// Screens ask for navigation by returning one of the messages below as a
// command result.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/egelkids/egel/internal/screen"
)

// PushScreenMsg opens Screen on top of the current one.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg closes the current screen.
type PopScreenMsg struct{}

// ReplaceScreenMsg closes the current screen and opens Screen in its
// place, e.g. practice handing over to its summary.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

// Router is a screen stack that never drops below its root. Every screen
// that becomes active runs Init, including one revealed by a pop, so it
// can refresh what it shows.
type Router struct {
	stack []screen.Screen
}

func New(root screen.Screen) *Router {
	return &Router{stack: []screen.Screen{root}}
}

// Active is the screen on top.
func (r *Router) Active() screen.Screen {
	return r.stack[len(r.stack)-1]
}

func (r *Router) Depth() int { return len(r.stack) }

func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

func (r *Router) Replace(s screen.Screen) tea.Cmd {
	r.stack[len(r.stack)-1] = s
	return s.Init()
}

// Pop is a no-op on the root.
func (r *Router) Pop() tea.Cmd {
	if len(r.stack) == 1 {
		return nil
	}
	r.stack[len(r.stack)-1] = nil
	r.stack = r.stack[:len(r.stack)-1]
	return r.Active().Init()
}

// Update applies navigation messages and hands everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	}
	next, cmd := r.Active().Update(msg)
	r.stack[len(r.stack)-1] = next
	return cmd
}

func (r *Router) View(width, height int) string {
	return r.Active().View(width, height)
}
