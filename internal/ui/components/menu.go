package components

import (
	tea "charm.land/bubbletea/v2"
	"github.com/samber/lo"
)

// MenuItem is one selectable entry. Disabled items are skipped by
// navigation and never run their Action.
type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu tracks the selection over a list of items. Rendering is left to
// the owning screen.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu selects the first enabled item.
func NewMenu(items []MenuItem) Menu {
	_, first, ok := lo.FindIndexOf(items, func(it MenuItem) bool { return !it.Disabled })
	if !ok {
		first = 0
	}
	return Menu{Items: items, Selected: first}
}

// Labels returns the item labels in order.
func (m Menu) Labels() []string {
	return lo.Map(m.Items, func(it MenuItem, _ int) string { return it.Label })
}

// Update moves the selection with up/down (or k/j), runs the selected
// item on enter, and treats digits 1-9 as select-and-run shortcuts.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "enter":
		return m, m.run(m.Selected)
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			i := int(key[0] - '1')
			if m.enabled(i) {
				m.Selected = i
				return m, m.run(i)
			}
		}
	}
	return m, nil
}

// move steps to the next enabled item in direction dir, staying put at
// either end.
func (m *Menu) move(dir int) {
	for i := m.Selected + dir; i >= 0 && i < len(m.Items); i += dir {
		if !m.Items[i].Disabled {
			m.Selected = i
			return
		}
	}
}

func (m Menu) enabled(i int) bool {
	return i >= 0 && i < len(m.Items) && !m.Items[i].Disabled
}

func (m Menu) run(i int) tea.Cmd {
	if !m.enabled(i) || m.Items[i].Action == nil {
		return nil
	}
	return m.Items[i].Action()
}

// SetLabel relabels item i, e.g. for toggles. Out of range is a no-op.
func (m *Menu) SetLabel(i int, label string) {
	if i >= 0 && i < len(m.Items) {
		m.Items[i].Label = label
	}
}
