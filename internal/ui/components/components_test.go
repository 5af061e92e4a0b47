package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestMenu_NavigationSkipsDisabled(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "one"},
		{Label: "two", Disabled: true},
		{Label: "three"},
	})

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 2 {
		t.Errorf("Selected = %d, want 2", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if m.Selected != 0 {
		t.Errorf("Selected = %d, want 0", m.Selected)
	}
}

func TestMenu_DigitShortcut(t *testing.T) {
	var picked string
	m := NewMenu([]MenuItem{
		{Label: "add", Action: func() tea.Cmd { picked = "add"; return nil }},
		{Label: "sub", Action: func() tea.Cmd { picked = "sub"; return nil }},
	})

	m, _ = m.Update(keyPress('2'))

	if m.Selected != 1 || picked != "sub" {
		t.Errorf("Selected = %d, picked = %q", m.Selected, picked)
	}
}

func TestMenu_StopsAtEndsAndIgnoresDisabled(t *testing.T) {
	ran := false
	m := NewMenu([]MenuItem{
		{Label: "history", Disabled: true, Action: func() tea.Cmd { ran = true; return nil }},
		{Label: "quit"},
	})
	if m.Selected != 1 {
		t.Fatalf("Selected = %d, want first enabled item", m.Selected)
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 1 {
		t.Errorf("Selected = %d, want 1", m.Selected)
	}

	m, _ = m.Update(keyPress('1'))
	if ran || m.Selected != 1 {
		t.Error("disabled item must not run")
	}
}

func TestMenu_SetLabel(t *testing.T) {
	m := NewMenu([]MenuItem{{Label: "Remainders: off"}})
	m.SetLabel(0, "Remainders: on")
	m.SetLabel(3, "ignored")
	if got := m.Labels(); len(got) != 1 || got[0] != "Remainders: on" {
		t.Errorf("Labels() = %v", got)
	}
}

func TestNumberInput_DigitsOnly(t *testing.T) {
	in := NewNumberInput("answer", 8)
	in.Focus()

	for _, r := range "4x2-" {
		in, _ = in.Update(keyPress(r))
	}
	if in.Value() != "42" {
		t.Errorf("Value = %q, want %q", in.Value(), "42")
	}
	if n, ok := in.Int(); !ok || n != 42 {
		t.Errorf("Int = %d, %v", n, ok)
	}

	in.Mark(false)
	if !strings.Contains(in.View(), "✗") {
		t.Error("expected a cross after a wrong answer")
	}

	in.Reset()
	if _, ok := in.Int(); ok || strings.Contains(in.View(), "✗") {
		t.Error("Reset must clear the value and the mark")
	}
}

func TestStepBar_Caption(t *testing.T) {
	bar := NewStepBar("Streak", 3, 5, 40, "2 more to level up")
	if bar.Percent != 0.6 {
		t.Errorf("Percent = %v, want 0.6", bar.Percent)
	}
	if !strings.Contains(bar.View(), "2 more to level up") {
		t.Error("expected caption in view")
	}
}
