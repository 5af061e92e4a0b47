package components

import (
	"strconv"
	"unicode/utf8"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/egelkids/egel/internal/ui/theme"
)

// NumberInput is a single-line field that only accepts digits. It starts
// blurred.
type NumberInput struct {
	field textinput.Model

	// mark is shown after the value once an answer was checked: 0 none,
	// 1 correct, -1 wrong.
	mark int
}

// NewNumberInput returns an input holding at most digits characters.
func NewNumberInput(placeholder string, digits int) NumberInput {
	f := textinput.New()
	f.Prompt = ""
	f.Placeholder = placeholder
	f.CharLimit = digits
	return NumberInput{field: f}
}

func (n *NumberInput) Focus() tea.Cmd { return n.field.Focus() }
func (n *NumberInput) Blur()          { n.field.Blur() }
func (n NumberInput) Focused() bool   { return n.field.Focused() }
func (n NumberInput) Value() string   { return n.field.Value() }

// Int parses the value. An empty or overlong field is not a number.
func (n NumberInput) Int() (int, bool) {
	v, err := strconv.Atoi(n.field.Value())
	return v, err == nil
}

// Mark shows whether the checked value was right.
func (n *NumberInput) Mark(correct bool) {
	n.mark = -1
	if correct {
		n.mark = 1
	}
}

// Reset empties the field and clears the mark.
func (n *NumberInput) Reset() {
	n.field.SetValue("")
	n.mark = 0
}

// Update drops printable keys that are not digits and hands everything
// else, including editing keys, to the underlying field.
func (n NumberInput) Update(msg tea.Msg) (NumberInput, tea.Cmd) {
	if k, ok := msg.(tea.KeyPressMsg); ok && k.Text != "" {
		r, _ := utf8.DecodeRuneInString(k.Text)
		if r < '0' || r > '9' {
			return n, nil
		}
	}
	var cmd tea.Cmd
	n.field, cmd = n.field.Update(msg)
	return n, cmd
}

func (n NumberInput) View() string {
	v := n.field.View()
	switch n.mark {
	case 1:
		v += " " + lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
	case -1:
		v += " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
	}
	return v
}
