package components

import (
	"strings"
	"unicode"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/listenquest/internal/ui/theme"
)

// NameLimit caps the length of a learner name.
const NameLimit = 24

// TextInput wraps bubbles/textinput with ListenQuest styling.
type TextInput struct {
	Model     textinput.Model
	NamesOnly bool
	invalid   bool
}

// NewTextInput creates a new styled text input.
func NewTextInput(placeholder string, namesOnly bool, maxWidth int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()

	if maxWidth > 0 {
		ti.CharLimit = maxWidth
	}

	return TextInput{
		Model:     ti,
		NamesOnly: namesOnly,
	}
}

// NewNameInput creates an input that accepts letters, digits, spaces,
// hyphens and apostrophes.
func NewNameInput(initial string) TextInput {
	t := NewTextInput("your name", true, NameLimit)
	t.Model.SetValue(initial)
	t.Model.CursorEnd()
	return t
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.NamesOnly {
		if kmsg, ok := msg.(tea.KeyPressMsg); ok && kmsg.Text != "" {
			for _, r := range kmsg.Text {
				if !nameRune(r) {
					return t, nil
				}
			}
		}
	}
	t.invalid = false

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text input.
func (t TextInput) View() string {
	view := t.Model.View()
	if t.invalid {
		view += " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
	}
	return view
}

// Value returns the current input value with surrounding space trimmed.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

// Validate reports whether the value is non-empty and flags the input
// otherwise.
func (t *TextInput) Validate() bool {
	t.invalid = t.Value() == ""
	return !t.invalid
}

func nameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '\''
}
