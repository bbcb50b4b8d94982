package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/listenquest/internal/script"
	"github.com/abhisek/listenquest/internal/ui/theme"
)

// ChoiceList renders the answer options of an interactive step. It holds
// no state of its own; the coordinator's view drives every field.
type ChoiceList struct {
	Choices []script.Choice

	// Selected is the index of the chosen option, or -1.
	Selected int

	// Feedback marks the list as answered. Correct is the text that counts
	// as correct and is only highlighted while Feedback is set.
	Feedback bool
	Correct  string
}

// View renders one numbered line per choice.
func (c ChoiceList) View() string {
	meaning := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true)
	var b strings.Builder
	for i, ch := range c.Choices {
		prefix := "  "
		if i == c.Selected {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, ch.Text)

		var style lipgloss.Style
		switch {
		case c.Feedback && ch.Text == c.Correct:
			style = theme.Correct
		case c.Feedback && i == c.Selected:
			style = theme.Incorrect
		case c.Feedback:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == c.Selected:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line))
		if ch.Meaning != "" {
			b.WriteString("  " + meaning.Render(ch.Meaning))
		}
		b.WriteString("\n")
	}
	return b.String()
}
