package components

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/listenquest/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for story cards so
// stacked boxes line up.
func ContentWidth(frameWidth int) int {
	// Leave room for frame border (2) + inner padding (4)
	w := frameWidth - 6
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

// StoryFrame wraps content in a double border tinted with the story
// accent, centered within the given dimensions.
func StoryFrame(content string, accent color.Color, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(accent).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Card wraps content in a rounded-border card at the given content width.
func Card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Padding(1, 2).
		Render(content)
}

// Action renders a key-labelled action such as "[space] Listen".
// Disabled actions are dimmed.
func Action(key, label string, enabled bool) string {
	if !enabled {
		return theme.Disabled.Render("[" + key + "] " + label)
	}
	return lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("["+key+"]") +
		" " + theme.Body.Render(label)
}
