package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Color palette. Warm storybook tones on a dark background.
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#0F172A") // Deep Navy
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate

	Gold = lipgloss.Color("#FACC15") // Star Gold
	Sky  = lipgloss.Color("#38BDF8") // Listening Blue
)

// Accent colors per story theme.
var storyAccents = map[string]color.Color{
	"space":      lipgloss.Color("#38BDF8"),
	"fantasy":    lipgloss.Color("#A855F7"),
	"leadership": lipgloss.Color("#F59E0B"),
}

var storyIcons = map[string]string{
	"space":      "🚀",
	"fantasy":    "🐉",
	"leadership": "🏆",
}

// StoryIcon returns the menu icon for a story theme.
func StoryIcon(storyTheme string) string {
	if icon, ok := storyIcons[storyTheme]; ok {
		return icon
	}
	return "📖"
}

// StoryAccent returns the accent color for a story theme, falling back to
// Primary for unknown themes.
func StoryAccent(storyTheme string) color.Color {
	if c, ok := storyAccents[storyTheme]; ok {
		return c
	}
	return Primary
}

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Layout
var (
	Header = lipgloss.NewStyle().
		Background(BgCard).
		Padding(0, 2)

	Footer = lipgloss.NewStyle().
		Background(BgCard).
		Padding(0, 2)

	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Disabled = lipgloss.NewStyle().
			Foreground(Border)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Listening = lipgloss.NewStyle().
			Foreground(Sky).
			Bold(true)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)

	StarEarned = lipgloss.NewStyle().
			Foreground(Gold).
			Bold(true)

	StarEmpty = lipgloss.NewStyle().
			Foreground(Border)
)
