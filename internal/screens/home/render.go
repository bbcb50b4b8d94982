package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/listenquest/internal/script"
	"github.com/abhisek/listenquest/internal/ui/components"
	"github.com/abhisek/listenquest/internal/ui/theme"
)

// frameAccent tints the home frame border.
var frameAccent = theme.Primary

func iconFor(st *script.Story) string {
	return theme.StoryIcon(st.Theme)
}

const titleFull = `╦  ╦╔═╗╔╦╗╔═╗╔╗╔  ╔═╗ ╦ ╦╔═╗╔═╗╔╦╗
║  ║╚═╗ ║ ║╣ ║║║  ║═╬╗║ ║║╣ ╚═╗ ║
╩═╝╩╚═╝ ╩ ╚═╝╝╚╝  ╚═╝╚╚═╝╚═╝╚═╝ ╩ `

const titleCompact = "L · I · S · T · E · N · Q · U · E · S · T"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Gold).
		Bold(true)

	art := titleFull
	if compact {
		art = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(art))
}

// renderStatsBar renders the learner greeting and star total.
func renderStatsBar(learner string, stars, played int, cw int) string {
	nameStyle := lipgloss.NewStyle().Foreground(theme.Sky).Bold(true)
	starStyle := lipgloss.NewStyle().Foreground(theme.Gold).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	greeting := nameStyle.Render("Hi, " + learner + "!")
	if learner == "" {
		greeting = dimStyle.Render("Who's listening today?")
	}

	stats := fmt.Sprintf("%s   %s  %s",
		greeting,
		starStyle.Render(fmt.Sprintf("★ %d", stars)),
		dimStyle.Render(fmt.Sprintf("%d stories played", played)),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Sky).
		Width(cw - 2). // account for border chars
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// renderNameInput renders the learner-name prompt.
func renderNameInput(input components.TextInput, cw int) string {
	label := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("What's your name?")
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(label + "\n\n" + input.View())
}

// renderMenu renders the story menu in a card matching content width.
func renderMenu(menu components.Menu, cw int) string {
	return components.Card(strings.TrimRight(menu.View(), "\n"), cw)
}

// renderSpeechNote renders a dim one-line note about the speech provider.
func renderSpeechNote(note string, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Italic(true).
		Width(cw).
		Align(lipgloss.Center).
		Render(note)
}

// renderMascotBox renders the mascot centered at content width.
func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}
