package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/listenquest/internal/ui/theme"
)

const bannerArt = `
 ╦  ╦╔═╗╔╦╗╔═╗╔╗╔  ╔═╗ ╦ ╦╔═╗╔═╗╔╦╗
 ║  ║╚═╗ ║ ║╣ ║║║  ║═╬╗║ ║║╣ ╚═╗ ║
 ╩═╝╩╚═╝ ╩ ╚═╝╝╚╝  ╚═╝╚╚═╝╚═╝╚═╝ ╩ `

const bannerCompact = "L I S T E N Q U E S T"

// RenderBanner returns the LISTENQUEST banner styled in the primary color.
// Uses a compact fallback for terminals narrower than 40 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 40 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
