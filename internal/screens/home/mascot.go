package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/listenquest/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota // Default sky blue
	MascotCelebrating                      // Gold, star eyes: a story has all stars
	MascotSleepy                           // Dim, closed eyes: speech is off
)

const mascotIdle = ` ,___,
 (O,O)  ♪
 /)  )
──"──"──`

const mascotCelebrating = ` ,___,
 (★,★) ♫♪
 /)  )
──"──"──`

const mascotSleepy = ` ,___,
 (-,-)  z
 /)  )
──"──"──`

// RenderMascot returns the owl art for the given variant.
func RenderMascot(variant MascotVariant) string {
	art, fg := mascotIdle, theme.Sky

	switch variant {
	case MascotCelebrating:
		art, fg = mascotCelebrating, theme.Gold
	case MascotSleepy:
		art, fg = mascotSleepy, theme.TextDim
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
