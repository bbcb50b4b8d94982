package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/listenquest/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// HeaderProvider is an optional interface for screens that show live
// progress in the header.
type HeaderProvider interface {
	HeaderStats() layout.HeaderStats
}

// Closer is implemented by screens that own background work. The router
// calls Close when the screen leaves the stack.
type Closer interface {
	Close()
}

// RefreshMsg asks the active screen to reload data that may have changed
// while another screen was on top.
type RefreshMsg struct{}
