package session

import (
	"errors"

	"github.com/abhisek/listenquest/internal/adventure"
)

var errAlreadyStarted = errors.New("story session already started or closed")

// sessionStartedMsg is sent once speech has been probed and the
// coordinator has entered the first step.
type sessionStartedMsg struct {
	SpeechAvailable bool
	Err             error
}

// viewMsg carries the next coordinator view. ok is false once the update
// channel has been closed.
type viewMsg struct {
	view adventure.View
	ok   bool
}
