package narration

import (
	"errors"
	"fmt"
)

var (
	// ErrPlaybackUnavailable matches any failed narration.
	ErrPlaybackUnavailable = errors.New("playback unavailable")

	// ErrInterrupted is returned when an utterance is superseded or stopped.
	ErrInterrupted = errors.New("narration interrupted")

	// ErrClosed is returned once the orchestrator has been shut down.
	ErrClosed = errors.New("narrator closed")
)

// PlaybackError reports a failed utterance.
type PlaybackError struct {
	Err error

	// Recovered is true when the reinitialization that followed the failure
	// restored availability. The failed utterance is not resent either way.
	Recovered bool
}

func (e *PlaybackError) Error() string {
	if e.Recovered {
		return fmt.Sprintf("playback unavailable (recovered for next call): %v", e.Err)
	}
	return fmt.Sprintf("playback unavailable: %v", e.Err)
}

func (e *PlaybackError) Unwrap() error { return e.Err }

func (e *PlaybackError) Is(target error) bool { return target == ErrPlaybackUnavailable }
