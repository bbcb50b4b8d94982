package speech

import (
	"fmt"
	"time"
)

// ErrRateLimit indicates the engine returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the engine is down, unreachable, or the
// synthesizer is not ready to speak.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("speech provider unavailable: %v", e.Err)
	}
	return "speech provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrEmptyAudio indicates the engine answered without any audio payload.
// It is not retried.
type ErrEmptyAudio struct {
	Engine string
}

func (e *ErrEmptyAudio) Error() string {
	return fmt.Sprintf("%s returned no audio", e.Engine)
}
