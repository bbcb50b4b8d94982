// Package analytics records session starts, answer attempts and session
// completions for a learner.
package analytics

import (
	"context"
	"time"
)

// Handle identifies a recorded session. It is returned by StartSession and
// threaded through every later call.
type Handle struct {
	ID         string
	UserID     string
	StoryID    string
	StoryTitle string
	StartedAt  time.Time

	// Attempts counts attempts recorded against this handle.
	Attempts int
}

// Valid reports whether h came from a successful StartSession.
func (h Handle) Valid() bool { return h.ID != "" }

// Attempt is one submitted answer.
type Attempt struct {
	StepID   string
	Question string
	Correct  bool
	Number   int
	Replays  int
	Elapsed  time.Duration
}

// Result is the outcome of a finished session.
type Result struct {
	Score          int
	Stars          int
	CorrectAnswers int
	Elapsed        time.Duration

	// Completed is false when the learner exited before the last step.
	Completed bool
}

// Recorder is the analytics collaborator.
type Recorder interface {
	Initialize(ctx context.Context, userID string) error
	StartSession(ctx context.Context, userID, storyID, storyTitle string) (Handle, error)
	RecordAttempt(ctx context.Context, h Handle, a Attempt) (Handle, error)
	CompleteSession(ctx context.Context, userID string, h Handle, r Result) error
}
