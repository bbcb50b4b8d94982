package adventure

import (
	"time"

	"github.com/abhisek/listenquest/internal/analytics"
	"github.com/abhisek/listenquest/internal/narration"
	"github.com/abhisek/listenquest/internal/phase"
	"github.com/abhisek/listenquest/internal/scoring"
	"github.com/abhisek/listenquest/internal/script"
)

// Session is the mutable state of one playthrough.
type Session struct {
	StepIndex int

	// Elapsed ticks once per second from Start until the session finishes.
	Elapsed time.Duration

	// Tally holds the correct-answer and star counts.
	scoring.Tally

	// Completed is set when the last step was advanced past. An early exit
	// finishes the session without completing it.
	Completed bool

	// Score is the final score, set when the session finishes.
	Score int

	Handle analytics.Handle
}

// View is a snapshot of everything the host UI renders.
type View struct {
	StoryID    string
	StoryTitle string
	Theme      string

	StepIndex int
	StepCount int
	Step      script.Step
	Phase     phase.Phase

	// Choices is the presentation order during the question phase.
	Choices []script.Choice

	// Selected indexes Choices, or is phase.NoSelection.
	Selected int

	FeedbackVisible bool
	LastCorrect     bool
	RetryMode       bool
	HasListened     bool
	Skipped         bool

	// PhraseFailed is set when the last phrase could not be played aloud.
	PhraseFailed bool

	Replays int

	// ReplayLimit is zero when replays are unlimited.
	ReplayLimit int

	Attempts int
	Correct  int
	Stars    int
	Elapsed  time.Duration

	Speed           narration.Speed
	SpeechAvailable bool
	Speaking        bool

	Finished  bool
	Completed bool
	Score     int
}
