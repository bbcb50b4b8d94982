// Package phase implements the per-step listening/question/reveal state
// machine as a transition function over an explicit runtime state.
package phase

import "time"

// Phase is the sub-state of a step.
type Phase int

const (
	Listening Phase = iota // Learner listens to the phrase, may replay
	Question               // Shuffled choices are shown
	Reveal                 // Explanation is shown; non-listening steps stay here
)

func (p Phase) String() string {
	switch p {
	case Listening:
		return "listening"
	case Question:
		return "question"
	case Reveal:
		return "reveal"
	}
	return "unknown"
}

// RevealDelay is how long correct-answer feedback stays up before the
// phase flips to Reveal.
const RevealDelay = 2500 * time.Millisecond

// NoSelection marks Runtime.Selected when nothing has been chosen.
const NoSelection = -1

// Runtime is the mutable state of the current step. It is reset on every
// step change; only Epoch carries over.
type Runtime struct {
	Phase Phase

	// Replays counts phrase playbacks consumed in the current listening pass.
	Replays int

	// HasListened gates the move from Listening to Question.
	HasListened bool

	// PhraseFailed is set when the last phrase playback failed, so the
	// phrase is shown as text instead.
	PhraseFailed bool

	// Attempts counts submitted answers for this step. Retry keeps it.
	Attempts int

	// RetryMode is set after a wrong answer and cleared by Retry or Skip.
	RetryMode bool

	// Order is the presentation order of the step's choices, as indexes into
	// Step.Choices. It is computed once per entry into Question.
	Order []int

	// Selected is the index into Step.Choices of the last submitted choice.
	Selected int

	FeedbackVisible bool
	LastCorrect     bool

	// Skipped is set when the learner skipped past a wrong answer.
	Skipped bool

	// AwardedStar is set when the correct answer on this step granted a star.
	AwardedStar bool

	// QuestionStartedAt is when the Question phase was last entered.
	QuestionStartedAt time.Time

	// LastNarration is the most recent narration requested for this step.
	// A speed change restarts it while its epoch is still current.
	LastNarration Narrate

	// Epoch identifies the current step+phase. Timers carry the epoch they
	// were scheduled under and are ignored once it has moved on.
	Epoch uint64
}

func (rt *Runtime) reset() {
	*rt = Runtime{Epoch: rt.Epoch + 1, Selected: NoSelection}
}

func (rt *Runtime) bump() uint64 {
	rt.Epoch++
	return rt.Epoch
}
