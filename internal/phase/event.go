package phase

import "time"

// Event is an input to Machine.Apply. Learner actions and timer callbacks
// are both events.
type Event interface{ event() }

// EnterStep resets the runtime for a new step.
type EnterStep struct{}

// Replay plays the listening phrase again.
type Replay struct{}

// ListenDone reports that a phrase playback ended, successfully or not.
// Failed is set when the phrase could not be played aloud.
type ListenDone struct {
	Epoch  uint64
	Failed bool
}

// ProceedToQuestion moves from Listening to Question.
type ProceedToQuestion struct{ At time.Time }

// Submit answers the question with Step.Choices[Choice].
type Submit struct {
	Choice  int
	Correct bool
	At      time.Time
}

// StarGranted marks that the pending correct answer earned a star.
type StarGranted struct{}

// RevealDue fires RevealDelay after a correct answer.
type RevealDue struct{ Epoch uint64 }

// Retry discards a wrong answer and returns to Listening.
type Retry struct{}

// Skip abandons a wrong answer and jumps to Reveal.
type Skip struct{}

// Continue is the learner's request to leave Reveal.
type Continue struct{}

// AdvanceDue fires when an auto-advance timer expires.
type AdvanceDue struct{ Epoch uint64 }

func (EnterStep) event()         {}
func (Replay) event()            {}
func (ListenDone) event()        {}
func (ProceedToQuestion) event() {}
func (Submit) event()            {}
func (StarGranted) event()       {}
func (RevealDue) event()         {}
func (Retry) event()             {}
func (Skip) event()              {}
func (Continue) event()          {}
func (AdvanceDue) event()        {}
