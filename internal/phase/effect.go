package phase

import "time"

// Effect is a side effect requested by a transition. The caller executes
// effects after releasing whatever lock guards the Runtime.
type Effect interface{ effect() }

// NarrationKind says which text of a step is being narrated.
type NarrationKind int

const (
	NarratePassive     NarrationKind = iota // Step.Text of a non-listening step
	NarrateInstruction                      // Step.AudioInstruction
	NarratePhrase                           // Step.AudioText
	NarrateReveal                           // Step.RevealText
)

// Narrate asks for text to be spoken.
type Narrate struct {
	Kind NarrationKind
	Text string

	// Autoplay narrations are only attempted while speech is available.
	// Learner-triggered ones are always attempted.
	Autoplay bool

	// Epoch is the epoch the narration belongs to. A finished phrase is
	// reported back as ListenDone{Epoch}.
	Epoch uint64
}

// StopNarration hard-stops any in-flight narration.
type StopNarration struct{}

// ScheduleReveal arms a timer that delivers RevealDue{Epoch} after Delay.
type ScheduleReveal struct {
	Delay time.Duration
	Epoch uint64
}

// ScheduleAdvance arms a timer that delivers AdvanceDue{Epoch} once Text
// has had time to be spoken.
type ScheduleAdvance struct {
	Text  string
	Epoch uint64
}

// RecordAttempt reports a submitted answer for scoring and analytics.
type RecordAttempt struct {
	StepID   string
	Question string
	Correct  bool
	Attempt  int
	Replays  int
	Latency  time.Duration
}

// NextStep asks the owner to move past the current step.
type NextStep struct{}

func (Narrate) effect()         {}
func (StopNarration) effect()   {}
func (ScheduleReveal) effect()  {}
func (ScheduleAdvance) effect() {}
func (RecordAttempt) effect()   {}
func (NextStep) effect()        {}
