package narration

import (
	"math"
	"time"
	"unicode/utf8"
)

// charsPerWord is the average word length the timing model assumes.
const charsPerWord = 5.0

// Timing parameterizes the spoken-duration heuristic.
//
// The estimate is a heuristic used to schedule auto-advance when there is no
// reliable "speech finished" signal. It never inspects real audio.
type Timing struct {
	// Floor is the minimum estimate returned, even for empty text.
	Floor time.Duration

	// Padding is added to the words-per-minute estimate.
	Padding time.Duration
}

var (
	// DefaultTiming is used for general narration pacing.
	DefaultTiming = Timing{Floor: 1500 * time.Millisecond, Padding: 500 * time.Millisecond}

	// RevealTiming schedules the auto-advance that follows a reveal.
	RevealTiming = Timing{Floor: 10 * time.Second, Padding: 2 * time.Second}
)

// Estimate returns how long text is expected to take to speak at speed.
func (t Timing) Estimate(text string, speed Speed) time.Duration {
	words := float64(utf8.RuneCountInString(text)) / charsPerWord
	ms := words/speed.WordsPerMinute()*60000 + float64(t.Padding.Milliseconds())
	est := time.Duration(math.Round(ms)) * time.Millisecond
	if est < t.Floor {
		return t.Floor
	}
	return est
}

// EstimateSpokenMs is Estimate under DefaultTiming, in milliseconds.
func EstimateSpokenMs(text string, speed Speed) int64 {
	return DefaultTiming.Estimate(text, speed).Milliseconds()
}
