package script

// DefaultMaxReplays is the per-step replay allowance when a step does not
// declare one.
const DefaultMaxReplays = 5

// AffirmativeSentinel is the choice text that counts as correct on
// true/false steps.
const AffirmativeSentinel = "True"

// Choice is one answer option of an interactive step.
type Choice struct {
	// Text is the literal answer string. It doubles as the correctness key.
	Text string `yaml:"text" json:"text"`

	// Meaning is a short gloss shown alongside the answer.
	Meaning string `yaml:"meaning,omitempty" json:"meaning,omitempty"`
}

// Step is one beat of a story script. Steps are immutable once loaded.
type Step struct {
	ID    string `yaml:"id" json:"id"`
	Title string `yaml:"title" json:"title"`

	// Emoji is an opaque visual tag for the host UI.
	Emoji string `yaml:"emoji,omitempty" json:"emoji,omitempty"`

	// Text is the passive narration for non-interactive steps.
	Text string `yaml:"text,omitempty" json:"text,omitempty"`

	Interactive    bool `yaml:"interactive,omitempty" json:"interactive,omitempty"`
	ListeningFirst bool `yaml:"listeningFirst,omitempty" json:"listeningFirst,omitempty"`

	// TrueFalse marks steps whose correct answer is AffirmativeSentinel
	// rather than AudioText.
	TrueFalse bool `yaml:"trueFalse,omitempty" json:"trueFalse,omitempty"`

	AudioText        string   `yaml:"audioText,omitempty" json:"audioText,omitempty"`
	AudioInstruction string   `yaml:"audioInstruction,omitempty" json:"audioInstruction,omitempty"`
	Question         string   `yaml:"question,omitempty" json:"question,omitempty"`
	Hint             string   `yaml:"hint,omitempty" json:"hint,omitempty"`
	Choices          []Choice `yaml:"choices,omitempty" json:"choices,omitempty"`
	RevealText       string   `yaml:"revealText,omitempty" json:"revealText,omitempty"`

	// MaxReplays caps replays when the replay policy is enforced.
	// Zero means DefaultMaxReplays.
	MaxReplays int `yaml:"maxReplays,omitempty" json:"maxReplays,omitempty"`

	// WordCount and DurationSecs are authoring metadata. Timing never reads them.
	WordCount    int `yaml:"wordCount,omitempty" json:"wordCount,omitempty"`
	DurationSecs int `yaml:"durationSecs,omitempty" json:"durationSecs,omitempty"`
}

// IsListening reports whether the step runs the listening/question/reveal
// cycle. All other steps are rendered as permanently revealed.
func (s *Step) IsListening() bool {
	return s.ListeningFirst
}

// ReplayLimit returns the effective replay cap for the step.
func (s *Step) ReplayLimit() int {
	if s.MaxReplays > 0 {
		return s.MaxReplays
	}
	return DefaultMaxReplays
}

// CorrectText returns the choice text that counts as correct.
func (s *Step) CorrectText() string {
	if s.TrueFalse {
		return AffirmativeSentinel
	}
	return s.AudioText
}

// Script is the ordered list of steps of one story.
type Script struct {
	Steps []Step
}

// Len returns the number of steps.
func (s *Script) Len() int {
	return len(s.Steps)
}

// At returns the step at index i, or nil when out of range.
func (s *Script) At(i int) *Step {
	if i < 0 || i >= len(s.Steps) {
		return nil
	}
	return &s.Steps[i]
}

// Index returns the position of the step with the given id, or -1.
func (s *Script) Index(id string) int {
	for i := range s.Steps {
		if s.Steps[i].ID == id {
			return i
		}
	}
	return -1
}
