package script

// Story is one configuration of the listening engine: a script plus the
// data that makes it distinct from the other stories.
type Story struct {
	// Version is the story file format version (semver, major v1).
	Version string `yaml:"version" json:"version"`

	ID    string `yaml:"id" json:"id"`
	Title string `yaml:"title" json:"title"`
	Theme string `yaml:"theme,omitempty" json:"theme,omitempty"`

	// Voice is the key of the narration voice profile.
	Voice string `yaml:"voice" json:"voice"`

	// AwardSteps lists the step ids at which a correct answer grants the
	// next star.
	AwardSteps []string `yaml:"awardSteps" json:"awardSteps"`

	// AutoAdvanceOnAward advances past the reveal of an award step once the
	// estimated narration time has elapsed.
	AutoAdvanceOnAward bool `yaml:"autoAdvanceOnAward,omitempty" json:"autoAdvanceOnAward,omitempty"`

	Steps []Step `yaml:"steps" json:"steps"`
}

// Script returns the ordered steps of the story.
func (s *Story) Script() *Script {
	return &Script{Steps: s.Steps}
}

// InteractiveCount returns how many steps run the listening cycle.
func (s *Story) InteractiveCount() int {
	n := 0
	for i := range s.Steps {
		if s.Steps[i].IsListening() {
			n++
		}
	}
	return n
}
