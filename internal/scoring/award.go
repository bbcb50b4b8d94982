package scoring

import "github.com/abhisek/listenquest/internal/script"

// MaxStars caps the stars a learner can earn in one session.
const MaxStars = 3

// AwardTable is the set of step ids at which a correct answer grants the
// next star. Each story declares its own table.
type AwardTable struct {
	steps map[string]struct{}
}

// NewAwardTable builds a table from step ids.
func NewAwardTable(stepIDs []string) AwardTable {
	t := AwardTable{steps: make(map[string]struct{}, len(stepIDs))}
	for _, id := range stepIDs {
		t.steps[id] = struct{}{}
	}
	return t
}

// AwardTableFor returns the table declared by story.
func AwardTableFor(story *script.Story) AwardTable {
	return NewAwardTable(story.AwardSteps)
}

// Grants reports whether a correct answer at stepID earns a star.
func (t AwardTable) Grants(stepID string) bool {
	_, ok := t.steps[stepID]
	return ok
}

// Attainable returns the most stars a story using this table can award.
func (t AwardTable) Attainable() int { return min(len(t.steps), MaxStars) }

// IsCorrect reports whether choice answers step. The choice text is the
// correctness key.
func IsCorrect(step *script.Step, choice script.Choice) bool {
	return choice.Text == step.CorrectText()
}
