package session

import (
	"github.com/abhisek/listenquest/internal/adventure"
	"github.com/abhisek/listenquest/internal/screen"
	"github.com/abhisek/listenquest/internal/screens/summary"
)

// newSummaryScreenAdapter creates a summary screen from the final view.
func newSummaryScreenAdapter(v adventure.View, again func() screen.Screen) screen.Screen {
	return summary.New(summary.Result{
		StoryTitle: v.StoryTitle,
		Theme:      v.Theme,
		Completed:  v.Completed,
		Score:      v.Score,
		Stars:      v.Stars,
		Correct:    v.Correct,
		StepIndex:  v.StepIndex,
		StepCount:  v.StepCount,
		Elapsed:    v.Elapsed,
	}, again)
}
