package scoring

import (
	"context"
	"time"

	"github.com/abhisek/listenquest/internal/analytics"
	"github.com/abhisek/listenquest/internal/logger"
)

// Tally is the running score of a session.
type Tally struct {
	Correct int
	Stars   int

	starred map[string]bool
}

// Outcome is the result of scoring one answer.
type Outcome struct {
	Correct     bool
	StarAwarded bool
}

// Engine applies the award table to answers and reports to analytics.
// Analytics failures are logged and never interrupt the session.
type Engine struct {
	awards   AwardTable
	recorder analytics.Recorder
	log      *logger.Logger
}

// NewEngine creates an Engine. A nil recorder records nothing.
func NewEngine(awards AwardTable, recorder analytics.Recorder, log *logger.Logger) *Engine {
	if recorder == nil {
		recorder = analytics.Nop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{awards: awards, recorder: recorder, log: log}
}

// Score updates t for an answer at stepID. Stars never decrease, are
// granted at most once per step and stop at MaxStars.
func (e *Engine) Score(t *Tally, stepID string, correct bool) Outcome {
	if !correct {
		return Outcome{}
	}
	t.Correct++
	out := Outcome{Correct: true}
	if e.awards.Grants(stepID) && !t.starred[stepID] && t.Stars < MaxStars {
		if t.starred == nil {
			t.starred = make(map[string]bool)
		}
		t.starred[stepID] = true
		t.Stars++
		out.StarAwarded = true
	}
	return out
}

// Start registers the learner and opens an analytics session. On failure
// it returns an invalid handle and later calls skip recording.
func (e *Engine) Start(ctx context.Context, userID, storyID, storyTitle string) analytics.Handle {
	if err := e.recorder.Initialize(ctx, userID); err != nil {
		e.log.Warn("analytics write failed", "op", "initialize", "user", userID, "error", err)
	}
	h, err := e.recorder.StartSession(ctx, userID, storyID, storyTitle)
	if err != nil {
		e.log.Warn("analytics write failed", "op", "start_session", "story", storyID, "error", err)
		return analytics.Handle{UserID: userID, StoryID: storyID, StoryTitle: storyTitle}
	}
	return h
}

// RecordAttempt reports an answer and returns the updated handle.
func (e *Engine) RecordAttempt(ctx context.Context, h analytics.Handle, a analytics.Attempt) analytics.Handle {
	if !h.Valid() {
		e.log.Debug("attempt not recorded, no analytics session", "step", a.StepID)
		return h
	}
	updated, err := e.recorder.RecordAttempt(ctx, h, a)
	if err != nil {
		e.log.Warn("analytics write failed", "op", "record_attempt", "step", a.StepID, "error", err)
		return h
	}
	return updated
}

// Finish computes the final score and closes the analytics session.
func (e *Engine) Finish(ctx context.Context, userID string, h analytics.Handle, t Tally, elapsed time.Duration, completed bool) analytics.Result {
	res := analytics.Result{
		Score:          FinalScore(t.Correct, t.Stars, elapsed),
		Stars:          t.Stars,
		CorrectAnswers: t.Correct,
		Elapsed:        elapsed,
		Completed:      completed,
	}
	if !h.Valid() {
		return res
	}
	if err := e.recorder.CompleteSession(ctx, userID, h, res); err != nil {
		e.log.Warn("analytics write failed", "op", "complete_session", "session", h.ID, "error", err)
	}
	return res
}
