package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/listenquest/internal/store"
)

// StoreRecorder is a Recorder that appends events to the local database.
type StoreRecorder struct {
	repo store.EventRepo
	now  func() time.Time
}

// NewStoreRecorder creates a StoreRecorder writing through repo.
func NewStoreRecorder(repo store.EventRepo) *StoreRecorder {
	return &StoreRecorder{repo: repo, now: time.Now}
}

func (r *StoreRecorder) Initialize(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("initialize analytics: empty user id")
	}
	return r.repo.TouchLearner(ctx, userID)
}

func (r *StoreRecorder) StartSession(ctx context.Context, userID, storyID, storyTitle string) (Handle, error) {
	h := Handle{
		ID:         uuid.New().String(),
		UserID:     userID,
		StoryID:    storyID,
		StoryTitle: storyTitle,
		StartedAt:  r.now(),
	}
	err := r.repo.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID:  h.ID,
		UserID:     userID,
		StoryID:    storyID,
		StoryTitle: storyTitle,
		Action:     store.ActionStart,
	})
	if err != nil {
		return Handle{}, fmt.Errorf("start session: %w", err)
	}
	return h, nil
}

func (r *StoreRecorder) RecordAttempt(ctx context.Context, h Handle, a Attempt) (Handle, error) {
	if !h.Valid() {
		return h, fmt.Errorf("record attempt: session was never started")
	}
	err := r.repo.AppendAttemptEvent(ctx, store.AttemptEventData{
		SessionID: h.ID,
		StepID:    a.StepID,
		Question:  a.Question,
		Correct:   a.Correct,
		Attempt:   a.Number,
		Replays:   a.Replays,
		ElapsedMs: a.Elapsed.Milliseconds(),
	})
	if err != nil {
		return h, fmt.Errorf("record attempt: %w", err)
	}
	h.Attempts++
	return h, nil
}

func (r *StoreRecorder) CompleteSession(ctx context.Context, userID string, h Handle, res Result) error {
	if !h.Valid() {
		return fmt.Errorf("complete session: session was never started")
	}
	action := store.ActionComplete
	if !res.Completed {
		action = store.ActionExit
	}
	err := r.repo.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID:      h.ID,
		UserID:         userID,
		StoryID:        h.StoryID,
		StoryTitle:     h.StoryTitle,
		Action:         action,
		CorrectAnswers: res.CorrectAnswers,
		Stars:          res.Stars,
		Score:          res.Score,
		ElapsedSecs:    int(res.Elapsed / time.Second),
	})
	if err != nil {
		return fmt.Errorf("complete session: %w", err)
	}
	return nil
}

// Nop is a Recorder that records nothing. Sessions still get handles.
type Nop struct{}

func (Nop) Initialize(context.Context, string) error { return nil }

func (Nop) StartSession(_ context.Context, userID, storyID, storyTitle string) (Handle, error) {
	return Handle{
		ID:         uuid.New().String(),
		UserID:     userID,
		StoryID:    storyID,
		StoryTitle: storyTitle,
		StartedAt:  time.Now(),
	}, nil
}

func (Nop) RecordAttempt(_ context.Context, h Handle, _ Attempt) (Handle, error) {
	h.Attempts++
	return h, nil
}

func (Nop) CompleteSession(context.Context, string, Handle, Result) error { return nil }
