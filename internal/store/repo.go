package store

import (
	"context"
	"time"
)

// Session event actions.
const (
	ActionStart    = "start"
	ActionComplete = "complete" // reached the end of the script
	ActionExit     = "exit"     // learner left early
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int    // max results (0 = unlimited)
	After  int64  // sequence > After
	Before int64  // sequence < Before
	UserID string // only this learner's events (session queries only)
}

// SessionEventData captures a session lifecycle event.
type SessionEventData struct {
	SessionID  string
	UserID     string
	StoryID    string
	StoryTitle string
	Action     string

	// The fields below are only meaningful on complete/exit.
	CorrectAnswers int
	Stars          int
	Score          int
	ElapsedSecs    int
}

// SessionRecord is a stored session event.
type SessionRecord struct {
	Sequence  int64
	Timestamp time.Time
	SessionEventData
}

// AttemptEventData captures one submitted answer.
type AttemptEventData struct {
	SessionID string
	StepID    string
	Question  string
	Correct   bool
	Attempt   int
	Replays   int
	ElapsedMs int64
}

// AttemptRecord is a stored attempt event.
type AttemptRecord struct {
	Sequence  int64
	Timestamp time.Time
	AttemptEventData
}

// SpeechEventData captures a single speech engine request.
type SpeechEventData struct {
	Provider     string
	Voice        string
	Chars        int
	Cached       bool
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// SpeechRecord is a stored speech event.
type SpeechRecord struct {
	Sequence  int64
	Timestamp time.Time
	SpeechEventData
}

// StoryBest aggregates a learner's completed plays of one story.
type StoryBest struct {
	StoryID    string
	StoryTitle string
	Plays      int
	BestScore  int
	BestStars  int
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// TouchLearner registers userID, or refreshes its last-seen time.
	TouchLearner(ctx context.Context, userID string) error

	// AppendSessionEvent records a session start, completion or exit.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// AppendAttemptEvent records a submitted answer.
	AppendAttemptEvent(ctx context.Context, data AttemptEventData) error

	// AppendSpeechEvent records a speech engine request.
	AppendSpeechEvent(ctx context.Context, data SpeechEventData) error

	// RecentSessions returns finished sessions (complete or exit), newest first.
	RecentSessions(ctx context.Context, opts QueryOpts) ([]SessionRecord, error)

	// SessionAttempts returns the attempts of one session in order.
	SessionAttempts(ctx context.Context, sessionID string) ([]AttemptRecord, error)

	// RecentSpeechEvents returns speech events, newest first.
	RecentSpeechEvents(ctx context.Context, opts QueryOpts) ([]SpeechRecord, error)

	// StoryBests summarizes completed sessions per story for userID.
	StoryBests(ctx context.Context, userID string) ([]StoryBest, error)
}
