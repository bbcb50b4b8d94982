package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
)

var testDBCounter int

func openTestStore(t *testing.T) *Store {
	t.Helper()
	testDBCounter++
	s, err := Open(fmt.Sprintf("file:listenquest_test_%d?mode=memory&cache=shared", testDBCounter))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is covered by TestOpenFile.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lq.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}

	// Reopening runs migration against existing tables.
	s.Close()
	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	s2.Close()
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{learnersTable, sessionEventsTable, attemptEventsTable, speechEventsTable, "global_sequence"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("table %s: %v", table, err)
		}
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestTouchLearner(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := repo.TouchLearner(ctx, "maya"); err != nil {
			t.Fatalf("touch %d: %v", i, err)
		}
	}

	var count int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM learners").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("learners = %d, want 1", count)
	}
}

func TestSessionEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []SessionEventData{
		{SessionID: "s1", UserID: "maya", StoryID: "team-captain", StoryTitle: "Team Captain", Action: ActionStart},
		{SessionID: "s1", UserID: "maya", StoryID: "team-captain", StoryTitle: "Team Captain", Action: ActionComplete, CorrectAnswers: 5, Stars: 3, Score: 100, ElapsedSecs: 200},
		{SessionID: "s2", UserID: "maya", StoryID: "team-captain", StoryTitle: "Team Captain", Action: ActionStart},
		{SessionID: "s2", UserID: "maya", StoryID: "team-captain", StoryTitle: "Team Captain", Action: ActionComplete, CorrectAnswers: 3, Stars: 1, Score: 80, ElapsedSecs: 400},
		{SessionID: "s3", UserID: "maya", StoryID: "mission-orbit", StoryTitle: "Mission Orbit", Action: ActionExit, Score: 45},
		{SessionID: "s4", UserID: "leo", StoryID: "dragon-library", StoryTitle: "Dragon Library", Action: ActionComplete, Score: 70},
	}
	for _, e := range events {
		if err := repo.AppendSessionEvent(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	recent, err := repo.RecentSessions(ctx, QueryOpts{UserID: "maya"})
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("recent sessions = %d, want 3 (starts excluded)", len(recent))
	}
	if recent[0].SessionID != "s3" || recent[0].Action != ActionExit {
		t.Errorf("newest = %+v, want s3 exit", recent[0])
	}
	if recent[2].Score != 100 || recent[2].ElapsedSecs != 200 || recent[2].Stars != 3 {
		t.Errorf("oldest = %+v", recent[2])
	}
	if recent[0].Timestamp.IsZero() {
		t.Error("timestamp not scanned")
	}

	limited, err := repo.RecentSessions(ctx, QueryOpts{Limit: 1})
	if err != nil {
		t.Fatalf("limited: %v", err)
	}
	if len(limited) != 1 || limited[0].SessionID != "s4" {
		t.Errorf("limited = %+v, want only s4", limited)
	}

	bests, err := repo.StoryBests(ctx, "maya")
	if err != nil {
		t.Fatalf("bests: %v", err)
	}
	if len(bests) != 1 {
		t.Fatalf("bests = %+v, want only team-captain (exits excluded)", bests)
	}
	if bests[0].Plays != 2 || bests[0].BestScore != 100 || bests[0].BestStars != 3 {
		t.Errorf("team-captain best = %+v", bests[0])
	}
}

func TestAttemptEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i, correct := range []bool{false, true} {
		err := repo.AppendAttemptEvent(ctx, AttemptEventData{
			SessionID: "s1",
			StepID:    "vision",
			Question:  "What did the captain say?",
			Correct:   correct,
			Attempt:   i + 1,
			Replays:   2,
			ElapsedMs: 4200,
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := repo.AppendAttemptEvent(ctx, AttemptEventData{SessionID: "other", StepID: "x", Attempt: 1}); err != nil {
		t.Fatalf("append other: %v", err)
	}

	got, err := repo.SessionAttempts(ctx, "s1")
	if err != nil {
		t.Fatalf("attempts: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("attempts = %d, want 2", len(got))
	}
	if got[0].Correct || !got[1].Correct || got[1].Attempt != 2 {
		t.Errorf("attempts out of order or wrong: %+v", got)
	}
	if got[0].Sequence >= got[1].Sequence {
		t.Errorf("sequence not increasing: %d, %d", got[0].Sequence, got[1].Sequence)
	}
}

func TestSpeechEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	data := []SpeechEventData{
		{Provider: "openai", Voice: "fable", Chars: 42, LatencyMs: 800, Success: true},
		{Provider: "openai", Voice: "fable", Chars: 42, Cached: true, Success: true},
		{Provider: "gemini", Voice: "Kore", Chars: 10, LatencyMs: 30, ErrorMessage: "rate limited"},
	}
	for _, d := range data {
		if err := repo.AppendSpeechEvent(ctx, d); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.RecentSpeechEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	if got[0].Provider != "gemini" || got[0].Success || got[0].ErrorMessage != "rate limited" {
		t.Errorf("newest = %+v", got[0])
	}
	if !got[1].Cached {
		t.Errorf("second = %+v, want cached", got[1])
	}

	older, err := repo.RecentSpeechEvents(ctx, QueryOpts{Before: got[1].Sequence})
	if err != nil {
		t.Fatalf("before: %v", err)
	}
	if len(older) != 1 || older[0].LatencyMs != 800 {
		t.Errorf("older = %+v", older)
	}
}
