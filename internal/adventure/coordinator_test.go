package adventure

import (
	"context"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/listenquest/internal/narration"
	"github.com/abhisek/listenquest/internal/phase"
	"github.com/abhisek/listenquest/internal/scoring"
	"github.com/abhisek/listenquest/internal/script"
	"github.com/abhisek/listenquest/internal/speech"
)

const visionText = "A clear vision helps everyone understand the goal"

func listening(id, audio string, wrong ...string) script.Step {
	choices := []script.Choice{{Text: audio, Meaning: "the right one"}}
	for _, w := range wrong {
		choices = append(choices, script.Choice{Text: w})
	}
	return script.Step{
		ID:               id,
		Title:            id,
		Interactive:      true,
		ListeningFirst:   true,
		AudioText:        audio,
		AudioInstruction: "Listen carefully.",
		Question:         "What did you hear?",
		Choices:          choices,
		RevealText:       "That is what " + id + " means.",
	}
}

func testStory() *script.Story {
	return &script.Story{
		ID:         "team-captain",
		Title:      "Team Captain",
		Voice:      "coach",
		AwardSteps: []string{"vision"},
		Steps: []script.Step{
			{ID: "intro", Title: "Welcome", Text: "Welcome, captain."},
			listening("vision", visionText,
				"A loud voice helps everyone hear the goal",
				"A long meeting helps everyone forget the goal"),
			{ID: "outro", Title: "Well done", Text: "You led the team."},
		},
	}
}

type harness struct {
	c     *Coordinator
	clock *fakeClock
	synth *fakeSynth
	rec   *fakeRecorder
	orch  *narration.Orchestrator
}

func newHarness(t *testing.T, story *script.Story, configure ...func(*fakeSynth, *Options)) *harness {
	t.Helper()
	h := &harness{clock: newFakeClock(), synth: newFakeSynth(), rec: &fakeRecorder{}}
	opts := Options{
		UserID:   "maya",
		Voice:    speech.Profile{Key: "coach", BaseRate: 1},
		Shuffler: phase.NewShuffler(rand.NewPCG(1, 1)),
		Clock:    h.clock,
		Dispatch: func(f func()) { f() },
	}
	for _, fn := range configure {
		fn(h.synth, &opts)
	}
	h.orch = narration.NewOrchestrator(h.synth, nil)
	h.orch.Init(context.Background())
	engine := scoring.NewEngine(scoring.AwardTableFor(story), h.rec, nil)
	h.c = New(story, h.orch, engine, opts)
	require.True(t, h.c.Start(context.Background()))
	return h
}

// listenAndProceed replays the phrase and moves to the question.
func (h *harness) listenAndProceed(t *testing.T) {
	t.Helper()
	require.True(t, h.c.Replay(), "replay")
	require.True(t, h.c.ProceedToQuestion(), "proceed")
	require.Equal(t, phase.Question, h.c.View().Phase)
}

func TestPassiveStepIsRevealedUntilAdvance(t *testing.T) {
	h := newHarness(t, testStory())

	v := h.c.View()
	assert.Equal(t, 0, v.StepIndex)
	assert.Equal(t, phase.Reveal, v.Phase)
	assert.Contains(t, h.synth.spokenTexts(), "Welcome, captain.")

	assert.False(t, h.c.Replay())
	assert.False(t, h.c.ProceedToQuestion())
	h.clock.Advance(time.Minute)
	assert.Equal(t, 0, h.c.View().StepIndex, "passive steps never auto-advance")
	assert.Equal(t, phase.Reveal, h.c.View().Phase)

	require.True(t, h.c.Advance())
	v = h.c.View()
	assert.Equal(t, 1, v.StepIndex)
	assert.Equal(t, phase.Listening, v.Phase)
}

func TestProceedRequiresListening(t *testing.T) {
	h := newHarness(t, testStory())
	require.True(t, h.c.Advance())

	assert.False(t, h.c.ProceedToQuestion())
	assert.Equal(t, phase.Listening, h.c.View().Phase)

	require.True(t, h.c.Replay())
	assert.True(t, h.c.View().HasListened)
	assert.Equal(t, 1, h.c.View().Replays)
	assert.True(t, h.c.ProceedToQuestion())
}

func TestCorrectAnswerOnFirstAttempt(t *testing.T) {
	h := newHarness(t, testStory())
	require.True(t, h.c.Advance())
	h.listenAndProceed(t)

	v := h.c.View()
	require.Len(t, v.Choices, 3)
	require.True(t, h.c.SubmitChoice(script.Choice{Text: visionText}))

	v = h.c.View()
	assert.Equal(t, 1, v.Correct)
	assert.True(t, v.FeedbackVisible)
	assert.True(t, v.LastCorrect)
	assert.Equal(t, visionText, v.Choices[v.Selected].Text)
	assert.Equal(t, phase.Question, v.Phase)

	attempts := h.rec.attemptList()
	require.Len(t, attempts, 1)
	assert.Equal(t, 1, attempts[0].Number)
	assert.True(t, attempts[0].Correct)
	assert.Equal(t, "vision", attempts[0].StepID)
	assert.Equal(t, 1, h.c.Session().Handle.Attempts)

	h.clock.Advance(phase.RevealDelay - time.Millisecond)
	assert.Equal(t, phase.Question, h.c.View().Phase)
	h.clock.Advance(time.Millisecond)
	assert.Equal(t, phase.Reveal, h.c.View().Phase)
	assert.Contains(t, h.synth.spokenTexts(), "That is what vision means.")
	assert.Equal(t, 1, h.c.View().Stars)
}

func TestWrongAnswerThenRetry(t *testing.T) {
	h := newHarness(t, testStory())
	require.True(t, h.c.Advance())
	h.listenAndProceed(t)

	require.True(t, h.c.SubmitChoice(script.Choice{Text: "A loud voice helps everyone hear the goal"}))
	v := h.c.View()
	assert.True(t, v.RetryMode)
	assert.False(t, v.LastCorrect)
	assert.Equal(t, 0, v.Correct)
	assert.False(t, h.c.SubmitChoice(script.Choice{Text: visionText}), "no resubmit in retry mode")

	require.True(t, h.c.Retry())
	v = h.c.View()
	assert.Equal(t, phase.Listening, v.Phase)
	assert.Equal(t, 0, v.Replays)
	assert.Equal(t, 1, v.Attempts)
	assert.False(t, v.HasListened)

	h.listenAndProceed(t)
	require.True(t, h.c.SubmitChoice(script.Choice{Text: visionText}))

	attempts := h.rec.attemptList()
	require.Len(t, attempts, 2)
	assert.Equal(t, 1, attempts[0].Number)
	assert.False(t, attempts[0].Correct)
	assert.Equal(t, 2, attempts[1].Number)
	assert.True(t, attempts[1].Correct)
}

func TestSkipAfterWrongAnswer(t *testing.T) {
	h := newHarness(t, testStory())
	require.True(t, h.c.Advance())
	h.listenAndProceed(t)

	assert.False(t, h.c.Skip(), "skip needs a wrong answer first")
	require.True(t, h.c.SubmitChoice(script.Choice{Text: "A long meeting helps everyone forget the goal"}))
	require.True(t, h.c.Skip())

	v := h.c.View()
	assert.Equal(t, phase.Reveal, v.Phase)
	assert.True(t, v.Skipped)
	assert.Equal(t, 0, v.Correct)
	assert.Equal(t, 0, v.Stars)
	assert.Len(t, h.rec.attemptList(), 1)

	require.True(t, h.c.Advance())
	assert.Equal(t, 2, h.c.View().StepIndex)
}

func TestCompleteSession(t *testing.T) {
	h := newHarness(t, testStory())
	updates := h.c.Updates()

	require.True(t, h.c.Advance())
	h.listenAndProceed(t)
	require.True(t, h.c.SubmitChoice(script.Choice{Text: visionText}))
	h.clock.Advance(3 * time.Second)
	require.True(t, h.c.Advance())
	require.True(t, h.c.Advance(), "advancing past the last step completes")

	sess := h.c.Session()
	assert.True(t, sess.Completed)
	assert.Equal(t, 1, sess.Correct)
	assert.Equal(t, 1, sess.Stars)
	assert.Equal(t, 3*time.Second, sess.Elapsed)
	// 40 + 20 + 29.7 + 10 rounds to 100.
	assert.Equal(t, 100, sess.Score)

	completes := h.rec.completeList()
	require.Len(t, completes, 1)
	assert.True(t, completes[0].Completed)
	assert.Equal(t, sess.Score, completes[0].Score)

	assert.False(t, h.c.Advance())
	assert.False(t, h.c.RequestExit())

	var last View
	for v := range updates {
		last = v
	}
	assert.True(t, last.Finished)
	assert.True(t, last.Completed)
}

func TestExitIsIdempotent(t *testing.T) {
	h := newHarness(t, testStory())
	require.True(t, h.c.Advance())
	require.Zero(t, h.synth.stopCount())

	var wg sync.WaitGroup
	results := make(chan bool, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- h.c.RequestExit()
		}()
	}
	wg.Wait()
	close(results)

	accepted := 0
	for ok := range results {
		if ok {
			accepted++
		}
	}
	assert.Equal(t, 1, accepted)
	assert.Equal(t, 1, h.synth.stopCount(), "speech stopped exactly once")
	require.Len(t, h.rec.completeList(), 1, "completeSession called exactly once")
	assert.False(t, h.rec.completeList()[0].Completed)
	assert.True(t, h.c.View().Finished)
	assert.False(t, h.c.Replay(), "no actions after exit")
}

func TestExitBeforeStartClosesCoordinator(t *testing.T) {
	story := testStory()
	rec := &fakeRecorder{}
	synth := newFakeSynth()
	c := New(story, narration.NewOrchestrator(synth, nil), scoring.NewEngine(scoring.AwardTableFor(story), rec, nil), Options{
		UserID:   "maya",
		Clock:    newFakeClock(),
		Dispatch: func(f func()) { f() },
	})

	require.True(t, c.RequestExit())
	assert.False(t, c.RequestExit())
	assert.False(t, c.Start(context.Background()), "a late start does nothing")
	assert.False(t, c.Advance())

	for range c.Updates() {
	}
	v := c.View()
	assert.True(t, v.Finished)
	assert.False(t, v.Completed)
	assert.Zero(t, rec.startCount(), "no session opened")
	assert.Empty(t, rec.completeList())
	assert.Empty(t, synth.spokenTexts())
}

func TestExitWhileOpeningCompletesOnce(t *testing.T) {
	story := testStory()
	rec := &fakeRecorder{opening: make(chan struct{}, 1), gate: make(chan struct{})}
	synth := newFakeSynth()
	c := New(story, narration.NewOrchestrator(synth, nil), scoring.NewEngine(scoring.AwardTableFor(story), rec, nil), Options{
		UserID:   "maya",
		Clock:    newFakeClock(),
		Dispatch: func(f func()) { f() },
	})

	started := make(chan bool, 1)
	go func() { started <- c.Start(context.Background()) }()
	<-rec.opening

	exited := make(chan bool, 1)
	go func() { exited <- c.RequestExit() }()
	require.Eventually(t, func() bool { return c.View().Finished }, time.Second, 5*time.Millisecond)
	close(rec.gate)

	assert.True(t, <-exited)
	assert.False(t, <-started, "start stops once exit was requested")

	completes := rec.completeList()
	require.Len(t, completes, 1, "the opened session is completed exactly once")
	assert.False(t, completes[0].Completed)
	assert.Empty(t, synth.spokenTexts(), "the first step is never entered")
	assert.False(t, c.Advance())
}

func TestStaleTimersAreIgnored(t *testing.T) {
	h := newHarness(t, testStory())
	require.True(t, h.c.Advance())
	h.listenAndProceed(t)
	require.True(t, h.c.SubmitChoice(script.Choice{Text: visionText}))

	require.True(t, h.c.RequestExit())
	h.clock.Advance(10 * time.Second)
	v := h.c.View()
	assert.Equal(t, phase.Question, v.Phase, "reveal timer must not fire after exit")
	assert.Zero(t, v.Elapsed, "elapsed stops with the session")
}

func TestAutoAdvanceAfterAward(t *testing.T) {
	story := testStory()
	story.AutoAdvanceOnAward = true
	h := newHarness(t, story)
	require.True(t, h.c.Advance())
	h.listenAndProceed(t)
	require.True(t, h.c.SubmitChoice(script.Choice{Text: visionText}))
	h.clock.Advance(phase.RevealDelay)
	require.Equal(t, phase.Reveal, h.c.View().Phase)

	wait := narration.RevealTiming.Estimate("That is what vision means.", narration.SpeedNormal)
	h.clock.Advance(wait - time.Millisecond)
	assert.Equal(t, 1, h.c.View().StepIndex)
	h.clock.Advance(time.Millisecond)
	assert.Equal(t, 2, h.c.View().StepIndex)
}

func TestManualAdvanceCancelsAutoAdvance(t *testing.T) {
	story := testStory()
	story.AutoAdvanceOnAward = true
	story.Steps = []script.Step{
		story.Steps[0],
		story.Steps[1],
		listening("second", "Teams win together", "Teams lose apart"),
		story.Steps[2],
	}
	h := newHarness(t, story)
	require.True(t, h.c.Advance())
	h.listenAndProceed(t)
	require.True(t, h.c.SubmitChoice(script.Choice{Text: visionText}))
	h.clock.Advance(phase.RevealDelay)

	require.True(t, h.c.Advance())
	require.Equal(t, 2, h.c.View().StepIndex)

	h.clock.Advance(time.Minute)
	assert.Equal(t, 2, h.c.View().StepIndex, "stale auto-advance must not skip a step")
	assert.Equal(t, phase.Listening, h.c.View().Phase)
}

func TestNoAutoAdvanceWithoutStar(t *testing.T) {
	story := testStory()
	story.AutoAdvanceOnAward = true
	story.AwardSteps = nil
	h := newHarness(t, story)
	require.True(t, h.c.Advance())
	h.listenAndProceed(t)
	require.True(t, h.c.SubmitChoice(script.Choice{Text: visionText}))
	h.clock.Advance(phase.RevealDelay + time.Minute)

	v := h.c.View()
	assert.Equal(t, phase.Reveal, v.Phase)
	assert.Equal(t, 1, v.StepIndex)
}

func TestStarsCappedAndMonotonic(t *testing.T) {
	story := &script.Story{ID: "many", Title: "Many Stars", Voice: "coach"}
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		story.Steps = append(story.Steps, listening(id, "phrase "+id, "other "+id))
		story.AwardSteps = append(story.AwardSteps, id)
	}
	h := newHarness(t, story)

	prev := 0
	for i := range story.Steps {
		h.listenAndProceed(t)
		require.True(t, h.c.SubmitChoice(script.Choice{Text: "phrase " + story.Steps[i].ID}))
		h.clock.Advance(phase.RevealDelay)
		stars := h.c.View().Stars
		assert.GreaterOrEqual(t, stars, prev)
		assert.LessOrEqual(t, stars, scoring.MaxStars)
		prev = stars
		require.True(t, h.c.Advance())
	}
	assert.Equal(t, scoring.MaxStars, h.c.Session().Stars)
	assert.Equal(t, 5, h.c.Session().Correct)
	assert.True(t, h.c.Session().Completed)
}

func TestSpeechUnavailableDoesNotBlock(t *testing.T) {
	h := newHarness(t, testStory(), func(s *fakeSynth, _ *Options) { s.ready = false })
	assert.False(t, h.c.View().SpeechAvailable)
	assert.Empty(t, h.synth.spokenTexts(), "no autoplay while unavailable")

	require.True(t, h.c.Advance())
	require.True(t, h.c.Replay())
	assert.True(t, h.c.View().HasListened, "failed playback still counts as listened")
	assert.True(t, h.c.ProceedToQuestion())
}

func TestFailedPhraseFallsBackToText(t *testing.T) {
	h := newHarness(t, testStory())
	require.True(t, h.c.Advance())

	h.synth.mu.Lock()
	h.synth.failSpeak = true
	h.synth.mu.Unlock()
	require.True(t, h.c.Replay())

	v := h.c.View()
	assert.True(t, v.HasListened)
	assert.True(t, v.SpeechAvailable, "reinitialization recovered")
	assert.True(t, v.PhraseFailed, "the phrase is shown as text")
	assert.False(t, v.Speaking)

	h.synth.mu.Lock()
	h.synth.failSpeak = false
	h.synth.mu.Unlock()
	require.True(t, h.c.Replay())
	assert.False(t, h.c.View().PhraseFailed, "a spoken replay hides the text again")
}

func TestReplayLimitEnforced(t *testing.T) {
	story := testStory()
	story.Steps[1].MaxReplays = 2
	h := newHarness(t, story, func(_ *fakeSynth, o *Options) { o.Replays = phase.ReplayPolicy{Enforce: true} })
	require.True(t, h.c.Advance())

	assert.True(t, h.c.Replay())
	assert.True(t, h.c.Replay())
	assert.False(t, h.c.Replay())
	assert.Equal(t, 2, h.c.View().ReplayLimit)
}

func TestChangeSpeedRestartsInFlightNarration(t *testing.T) {
	h := newHarness(t, testStory(), func(s *fakeSynth, o *Options) {
		s.block = true
		o.Dispatch = nil
	})
	t.Cleanup(func() { h.c.RequestExit() })
	require.True(t, h.c.Advance())
	require.True(t, h.c.Replay())

	require.Eventually(t, func() bool {
		texts := h.synth.spokenTexts()
		return len(texts) > 0 && texts[len(texts)-1] == visionText
	}, time.Second, 5*time.Millisecond)
	before := len(h.synth.spokenTexts())

	require.True(t, h.c.ChangeSpeed(narration.SpeedSlow))
	require.Eventually(t, func() bool {
		return len(h.synth.spokenTexts()) > before
	}, time.Second, 5*time.Millisecond)

	texts := h.synth.spokenTexts()
	assert.Equal(t, visionText, texts[len(texts)-1])
	h.synth.mu.Lock()
	rate := h.synth.rates[len(h.synth.rates)-1]
	h.synth.mu.Unlock()
	assert.InDelta(t, 0.75, rate, 1e-9)
	assert.Equal(t, narration.SpeedSlow, h.c.View().Speed)

	assert.False(t, h.c.ChangeSpeed(narration.SpeedSlow), "same speed is a no-op")
}

func TestElapsedTicks(t *testing.T) {
	h := newHarness(t, testStory())
	h.clock.Advance(5 * time.Second)
	assert.Equal(t, 5*time.Second, h.c.View().Elapsed)
}
