package adventure

import (
	"context"
	"sync"
	"time"

	"github.com/abhisek/listenquest/internal/analytics"
	"github.com/abhisek/listenquest/internal/speech"
)

// fakeClock fires timers only when Advance is called.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// Advance moves time forward, firing due timers in deadline order.
// Timers armed by callbacks fire too if they fall inside the window.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	for {
		var next *fakeTimer
		for _, t := range c.timers {
			if t.stopped || t.fired || t.at.After(target) {
				continue
			}
			if next == nil || t.at.Before(next.at) {
				next = t
			}
		}
		if next == nil {
			break
		}
		next.fired = true
		c.now = next.at
		c.mu.Unlock()
		next.f()
		c.mu.Lock()
	}
	c.now = target
	c.mu.Unlock()
}

// fakeSynth counts calls. With block set, Speak waits for cancellation.
// With failSpeak set, Speak fails while Initialize still succeeds.
type fakeSynth struct {
	mu        sync.Mutex
	ready     bool
	block     bool
	failSpeak bool
	stops    int
	spoken   []string
	rates    []float64
	speaking chan struct{}
}

func newFakeSynth() *fakeSynth {
	return &fakeSynth{ready: true, speaking: make(chan struct{}, 64)}
}

func (f *fakeSynth) Initialize(context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ready
}

func (f *fakeSynth) IsAvailable() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ready
}

func (f *fakeSynth) Speak(ctx context.Context, text string, _ speech.Profile, opts speech.Options) error {
	f.mu.Lock()
	ready, block, fail := f.ready, f.block, f.failSpeak
	f.spoken = append(f.spoken, text)
	f.rates = append(f.rates, opts.Rate)
	f.mu.Unlock()
	select {
	case f.speaking <- struct{}{}:
	default:
	}

	if !ready || fail {
		return &speech.ErrProviderUnavailable{}
	}
	if block {
		<-ctx.Done()
		return ctx.Err()
	}
	return nil
}

func (f *fakeSynth) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
}

func (f *fakeSynth) stopCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stops
}

func (f *fakeSynth) spokenTexts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.spoken...)
}

// fakeRecorder records analytics calls in memory. When gate is set,
// StartSession signals opening and then waits for gate to close.
type fakeRecorder struct {
	mu        sync.Mutex
	starts    int
	attempts  []analytics.Attempt
	completes []analytics.Result

	opening chan struct{}
	gate    chan struct{}
}

func (r *fakeRecorder) Initialize(context.Context, string) error { return nil }

func (r *fakeRecorder) StartSession(_ context.Context, userID, storyID, title string) (analytics.Handle, error) {
	if r.gate != nil {
		r.opening <- struct{}{}
		<-r.gate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.starts++
	return analytics.Handle{ID: "session-1", UserID: userID, StoryID: storyID, StoryTitle: title}, nil
}

func (r *fakeRecorder) RecordAttempt(_ context.Context, h analytics.Handle, a analytics.Attempt) (analytics.Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, a)
	h.Attempts++
	return h, nil
}

func (r *fakeRecorder) CompleteSession(_ context.Context, _ string, _ analytics.Handle, res analytics.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completes = append(r.completes, res)
	return nil
}

func (r *fakeRecorder) attemptList() []analytics.Attempt {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]analytics.Attempt(nil), r.attempts...)
}

func (r *fakeRecorder) startCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.starts
}

func (r *fakeRecorder) completeList() []analytics.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]analytics.Result(nil), r.completes...)
}
