// Package adventure runs one story playthrough: it owns the session, feeds
// host actions and timer callbacks through the phase machine, and executes
// the resulting narration, scoring and analytics effects.
package adventure

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/abhisek/listenquest/internal/analytics"
	"github.com/abhisek/listenquest/internal/logger"
	"github.com/abhisek/listenquest/internal/narration"
	"github.com/abhisek/listenquest/internal/phase"
	"github.com/abhisek/listenquest/internal/scoring"
	"github.com/abhisek/listenquest/internal/script"
	"github.com/abhisek/listenquest/internal/speech"
)

const tracerName = "github.com/abhisek/listenquest/internal/adventure"

// Narrator is the narration surface the coordinator drives. It is
// satisfied by *narration.Orchestrator.
type Narrator interface {
	Begin(ctx context.Context, text string, voice speech.Profile) (*narration.Utterance, error)
	Available() bool
	Speaking() bool
	Speed() narration.Speed
	SetSpeed(s narration.Speed) (speaking bool)
	Stop()
	Shutdown()
}

// Options configures a Coordinator. Zero values pick production defaults.
type Options struct {
	UserID   string
	Voice    speech.Profile
	Replays  phase.ReplayPolicy
	Shuffler *phase.Shuffler
	Clock    Clock

	// Dispatch runs narrations off the caller's goroutine. Tests pass a
	// synchronous dispatcher.
	Dispatch func(func())

	Log *logger.Logger
}

// Coordinator ties one story to the phase machine, the narrator and the
// scoring engine. Host operations return false when they are not valid in
// the current state; they never block on speech.
type Coordinator struct {
	story    *script.Story
	script   *script.Script
	userID   string
	voice    speech.Profile
	narrator Narrator
	engine   *scoring.Engine
	machine  phase.Machine
	clock    Clock
	dispatch func(func())
	log      *logger.Logger
	tracer   trace.Tracer

	ctx    context.Context
	cancel context.CancelFunc

	mu            sync.Mutex
	session       Session
	rt            phase.Runtime
	started       bool
	opened        bool
	finished      bool
	ticker        Timer
	updates       chan View
	updatesClosed bool

	// ready is closed once the analytics session has been opened, or
	// when the coordinator is closed before Start.
	ready chan struct{}
}

// New creates a Coordinator for story. Call Start to begin.
func New(story *script.Story, narrator Narrator, engine *scoring.Engine, opts Options) *Coordinator {
	if opts.Clock == nil {
		opts.Clock = SystemClock
	}
	if opts.Dispatch == nil {
		opts.Dispatch = func(f func()) { go f() }
	}
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	return &Coordinator{
		story:    story,
		script:   story.Script(),
		userID:   opts.UserID,
		voice:    opts.Voice,
		narrator: narrator,
		engine:   engine,
		machine: phase.Machine{
			Shuffler:           opts.Shuffler,
			Replays:            opts.Replays,
			AutoAdvanceOnAward: story.AutoAdvanceOnAward,
		},
		clock:    opts.Clock,
		dispatch: opts.Dispatch,
		log:      opts.Log.With("story", story.ID),
		tracer:   otel.Tracer(tracerName),
		ctx:      context.Background(),
		cancel:   func() {},
		updates:  make(chan View, 1),
		ready:    make(chan struct{}),
	}
}

// Updates delivers a fresh View after every state change. Only the latest
// view is kept. The channel is closed once the session has finished.
func (c *Coordinator) Updates() <-chan View {
	return c.updates
}

// Start opens the analytics session and enters the first step. It returns
// false when the coordinator was already started or has been closed.
func (c *Coordinator) Start(ctx context.Context) bool {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return false
	}
	c.started = true
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.mu.Unlock()

	h := c.engine.Start(c.writeCtx(), c.userID, c.story.ID, c.story.Title)
	c.log.Info("session started", "session", h.ID, "user", c.userID)

	c.mu.Lock()
	c.session.Handle = h
	c.opened = true
	close(c.ready)
	if c.finished {
		// Exit was requested while the session was opening.
		c.mu.Unlock()
		return false
	}
	var fns []func()
	if c.script.Len() == 0 {
		fns = c.finalizeLocked(true)
	} else {
		fns = c.enterLocked(0)
		c.ticker = c.clock.AfterFunc(time.Second, c.tick)
	}
	c.publishLocked()
	c.mu.Unlock()

	run(fns)
	return true
}

// Advance continues past the current reveal or passive step. Advancing
// past the last step completes the session.
func (c *Coordinator) Advance() bool {
	return c.handle(phase.Continue{})
}

// Replay plays the listening phrase again.
func (c *Coordinator) Replay() bool {
	return c.handle(phase.Replay{})
}

// ProceedToQuestion shows the question once the phrase has been heard.
func (c *Coordinator) ProceedToQuestion() bool {
	return c.handle(phase.ProceedToQuestion{At: c.clock.Now()})
}

// SubmitChoice answers the current question.
func (c *Coordinator) SubmitChoice(choice script.Choice) bool {
	return c.handleFor(func(step *script.Step) phase.Event {
		idx := slices.IndexFunc(step.Choices, func(ch script.Choice) bool {
			return ch.Text == choice.Text
		})
		return phase.Submit{
			Choice:  idx,
			Correct: scoring.IsCorrect(step, choice),
			At:      c.clock.Now(),
		}
	})
}

// Retry discards a wrong answer and returns to listening.
func (c *Coordinator) Retry() bool {
	return c.handle(phase.Retry{})
}

// Skip moves past a wrong answer to the reveal without credit.
func (c *Coordinator) Skip() bool {
	return c.handle(phase.Skip{})
}

// ChangeSpeed sets the playback speed. Narration in flight is stopped and
// restarted at the new rate.
func (c *Coordinator) ChangeSpeed(s narration.Speed) bool {
	c.mu.Lock()
	if c.finished || s == c.narrator.Speed() {
		c.mu.Unlock()
		return false
	}
	var fns []func()
	if c.narrator.SetSpeed(s) {
		if n, ok := c.machine.Restart(&c.rt); ok {
			fns = append(fns, c.narrator.Stop, c.narrateFn(n))
		}
	}
	c.publishLocked()
	c.mu.Unlock()

	c.log.Debug("speed changed", "speed", string(s), "restarted", len(fns) > 0)
	run(fns)
	return true
}

// RequestExit finishes the session early. Only the first call has any
// effect. Calling it before Start closes the coordinator so a later Start
// does nothing.
func (c *Coordinator) RequestExit() bool {
	c.mu.Lock()
	if c.finished {
		c.mu.Unlock()
		return false
	}
	if !c.started {
		c.started = true
		close(c.ready)
	}
	fns := c.finalizeLocked(false)
	c.publishLocked()
	c.mu.Unlock()

	run(fns)
	return true
}

// Session returns a copy of the session state.
func (c *Coordinator) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// View returns a snapshot for rendering.
func (c *Coordinator) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Coordinator) handle(ev phase.Event) bool {
	return c.handleFor(func(*script.Step) phase.Event { return ev })
}

// handleFor applies the event built by mk against the current step, then
// runs the resulting effects outside the lock.
func (c *Coordinator) handleFor(mk func(step *script.Step) phase.Event) bool {
	c.mu.Lock()
	if !c.opened || c.finished {
		c.mu.Unlock()
		return false
	}
	step := c.script.At(c.session.StepIndex)
	ev := mk(step)
	effects, ok := c.machine.Apply(&c.rt, step, ev)
	if !ok {
		c.log.Debug("ignored event", "event", fmt.Sprintf("%T", ev), "phase", c.rt.Phase.String(), "step", step.ID)
		c.mu.Unlock()
		return false
	}
	fns := c.resolveLocked(effects)
	c.publishLocked()
	c.mu.Unlock()

	run(fns)
	return true
}

// resolveLocked turns effects into state changes (applied now, under the
// lock) and deferred calls (returned, run after unlock).
func (c *Coordinator) resolveLocked(effects []phase.Effect) []func() {
	var fns []func()
	for _, e := range effects {
		switch e := e.(type) {
		case phase.NextStep:
			if c.session.StepIndex+1 >= c.script.Len() {
				fns = append(fns, c.finalizeLocked(true)...)
			} else {
				fns = append(fns, c.enterLocked(c.session.StepIndex+1)...)
			}

		case phase.RecordAttempt:
			fns = append(fns, c.scoreLocked(e))

		case phase.Narrate:
			fns = append(fns, c.narrateFn(e))

		case phase.StopNarration:
			fns = append(fns, c.narrator.Stop)

		case phase.ScheduleReveal:
			epoch := e.Epoch
			c.clock.AfterFunc(e.Delay, func() { c.handle(phase.RevealDue{Epoch: epoch}) })

		case phase.ScheduleAdvance:
			epoch := e.Epoch
			delay := narration.RevealTiming.Estimate(e.Text, c.narrator.Speed())
			c.clock.AfterFunc(delay, func() { c.handle(phase.AdvanceDue{Epoch: epoch}) })
		}
	}
	return fns
}

func (c *Coordinator) enterLocked(i int) []func() {
	c.session.StepIndex = i
	step := c.script.At(i)
	effects, _ := c.machine.Apply(&c.rt, step, phase.EnterStep{})
	c.log.Debug("entered step", "step", step.ID, "index", i, "phase", c.rt.Phase.String())
	return c.resolveLocked(effects)
}

func (c *Coordinator) scoreLocked(e phase.RecordAttempt) func() {
	out := c.engine.Score(&c.session.Tally, e.StepID, e.Correct)
	if out.StarAwarded {
		c.machine.Apply(&c.rt, c.script.At(c.session.StepIndex), phase.StarGranted{})
		c.log.Info("star awarded", "step", e.StepID, "stars", c.session.Stars)
	}
	attempt := analytics.Attempt{
		StepID:   e.StepID,
		Question: e.Question,
		Correct:  e.Correct,
		Number:   e.Attempt,
		Replays:  e.Replays,
		Elapsed:  e.Latency,
	}
	return func() { c.recordAttempt(attempt) }
}

func (c *Coordinator) recordAttempt(a analytics.Attempt) {
	c.mu.Lock()
	h := c.session.Handle
	c.mu.Unlock()

	h = c.engine.RecordAttempt(c.writeCtx(), h, a)

	c.mu.Lock()
	c.session.Handle = h
	c.mu.Unlock()
}

// narrateFn returns a call that makes n the current utterance and plays it
// on the dispatcher. Autoplay narration is skipped while speech is
// unavailable. A finished phrase, whether spoken or failed, counts as
// listened; a failed one is shown as text.
func (c *Coordinator) narrateFn(n phase.Narrate) func() {
	ctx := c.ctx
	finish := func(err error) {
		interrupted := errors.Is(err, narration.ErrInterrupted)
		switch {
		case errors.Is(err, narration.ErrClosed):
			return
		case err != nil && !interrupted:
			c.log.Debug("narration fell back to text", "kind", int(n.Kind), "error", err)
		}
		if n.Kind == phase.NarratePhrase && !interrupted && c.handle(phase.ListenDone{
			Epoch:  n.Epoch,
			Failed: errors.Is(err, narration.ErrPlaybackUnavailable),
		}) {
			return
		}
		c.publish()
	}
	return func() {
		if n.Autoplay && !c.narrator.Available() {
			return
		}
		u, err := c.narrator.Begin(ctx, n.Text, c.voice)
		if err != nil || u == nil {
			finish(err)
			return
		}
		c.dispatch(func() { finish(u.Wait()) })
	}
}

// finalizeLocked marks the session finished and returns the calls that
// stop speech and close the analytics session. Closing waits until Start
// has its handle so a session opened during exit is still completed.
func (c *Coordinator) finalizeLocked(completed bool) []func() {
	c.finished = true
	c.session.Completed = completed
	c.session.Score = scoring.FinalScore(c.session.Correct, c.session.Stars, c.session.Elapsed)
	c.rt.Epoch++
	if c.ticker != nil {
		c.ticker.Stop()
	}

	sess := c.session
	return []func(){func() {
		c.cancel()
		c.narrator.Shutdown()

		<-c.ready
		c.mu.Lock()
		sess.Handle = c.session.Handle
		c.mu.Unlock()

		ctx, span := c.tracer.Start(c.writeCtx(), "adventure.finalize", trace.WithAttributes(
			attribute.String("story.id", c.story.ID),
			attribute.Bool("session.completed", completed),
		))
		res := c.engine.Finish(ctx, c.userID, sess.Handle, sess.Tally, sess.Elapsed, completed)
		span.SetAttributes(
			attribute.Int("session.score", res.Score),
			attribute.Int("session.stars", res.Stars),
			attribute.Int("session.correct", res.CorrectAnswers),
		)
		span.End()

		c.log.Info("session finished",
			"session", sess.Handle.ID,
			"completed", completed,
			"score", res.Score,
			"stars", res.Stars,
			"correct", res.CorrectAnswers,
			"elapsed", sess.Elapsed.String(),
		)
	}}
}

func (c *Coordinator) tick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.finished {
		return
	}
	c.session.Elapsed += time.Second
	c.ticker = c.clock.AfterFunc(time.Second, c.tick)
	c.publishLocked()
}

// writeCtx is the context for analytics writes. It outlives the session
// context so the completion record is written after exit.
func (c *Coordinator) writeCtx() context.Context {
	return context.WithoutCancel(c.ctx)
}

func (c *Coordinator) publish() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.publishLocked()
}

func (c *Coordinator) publishLocked() {
	if c.updatesClosed {
		return
	}
	v := c.viewLocked()
	select {
	case <-c.updates:
	default:
	}
	select {
	case c.updates <- v:
	default:
	}
	if c.finished {
		close(c.updates)
		c.updatesClosed = true
	}
}

func (c *Coordinator) viewLocked() View {
	v := View{
		StoryID:         c.story.ID,
		StoryTitle:      c.story.Title,
		Theme:           c.story.Theme,
		StepIndex:       c.session.StepIndex,
		StepCount:       c.script.Len(),
		Phase:           c.rt.Phase,
		Selected:        phase.NoSelection,
		FeedbackVisible: c.rt.FeedbackVisible,
		LastCorrect:     c.rt.LastCorrect,
		RetryMode:       c.rt.RetryMode,
		HasListened:     c.rt.HasListened,
		PhraseFailed:    c.rt.PhraseFailed,
		Skipped:         c.rt.Skipped,
		Replays:         c.rt.Replays,
		Attempts:        c.rt.Attempts,
		Correct:         c.session.Correct,
		Stars:           c.session.Stars,
		Elapsed:         c.session.Elapsed,
		Speed:           c.narrator.Speed(),
		SpeechAvailable: c.narrator.Available(),
		Speaking:        c.narrator.Speaking(),
		Finished:        c.finished,
		Completed:       c.session.Completed,
		Score:           c.session.Score,
	}
	step := c.script.At(c.session.StepIndex)
	if step == nil {
		return v
	}
	v.Step = *step
	if c.machine.Replays.Enforce {
		v.ReplayLimit = step.ReplayLimit()
	}
	if c.rt.Phase == phase.Question {
		v.Choices = make([]script.Choice, 0, len(c.rt.Order))
		for pos, idx := range c.rt.Order {
			v.Choices = append(v.Choices, step.Choices[idx])
			if idx == c.rt.Selected {
				v.Selected = pos
			}
		}
	}
	return v
}

func run(fns []func()) {
	for _, f := range fns {
		f()
	}
}
