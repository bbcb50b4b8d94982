package narration

import (
	"context"
	"errors"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/abhisek/listenquest/internal/logger"
	"github.com/abhisek/listenquest/internal/speech"
)

const tracerName = "github.com/abhisek/listenquest/internal/narration"

// Orchestrator is the only component allowed to start or stop speech on the
// synthesizer. At most one utterance is current at any time: starting a new
// one hard-stops the previous one and waits for it to wind down first.
type Orchestrator struct {
	synth  speech.Synthesizer
	log    *logger.Logger
	tracer trace.Tracer

	mu        sync.Mutex
	speed     Speed
	available bool
	current   *utterance
	closed    bool
}

type utterance struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// NewOrchestrator wraps synth. Call Init before the first Narrate.
func NewOrchestrator(synth speech.Synthesizer, log *logger.Logger) *Orchestrator {
	if log == nil {
		log = logger.Nop()
	}
	return &Orchestrator{
		synth:  synth,
		log:    log,
		tracer: otel.Tracer(tracerName),
		speed:  SpeedNormal,
	}
}

// Init initializes the synthesizer and records whether it is available.
func (o *Orchestrator) Init(ctx context.Context) bool {
	ready := o.synth.Initialize(ctx) && o.synth.IsAvailable()
	o.mu.Lock()
	o.available = ready
	o.mu.Unlock()
	if !ready {
		o.log.Warn("speech unavailable, narration runs in text-only mode")
	}
	return ready
}

// Available reports whether autoplay should be attempted.
func (o *Orchestrator) Available() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.available
}

// Speed returns the current playback speed.
func (o *Orchestrator) Speed() Speed {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.speed
}

// SetSpeed changes the playback speed for subsequent utterances. It reports
// whether an utterance was in flight, in which case the caller restarts the
// displayed text so the new rate takes effect immediately.
func (o *Orchestrator) SetSpeed(s Speed) (speaking bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.speed = s
	return o.current != nil
}

// Speaking reports whether an utterance is in flight.
func (o *Orchestrator) Speaking() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current != nil
}

// Narrate speaks text and blocks until playback completes. It is Begin
// followed by Wait.
func (o *Orchestrator) Narrate(ctx context.Context, text string, voice speech.Profile) error {
	u, err := o.Begin(ctx, text, voice)
	if err != nil || u == nil {
		return err
	}
	return u.Wait()
}

// Utterance is a narration that has been made current but not yet played.
// Wait must be called exactly once.
type Utterance struct {
	o     *Orchestrator
	u     *utterance
	prev  *utterance
	ctx   context.Context
	text  string
	voice speech.Profile
	speed Speed
}

// Begin makes text the current utterance and hard-stops the previous one,
// without waiting for playback. Utterances take effect in the order Begin
// is called, so callers that play asynchronously call Begin first and Wait
// in the background. Decorative glyphs are stripped; text that is empty
// afterwards yields a nil Utterance.
func (o *Orchestrator) Begin(ctx context.Context, text string, voice speech.Profile) (*Utterance, error) {
	clean := Sanitize(text)
	if clean == "" {
		return nil, nil
	}

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil, ErrClosed
	}
	prev := o.current
	uctx, cancel := context.WithCancel(ctx)
	u := &utterance{cancel: cancel, done: make(chan struct{})}
	o.current = u
	speed := o.speed
	o.mu.Unlock()

	if prev != nil {
		prev.cancel()
		o.synth.Stop()
	}
	return &Utterance{o: o, u: u, prev: prev, ctx: uctx, text: clean, voice: voice, speed: speed}, nil
}

// Wait plays the utterance once the previous one has wound down.
//
// On failure the synthesizer is reinitialized once; the failed utterance is
// never resent, so a recovery only benefits the next call. A superseded or
// stopped utterance returns ErrInterrupted, which is not a playback failure.
func (ut *Utterance) Wait() error {
	o, u := ut.o, ut.u
	defer func() {
		u.cancel()
		o.release(u)
		close(u.done)
	}()

	ctx, span := o.tracer.Start(ut.ctx, "narration.narrate", trace.WithAttributes(
		attribute.Int("narration.chars", len(ut.text)),
		attribute.String("narration.speed", string(ut.speed)),
		attribute.String("narration.voice", ut.voice.Key),
	))
	defer span.End()

	if ut.prev != nil {
		<-ut.prev.done
	}
	if ctx.Err() != nil {
		span.SetAttributes(attribute.String("narration.outcome", "interrupted"))
		return ErrInterrupted
	}

	rate := ut.speed.Rate()
	if ut.voice.BaseRate > 0 {
		rate *= ut.voice.BaseRate
	}
	err := o.synth.Speak(ctx, ut.text, ut.voice, speech.Options{Rate: rate})
	if err == nil {
		span.SetAttributes(attribute.String("narration.outcome", "spoken"))
		return nil
	}
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		span.SetAttributes(attribute.String("narration.outcome", "interrupted"))
		return ErrInterrupted
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, "speech unavailable")
	o.log.Warn("speech unavailable", "voice", ut.voice.Key, "error", err)

	recovered := o.synth.Initialize(context.WithoutCancel(ctx)) && o.synth.IsAvailable()
	o.mu.Lock()
	o.available = recovered
	o.mu.Unlock()
	if recovered {
		o.log.Info("speech reinitialized after failure")
	}
	return &PlaybackError{Err: err, Recovered: recovered}
}

// Stop hard-stops the current utterance. It does nothing when no utterance
// is in flight.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	u := o.current
	o.mu.Unlock()
	if u == nil {
		return
	}
	u.cancel()
	o.synth.Stop()
}

// Shutdown hard-stops the synthesizer and rejects further narration. Only
// the first call reaches the synthesizer.
func (o *Orchestrator) Shutdown() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	u := o.current
	o.mu.Unlock()
	if u != nil {
		u.cancel()
	}
	o.synth.Stop()
}

func (o *Orchestrator) release(u *utterance) {
	o.mu.Lock()
	if o.current == u {
		o.current = nil
	}
	o.mu.Unlock()
}
