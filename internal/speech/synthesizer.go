package speech

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/abhisek/listenquest/internal/logger"
)

// Options tunes a single utterance.
type Options struct {
	// Rate is the playback rate multiplier. 1.0 is the profile's natural pace.
	Rate float64
}

// Synthesizer is the process-wide speech output device. Speak blocks until
// playback completes, fails, or ctx is cancelled. Stop is immediate and
// idempotent.
type Synthesizer interface {
	// Initialize prepares the device and reports whether it is ready.
	Initialize(ctx context.Context) bool

	// IsAvailable reports the last known readiness.
	IsAvailable() bool

	// Speak plays text with the given voice profile.
	Speak(ctx context.Context, text string, voice Profile, opts Options) error

	// Stop halts any playback in progress.
	Stop()
}

// EngineSynthesizer renders utterances through an Engine and plays the
// resulting clips with a Player. Only one clip plays at a time; Stop
// cancels it.
type EngineSynthesizer struct {
	engine Engine
	player Player
	log    *logger.Logger

	mu     sync.Mutex
	ready  bool
	cancel context.CancelFunc
}

// NewEngineSynthesizer builds a synthesizer. Call Initialize before Speak.
func NewEngineSynthesizer(engine Engine, player Player, log *logger.Logger) *EngineSynthesizer {
	if log == nil {
		log = logger.Nop()
	}
	return &EngineSynthesizer{engine: engine, player: player, log: log}
}

// Initialize checks the player. The engine is probed lazily by the first
// utterance.
func (s *EngineSynthesizer) Initialize(_ context.Context) bool {
	err := s.player.Check()
	s.mu.Lock()
	s.ready = err == nil
	s.mu.Unlock()
	if err != nil {
		s.log.Warn("speech player unavailable", "error", err)
		return false
	}
	s.log.Debug("speech ready", "engine", s.engine.Name())
	return true
}

func (s *EngineSynthesizer) IsAvailable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

func (s *EngineSynthesizer) Speak(ctx context.Context, text string, voice Profile, opts Options) error {
	if !s.IsAvailable() {
		return &ErrProviderUnavailable{Err: errors.New("synthesizer not initialized")}
	}

	audio, err := s.engine.Synthesize(ctx, Request{Text: text, Voice: voice, Rate: opts.Rate})
	if err != nil {
		return err
	}

	path := audio.Path
	if path == "" {
		path, err = s.spill(audio)
		if err != nil {
			return err
		}
		defer os.Remove(path)
	}

	pctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.cancel = nil
		s.mu.Unlock()
	}()

	return s.player.Play(pctx, path)
}

// Stop halts the clip in progress, if any.
func (s *EngineSynthesizer) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// spill writes an uncached clip to a temporary file for the player.
func (s *EngineSynthesizer) spill(audio *Audio) (string, error) {
	f, err := os.CreateTemp("", "listenquest-*."+audio.Format)
	if err != nil {
		return "", fmt.Errorf("write clip: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(audio.Data); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write clip: %w", err)
	}
	return f.Name(), nil
}

// Silent is the text-only synthesizer used when no speech provider is
// configured. It never becomes available.
type Silent struct{}

func (Silent) Initialize(context.Context) bool { return false }

func (Silent) IsAvailable() bool { return false }

func (Silent) Speak(context.Context, string, Profile, Options) error {
	return &ErrProviderUnavailable{Err: errors.New("no speech provider configured")}
}

func (Silent) Stop() {}
