package speech

import (
	"context"
	"time"

	"github.com/abhisek/listenquest/internal/logger"
	"github.com/abhisek/listenquest/internal/store"
)

// LoggingEngine is a decorator that records every synthesis request as a
// speech event.
type LoggingEngine struct {
	inner     Engine
	eventRepo store.EventRepo
	log       *logger.Logger
}

// WithLogging wraps an Engine with event logging.
func WithLogging(e Engine, repo store.EventRepo, log *logger.Logger) Engine {
	if log == nil {
		log = logger.Nop()
	}
	return &LoggingEngine{inner: e, eventRepo: repo, log: log}
}

func (l *LoggingEngine) Synthesize(ctx context.Context, req Request) (*Audio, error) {
	start := time.Now()
	audio, err := l.inner.Synthesize(ctx, req)

	data := store.SpeechEventData{
		Provider:  l.inner.Name(),
		Voice:     req.Voice.Key,
		Chars:     len([]rune(req.Text)),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if audio != nil {
		data.Cached = audio.Cached
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		l.log.Warn("speech synthesis failed", "provider", data.Provider, "voice", data.Voice, "error", err)
	}

	// Recording must never fail the utterance.
	if logErr := l.eventRepo.AppendSpeechEvent(context.WithoutCancel(ctx), data); logErr != nil {
		l.log.Warn("failed to record speech event", "error", logErr)
	}

	return audio, err
}

func (l *LoggingEngine) Name() string {
	return l.inner.Name()
}
