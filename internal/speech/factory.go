package speech

import (
	"context"
	"fmt"

	"github.com/abhisek/listenquest/internal/logger"
	"github.com/abhisek/listenquest/internal/store"
)

// NewEngine creates an Engine from configuration, wrapped with middleware:
// caller → logging → cache → timeout → retry → base. Cache hits are
// logged as cached; each logged request covers all of its retries.
func NewEngine(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *logger.Logger) (Engine, error) {
	var base Engine
	var err error

	switch cfg.Provider {
	case "openai":
		base, err = NewOpenAIEngine(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiEngine(ctx, cfg.Gemini)
	case "mock":
		base = NewMockEngine()
	default:
		return nil, fmt.Errorf("unknown speech provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s engine: %w", cfg.Provider, err)
	}

	var e Engine = WithRetry(base, cfg.Retry)
	if cfg.Timeout > 0 {
		e = withTimeout(e, cfg.Timeout)
	}
	if cfg.CacheDir != "" {
		cached, err := WithCache(e, cfg.CacheDir)
		if err != nil {
			return nil, err
		}
		e = cached
	}
	if eventRepo != nil {
		e = WithLogging(e, eventRepo, log)
	}
	return e, nil
}

// NewSynthesizer builds the speech collaborator for cfg. Provider "none"
// yields Silent.
func NewSynthesizer(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *logger.Logger) (Synthesizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Provider == "none" {
		return Silent{}, nil
	}

	engine, err := NewEngine(ctx, cfg, eventRepo, log)
	if err != nil {
		return nil, err
	}
	player, err := NewExecPlayer(cfg.Player)
	if err != nil {
		return nil, err
	}
	return NewEngineSynthesizer(engine, player, log), nil
}
