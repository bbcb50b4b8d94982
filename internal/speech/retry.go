package speech

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryEngine is a decorator that retries transient errors with
// exponential backoff and jitter.
type RetryEngine struct {
	inner  Engine
	config RetryConfig
}

// WithRetry wraps an Engine with retry logic.
func WithRetry(e Engine, cfg RetryConfig) Engine {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryEngine{inner: e, config: cfg}
}

func (r *RetryEngine) Synthesize(ctx context.Context, req Request) (*Audio, error) {
	var lastErr error

	for attempt := range r.config.MaxAttempts {
		audio, err := r.inner.Synthesize(ctx, req)
		if err == nil {
			return audio, nil
		}
		lastErr = err

		if !shouldRetry(err) {
			return nil, err
		}
		if attempt == r.config.MaxAttempts-1 {
			break
		}

		wait := r.backoff(attempt, err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	return nil, lastErr
}

func (r *RetryEngine) Name() string {
	return r.inner.Name()
}

func shouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// An empty clip will be empty again.
	var empty *ErrEmptyAudio
	if errors.As(err, &empty) {
		return false
	}

	// Rate limits, outages and anything else network-shaped are transient.
	return true
}

func (r *RetryEngine) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// ±20% jitter.
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
