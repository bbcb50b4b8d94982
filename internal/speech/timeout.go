package speech

import (
	"context"
	"time"
)

type timeoutEngine struct {
	inner   Engine
	timeout time.Duration
}

// withTimeout bounds each Synthesize call, retries included.
func withTimeout(e Engine, d time.Duration) Engine {
	return &timeoutEngine{inner: e, timeout: d}
}

func (t *timeoutEngine) Synthesize(ctx context.Context, req Request) (*Audio, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Synthesize(ctx, req)
}

func (t *timeoutEngine) Name() string {
	return t.inner.Name()
}
