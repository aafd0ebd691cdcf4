package embed

import (
	"context"
	"time"

	"github.com/Muxite/filex/internal/ferrors"
)

// BreakerTextEmbedder wraps a TextEmbedder with a circuit breaker so a
// pluggable model backend that starts failing repeatedly (a crashed local
// server, an unreachable remote endpoint) fails fast instead of being
// retried on every single chunk. Each call is itself retried a couple of
// times with backoff first, so a lone transient error doesn't count against
// the breaker the same as a sustained outage does.
type BreakerTextEmbedder struct {
	inner    TextEmbedder
	breaker  *ferrors.CircuitBreaker
	retryCfg ferrors.RetryConfig
}

// embedRetryConfig bounds retries to a couple of quick attempts: the
// breaker, not the retry loop, is what protects against a sustained outage.
func embedRetryConfig() ferrors.RetryConfig {
	return ferrors.RetryConfig{
		MaxRetries:   2,
		InitialDelay: 10 * time.Millisecond,
		MaxDelay:     100 * time.Millisecond,
		Multiplier:   2.0,
	}
}

// NewBreakerTextEmbedder wraps inner, tripping its circuit after
// maxFailures consecutive errors.
func NewBreakerTextEmbedder(inner TextEmbedder, maxFailures int) *BreakerTextEmbedder {
	return &BreakerTextEmbedder{
		inner:    inner,
		breaker:  ferrors.NewCircuitBreaker("text-embedder-"+inner.ModelName(), ferrors.WithMaxFailures(maxFailures)),
		retryCfg: embedRetryConfig(),
	}
}

func (b *BreakerTextEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return ferrors.CircuitExecuteWithResult(b.breaker,
		func() ([]float32, error) {
			return ferrors.RetryWithResult(ctx, b.retryCfg, func() ([]float32, error) {
				return b.inner.Embed(ctx, text)
			})
		},
		func() ([]float32, error) {
			return nil, ferrors.New(ferrors.ErrCodeEmbedderUnavailable, "text embedder circuit open: "+ferrors.ErrCircuitOpen.Error(), ferrors.ErrCircuitOpen)
		},
	)
}

func (b *BreakerTextEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return ferrors.CircuitExecuteWithResult(b.breaker,
		func() ([][]float32, error) {
			return ferrors.RetryWithResult(ctx, b.retryCfg, func() ([][]float32, error) {
				return b.inner.EmbedBatch(ctx, texts)
			})
		},
		func() ([][]float32, error) {
			return nil, ferrors.New(ferrors.ErrCodeEmbedderUnavailable, "text embedder circuit open: "+ferrors.ErrCircuitOpen.Error(), ferrors.ErrCircuitOpen)
		},
	)
}

func (b *BreakerTextEmbedder) Dimensions() int { return b.inner.Dimensions() }
func (b *BreakerTextEmbedder) ModelName() string { return b.inner.ModelName() }
func (b *BreakerTextEmbedder) Available(ctx context.Context) bool { return b.inner.Available(ctx) }
func (b *BreakerTextEmbedder) Close() error { return b.inner.Close() }

// State reports the breaker's current state, mainly for status reporting.
func (b *BreakerTextEmbedder) State() ferrors.State { return b.breaker.State() }
