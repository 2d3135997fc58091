package llm

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// RetryProvider re-sends a request after transient failures, waiting an
// exponentially growing, jittered interval between attempts.
type RetryProvider struct {
	inner  Provider
	config RetryConfig

	// jitter returns a value in [0, 1). Replaced in tests.
	jitter func() float64
}

// WithRetry wraps p. At least one attempt is always made.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	cfg.MaxAttempts = max(cfg.MaxAttempts, 1)
	return &RetryProvider{inner: p, config: cfg, jitter: rand.Float64}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	malformed := 0
	for attempt := 1; ; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		var invalid *ErrInvalidResponse
		if errors.As(err, &invalid) {
			malformed++
		}
		if attempt == r.config.MaxAttempts || !transient(err) || malformed > 1 {
			return nil, err
		}

		timer := time.NewTimer(r.wait(attempt, err))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// transient reports whether another attempt could succeed. A malformed
// reply counts as transient; the caller limits it to a single retry.
func transient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var (
		truncated *ErrMaxTokensExceeded
		auth      *ErrAuth
		rejected  *ErrRequestRejected
	)
	return !errors.As(err, &truncated) && !errors.As(err, &auth) && !errors.As(err, &rejected)
}

// wait is the pause before attempt+1. A rate-limit reply that names a
// retry delay is honoured as-is.
func (r *RetryProvider) wait(attempt int, err error) time.Duration {
	var limited *ErrRateLimit
	if errors.As(err, &limited) && limited.RetryAfter > 0 {
		return limited.RetryAfter
	}

	d := float64(r.config.InitialWait)
	for range attempt - 1 {
		d *= r.config.Multiplier
	}
	d = min(d, float64(r.config.MaxWait))

	// Spread by up to 20% either way.
	d *= 0.8 + 0.4*r.jitter()
	return time.Duration(max(d, 0))
}
