package llm

import (
	"context"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
)

// ResilientProvider retries transient failures with exponential backoff
// and bounds each call with a timeout.
type ResilientProvider struct {
	inner   Provider
	retrier retry.Retry[*Response]
	timeout time.Duration
}

// WithResilience wraps p with retry and timeout handling.
func WithResilience(p Provider, cfg RetryConfig, timeout time.Duration) Provider {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &ResilientProvider{
		inner:   p,
		timeout: timeout,
		retrier: retry.New[*Response](retry.Config{
			MaxAttempts:   attempts,
			InitialDelay:  cfg.InitialDelay,
			MaxDelay:      cfg.MaxDelay,
			Multiplier:    2.0,
			BackoffPolicy: retry.BackoffExponential,
			Jitter:        true,
			IsRetryable:   isTransient,
		}),
	}
}

func (r *ResilientProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return r.retrier.Do(ctx, func(ctx context.Context) (*Response, error) {
		return r.inner.Generate(ctx, req)
	})
}

func (r *ResilientProvider) ModelID() string {
	return r.inner.ModelID()
}

