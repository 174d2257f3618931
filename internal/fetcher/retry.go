// Package fetcher implements the price fetch orchestration: retry of real
// providers, fallback to the synthetic provider, record validation, and
// response assembly.
package fetcher

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/krishi-shayak/mandi-prices/internal/clock/system"
	"github.com/krishi-shayak/mandi-prices/internal/mandi"
	"github.com/krishi-shayak/mandi-prices/internal/metrics"
)

// RetryPolicy wraps a single provider call with bounded attempts, a hard
// per-attempt timeout, and an inter-attempt delay. Each Run owns its own
// attempt state; policies are safe to share across goroutines.
type RetryPolicy struct {
	MaxAttempts int
	Timeout     time.Duration
	Delay       time.Duration
	Clock       mandi.Clock
	Logger      *zap.Logger
}

type attemptResult struct {
	records []mandi.PriceRecord
	err     error
}

// Run attempts provider.Fetch up to MaxAttempts times. Non-retryable errors
// propagate immediately without consuming remaining attempts; on exhaustion
// the last error is wrapped in a RetriesExhaustedError.
func (p RetryPolicy) Run(ctx context.Context, provider mandi.Provider, query mandi.PriceQuery) ([]mandi.PriceRecord, error) {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		records, err := p.attempt(ctx, provider, query)
		if err == nil {
			metrics.ObserveFetchAttempt(provider.Name(), "success")
			return records, nil
		}
		if errors.Is(err, mandi.ErrSourceTimeout) {
			metrics.ObserveFetchAttempt(provider.Name(), "timeout")
		} else {
			metrics.ObserveFetchAttempt(provider.Name(), "error")
		}
		if !mandi.IsRetryable(err) {
			return nil, err
		}
		lastErr = err
		logger.Warn("fetch attempt failed",
			zap.String("source", provider.Name()),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Error(err),
		)
		if attempt < attempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-p.clock().After(p.Delay):
			}
		}
	}

	return nil, &mandi.RetriesExhaustedError{
		Source:   provider.Name(),
		Attempts: attempts,
		Err:      lastErr,
	}
}

// attempt runs one provider call under the per-attempt timeout. The call
// executes in its own goroutine with a buffered result channel so that a
// result arriving after the deadline is discarded, never merged.
func (p RetryPolicy) attempt(ctx context.Context, provider mandi.Provider, query mandi.PriceQuery) ([]mandi.PriceRecord, error) {
	attemptCtx := ctx
	cancel := context.CancelFunc(func() {})
	if p.Timeout > 0 {
		attemptCtx, cancel = context.WithTimeout(ctx, p.Timeout)
	}
	defer cancel()

	ch := make(chan attemptResult, 1)
	go func() {
		records, err := provider.Fetch(attemptCtx, query)
		ch <- attemptResult{records: records, err: err}
	}()

	select {
	case res := <-ch:
		// A provider honoring cancellation may deliver the deadline error
		// itself before the Done branch is scheduled. When the attempt
		// deadline expired and the parent is still live, that is our
		// timeout, not the caller's.
		if res.err != nil && errors.Is(res.err, context.DeadlineExceeded) &&
			attemptCtx.Err() != nil && ctx.Err() == nil {
			return nil, &mandi.SourceError{Source: provider.Name(), Err: mandi.ErrSourceTimeout}
		}
		return res.records, res.err
	case <-attemptCtx.Done():
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &mandi.SourceError{Source: provider.Name(), Err: mandi.ErrSourceTimeout}
	}
}

func (p RetryPolicy) clock() mandi.Clock {
	if p.Clock != nil {
		return p.Clock
	}
	return system.New()
}
