package mandi

import (
	"context"
	"time"
)

// Provider fetches raw price records for a region query. Real providers are
// network-backed; the synthetic provider generates records in process.
// Implementations must honor ctx cancellation.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, query PriceQuery) ([]PriceRecord, error)
}

// Clock returns the current time and timer channels (useful for testing).
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}
