package mandi

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors classifying fetch failures. SourceUnavailable and
// SourceTimeout are retryable; InvalidQuery is not.
var (
	ErrInvalidQuery      = errors.New("invalid price query")
	ErrSourceUnavailable = errors.New("data source unavailable")
	ErrSourceTimeout     = errors.New("data source timed out")
)

// SourceError tags a failure with the data source it came from.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("[%s] %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// RetriesExhaustedError is returned after every attempt against a single
// provider has failed. It wraps the last observed error.
type RetriesExhaustedError struct {
	Source   string
	Attempts int
	Err      error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("[%s] retries exhausted after %d attempts: %v", e.Source, e.Attempts, e.Err)
}

func (e *RetriesExhaustedError) Unwrap() error {
	return e.Err
}

// IsRetryable decides whether a failed attempt should be retried.
// Malformed queries and context cancellation propagate immediately.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrInvalidQuery) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}
