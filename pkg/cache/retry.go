package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable marks a backend that could not be reached.
var ErrUnavailable = errors.New("cache backend unavailable")

// RetryableError marks an error worth retrying.
type RetryableError struct{ Err error }

// Retryable wraps err; nil stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err was wrapped with [Retryable].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff configures RetryWithBackoff.
type Backoff struct {
	Attempts int
	Delay    time.Duration
}

// DefaultBackoff tries three times, waiting 200ms then 400ms.
var DefaultBackoff = Backoff{Attempts: 3, Delay: 200 * time.Millisecond}

// RetryWithBackoff calls fn until it succeeds, returns an error that is not
// retryable, or the attempts run out. The delay doubles after each failure.
func RetryWithBackoff(ctx context.Context, b Backoff, fn func() error) error {
	attempts := max(b.Attempts, 1)
	delay := b.Delay
	var last error
	for i := range attempts {
		if last = fn(); last == nil {
			return nil
		}
		if !IsRetryable(last) {
			return last
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return last
}
