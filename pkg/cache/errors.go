package cache

import (
	"context"
	"errors"
	"time"
)

// Errors reported by New and the remote backends.
var (
	ErrUnknownBackend = errors.New("cache: unknown backend")
	ErrUnavailable    = errors.New("cache: backend unavailable")
)

// transientError marks a backend failure that may succeed on a second try,
// such as a dropped redis connection.
type transientError struct{ err error }

func (e transientError) Error() string { return e.err.Error() }
func (e transientError) Unwrap() error { return e.err }

// Transient marks err as retryable by [Backoff.Retry]. A nil err stays nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return transientError{err: err}
}

// IsTransient reports whether err, or an error it wraps, was marked by
// [Transient].
func IsTransient(err error) bool {
	return errors.As(err, new(transientError))
}

// Backoff is a retry policy. Delay doubles after each failed attempt.
type Backoff struct {
	Attempts int
	Delay    time.Duration
}

// DefaultBackoff is used for the redis ping and for pipeline cache writes.
var DefaultBackoff = Backoff{Attempts: 3, Delay: 100 * time.Millisecond}

// Retry calls fn until it succeeds, fails with an error not marked
// [Transient], or runs out of attempts, and returns fn's last error.
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	delay := b.Delay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsTransient(err) || attempt >= b.Attempts {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}
