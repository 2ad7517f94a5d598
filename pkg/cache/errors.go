package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrBackend matches every [BackendError].
	ErrBackend = errors.New("cache backend unavailable")

	// ErrInvalidURL is returned for cache URLs that cannot be parsed.
	ErrInvalidURL = errors.New("invalid cache URL")
)

// BackendError is a failed operation against a remote cache. Transient
// failures (dropped connections, timeouts) are retried; the rest are not.
type BackendError struct {
	Op        string
	Key       string
	Transient bool
	Err       error
}

func (e *BackendError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("cache %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("cache %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

func (e *BackendError) Is(target error) bool { return target == ErrBackend }

// isTransient reports whether err is a BackendError worth retrying.
func isTransient(err error) bool {
	var be *BackendError
	return errors.As(err, &be) && be.Transient
}

// backoff retries transient backend errors, doubling the delay each time.
type backoff struct {
	attempts int
	base     time.Duration
}

var defaultBackoff = backoff{attempts: 3, base: 200 * time.Millisecond}

func (b backoff) do(ctx context.Context, fn func() error) error {
	delay := b.base
	var err error
	for i := range b.attempts {
		if err = fn(); err == nil || !isTransient(err) {
			return err
		}
		if i == b.attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return err
}
