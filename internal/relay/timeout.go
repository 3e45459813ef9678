package relay

import (
	"errors"
	"time"
)

// ErrHandshakeTimeout is returned when a handshake does not complete
// within the configured window (§4.6, §4.9).
var ErrHandshakeTimeout = errors.New("relay: handshake timed out")

// withTimeout runs fn in its own goroutine and returns ErrHandshakeTimeout
// if it has not produced a result within timeout. fn's goroutine is not
// forcibly stopped if it times out (the underlying read will eventually
// fail once the connection's own inactivity deadline expires); its
// result is simply discarded.
func withTimeout[T any](timeout time.Duration, fn func() (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}

	ch := make(chan result, 1)
	go func() {
		v, err := fn()
		ch <- result{v, err}
	}()

	select {
	case r := <-ch:
		return r.v, r.err
	case <-time.After(timeout):
		var zero T
		return zero, ErrHandshakeTimeout
	}
}
