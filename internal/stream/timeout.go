package stream

import (
	"errors"
	"net"
	"os"
	"time"
)

// DefaultInactivityWindow is the standard inactivity window (§4.8).
// NewTimeoutConn does not apply it on its own; callers pass the window.
const DefaultInactivityWindow = 60 * time.Second

// ErrTimedOut is returned by TimeoutConn's Read/Write when the inactivity
// window elapses without progress.
var ErrTimedOut = errors.New("stream: connection timed out")

// TimeoutConn wraps a net.Conn with an inactivity deadline: every Read and
// Write call resets the shared read/write deadline to now+window before
// attempting the operation, so the connection only fails after window has
// elapsed with no read or write started in either direction.
type TimeoutConn struct {
	net.Conn
	window time.Duration
}

// NewTimeoutConn wraps conn with the given inactivity window.
func NewTimeoutConn(conn net.Conn, window time.Duration) *TimeoutConn {
	return &TimeoutConn{Conn: conn, window: window}
}

func (t *TimeoutConn) Read(p []byte) (int, error) {
	if err := t.Conn.SetDeadline(time.Now().Add(t.window)); err != nil {
		return 0, err
	}
	n, err := t.Conn.Read(p)
	return n, timeoutErr(err)
}

func (t *TimeoutConn) Write(p []byte) (int, error) {
	if err := t.Conn.SetDeadline(time.Now().Add(t.window)); err != nil {
		return 0, err
	}
	n, err := t.Conn.Write(p)
	return n, timeoutErr(err)
}

// CloseWrite half-closes the write side, if the underlying net.Conn
// supports it (true for *net.TCPConn), so the relay engine's
// bidirectional copy can signal EOF to the peer without tearing down the
// read side.
func (t *TimeoutConn) CloseWrite() error {
	if hc, ok := t.Conn.(interface{ CloseWrite() error }); ok {
		return hc.CloseWrite()
	}
	return nil
}

func timeoutErr(err error) error {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return ErrTimedOut
	}
	return err
}
