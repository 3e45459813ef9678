package relay

import (
	"io"

	"golang.org/x/sync/errgroup"
)

type halfCloser interface {
	CloseWrite() error
}

// copyBidirectional copies a->b and b->a concurrently (§4.9 "Bidirectional
// copy"). Reaching EOF on one direction half-closes the corresponding
// write side and lets the other direction continue independently; the
// call returns once both directions have ended, by EOF or by either
// side's own inactivity timeout.
func copyBidirectional(a, b io.ReadWriter) (atob, btoa int64, err error) {
	var g errgroup.Group

	g.Go(func() error {
		n, cerr := copyHalfClose(b, a)
		atob = n
		return cerr
	})
	g.Go(func() error {
		n, cerr := copyHalfClose(a, b)
		btoa = n
		return cerr
	})

	err = g.Wait()
	return atob, btoa, err
}

func copyHalfClose(dst io.Writer, src io.Reader) (int64, error) {
	n, err := io.Copy(dst, src)
	if hc, ok := dst.(halfCloser); ok {
		hc.CloseWrite()
	}
	return n, err
}
