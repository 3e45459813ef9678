package cipher

// Nonce is a little-endian monotonic counter used as the AEAD nonce for one
// direction of one connection. It is initialized to all-zero and
// incremented exactly once per successful encrypt/decrypt operation.
//
// Grounded on the teacher's aead.go increment() helper, generalized into a
// small value type so that the reader and writer state machines (see
// internal/stream) each own one independently.
type Nonce struct {
	b []byte
}

// NewNonce returns an all-zero nonce of the given length (always
// cipher.NonceSize for the methods this package supports).
func NewNonce(size int) Nonce {
	return Nonce{b: make([]byte, size)}
}

// Bytes returns the current little-endian representation. The returned
// slice aliases the Nonce's internal storage and must not be retained
// across a call to Increment.
func (n Nonce) Bytes() []byte {
	return n.b
}

// Increment adds one to the little-endian counter, propagating carry until
// a non-zero byte is produced. It wraps silently on overflow; callers are
// not expected to exhaust the ~2^96 space within a connection's lifetime.
func (n Nonce) Increment() {
	for i := range n.b {
		n.b[i]++
		if n.b[i] != 0 {
			return
		}
	}
}
