package socks

import "io"

// Handshake dispatches to the SOCKS4a or SOCKS5 client-side negotiation
// based on the first byte read from rw, per §4.6's shared dispatch rule,
// and returns the requested destination address.
func Handshake(rw io.ReadWriter) (Addr, error) {
	var v [1]byte
	if _, err := io.ReadFull(rw, v[:]); err != nil {
		return Addr{}, err
	}

	switch v[0] {
	case 0x04:
		return handshakeSocks4a(rw)
	case socks5Version:
		return handshakeSocks5(rw)
	default:
		return Addr{}, &VersionError{Version: v[0]}
	}
}
