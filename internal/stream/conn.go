// Package stream implements the AEAD-framed duplex stream (§4.7): a
// decrypting Reader and an encrypting Writer composed into a Conn that
// wraps an ordered byte transport (internal/cipher for the primitives,
// internal/replay for salt-uniqueness enforcement).
package stream

import (
	"io"

	"github.com/relaygo/shadowsocks-go/internal/cipher"
	"github.com/relaygo/shadowsocks-go/internal/replay"
)

// Conn is a net.Conn-shaped encrypted tunnel: Read decrypts from the
// underlying transport, Write encrypts onto it. The two directions are
// independent state machines sharing nothing but the transport itself, so
// a Conn may be read and written concurrently from different goroutines.
type Conn struct {
	transport io.ReadWriteCloser
	*Reader
	*Writer
}

// New wraps transport in an encrypted Conn. replaySet receives every salt
// this Conn reads on its decrypting side.
func New(transport io.ReadWriteCloser, method cipher.Method, masterKey []byte, replaySet *replay.Set) *Conn {
	return &Conn{
		transport: transport,
		Reader:    NewReader(transport, method, masterKey, replaySet),
		Writer:    NewWriter(transport, method, masterKey),
	}
}

func (c *Conn) Close() error {
	return c.transport.Close()
}

// CloseWrite half-closes the write side if the transport supports it.
func (c *Conn) CloseWrite() error {
	if hc, ok := c.transport.(interface{ CloseWrite() error }); ok {
		return hc.CloseWrite()
	}
	return nil
}
