package socks

import (
	"bytes"
	"errors"
	"testing"
)

func TestHandshakeDispatch(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(0x04) // version
	buf.WriteByte(socks4CommandConnect)
	buf.Write([]byte{0, 80, 0, 0, 0, 1}) // sentinel IP, will read domain next
	buf.WriteByte(0x00)
	buf.WriteString("a.com\x00")

	conn := &loopback{in: &buf}
	addr, err := Handshake(conn)
	if err != nil {
		t.Fatalf("Handshake: %v", err)
	}
	if addr.Kind != KindDomain || addr.Domain != "a.com" {
		t.Fatalf("got %+v", addr)
	}
}

func TestHandshakeUnknownVersion(t *testing.T) {
	conn := &loopback{in: bytes.NewBuffer([]byte{0x07})}
	_, err := Handshake(conn)

	var verErr *VersionError
	if !errors.As(err, &verErr) || verErr.Version != 0x07 {
		t.Fatalf("err = %v, want *VersionError{0x07}", err)
	}
}
