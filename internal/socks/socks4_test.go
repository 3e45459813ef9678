package socks

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestHandshakeSocks4aIPv4(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(socks4CommandConnect)
	var portIP [6]byte
	binary.BigEndian.PutUint16(portIP[0:2], 80)
	copy(portIP[2:6], []byte{93, 184, 216, 34})
	buf.Write(portIP[:])
	buf.WriteByte(0x00) // empty userid

	conn := &loopback{in: &buf}
	addr, err := handshakeSocks4a(conn)
	if err != nil {
		t.Fatalf("handshakeSocks4a: %v", err)
	}
	if addr.Kind != KindIPv4 || addr.Port != 80 || addr.IP.String() != "93.184.216.34" {
		t.Fatalf("got %+v", addr)
	}

	wantReply := []byte{0x00, 90, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	if !bytes.Equal(conn.out.Bytes(), wantReply) {
		t.Fatalf("reply = %x, want %x", conn.out.Bytes(), wantReply)
	}
}

func TestHandshakeSocks4aDomain(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(socks4CommandConnect)
	var portIP [6]byte
	binary.BigEndian.PutUint16(portIP[0:2], 443)
	copy(portIP[2:6], []byte{0, 0, 0, 1}) // SOCKS4a sentinel
	buf.Write(portIP[:])
	buf.WriteByte(0x00)               // empty userid
	buf.WriteString("example.com\x00") // domain, null terminated

	conn := &loopback{in: &buf}
	addr, err := handshakeSocks4a(conn)
	if err != nil {
		t.Fatalf("handshakeSocks4a: %v", err)
	}
	if addr.Kind != KindDomain || addr.Domain != "example.com" || addr.Port != 443 {
		t.Fatalf("got %+v", addr)
	}
}

func TestHandshakeSocks4aBadCommand(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(0x02) // BIND
	conn := &loopback{in: &buf}

	_, err := handshakeSocks4a(conn)
	if _, ok := err.(*CommandError); !ok {
		t.Fatalf("err = %v, want *CommandError", err)
	}
}
