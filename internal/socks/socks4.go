package socks

import (
	"bufio"
	"encoding/binary"
	"io"
	"net/netip"
	"unicode/utf8"
)

const socks4CommandConnect = 0x01

// handshakeSocks4a runs the SOCKS4/4a negotiation described in §4.6. The
// version byte has already been consumed by Handshake.
func handshakeSocks4a(rw io.ReadWriter) (Addr, error) {
	br := bufio.NewReader(rw)

	var cmdBuf [1]byte
	if _, err := io.ReadFull(br, cmdBuf[:]); err != nil {
		return Addr{}, err
	}
	if cmdBuf[0] != socks4CommandConnect {
		return Addr{}, &CommandError{Command: cmdBuf[0]}
	}

	var buf [6]byte
	if _, err := io.ReadFull(br, buf[:]); err != nil {
		return Addr{}, err
	}
	port := binary.BigEndian.Uint16(buf[0:2])
	ipOctets := [4]byte{buf[2], buf[3], buf[4], buf[5]}

	// userid, null-terminated.
	if _, err := br.ReadBytes(0x00); err != nil {
		return Addr{}, err
	}

	var addr Addr
	if ipOctets[0] == 0 && ipOctets[1] == 0 && ipOctets[2] == 0 && ipOctets[3] != 0 {
		// SOCKS4a sentinel: a null-terminated domain name follows.
		domainBytes, err := br.ReadBytes(0x00)
		if err != nil {
			return Addr{}, err
		}
		domainBytes = domainBytes[:len(domainBytes)-1] // drop the trailing NUL

		if !utf8.Valid(domainBytes) {
			return Addr{}, ErrDomainName
		}

		addr = Addr{Kind: KindDomain, Domain: string(domainBytes), Port: port}
	} else {
		addr = Addr{Kind: KindIPv4, IP: netip.AddrFrom4(ipOctets), Port: port}
	}

	reply := []byte{0x00, 90, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	if _, err := rw.Write(reply); err != nil {
		return Addr{}, err
	}

	return addr, nil
}
