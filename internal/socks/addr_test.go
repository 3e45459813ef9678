package socks

import (
	"bytes"
	"errors"
	"net/netip"
	"testing"
)

func TestAddrRoundTrip(t *testing.T) {
	cases := []Addr{
		{Kind: KindIPv4, IP: netip.MustParseAddr("192.168.1.1"), Port: 80},
		{Kind: KindIPv6, IP: netip.MustParseAddr("::1"), Port: 443},
		{Kind: KindDomain, Domain: "example.com", Port: 8080},
	}

	for _, want := range cases {
		raw := want.Serialize()
		got, err := ReadAddr(bytes.NewReader(raw))
		if err != nil {
			t.Fatalf("ReadAddr(%v): %v", raw, err)
		}

		if got.Kind != want.Kind || got.Port != want.Port {
			t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
		}
		if want.Kind == KindDomain && got.Domain != want.Domain {
			t.Fatalf("domain mismatch: got %q want %q", got.Domain, want.Domain)
		}
		if want.Kind != KindDomain && got.IP != want.IP {
			t.Fatalf("ip mismatch: got %v want %v", got.IP, want.IP)
		}
	}
}

func TestAddrDisplay(t *testing.T) {
	ipv4 := Addr{Kind: KindIPv4, IP: netip.MustParseAddr("1.2.3.4"), Port: 80}
	if got, want := ipv4.String(), "1.2.3.4:80"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	ipv6 := Addr{Kind: KindIPv6, IP: netip.MustParseAddr("::1"), Port: 443}
	if got, want := ipv6.String(), "[::1]:443"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	domain := Addr{Kind: KindDomain, Domain: "baidu.com", Port: 80}
	if got, want := domain.String(), "baidu.com:80"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestReadAddrBadDomainUTF8(t *testing.T) {
	raw := []byte{atypDomain, 2, 0xFF, 0xFE, 0x00, 0x50}
	if _, err := ReadAddr(bytes.NewReader(raw)); err != ErrDomainName {
		t.Fatalf("ReadAddr with invalid utf8 domain = %v, want ErrDomainName", err)
	}
}

func TestReadAddrUnknownATYP(t *testing.T) {
	raw := []byte{0x7F}
	_, err := ReadAddr(bytes.NewReader(raw))

	var unknown *UnknownATYPError
	if !errors.As(err, &unknown) {
		t.Fatalf("ReadAddr error = %v, want *UnknownATYPError", err)
	}
	if unknown.ATYP != 0x7F {
		t.Errorf("ATYP = 0x%02x, want 0x7f", unknown.ATYP)
	}
}

func mustAddr(s string) netip.Addr {
	return netip.MustParseAddr(s)
}
