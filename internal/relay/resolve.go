package relay

import (
	"context"
	"net"
	"net/netip"

	"github.com/relaygo/shadowsocks-go/internal/socks"
)

// resolve returns the IP the ACL should judge addr by. Address records
// already carrying an IP pass through unchanged; a domain name is
// resolved via the standard resolver, taking the first result.
func resolve(ctx context.Context, addr socks.Addr) (netip.Addr, error) {
	if addr.Kind != socks.KindDomain {
		return addr.IP, nil
	}

	ips, err := net.DefaultResolver.LookupNetIP(ctx, "ip", addr.Domain)
	if err != nil {
		return netip.Addr{}, err
	}
	return ips[0], nil
}
