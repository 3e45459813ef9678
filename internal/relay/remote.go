package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/netip"
	"strconv"

	"github.com/relaygo/shadowsocks-go/internal/socks"
	"github.com/relaygo/shadowsocks-go/internal/stream"
)

// Remote runs the server-role accept loop (§4.9): each accepted
// connection is wrapped in the encrypted stream, its first inner payload
// is read as a destination address, and (unless outbound-blocked by the
// ACL) the relay dials that destination and copies bidirectionally.
func Remote(ctx context.Context, ln net.Listener, cfg Config) error {
	cfg = cfg.normalize()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("relay: accept: %w", err)
		}

		if cfg.Metrics != nil {
			cfg.Metrics.ConnectionsAccepted.Inc()
		}

		go handleRemote(ctx, conn, cfg)
	}
}

func handleRemote(ctx context.Context, conn net.Conn, cfg Config) {
	peer := conn.RemoteAddr().String()
	log := cfg.Logger.With("peer", peer)
	defer conn.Close()

	timeoutConn := stream.NewTimeoutConn(conn, cfg.InactivityWindow)
	encrypted := stream.New(timeoutConn, cfg.Method, cfg.MasterKey, cfg.State.Replay)

	if cfg.State.Acl != nil && cfg.State.Acl.Bypass(peerIP(conn), "") {
		log.Infow("peer bypassed by acl")
		cfg.recordClosed("acl_bypass")
		return
	}

	addr, err := withTimeout(cfg.HandshakeTimeout, func() (socks.Addr, error) {
		return socks.ReadAddr(encrypted)
	})
	if err != nil {
		if errors.Is(err, ErrHandshakeTimeout) {
			log.Warnw("read target address timed out", "error", err)
		} else {
			log.Warnw("read target address failed", "error", err)
		}
		// Fingerprinting resistance: keep reading (and discarding) rather
		// than closing immediately on a malformed or replayed connection.
		// The raw transport is drained, since the decrypting stream stops
		// at its first decryption error.
		io.Copy(io.Discard, timeoutConn)
		cfg.recordClosed("bad_inner_address")
		return
	}

	log = log.With("target", addr.String())
	log.Debugw("accepted remote connection")

	ip, err := resolve(ctx, addr)
	if err != nil {
		log.Warnw("resolve failed", "error", err)
		cfg.recordClosed("resolve_failed")
		return
	}

	if cfg.State.Acl != nil && cfg.State.Acl.BlockOutbound(ip, addr.Host()) {
		log.Infow("outbound blocked by acl")
		cfg.recordClosed("acl_blocked")
		return
	}

	targetConn, err := net.Dial("tcp", net.JoinHostPort(ip.String(), strconv.Itoa(int(addr.Port))))
	if err != nil {
		log.Warnw("dial target failed", "error", err)
		cfg.recordClosed("dial_failed")
		return
	}
	defer targetConn.Close()

	target := stream.NewTimeoutConn(targetConn, cfg.InactivityWindow)

	atob, btoa, err := copyBidirectional(encrypted, target)
	cfg.recordBytes(atob, btoa)
	if err != nil {
		log.Warnw("relay ended with error", "error", err, "atob", atob, "btoa", btoa)
		cfg.recordClosed("copy_error")
		return
	}
	log.Debugw("relay done", "atob", atob, "btoa", btoa)
	cfg.recordClosed("eof")
}

// peerIP extracts the remote IP from conn, for the ACL's peer-bypass
// check (§4.9). A peer whose address doesn't parse as host:port (rare,
// e.g. some non-TCP listeners) is returned as the zero Addr, which the
// ACL's IpSet looks up as the all-zero IPv6 address.
func peerIP(conn net.Conn) netip.Addr {
	host, _, err := net.SplitHostPort(conn.RemoteAddr().String())
	if err != nil {
		return netip.Addr{}
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}
	}
	return addr
}
