package relay

import (
	"context"
	"errors"
	"fmt"
	"net"

	"go.uber.org/zap"

	"github.com/relaygo/shadowsocks-go/internal/socks"
	"github.com/relaygo/shadowsocks-go/internal/stream"
)

// Local runs the client-role accept loop (§4.9): each accepted connection
// gets a SOCKS4a/SOCKS5 handshake, then either dials its destination
// directly (ACL bypass) or tunnels it through the encrypted stream to
// remoteAddr.
func Local(ctx context.Context, ln net.Listener, remoteAddr string, cfg Config) error {
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

		go handleLocal(ctx, conn, remoteAddr, cfg)
	}
}

func handleLocal(ctx context.Context, conn net.Conn, remoteAddr string, cfg Config) {
	peer := conn.RemoteAddr().String()
	log := cfg.Logger.With("peer", peer)
	defer conn.Close()

	client := stream.NewTimeoutConn(conn, cfg.InactivityWindow)

	addr, err := withTimeout(cfg.HandshakeTimeout, func() (socks.Addr, error) {
		return socks.Handshake(client)
	})
	if err != nil {
		if errors.Is(err, ErrHandshakeTimeout) {
			log.Warnw("socks handshake timed out", "error", err)
		} else {
			log.Warnw("socks handshake failed", "error", err)
		}
		cfg.recordClosed("handshake_failed")
		return
	}

	log = log.With("target", addr.String())

	if cfg.State.Acl != nil {
		if ip, rerr := resolve(ctx, addr); rerr == nil && cfg.State.Acl.Bypass(ip, addr.Host()) {
			relayDirect(log, client, addr, cfg)
			return
		}
	}

	relayTunneled(log, client, addr, remoteAddr, cfg)
}

func relayDirect(log *zap.SugaredLogger, client *stream.TimeoutConn, addr socks.Addr, cfg Config) {
	targetConn, err := net.Dial("tcp", addr.String())
	if err != nil {
		log.Warnw("direct dial failed", "error", err)
		cfg.recordClosed("dial_failed")
		return
	}
	defer targetConn.Close()

	target := stream.NewTimeoutConn(targetConn, cfg.InactivityWindow)

	atob, btoa, err := copyBidirectional(client, target)
	cfg.recordBytes(atob, btoa)
	if err != nil {
		log.Warnw("direct relay ended with error", "error", err, "atob", atob, "btoa", btoa)
		cfg.recordClosed("copy_error")
		return
	}
	log.Debugw("direct relay done", "atob", atob, "btoa", btoa)
	cfg.recordClosed("eof")
}

func relayTunneled(log *zap.SugaredLogger, client *stream.TimeoutConn, addr socks.Addr, remoteAddr string, cfg Config) {
	dialAddr, err := cfg.PluginHook(remoteAddr)
	if err != nil {
		log.Warnw("plugin hook failed", "error", err)
		cfg.recordClosed("plugin_hook_failed")
		return
	}

	remoteConn, err := net.Dial("tcp", dialAddr)
	if err != nil {
		log.Warnw("dial remote failed", "error", err)
		cfg.recordClosed("dial_failed")
		return
	}
	defer remoteConn.Close()

	remoteTimeout := stream.NewTimeoutConn(remoteConn, cfg.InactivityWindow)
	encrypted := stream.New(remoteTimeout, cfg.Method, cfg.MasterKey, cfg.State.Replay)

	if _, err := encrypted.Write(addr.Serialize()); err != nil {
		log.Warnw("write target address failed", "error", err)
		cfg.recordClosed("write_failed")
		return
	}

	atob, btoa, err := copyBidirectional(client, encrypted)
	cfg.recordBytes(atob, btoa)
	if err != nil {
		log.Warnw("tunneled relay ended with error", "error", err, "atob", atob, "btoa", btoa)
		cfg.recordClosed("copy_error")
		return
	}
	log.Debugw("tunneled relay done", "atob", atob, "btoa", btoa)
	cfg.recordClosed("eof")
}
