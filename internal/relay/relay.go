// Package relay implements the relay engine (§4.9): the local (client)
// and remote (server) accept loops, the SOCKS/encrypted-stream handoff,
// and bidirectional copy with half-close and inactivity timeout.
//
// Grounded on original_source/src/tcp.rs (ss_remote's handle loop) and
// original_source/src/socks5.rs (the client-side dial-direct-or-tunnel
// decision), generalized from the teacher's single-file aead tunnel
// (which has no relay/listener code of its own) using the dependency
// pattern every other AEAD proxy in the pack uses for accept loops.
package relay

import (
	"time"

	"go.uber.org/zap"

	"github.com/relaygo/shadowsocks-go/internal/cipher"
	"github.com/relaygo/shadowsocks-go/internal/metrics"
	"github.com/relaygo/shadowsocks-go/internal/state"
)

// DefaultHandshakeTimeout bounds both the SOCKS negotiation and the
// remote-side inner-address read (§4.6, §4.9).
const DefaultHandshakeTimeout = 15 * time.Second

// PluginHook substitutes the remote address a local-role relay dials,
// the SIP003-shaped extension point described in SPEC_FULL.md §3.
// Subprocess management is out of scope; this is only the substitution
// contract. NoopPluginHook is the default.
type PluginHook func(remoteAddr string) (string, error)

// NoopPluginHook returns remoteAddr unchanged.
func NoopPluginHook(remoteAddr string) (string, error) { return remoteAddr, nil }

// Config holds everything both roles' accept loops need.
type Config struct {
	Method    cipher.Method
	MasterKey []byte
	State     *state.State

	Logger  *zap.SugaredLogger
	Metrics *metrics.Metrics

	HandshakeTimeout time.Duration
	InactivityWindow time.Duration
	PluginHook       PluginHook
}

// recordClosed increments the connections-closed counter labeled with the
// terminal reason, if metrics are configured.
func (c Config) recordClosed(reason string) {
	if c.Metrics != nil {
		c.Metrics.ConnectionsClosed.WithLabelValues(reason).Inc()
	}
}

// recordBytes adds atob/btoa to the bytes-transferred counters, if metrics
// are configured.
func (c Config) recordBytes(atob, btoa int64) {
	if c.Metrics != nil {
		c.Metrics.BytesTransferred.WithLabelValues("atob").Add(float64(atob))
		c.Metrics.BytesTransferred.WithLabelValues("btoa").Add(float64(btoa))
	}
}

// normalize fills in zero-value defaults.
func (c Config) normalize() Config {
	if c.HandshakeTimeout == 0 {
		c.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if c.InactivityWindow == 0 {
		c.InactivityWindow = 60 * time.Second
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop().Sugar()
	}
	if c.PluginHook == nil {
		c.PluginHook = NoopPluginHook
	}
	return c
}
