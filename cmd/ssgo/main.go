// Package main provides the ssgo CLI entry point: a local-role client
// proxy and a remote-role server relay, both built on internal/relay.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/relaygo/shadowsocks-go/internal/acl"
	"github.com/relaygo/shadowsocks-go/internal/cipher"
	"github.com/relaygo/shadowsocks-go/internal/logging"
	"github.com/relaygo/shadowsocks-go/internal/metrics"
	"github.com/relaygo/shadowsocks-go/internal/relay"
	"github.com/relaygo/shadowsocks-go/internal/ssurl"
	"github.com/relaygo/shadowsocks-go/internal/state"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ssgo",
		Short: "AEAD-encrypted SOCKS relay",
		Long: `ssgo relays SOCKS4a/SOCKS5 connections through an AEAD-encrypted
tunnel between a local-role client proxy and a remote-role server relay.`,
	}

	cmd.AddCommand(localCmd())
	cmd.AddCommand(remoteCmd())

	return cmd
}

// sharedFlags are common to both roles.
type sharedFlags struct {
	password    string
	method      string
	aclPath     string
	verbose     bool
	metricsAddr string
}

func (f *sharedFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.password, "password", "k", "", "pre-shared password (required)")
	cmd.Flags().StringVarP(&f.method, "method", "m", string(cipher.ChaCha20IETFPoly1305), "AEAD method: chacha20-ietf-poly1305, aes-128-gcm, aes-256-gcm")
	cmd.Flags().StringVar(&f.aclPath, "acl", "", "path to an ACL rule file (§6 format)")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "enable debug-level logging")
	cmd.Flags().StringVar(&f.metricsAddr, "metrics-addr", "", "if set, serve Prometheus metrics on this address")
	_ = cmd.MarkFlagRequired("password")
}

func (f *sharedFlags) buildConfig() (relay.Config, error) {
	method, err := cipher.ParseMethod(f.method)
	if err != nil {
		return relay.Config{}, err
	}

	masterKey := make([]byte, method.KeySize())
	cipher.DeriveMasterKey(f.password, masterKey)

	var a *acl.Acl
	if f.aclPath != "" {
		a, err = acl.LoadFile(f.aclPath)
		if err != nil {
			return relay.Config{}, fmt.Errorf("load acl: %w", err)
		}
	}

	log := logging.New(f.verbose)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	if f.metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(f.metricsAddr, mux); err != nil {
				log.Warnw("metrics server stopped", "error", err)
			}
		}()
	}

	return relay.Config{
		Method:    method,
		MasterKey: masterKey,
		State:     state.New(a),
		Logger:    log,
		Metrics:   m,
	}, nil
}

func localCmd() *cobra.Command {
	var flags sharedFlags
	var listenAddr, remoteAddr string

	cmd := &cobra.Command{
		Use:   "local",
		Short: "Run the local-role client proxy",
		Long:  "Accept SOCKS4a/SOCKS5 connections and relay them to a remote-role server, either directly (ACL bypass) or through the encrypted tunnel.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.buildConfig()
			if err != nil {
				return err
			}

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return fmt.Errorf("listen: %w", err)
			}
			defer ln.Close()

			ctx, cancel := signalContext()
			defer cancel()
			closeOnDone(ctx, ln)

			cfg.Logger.Infow("local proxy listening", "addr", listenAddr, "remote", remoteAddr)
			return relay.Local(ctx, ln, remoteAddr, cfg)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&listenAddr, "local", "l", "127.0.0.1:1080", "address to accept SOCKS connections on")
	cmd.Flags().StringVarP(&remoteAddr, "remote", "s", "", "remote-role server address (required)")
	_ = cmd.MarkFlagRequired("remote")

	return cmd
}

func remoteCmd() *cobra.Command {
	var flags sharedFlags
	var listenAddr string

	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Run the remote-role server relay",
		Long:  "Accept encrypted tunnel connections, read the inner destination address, and relay to it, subject to the ACL's outbound-block rules.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.buildConfig()
			if err != nil {
				return err
			}

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return fmt.Errorf("listen: %w", err)
			}
			defer ln.Close()

			ctx, cancel := signalContext()
			defer cancel()
			closeOnDone(ctx, ln)

			cfg.Logger.Infow("remote relay listening", "addr", listenAddr,
				"share_url", ssurl.Display(flags.method, flags.password, listenAddr))
			return relay.Remote(ctx, ln, cfg)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&listenAddr, "remote", "s", "0.0.0.0:8388", "address to accept encrypted tunnel connections on")

	return cmd
}

// signalContext returns a context canceled on SIGINT/SIGTERM, so accept
// loops can exit cleanly instead of being killed mid-connection.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()
	return ctx, cancel
}

// closeOnDone closes ln once ctx is done, unblocking a pending Accept so
// the owning accept loop observes ctx.Err() and returns cleanly instead
// of parking forever (registering the SIGINT/SIGTERM handler above
// suppresses Go's default terminate-on-signal behavior).
func closeOnDone(ctx context.Context, ln net.Listener) {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()
}
