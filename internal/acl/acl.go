package acl

import (
	"net/netip"
	"os"
	"regexp"
	"strings"
)

// Mode is the ACL's default disposition for addresses matched by neither
// the bypass nor the proxy set.
type Mode int

const (
	// WhiteList proxies everything not explicitly bypassed (default).
	WhiteList Mode = iota
	// BlackList bypasses everything not explicitly proxied.
	BlackList
)

// section names a bucket that subsequent non-header lines feed into.
type section int

const (
	sectionBypass section = iota
	sectionProxy
	sectionOutboundBlock
)

// bucket pairs an IpSet with a RuleSet, since every section in the file
// format accepts either CIDR or regex entries.
type bucket struct {
	ips   *IpSet
	rules *RuleSet
}

func newBucket() bucket {
	return bucket{ips: NewIpSet(), rules: NewRuleSet()}
}

func (b bucket) insert(line string) {
	if cidr, err := ParseCidr(line); err == nil {
		b.ips.Insert(cidr)
		return
	}
	if re, err := regexp.Compile(line); err == nil {
		b.rules.Insert(re)
	}
	// Lines that are neither a valid CIDR nor a valid regex are silently
	// skipped, matching the original's "warn and continue" posture for a
	// process-level ACL that must not abort on one bad line.
}

// Acl holds the bypass/proxy/outbound-block buckets and the default mode,
// and answers the two routing questions the relay engine asks per
// connection (§4.10).
type Acl struct {
	bypass        bucket
	proxy         bucket
	outboundBlock bucket
	mode          Mode
}

// New returns an empty, WhiteList-mode ACL.
func New() *Acl {
	return &Acl{
		bypass:        newBucket(),
		proxy:         newBucket(),
		outboundBlock: newBucket(),
		mode:          WhiteList,
	}
}

// LoadFile reads and parses an ACL file (§6's line-based format).
func LoadFile(path string) (*Acl, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(data)), nil
}

// Parse builds an Acl from the line-based format described in §6.
func Parse(data string) *Acl {
	a := New()
	cur := sectionBypass

	for _, raw := range strings.Split(data, "\n") {
		line := raw
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch line {
		case "[proxy_all]", "[accept_all]":
			a.mode = WhiteList
		case "[bypass_all]", "[reject_all]":
			a.mode = BlackList
		case "[bypass_list]", "[black_list]":
			cur = sectionBypass
		case "[proxy_list]", "[white_list]":
			cur = sectionProxy
		case "[outbound_block_list]":
			cur = sectionOutboundBlock
		default:
			a.bucketFor(cur).insert(line)
		}
	}

	return a
}

func (a *Acl) bucketFor(s section) bucket {
	switch s {
	case sectionProxy:
		return a.proxy
	case sectionOutboundBlock:
		return a.outboundBlock
	default:
		return a.bypass
	}
}

// Bypass reports whether traffic to ip (optionally named by host) should
// be sent directly rather than through the encrypted tunnel (§4.10).
func (a *Acl) Bypass(ip netip.Addr, host string) bool {
	if host != "" && host != ip.String() {
		if a.bypass.rules.Contains(host) {
			return true
		}
		if a.proxy.rules.Contains(host) {
			return false
		}
	}

	if a.bypass.ips.Contains(ip) {
		return true
	}
	if a.proxy.ips.Contains(ip) {
		return false
	}

	return a.mode == BlackList
}

// BlockOutbound reports whether the server should refuse to dial ip
// (optionally named by host) (§4.10).
func (a *Acl) BlockOutbound(ip netip.Addr, host string) bool {
	if a.outboundBlock.ips.Contains(ip) {
		return true
	}
	if a.outboundBlock.rules.Contains(ip.String()) {
		return true
	}
	if host != "" && host != ip.String() && a.outboundBlock.rules.Contains(host) {
		return true
	}

	return a.mode == BlackList
}
