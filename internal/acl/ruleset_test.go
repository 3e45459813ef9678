package acl

import (
	"regexp"
	"testing"
)

func TestRuleSetContains(t *testing.T) {
	rules := []string{`(^|\.)030buy\.com$`, `(^|\.)12vpn\.com$`, `127\.0\.0\.1`}

	rs := NewRuleSet()
	for _, r := range rules {
		rs.Insert(regexp.MustCompile(r))
	}

	matches := []string{"030buy.com", "12vpn.com", ".12vpn.com", "34.12vpn.com", "127.0.0.1"}
	for _, s := range matches {
		if !rs.Contains(s) {
			t.Errorf("Contains(%q) = false, want true", s)
		}
	}

	nonMatches := []string{"1112vpn.com", "12vpn.com ", "12vpn.comm", "2vpn.net.com", "2vpn.netccom", "127.0.0.0"}
	for _, s := range nonMatches {
		if rs.Contains(s) {
			t.Errorf("Contains(%q) = true, want false", s)
		}
	}
}
