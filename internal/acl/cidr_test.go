package acl

import "testing"

func TestParseCidrValid(t *testing.T) {
	valid := []string{
		"0.0.0.0/8", "10.0.0.0/8", "100.64.0.0/10", "127.0.0.0/8",
		"192.168.0.0/16", "255.255.255.255/32",
		"::1/128", "::ffff:127.0.0.1/104", "fc00::/7", "fe80::/10",
		"2001:b28:f23d:f001::e/128",
	}
	for _, s := range valid {
		if _, err := ParseCidr(s); err != nil {
			t.Errorf("ParseCidr(%q): %v", s, err)
		}
	}
}

func TestParseCidrErrors(t *testing.T) {
	invalid := []string{
		"127.0.0.1",
		"127.0.0./12",
		"127.0.0/12",
		":1:/12",
		"122ff:/12",
		"122z:/12",
		"127.0.0.1/33",
		"127.0.0.1/99999999",
		"::1/129",
		"1222::1/999999999999",
	}
	for _, s := range invalid {
		if _, err := ParseCidr(s); err == nil {
			t.Errorf("ParseCidr(%q): expected error, got none", s)
		}
	}
}
