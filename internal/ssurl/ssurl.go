// Package ssurl renders the conventional shadowsocks endpoint display
// string used in log lines and --show-url-style diagnostics. Parsing is
// intentionally not provided; SS-URL parsing is an explicit Non-goal.
//
// Grounded on original_source/src/url.rs's Display impl.
package ssurl

import (
	"encoding/base64"
	"fmt"
)

// Display renders "ss://base64(method:password)@host:port", the same
// shape original_source/src/url.rs's Display impl produces, for use in
// log lines and --show-url-style diagnostics.
func Display(method, password, hostport string) string {
	userinfo := base64.URLEncoding.EncodeToString([]byte(method + ":" + password))
	return fmt.Sprintf("ss://%s@%s", userinfo, hostport)
}
