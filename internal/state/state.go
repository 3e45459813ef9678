// Package state holds the process-wide, read-mostly objects every
// connection task shares: the replay set and an optional ACL (§4.11).
// Named "state" rather than "context" to avoid colliding with the
// standard library's context package, which every blocking call in this
// module also takes.
package state

import (
	"github.com/relaygo/shadowsocks-go/internal/acl"
	"github.com/relaygo/shadowsocks-go/internal/replay"
)

// State is immutable after construction except for the replay set's
// interior mutability (a short-held mutex around check-and-insert). It is
// safe to share by pointer across every connection goroutine.
type State struct {
	Replay *replay.Set
	Acl    *acl.Acl // nil when no ACL file was configured
}

// New constructs a State with a fresh replay set. acl may be nil.
func New(a *acl.Acl) *State {
	return &State{
		Replay: replay.New(),
		Acl:    a,
	}
}
