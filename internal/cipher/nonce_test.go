package cipher

import "testing"

func TestNonceIncrement(t *testing.T) {
	n := NewNonce(4)
	if got := n.Bytes(); string(got) != string([]byte{0, 0, 0, 0}) {
		t.Fatalf("new nonce = %v, want zero", got)
	}

	n.Increment()
	if got := n.Bytes(); string(got) != string([]byte{1, 0, 0, 0}) {
		t.Fatalf("after 1 increment = %v, want [1 0 0 0]", got)
	}
}

func TestNonceCarry(t *testing.T) {
	n := NewNonce(2)
	for i := 0; i < 0xFF; i++ {
		n.Increment()
	}
	if got := n.Bytes(); string(got) != string([]byte{0xFF, 0}) {
		t.Fatalf("after 255 increments = %v, want [255 0]", got)
	}

	n.Increment()
	if got := n.Bytes(); string(got) != string([]byte{0, 1}) {
		t.Fatalf("after carry = %v, want [0 1]", got)
	}
}

func TestNonceWraparound(t *testing.T) {
	n := NewNonce(1)
	n.Increment()
	for i := 0; i < 0xFE; i++ {
		n.Increment()
	}
	if got := n.Bytes()[0]; got != 0xFF {
		t.Fatalf("nonce byte = %d, want 255", got)
	}
	n.Increment()
	if got := n.Bytes()[0]; got != 0 {
		t.Fatalf("nonce byte after wrap = %d, want 0", got)
	}
}
