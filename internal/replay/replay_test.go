package replay

import "testing"

func TestCheckAndInsertRejectsDuplicate(t *testing.T) {
	s := New()
	salt := []byte("0123456789abcdef")

	if !s.CheckAndInsert(salt) {
		t.Fatal("first insertion of a fresh salt should succeed")
	}

	if s.CheckAndInsert(salt) {
		t.Fatal("second insertion of the same salt should be rejected as a duplicate")
	}
}

func TestCheckAndInsertDistinctSalts(t *testing.T) {
	s := New()

	for i := byte(0); i < 8; i++ {
		salt := []byte{i, i, i, i}
		if !s.CheckAndInsert(salt) {
			t.Fatalf("salt %v should not collide with previous salts", salt)
		}
	}
}

func TestCheckAndInsertRotation(t *testing.T) {
	s := New()
	s.count = expectedItems - 1

	salt := []byte("rotation-trigger")
	if !s.CheckAndInsert(salt) {
		t.Fatal("insertion that triggers rotation should still succeed")
	}
	if s.count != 0 {
		t.Fatalf("count after rotation = %d, want 0", s.count)
	}

	// The salt that triggered rotation was inserted into the
	// pre-rotation active filter, which is still consulted for
	// membership, so a replay of it is still caught.
	if s.CheckAndInsert(salt) {
		t.Fatal("replay right after rotation should still be caught by the other filter")
	}
}
