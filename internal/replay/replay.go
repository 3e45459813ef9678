// Package replay implements the bounded, process-wide probabilistic
// membership set used to reject replayed connection salts.
//
// Grounded on original_source/src/security/mod.rs (two bloom::BloomFilter
// instances, swapped and cleared on rotation) and on the real-world Go
// usage of the same dependency in
// _examples/XTLS-Xray-core/common/antireplay/bloomring.go
// (github.com/riobard/go-bloom: bloom.New(capacity, fpRate, hashFn)
// returns a bloom.Filter with Add/Test/Reset).
package replay

import (
	"hash/fnv"
	"sync"

	"github.com/riobard/go-bloom"
)

// expectedItems and falsePositiveRate size the filters for roughly one
// million recently-seen salts at a 1-in-a-million false positive rate, per
// spec.
const (
	expectedItems     = 1_000_000
	falsePositiveRate = 1e-6
)

// Set is a dual-filter replay cache. Exactly one filter is active at a
// time; when it fills, the pair swaps and the new active filter is
// cleared. A single mutex guards both filters so check-and-insert is
// atomic.
type Set struct {
	mu      sync.Mutex
	filters [2]bloom.Filter
	active  int
	count   int
}

// New constructs an empty replay set.
func New() *Set {
	s := &Set{}
	for i := range s.filters {
		s.filters[i] = bloom.New(expectedItems, falsePositiveRate, doubleFNV)
	}
	return s
}

// CheckAndInsert reports whether salt is new. It returns false if salt is
// already present in either filter (a duplicate, i.e. a replay); the
// caller must reject the connection in that case. Otherwise it inserts
// salt into the active filter and returns true.
func (s *Set) CheckAndInsert(salt []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.filters {
		if f.Test(salt) {
			return false
		}
	}

	s.filters[s.active].Add(salt)
	s.count++

	if s.count >= expectedItems {
		s.active = (s.active + 1) % len(s.filters)
		s.filters[s.active].Reset()
		s.count = 0
	}

	return true
}

// doubleFNV is the bloom filter's pair-of-hashes function: the two 64-bit
// FNV variants (FNV-1 and FNV-1a, which differ in mixing order) give the independence the k-hash scheme wants without pulling in a
// dedicated hashing dependency.
func doubleFNV(b []byte) (uint64, uint64) {
	hx := fnv.New64()
	hx.Write(b)
	x := hx.Sum64()

	hy := fnv.New64a()
	hy.Write(b)
	y := hy.Sum64()

	return x, y
}
