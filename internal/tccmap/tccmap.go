// Package tccmap stores type-compatibility codes keyed by ordered type pairs.
//
// The table has a fixed number of buckets. Each bucket is an append-only
// slice of records; re-inserting a pair appends a newer record that shadows
// the older one. There is no delete and no global resize.
package tccmap

import (
	"slices"

	"typeconv/internal/types"
)

// Size is the fixed bucket count.
const Size = 512

// Record is a single (pair, code) entry.
type Record struct {
	Key  types.Pair
	Code types.Code
}

type bin []Record

// Map is the bucketed compatibility table. The zero value is ready to use.
type Map struct {
	bins [Size]bin
}

// New returns an empty table.
func New() *Map {
	return &Map{}
}

// Hash reduces (from, to) to a bucket index. Pure function of the two ids.
func Hash(key types.Pair) uint32 {
	const mult uint32 = 1000003
	x := uint32(0x345678)
	x = (x ^ uint32(key.From.ID())) * mult
	x ^= uint32(key.To.ID())
	return x % Size
}

// Insert appends the record to the pair's bucket. Always succeeds.
func (m *Map) Insert(key types.Pair, code types.Code) {
	h := Hash(key)
	m.bins[h] = append(m.bins[h], Record{Key: key, Code: code})
}

// Find returns the most recently inserted code for key, or NoMatch.
func (m *Map) Find(key types.Pair) types.Code {
	code, _ := m.Lookup(key)
	return code
}

// Lookup is Find with an explicit presence flag, so callers can tell a
// registered NoMatch from an absent pair.
func (m *Map) Lookup(key types.Pair) (types.Code, bool) {
	b := m.bins[Hash(key)]
	for i := len(b) - 1; i >= 0; i-- {
		if b[i].Key == key {
			return b[i].Code, true
		}
	}
	return types.NoMatch, false
}

// Records returns the live (non-shadowed) records sorted by pair.
func (m *Map) Records() []Record {
	out := make([]Record, 0, 64)
	for i := range m.bins {
		out = appendLive(out, m.bins[i])
	}
	slices.SortFunc(out, func(a, b Record) int {
		return a.Key.Compare(b.Key)
	})
	return out
}

// Len returns the number of distinct live pairs.
func (m *Map) Len() int {
	n := 0
	for i := range m.bins {
		n += countLive(m.bins[i])
	}
	return n
}

// appendLive keeps the last record per pair of a single bucket.
func appendLive(dst []Record, b bin) []Record {
	for i := range b {
		if !shadowed(b, i) {
			dst = append(dst, b[i])
		}
	}
	return dst
}

func countLive(b bin) int {
	n := 0
	for i := range b {
		if !shadowed(b, i) {
			n++
		}
	}
	return n
}

// shadowed reports whether a later record in b has the same key as b[i].
func shadowed(b bin, i int) bool {
	for j := i + 1; j < len(b); j++ {
		if b[j].Key == b[i].Key {
			return true
		}
	}
	return false
}
