package types

import (
	"cmp"
	"fmt"

	"fortio.org/safecast"
)

// Type is an opaque identifier of a concrete type. It is int sized and copied by value.
type Type struct {
	id int32
}

// NoType marks the absence of a type (failed lookups, empty slots).
var NoType = Type{id: -1}

// New wraps a raw identifier.
func New(id int32) Type {
	return Type{id: id}
}

// FromInt wraps an int identifier, reporting overflow of the int32 range.
func FromInt(id int) (Type, error) {
	v, err := safecast.Conv[int32](id)
	if err != nil {
		return NoType, fmt.Errorf("type id %d out of range: %w", id, err)
	}
	return Type{id: v}, nil
}

// Valid reports whether the identifier is non-negative.
func (t Type) Valid() bool {
	return t.id >= 0
}

// ID returns the raw identifier.
func (t Type) ID() int32 {
	return t.id
}

// Compare orders types by identifier. The order is only used for bucketing
// and deterministic output, it carries no semantic meaning.
func (t Type) Compare(other Type) int {
	return cmp.Compare(t.id, other.id)
}

// Less reports whether t sorts before other.
func (t Type) Less(other Type) bool {
	return t.id < other.id
}

func (t Type) String() string {
	if !t.Valid() {
		return "<notype>"
	}
	return fmt.Sprintf("T%d", t.id)
}

// Pair is an ordered (from, to) key. Compatibility is not symmetric.
type Pair struct {
	From Type
	To   Type
}

// MakePair builds a Pair.
func MakePair(from, to Type) Pair {
	return Pair{From: from, To: to}
}

// Reverse swaps the direction.
func (p Pair) Reverse() Pair {
	return Pair{From: p.To, To: p.From}
}

// Compare orders pairs by From, then To.
func (p Pair) Compare(other Pair) int {
	if c := p.From.Compare(other.From); c != 0 {
		return c
	}
	return p.To.Compare(other.To)
}

func (p Pair) String() string {
	return p.From.String() + "->" + p.To.String()
}
