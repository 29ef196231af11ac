// Package rating scores how much implicit conversion a candidate overload needs.
package rating

import (
	"fmt"
	"math"
	"slices"

	"typeconv/internal/types"
)

// Rating counts argument positions that needed each kind of conversion.
type Rating struct {
	Promote       uint32 `json:"promote" msgpack:"promote"`
	SafeConvert   uint32 `json:"safe_convert" msgpack:"safe_convert"`
	UnsafeConvert uint32 `json:"unsafe_convert" msgpack:"unsafe_convert"`
}

// Impossible compares worse than every rating of a real argument list.
var Impossible = Rating{
	Promote:       math.MaxUint32,
	SafeConvert:   math.MaxUint32,
	UnsafeConvert: math.MaxUint32,
}

// MarkImpossible turns r into the rejected-candidate sentinel.
func (r *Rating) MarkImpossible() {
	*r = Impossible
}

// IsImpossible reports whether r is the rejected sentinel.
func (r Rating) IsImpossible() bool {
	return r == Impossible
}

// IsExact reports whether no conversion was needed at all.
func (r Rating) IsExact() bool {
	return r == Rating{}
}

// Count bumps the counter matching code. Exact and NoMatch leave r unchanged.
func (r *Rating) Count(code types.Code) {
	switch code {
	case types.Promote:
		r.Promote++
	case types.SafeConvert:
		r.SafeConvert++
	case types.UnsafeConvert:
		r.UnsafeConvert++
	}
}

// Tuple returns the counters worst-first: (unsafe, safe, promote).
func (r Rating) Tuple() [3]uint32 {
	return [3]uint32{r.UnsafeConvert, r.SafeConvert, r.Promote}
}

// Compare orders ratings: fewer unsafe conversions dominates, then fewer
// safe conversions, then fewer promotions.
func (r Rating) Compare(other Rating) int {
	a, b := r.Tuple(), other.Tuple()
	return slices.Compare(a[:], b[:])
}

// Less reports whether r is strictly better than other.
func (r Rating) Less(other Rating) bool {
	return r.Compare(other) < 0
}

// Equal reports whether r and other tie.
func (r Rating) Equal(other Rating) bool {
	return r == other
}

// Add sums two ratings. Impossible absorbs.
func (r Rating) Add(other Rating) Rating {
	if r.IsImpossible() || other.IsImpossible() {
		return Impossible
	}
	return Rating{
		Promote:       r.Promote + other.Promote,
		SafeConvert:   r.SafeConvert + other.SafeConvert,
		UnsafeConvert: r.UnsafeConvert + other.UnsafeConvert,
	}
}

func (r Rating) String() string {
	if r.IsImpossible() {
		return "impossible"
	}
	return fmt.Sprintf("unsafe=%d safe=%d promote=%d", r.UnsafeConvert, r.SafeConvert, r.Promote)
}
