// Package testkit holds invariant checkers shared by fuzz harnesses and
// package tests. Each checker recomputes the expected answer from first
// principles instead of reusing the code under test.
package testkit

import (
	"fmt"

	"typeconv/internal/rating"
	"typeconv/internal/typeconv"
	"typeconv/internal/types"
)

// CheckSelection verifies sel against a brute-force ranking of overloads:
// 1) Count is the number of admissible candidates sharing the minimal rating
// 2) Best is the first such candidate, or -1 with Count 0
// 3) Rating is that minimal rating, or Impossible
func CheckSelection(m *typeconv.Manager, sig []types.Type, overloads [][]types.Type, allowUnsafe bool, sel typeconv.Selection) error {
	best, count := -1, 0
	lowest := rating.Impossible
	for k, ov := range overloads {
		if len(ov) != len(sig) {
			return fmt.Errorf("overload %d has arity %d, signature %d", k, len(ov), len(sig))
		}
		r, ok := bruteRate(m, sig, ov, allowUnsafe)
		if !ok {
			continue
		}
		switch c := r.Compare(lowest); {
		case best < 0 || c < 0:
			best, count, lowest = k, 1, r
		case c == 0:
			count++
		}
	}
	if sel.Count != count {
		return fmt.Errorf("count = %d, want %d", sel.Count, count)
	}
	if sel.Best != best {
		return fmt.Errorf("best = %d, want %d", sel.Best, best)
	}
	if !sel.Rating.Equal(lowest) {
		return fmt.Errorf("rating = %s, want %s", sel.Rating, lowest)
	}
	return nil
}

func bruteRate(m *typeconv.Manager, sig, ov []types.Type, allowUnsafe bool) (rating.Rating, bool) {
	var r rating.Rating
	for i := range sig {
		switch m.IsCompatible(sig[i], ov[i]) {
		case types.Exact, types.Subtype:
		case types.Promote:
			r.Promote++
		case types.SafeConvert:
			r.SafeConvert++
		case types.UnsafeConvert:
			if !allowUnsafe {
				return rating.Impossible, false
			}
			r.UnsafeConvert++
		default:
			return rating.Impossible, false
		}
	}
	return r, true
}

// CheckClosed verifies that registered conversions over pool are
// transitively closed: a->b and b->c imply a->c with a code no worse than
// the worse of the two steps.
func CheckClosed(m *typeconv.Manager, pool []types.Type) error {
	for _, a := range pool {
		for _, b := range pool {
			ab := m.IsCompatible(a, b)
			if a == b || !ab.IsConversion() {
				continue
			}
			for _, c := range pool {
				if c == a || c == b {
					continue
				}
				bc := m.IsCompatible(b, c)
				if !bc.IsConversion() {
					continue
				}
				ac := m.IsCompatible(a, c)
				if !ac.IsConversion() || ac > max(ab, bc) {
					return fmt.Errorf("%v->%v is %v and %v->%v is %v, but %v->%v is %v", a, b, ab, b, c, bc, a, c, ac)
				}
			}
		}
	}
	return nil
}
