package typeconv

import (
	"fmt"

	"typeconv/internal/rating"
	"typeconv/internal/types"
)

// Outcome is the caller-visible decision of an overload selection.
type Outcome uint8

const (
	// NoMatch means no candidate is admissible.
	NoMatch Outcome = iota
	// Unique means exactly one candidate has the best rating.
	Unique
	// Ambiguous means several candidates share the best rating.
	Ambiguous
)

func (o Outcome) String() string {
	switch o {
	case NoMatch:
		return "no-match"
	case Unique:
		return "unique"
	case Ambiguous:
		return "ambiguous"
	default:
		return fmt.Sprintf("Outcome(%d)", o)
	}
}

// Selection is the result of SelectOverload.
type Selection struct {
	// Best is the first candidate index with the best rating, -1 if none.
	Best int
	// Count is how many candidates share the best rating.
	Count int
	// Rating is the best rating; Impossible when Count is 0.
	Rating rating.Rating
}

// Outcome classifies the selection by Count.
func (s Selection) Outcome() Outcome {
	switch {
	case s.Count == 0:
		return NoMatch
	case s.Count == 1:
		return Unique
	default:
		return Ambiguous
	}
}

// Unique returns the chosen index when the match is unambiguous.
func (s Selection) Unique() (int, bool) {
	if s.Count != 1 {
		return -1, false
	}
	return s.Best, true
}

var noSelection = Selection{Best: -1, Rating: rating.Impossible}

// SelectOverload scores every candidate against sig and returns the best.
// Each overload must have len(sig) parameters.
func (m *Manager) SelectOverload(sig []types.Type, overloads [][]types.Type, allowUnsafe bool) Selection {
	if len(overloads) == 0 {
		return noSelection
	}
	if m.rlock() {
		defer m.mu.RUnlock()
	}
	sel := noSelection
	for k, ov := range overloads {
		checkArity(sig, ov, k)
		sel.consider(k, m.rate(sig, ov, allowUnsafe))
	}
	return sel
}

// SelectOverloadFlat is SelectOverload over ovct candidates laid out
// back to back in flat, len(sig) types each.
func (m *Manager) SelectOverloadFlat(sig, flat []types.Type, ovct int, allowUnsafe bool) Selection {
	sigsz := len(sig)
	if ovct < 0 || len(flat) != ovct*sigsz {
		panic(fmt.Sprintf("typeconv: flat overload table has %d types, want %d*%d", len(flat), ovct, sigsz))
	}
	if ovct == 0 {
		return noSelection
	}
	if m.rlock() {
		defer m.mu.RUnlock()
	}
	sel := noSelection
	for k := 0; k < ovct; k++ {
		sel.consider(k, m.rate(sig, flat[k*sigsz:(k+1)*sigsz], allowUnsafe))
	}
	return sel
}

// Rate returns the rating of every candidate, Impossible for rejected ones.
func (m *Manager) Rate(sig []types.Type, overloads [][]types.Type, allowUnsafe bool) []rating.Rating {
	if m.rlock() {
		defer m.mu.RUnlock()
	}
	out := make([]rating.Rating, len(overloads))
	for k, ov := range overloads {
		checkArity(sig, ov, k)
		out[k] = m.rate(sig, ov, allowUnsafe)
	}
	return out
}

// RateArguments returns one rating per argument position. ok is false when
// some position rejects the candidate.
func (m *Manager) RateArguments(sig, ov []types.Type, allowUnsafe bool) (ratings []rating.Rating, ok bool) {
	checkArity(sig, ov, 0)
	if m.rlock() {
		defer m.mu.RUnlock()
	}
	ratings = make([]rating.Rating, len(sig))
	for i := range sig {
		code := m.isCompatible(sig[i], ov[i])
		if !admissible(code, allowUnsafe) {
			return nil, false
		}
		ratings[i].Count(code)
	}
	return ratings, true
}

func (m *Manager) rate(sig, ov []types.Type, allowUnsafe bool) rating.Rating {
	var r rating.Rating
	for i := range sig {
		code := m.isCompatible(sig[i], ov[i])
		if !admissible(code, allowUnsafe) {
			r.MarkImpossible()
			return r
		}
		r.Count(code)
	}
	return r
}

func (s *Selection) consider(k int, r rating.Rating) {
	if r.IsImpossible() {
		return
	}
	switch {
	case s.Count == 0 || r.Less(s.Rating):
		s.Best, s.Count, s.Rating = k, 1, r
	case r.Equal(s.Rating):
		s.Count++
	}
}

func admissible(code types.Code, allowUnsafe bool) bool {
	switch code {
	case types.NoMatch:
		return false
	case types.UnsafeConvert:
		return allowUnsafe
	default:
		return true
	}
}

func checkArity(sig, ov []types.Type, k int) {
	if len(ov) != len(sig) {
		panic(fmt.Sprintf("typeconv: overload %d has %d parameters, call has %d", k, len(ov), len(sig)))
	}
}
