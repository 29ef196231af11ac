// Package resolve turns overload selections into caller decisions.
//
// typeconv.Manager reports how many candidates tie for the best rating and
// leaves the rest to its caller. This package is such a caller: it keeps
// named overload sets, filters them by arity, applies an optional
// tie-breaking policy and produces errors or diagnostics for the outcomes a
// compiler reports to users.
package resolve

import (
	"errors"
	"fmt"
	"slices"

	"typeconv/internal/diag"
	"typeconv/internal/rating"
	"typeconv/internal/typeconv"
	"typeconv/internal/types"
	"typeconv/internal/universe"
)

// Namer renders signatures in messages. *universe.Registry implements it.
type Namer interface {
	Names(sig []types.Type) string
}

// Policy controls admissibility and tie-breaking.
type Policy struct {
	// AllowUnsafe admits conversions that may lose precision.
	AllowUnsafe bool
	// Asymmetric breaks rating ties by comparing per-argument ratings left
	// to right; the candidate whose earliest differing argument carries the
	// costlier conversion wins.
	Asymmetric bool
}

// Function is a named overload set.
type Function struct {
	Name      string
	Overloads [][]types.Type
}

// Result is a successful resolution.
type Result struct {
	Function  string
	Index     int
	Signature []types.Type
	Rating    rating.Rating
	// TieBroken is set when the policy, not the rating, picked the winner.
	TieBroken bool
}

// Resolver resolves calls against named overload sets.
type Resolver struct {
	m      *typeconv.Manager
	names  Namer
	policy Policy
	funcs  map[string]*Function
	order  []string
}

// New returns a resolver over m with no functions.
func New(m *typeconv.Manager, names Namer, policy Policy) *Resolver {
	return &Resolver{
		m:      m,
		names:  names,
		policy: policy,
		funcs:  make(map[string]*Function),
	}
}

// FromUniverse creates a resolver with every function declared in the
// universe's table. Bad declarations are reported in the bag.
func FromUniverse(u *universe.Universe, policy Policy) (*Resolver, *diag.Bag, error) {
	r := New(u.Manager, u.Registry, policy)
	bag := diag.NewBag(64)
	if u.Table == nil {
		return r, bag, nil
	}
	for i, fn := range u.Table.Functions {
		subject := fmt.Sprintf("functions[%d] %s", i, fn.Name)
		if fn.Name == "" {
			bag.Add(diag.Errorf(diag.TblBadFunction, subject, "missing name"))
			continue
		}
		overloads := make([][]types.Type, 0, len(fn.Overloads))
		for j, ov := range fn.Overloads {
			sig, err := u.Registry.ParseSignature(ov)
			if err != nil {
				bag.Add(diag.Errorf(diag.TblUnknownType, fmt.Sprintf("%s overload %d", subject, j), "%v", err))
				continue
			}
			overloads = append(overloads, sig)
		}
		r.Define(fn.Name, overloads...)
	}
	if bag.HasErrors() {
		return r, bag, bag.Err()
	}
	return r, bag, nil
}

// Define adds overloads to name, creating the set if needed.
func (r *Resolver) Define(name string, overloads ...[]types.Type) {
	fn, ok := r.funcs[name]
	if !ok {
		fn = &Function{Name: name}
		r.funcs[name] = fn
		r.order = append(r.order, name)
	}
	for _, ov := range overloads {
		fn.Overloads = append(fn.Overloads, slices.Clone(ov))
	}
}

// Function returns the overload set for name.
func (r *Resolver) Function(name string) (*Function, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

// Functions lists names in definition order.
func (r *Resolver) Functions() []string {
	return slices.Clone(r.order)
}

// Resolve picks the overload of name for args.
func (r *Resolver) Resolve(name string, args []types.Type) (Result, error) {
	fn, ok := r.funcs[name]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownFunction, name)
	}

	// Only overloads of matching arity take part; keep their index in the full set.
	var (
		cands [][]types.Type
		index []int
	)
	for i, ov := range fn.Overloads {
		if len(ov) == len(args) {
			cands = append(cands, ov)
			index = append(index, i)
		}
	}
	if len(cands) == 0 {
		return Result{}, &NoMatchError{Name: name, Args: r.render(args), Arity: true}
	}

	sel := r.m.SelectOverload(args, cands, r.policy.AllowUnsafe)
	switch sel.Outcome() {
	case typeconv.NoMatch:
		unsafeOnly := !r.policy.AllowUnsafe && r.m.SelectOverload(args, cands, true).Count > 0
		return Result{}, &NoMatchError{Name: name, Args: r.render(args), UnsafeOnly: unsafeOnly}
	case typeconv.Unique:
		return r.result(name, index[sel.Best], cands[sel.Best], sel.Rating, false), nil
	}

	ratings := r.m.Rate(args, cands, r.policy.AllowUnsafe)
	var tied []int
	for k, rt := range ratings {
		if rt.Equal(sel.Rating) {
			tied = append(tied, k)
		}
	}

	// Identical signatures (aliases declared twice) are not a real ambiguity.
	if sameSignatures(cands, tied) {
		return r.result(name, index[tied[0]], cands[tied[0]], sel.Rating, false), nil
	}

	if r.policy.Asymmetric {
		if k, ok := r.breakTie(args, cands, tied); ok {
			return r.result(name, index[k], cands[k], sel.Rating, true), nil
		}
	}

	amb := &AmbiguousError{Name: name, Args: r.render(args)}
	for _, k := range tied {
		amb.Candidates = append(amb.Candidates, index[k])
		amb.Signatures = append(amb.Signatures, name+r.render(cands[k]))
	}
	return Result{}, amb
}

// Diagnose resolves and records failures in bag. ok is false on failure.
func (r *Resolver) Diagnose(bag *diag.Bag, name string, args []types.Type) (Result, bool) {
	res, err := r.Resolve(name, args)
	if err == nil {
		if res.TieBroken {
			bag.Add(diag.Warningf(diag.ResAmbiguousOverload, name+r.render(args),
				"tie broken in favour of %s%s", name, r.render(res.Signature)))
		}
		return res, true
	}

	subject := name + r.render(args)
	var (
		noMatch *NoMatchError
		amb     *AmbiguousError
	)
	switch {
	case errors.Is(err, ErrUnknownFunction):
		bag.Add(diag.Errorf(diag.ResUnknownFunction, subject, "%v", err))
	case errors.As(err, &noMatch):
		code := diag.ResNoOverload
		if noMatch.Arity {
			code = diag.ResArityMismatch
		} else if noMatch.UnsafeOnly {
			code = diag.ResUnsafeRejected
		}
		d := diag.Errorf(code, subject, "%v", err)
		if fn, ok := r.funcs[name]; ok {
			for _, ov := range fn.Overloads {
				d = d.WithNote(name+r.render(ov), "candidate")
			}
		}
		bag.Add(d)
	case errors.As(err, &amb):
		d := diag.Errorf(diag.ResAmbiguousOverload, subject, "%d candidates tie", len(amb.Candidates))
		for _, s := range amb.Signatures {
			d = d.WithNote(s, "equally good")
		}
		bag.Add(d)
	default:
		bag.Add(diag.Errorf(diag.UnknownCode, subject, "%v", err))
	}
	return Result{}, false
}

func (r *Resolver) breakTie(args []types.Type, cands [][]types.Type, tied []int) (int, bool) {
	best, bestRates := -1, []rating.Rating(nil)
	unique := false
	for _, k := range tied {
		rates, ok := r.m.RateArguments(args, cands[k], r.policy.AllowUnsafe)
		if !ok {
			continue
		}
		if best < 0 {
			best, bestRates, unique = k, rates, true
			continue
		}
		switch c := comparePositions(rates, bestRates); {
		case c > 0:
			best, bestRates, unique = k, rates, true
		case c == 0:
			unique = false
		}
	}
	return best, unique && best >= 0
}

// comparePositions orders per-argument ratings lexicographically, each
// position compared worst counter first.
func comparePositions(a, b []rating.Rating) int {
	for i := range a {
		if c := a[i].Compare(b[i]); c != 0 {
			return c
		}
	}
	return 0
}

func sameSignatures(cands [][]types.Type, tied []int) bool {
	for _, k := range tied[1:] {
		if !slices.Equal(cands[k], cands[tied[0]]) {
			return false
		}
	}
	return true
}

func (r *Resolver) result(name string, idx int, sig []types.Type, rt rating.Rating, broken bool) Result {
	return Result{Function: name, Index: idx, Signature: sig, Rating: rt, TieBroken: broken}
}

func (r *Resolver) render(sig []types.Type) string {
	if r.names == nil {
		return fmt.Sprint(sig)
	}
	return r.names.Names(sig)
}
