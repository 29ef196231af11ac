package resolve

import (
	"context"
	"errors"
	"testing"

	"typeconv/internal/diag"
	"typeconv/internal/typeconv"
	"typeconv/internal/types"
	"typeconv/internal/universe"
)

var (
	ta = types.New(0)
	tb = types.New(1)
	tc = types.New(2)
)

func sig(ts ...types.Type) []types.Type { return ts }

func smallResolver(policy Policy) *Resolver {
	m := typeconv.NewManager()
	m.AddPromotion(ta, tb)
	m.AddPromotion(ta, tc)
	m.AddUnsafeConversion(tc, ta)
	m.Freeze()
	return New(m, nil, policy)
}

func TestResolveUnique(t *testing.T) {
	r := smallResolver(Policy{})
	r.Define("f", sig(tb), sig(ta))
	res, err := r.Resolve("f", sig(ta))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Index != 1 || !res.Rating.IsExact() || res.TieBroken {
		t.Fatalf("got %+v, want exact overload 1", res)
	}
}

func TestResolveAmbiguous(t *testing.T) {
	r := smallResolver(Policy{})
	r.Define("f", sig(tb), sig(tc))
	_, err := r.Resolve("f", sig(ta))
	var amb *AmbiguousError
	if !errors.As(err, &amb) {
		t.Fatalf("err = %v, want *AmbiguousError", err)
	}
	if !errors.Is(err, ErrAmbiguous) {
		t.Fatalf("AmbiguousError does not unwrap to ErrAmbiguous")
	}
	if len(amb.Candidates) != 2 || amb.Candidates[0] != 0 || amb.Candidates[1] != 1 {
		t.Fatalf("candidates = %v, want [0 1]", amb.Candidates)
	}
}

func TestAsymmetricTieBreak(t *testing.T) {
	r := smallResolver(Policy{Asymmetric: true})
	// Both cost one promotion; the first spends it on argument 0.
	r.Define("g", sig(tb, ta), sig(ta, tb))
	res, err := r.Resolve("g", sig(ta, ta))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Index != 0 || !res.TieBroken {
		t.Fatalf("got %+v, want overload 0 by tie-break", res)
	}

	// Without the policy the same call is ambiguous.
	plain := smallResolver(Policy{})
	plain.Define("g", sig(tb, ta), sig(ta, tb))
	if _, err := plain.Resolve("g", sig(ta, ta)); !errors.Is(err, ErrAmbiguous) {
		t.Fatalf("err = %v, want ambiguous", err)
	}
}

func TestAsymmetricKeepsRealTies(t *testing.T) {
	r := smallResolver(Policy{Asymmetric: true})
	r.Define("f", sig(tb), sig(tc))
	if _, err := r.Resolve("f", sig(ta)); !errors.Is(err, ErrAmbiguous) {
		t.Fatalf("err = %v, want ambiguous", err)
	}
}

func TestDuplicateSignaturesAreNotAmbiguous(t *testing.T) {
	r := smallResolver(Policy{})
	r.Define("h", sig(tb))
	r.Define("h", sig(tb))
	res, err := r.Resolve("h", sig(ta))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Index != 0 {
		t.Fatalf("index = %d, want 0", res.Index)
	}
}

func TestIndexRefersToFullOverloadList(t *testing.T) {
	r := smallResolver(Policy{})
	r.Define("k", sig(ta, ta), sig(tb))
	res, err := r.Resolve("k", sig(ta))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Index != 1 {
		t.Fatalf("index = %d, want 1", res.Index)
	}
}

func TestResolveFailures(t *testing.T) {
	r := smallResolver(Policy{})
	r.Define("f", sig(ta))

	if _, err := r.Resolve("missing", sig(ta)); !errors.Is(err, ErrUnknownFunction) {
		t.Fatalf("unknown: err = %v", err)
	}

	var nm *NoMatchError
	_, err := r.Resolve("f", sig(ta, ta))
	if !errors.As(err, &nm) || !nm.Arity {
		t.Fatalf("arity: err = %v", err)
	}

	_, err = r.Resolve("f", sig(tc))
	if !errors.As(err, &nm) || !nm.UnsafeOnly {
		t.Fatalf("unsafe only: err = %v", err)
	}
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("NoMatchError does not unwrap to ErrNoMatch")
	}

	_, err = r.Resolve("f", sig(tb))
	if !errors.As(err, &nm) || nm.Arity || nm.UnsafeOnly {
		t.Fatalf("plain no match: err = %v", err)
	}
}

func TestAllowUnsafeAdmitsUnsafeConversion(t *testing.T) {
	r := smallResolver(Policy{AllowUnsafe: true})
	r.Define("f", sig(ta))
	res, err := r.Resolve("f", sig(tc))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Rating.UnsafeConvert != 1 {
		t.Fatalf("rating = %v, want one unsafe conversion", res.Rating)
	}
}

func TestDiagnose(t *testing.T) {
	r := smallResolver(Policy{})
	r.Define("f", sig(tb), sig(tc))
	r.Define("u", sig(ta))

	bag := diag.NewBag(16)
	if _, ok := r.Diagnose(bag, "f", sig(ta)); ok {
		t.Fatalf("ambiguous call reported ok")
	}
	if _, ok := r.Diagnose(bag, "u", sig(tc)); ok {
		t.Fatalf("unsafe-only call reported ok")
	}
	if _, ok := r.Diagnose(bag, "nope", sig(ta)); ok {
		t.Fatalf("unknown function reported ok")
	}
	if _, ok := r.Diagnose(bag, "u", sig(ta)); !ok {
		t.Fatalf("exact call failed")
	}
	for _, code := range []diag.Code{diag.ResAmbiguousOverload, diag.ResUnsafeRejected, diag.ResUnknownFunction} {
		if !bag.HasCode(code) {
			t.Fatalf("bag missing %s", code.ID())
		}
	}
	if bag.Len() != 3 {
		t.Fatalf("bag has %d diagnostics, want 3", bag.Len())
	}
}

func TestFromUniverse(t *testing.T) {
	u, err := universe.Default(context.Background())
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	r, bag, err := FromUniverse(u, Policy{})
	if err != nil {
		t.Fatalf("FromUniverse: %v (%v)", err, bag.Items())
	}
	if got := r.Functions(); len(got) != 3 || got[0] != "add" {
		t.Fatalf("functions = %v", got)
	}

	i8 := u.Registry.MustLookup(universe.Int8)
	res, err := r.Resolve("abs", sig(i8))
	if err != nil {
		t.Fatalf("abs(int8): %v", err)
	}
	if res.Index != 0 || res.Rating.Promote != 1 {
		t.Fatalf("abs(int8) = %+v, want int64 overload by promotion", res)
	}

	i32 := u.Registry.MustLookup(universe.Int32)
	f32 := u.Registry.MustLookup(universe.Float32)
	res, err = r.Resolve("add", sig(i32, f32))
	if err != nil {
		t.Fatalf("add(int32, float32): %v", err)
	}
	if res.Index != 2 {
		t.Fatalf("add(int32, float32) picked %d, want float64 overload", res.Index)
	}
}

func TestFromUniverseReportsBadOverloads(t *testing.T) {
	tbl := universe.DefaultTable()
	tbl.Functions = append(tbl.Functions,
		universe.Function{Name: "bad", Overloads: []string{"int64, quaternion"}},
		universe.Function{Overloads: []string{"int64"}},
	)
	u, _, err := universe.Build(context.Background(), tbl, universe.Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	_, bag, err := FromUniverse(u, Policy{})
	if err == nil {
		t.Fatalf("FromUniverse accepted unknown overload type")
	}
	if !bag.HasCode(diag.TblUnknownType) || !bag.HasCode(diag.TblBadFunction) {
		t.Fatalf("bag = %v", bag.Items())
	}
}
