package typeconv

import (
	"testing"

	"typeconv/internal/rating"
	"typeconv/internal/types"
)

func sig(ts ...types.Type) []types.Type { return ts }

func TestSelectIdenticalOverload(t *testing.T) {
	m := numericManager()
	sel := m.SelectOverload(sig(i32, f64), [][]types.Type{sig(i32, f64)}, false)
	if sel.Count != 1 || sel.Best != 0 {
		t.Fatalf("selection = %+v, want unique 0", sel)
	}
	if !sel.Rating.IsExact() {
		t.Fatalf("rating = %v, want all zero", sel.Rating)
	}
	if sel.Outcome() != Unique {
		t.Fatalf("outcome = %v", sel.Outcome())
	}
}

func TestSelectPromoteBeatsSafe(t *testing.T) {
	m := numericManager()
	for _, allowUnsafe := range []bool{false, true} {
		sel := m.SelectOverload(sig(i32), [][]types.Type{sig(f64), sig(i64)}, allowUnsafe)
		idx, ok := sel.Unique()
		if !ok || idx != 1 {
			t.Fatalf("allowUnsafe=%v: selection = %+v, want unique 1", allowUnsafe, sel)
		}
		if sel.Rating != (rating.Rating{Promote: 1}) {
			t.Fatalf("rating = %v", sel.Rating)
		}
	}
}

func TestSelectReportsTies(t *testing.T) {
	m := numericManager()
	// u8 -> i32 and f32 -> f64 are both promotions.
	sel := m.SelectOverload(sig(u8, f64), [][]types.Type{sig(i32, f64), sig(u8, f64)}, false)
	if sel.Count != 1 || sel.Best != 1 {
		t.Fatalf("exact candidate should win: %+v", sel)
	}
	sel = m.SelectOverload(sig(u8, f32), [][]types.Type{sig(i32, f32), sig(u8, f64)}, false)
	if sel.Count != 2 || sel.Outcome() != Ambiguous {
		t.Fatalf("selection = %+v, want tie of 2", sel)
	}
	if sel.Best != 0 {
		t.Fatalf("Best = %d, want first tied candidate", sel.Best)
	}
	if _, ok := sel.Unique(); ok {
		t.Fatalf("ambiguous selection must not be unique")
	}
}

func TestSelectUnsafeGate(t *testing.T) {
	m := numericManager()
	overloads := [][]types.Type{sig(f64), sig(i32)}
	sel := m.SelectOverload(sig(i64), overloads, false)
	if sel.Count != 0 || sel.Best != -1 || sel.Outcome() != NoMatch {
		t.Fatalf("selection = %+v, want no match", sel)
	}
	sel = m.SelectOverload(sig(i64), overloads, true)
	if sel.Count != 2 {
		t.Fatalf("selection = %+v, want two unsafe candidates tied", sel)
	}

	// The unsafe-only candidate drops out; the safe one remains.
	sel = m.SelectOverload(sig(i32, i64), [][]types.Type{sig(i32, f64), sig(f64, i64)}, false)
	if idx, ok := sel.Unique(); !ok || idx != 1 {
		t.Fatalf("selection = %+v, want unique 1", sel)
	}
}

func TestSelectUnsafeRanksLast(t *testing.T) {
	m := numericManager()
	// candidate 0 needs one unsafe conversion, candidate 1 one safe conversion.
	sel := m.SelectOverload(sig(i64, i32), [][]types.Type{sig(f64, i32), sig(i64, f64)}, true)
	if idx, ok := sel.Unique(); !ok || idx != 1 {
		t.Fatalf("selection = %+v, want unique 1", sel)
	}
}

func TestSelectEmptyOverloadSet(t *testing.T) {
	m := numericManager()
	for _, s := range [][]types.Type{nil, sig(i32), sig(i32, i64, f64)} {
		sel := m.SelectOverload(s, nil, true)
		if sel.Count != 0 || sel.Best != -1 {
			t.Fatalf("sig %v: selection = %+v, want empty", s, sel)
		}
	}
	if sel := m.SelectOverloadFlat(sig(i32), nil, 0, true); sel.Count != 0 {
		t.Fatalf("flat selection = %+v, want empty", sel)
	}
}

func TestSelectNullaryCall(t *testing.T) {
	m := numericManager()
	sel := m.SelectOverload(nil, [][]types.Type{{}, {}, {}}, false)
	if sel.Count != 3 || !sel.Rating.IsExact() {
		t.Fatalf("selection = %+v, want 3-way exact tie", sel)
	}
	sel = m.SelectOverloadFlat(nil, nil, 2, false)
	if sel.Count != 2 || sel.Best != 0 {
		t.Fatalf("flat selection = %+v, want 2-way tie", sel)
	}
}

func TestSelectFlatMatchesNested(t *testing.T) {
	m := numericManager()
	call := sig(i32, f32)
	nested := [][]types.Type{sig(f64, f64), sig(i64, f64), sig(i64, f32), sig(f32, f32)}
	var flat []types.Type
	for _, ov := range nested {
		flat = append(flat, ov...)
	}
	for _, allowUnsafe := range []bool{false, true} {
		a := m.SelectOverload(call, nested, allowUnsafe)
		b := m.SelectOverloadFlat(call, flat, len(nested), allowUnsafe)
		if a != b {
			t.Fatalf("nested %+v != flat %+v", a, b)
		}
	}
	if sel := m.SelectOverload(call, nested, false); sel.Best != 2 || sel.Count != 1 {
		t.Fatalf("selection = %+v, want unique 2", sel)
	}
}

func TestRateMarksRejectedImpossible(t *testing.T) {
	m := numericManager()
	got := m.Rate(sig(i32), [][]types.Type{sig(i64), sig(u8), sig(f64)}, false)
	if got[0] != (rating.Rating{Promote: 1}) {
		t.Fatalf("rating[0] = %v", got[0])
	}
	if !got[1].IsImpossible() {
		t.Fatalf("rating[1] = %v, want impossible", got[1])
	}
	if got[2] != (rating.Rating{SafeConvert: 1}) {
		t.Fatalf("rating[2] = %v", got[2])
	}
}

func TestRateArguments(t *testing.T) {
	m := numericManager()
	per, ok := m.RateArguments(sig(i32, i32, i32), sig(i32, i64, f64), false)
	if !ok || len(per) != 3 {
		t.Fatalf("RateArguments = %v, %v", per, ok)
	}
	if !per[0].IsExact() || per[1].Promote != 1 || per[2].SafeConvert != 1 {
		t.Fatalf("per-position ratings = %v", per)
	}
	if _, ok := m.RateArguments(sig(i64), sig(f64), false); ok {
		t.Fatalf("unsafe position should reject when not allowed")
	}
}

func TestArityMismatchPanics(t *testing.T) {
	m := numericManager()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected arity panic")
		}
	}()
	m.SelectOverload(sig(i32), [][]types.Type{sig(i32, i32)}, false)
}

func BenchmarkSelectOverload(b *testing.B) {
	m := numericManager()
	m.Freeze()
	call := sig(i32, f32, u8)
	overloads := [][]types.Type{
		sig(i64, f64, i32),
		sig(f64, f64, f64),
		sig(i32, f32, i32),
		sig(i64, f32, i64),
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.SelectOverload(call, overloads, false)
	}
}
