package castgraph

import (
	"context"
	"testing"

	"typeconv/internal/typeconv"
	"typeconv/internal/types"
)

var (
	i8  = types.New(0)
	i16 = types.New(1)
	i32 = types.New(2)
	f32 = types.New(3)
	f64 = types.New(4)
)

func mustInsert(t *testing.T, g *Graph, from, to types.Type, code types.Code) {
	t.Helper()
	if _, err := g.Insert(from, to, code); err != nil {
		t.Fatalf("Insert(%v, %v, %v): %v", from, to, code, err)
	}
}

func TestPropagateComposesWorstKind(t *testing.T) {
	g := New()
	mustInsert(t, g, i8, i16, types.Promote)
	mustInsert(t, g, i16, i32, types.Promote)
	mustInsert(t, g, i16, f32, types.SafeConvert)
	mustInsert(t, g, f32, f64, types.Promote)
	mustInsert(t, g, i32, f32, types.UnsafeConvert)

	st := g.Propagate(context.Background())
	if st.Derived == 0 {
		t.Fatalf("expected derived relations, got %+v", st)
	}

	cases := []struct {
		from, to types.Type
		want     types.Code
	}{
		{i8, i32, types.Promote},
		{i8, f32, types.SafeConvert},
		{i8, f64, types.SafeConvert},
		{i32, f64, types.UnsafeConvert},
	}
	for _, c := range cases {
		got, ok := g.Lookup(c.from, c.to)
		if !ok || got != c.want {
			t.Fatalf("Lookup(%v, %v) = %v, %v; want %v", c.from, c.to, got, ok, c.want)
		}
	}
	if _, ok := g.Lookup(f64, i8); ok {
		t.Fatalf("no path back from f64 to i8")
	}
}

func TestPropagateImprovesDeclared(t *testing.T) {
	g := New()
	mustInsert(t, g, i8, f64, types.UnsafeConvert)
	mustInsert(t, g, i8, f32, types.SafeConvert)
	mustInsert(t, g, f32, f64, types.Promote)
	st := g.Propagate(context.Background())
	if st.Improved != 1 {
		t.Fatalf("Improved = %d, want 1", st.Improved)
	}
	if got, _ := g.Lookup(i8, f64); got != types.SafeConvert {
		t.Fatalf("i8->f64 = %v, want safe", got)
	}
}

func TestInsertRejectsNonConversions(t *testing.T) {
	g := New()
	for _, code := range []types.Code{types.NoMatch, types.Exact, types.Subtype} {
		if _, err := g.Insert(i8, i16, code); err == nil {
			t.Fatalf("Insert with %v should fail", code)
		}
	}
	if _, err := g.Insert(i8, i8, types.Promote); err == nil {
		t.Fatalf("self conversion should fail")
	}
	replaced, err := g.Insert(i8, i16, types.Promote)
	if err != nil || replaced {
		t.Fatalf("first insert: replaced=%v err=%v", replaced, err)
	}
	if replaced, _ := g.Insert(i8, i16, types.SafeConvert); !replaced {
		t.Fatalf("second insert should report replacement")
	}
}

func TestApplyRegistersClosure(t *testing.T) {
	g := New()
	mustInsert(t, g, i8, i16, types.Promote)
	mustInsert(t, g, i16, f64, types.SafeConvert)
	g.Propagate(context.Background())
	m := typeconv.NewManager()
	if n := g.Apply(m); n != 3 {
		t.Fatalf("Apply registered %d relations, want 3", n)
	}
	if !m.CanSafeConvert(i8, f64) {
		t.Fatalf("derived relation missing from manager")
	}
	edges := g.Edges()
	if edges[0].From != i8 || edges[0].To != i16 || edges[0].Derived {
		t.Fatalf("unexpected first edge %+v", edges[0])
	}
}

func TestApplyKeepsImprovedDeclarationShadowed(t *testing.T) {
	g := New()
	mustInsert(t, g, i8, f64, types.UnsafeConvert)
	mustInsert(t, g, i8, f32, types.SafeConvert)
	mustInsert(t, g, f32, f64, types.Promote)
	g.Propagate(context.Background())

	var improved Edge
	for _, e := range g.Edges() {
		if e.From == i8 && e.To == f64 {
			improved = e
		}
	}
	if improved.Code != types.SafeConvert || improved.Declared != types.UnsafeConvert || improved.Derived {
		t.Fatalf("improved edge = %+v", improved)
	}

	m := typeconv.NewManager()
	g.Apply(m)
	if got := m.IsCompatible(i8, f64); got != types.SafeConvert {
		t.Fatalf("i8->f64 = %v, want safe", got)
	}
	st, err := m.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.Shadowed != 1 {
		t.Fatalf("Shadowed = %d, want the declared unsafe record", st.Shadowed)
	}
}
