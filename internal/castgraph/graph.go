// Package castgraph closes a set of declared conversions under composition.
//
// Declaring int8 -> int16 and int16 -> float32 implies int8 -> float32. The
// composed kind is the worst kind along the path (promote then safe is safe,
// anything then unsafe is unsafe) and the best path between two types wins.
// The closed relation is what gets registered into a typeconv.Manager, which
// itself never chains conversions.
package castgraph

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"typeconv/internal/trace"
	"typeconv/internal/typeconv"
	"typeconv/internal/types"
)

// Edge is one relation of the graph.
type Edge struct {
	From    types.Type
	To      types.Type
	Code    types.Code
	Derived bool

	// Declared is the table's own code when propagation found a better
	// path, NoMatch otherwise.
	Declared types.Code
}

type relation struct {
	code     types.Code
	derived  bool
	declared types.Code
}

// Graph holds declared and derived conversions.
type Graph struct {
	nodes []types.Type
	seen  map[types.Type]struct{}
	rels  map[types.Pair]relation
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		seen: make(map[types.Type]struct{}, 32),
		rels: make(map[types.Pair]relation, 128),
	}
}

// Stats describes one propagation run.
type Stats struct {
	Nodes    int
	Declared int
	Derived  int
	Improved int
}

// Insert declares from -> to. Only promote, safe and unsafe are accepted.
// A later declaration of the same pair replaces the earlier one; the
// returned bool reports that.
func (g *Graph) Insert(from, to types.Type, code types.Code) (replaced bool, err error) {
	if !code.IsConversion() {
		return false, fmt.Errorf("castgraph: %v is not a conversion kind", code)
	}
	if !from.Valid() || !to.Valid() {
		return false, fmt.Errorf("castgraph: invalid type in %v->%v", from, to)
	}
	if from == to {
		return false, fmt.Errorf("castgraph: self conversion %v", from)
	}
	g.addNode(from)
	g.addNode(to)
	key := types.MakePair(from, to)
	prev, ok := g.rels[key]
	g.rels[key] = relation{code: code}
	return ok && !prev.derived, nil
}

// Lookup returns the current relation for from -> to.
func (g *Graph) Lookup(from, to types.Type) (types.Code, bool) {
	rel, ok := g.rels[types.MakePair(from, to)]
	return rel.code, ok
}

// Propagate derives every composed relation. Safe to call repeatedly.
func (g *Graph) Propagate(ctx context.Context) Stats {
	tr := trace.FromContext(ctx)
	span := trace.Begin(tr, trace.ScopePass, "propagate", trace.CurrentSpan(ctx).SpanID)

	st := Stats{Nodes: len(g.nodes)}
	for _, rel := range g.rels {
		if !rel.derived {
			st.Declared++
		}
	}

	nodes := slices.Clone(g.nodes)
	slices.SortFunc(nodes, types.Type.Compare)

	// Floyd-Warshall over the bottleneck semiring: path cost is the worst
	// kind on the path, the best path wins.
	for _, k := range nodes {
		for _, i := range nodes {
			if i == k {
				continue
			}
			ik, ok := g.rels[types.MakePair(i, k)]
			if !ok {
				continue
			}
			for _, j := range nodes {
				if j == i || j == k {
					continue
				}
				kj, ok := g.rels[types.MakePair(k, j)]
				if !ok {
					continue
				}
				composed := compose(ik.code, kj.code)
				key := types.MakePair(i, j)
				cur, exists := g.rels[key]
				switch {
				case !exists:
					g.rels[key] = relation{code: composed, derived: true}
					st.Derived++
					trace.Point(tr, trace.ScopeRule, "derive", key.String()+" "+composed.String(), span.ID())
				case composed < cur.code:
					improved := relation{code: composed, derived: cur.derived, declared: cur.declared}
					if !cur.derived && cur.declared == types.NoMatch {
						improved.declared = cur.code
					}
					g.rels[key] = improved
					st.Improved++
					trace.Point(tr, trace.ScopeRule, "improve", key.String()+" "+composed.String(), span.ID())
				}
			}
		}
	}

	span.WithExtra("nodes", strconv.Itoa(st.Nodes)).
		WithExtra("derived", strconv.Itoa(st.Derived)).
		WithExtra("improved", strconv.Itoa(st.Improved)).
		End("")
	return st
}

// Edges returns all relations sorted by pair.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.rels))
	for key, rel := range g.rels {
		out = append(out, Edge{From: key.From, To: key.To, Code: rel.code, Derived: rel.derived, Declared: rel.declared})
	}
	slices.SortFunc(out, func(a, b Edge) int {
		return types.MakePair(a.From, a.To).Compare(types.MakePair(b.From, b.To))
	})
	return out
}

// Apply registers every relation into m in pair order and returns the
// count. An improved declaration is registered first so it survives in
// the table as a shadowed record under the better code.
func (g *Graph) Apply(m *typeconv.Manager) int {
	edges := g.Edges()
	for _, e := range edges {
		if e.Declared != types.NoMatch {
			m.AddCompatibility(e.From, e.To, e.Declared)
		}
		m.AddCompatibility(e.From, e.To, e.Code)
	}
	return len(edges)
}

func (g *Graph) addNode(t types.Type) {
	if _, ok := g.seen[t]; ok {
		return
	}
	g.seen[t] = struct{}{}
	g.nodes = append(g.nodes, t)
}

// compose is the kind of a two-step conversion: the worse of the two.
func compose(a, b types.Code) types.Code {
	return max(a, b)
}
