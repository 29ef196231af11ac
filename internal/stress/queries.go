package stress

import (
	"math/rand/v2"

	"typeconv/internal/typeconv"
	"typeconv/internal/types"
)

type queryKind uint8

const (
	queryPair queryKind = iota
	querySelect
)

type query struct {
	kind      queryKind
	from, to  types.Type
	sig       []types.Type
	overloads [][]types.Type
}

type answer struct {
	pair bool
	code types.Code
	sel  typeconv.Selection
}

func (a answer) equal(b answer) bool {
	return a.pair == b.pair &&
		a.code == b.code &&
		a.sel.Best == b.sel.Best &&
		a.sel.Count == b.sel.Count &&
		a.sel.Rating.Equal(b.sel.Rating)
}

// generate builds n queries over pool. Roughly one in four is a selection.
func generate(rng *rand.Rand, pool []types.Type, n, arity, overloads int) []query {
	pick := func() types.Type { return pool[rng.IntN(len(pool))] }
	sigOf := func() []types.Type {
		s := make([]types.Type, arity)
		for i := range s {
			s[i] = pick()
		}
		return s
	}
	qs := make([]query, n)
	for i := range qs {
		if rng.IntN(4) != 0 {
			qs[i] = query{kind: queryPair, from: pick(), to: pick()}
			continue
		}
		q := query{kind: querySelect, sig: sigOf()}
		q.overloads = make([][]types.Type, overloads)
		for k := range q.overloads {
			q.overloads[k] = sigOf()
		}
		qs[i] = q
	}
	return qs
}

func run(m *typeconv.Manager, q *query, allowUnsafe bool) answer {
	if q.kind == queryPair {
		return answer{pair: true, code: m.IsCompatible(q.from, q.to)}
	}
	return answer{sel: m.SelectOverload(q.sig, q.overloads, allowUnsafe)}
}
