// Package universe builds a ready-to-query type universe from a declarative
// table: named types, aliases, conversion rules and overload sets.
package universe

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"typeconv/internal/castgraph"
	"typeconv/internal/diag"
	"typeconv/internal/trace"
	"typeconv/internal/typeconv"
	"typeconv/internal/types"
)

// Universe bundles the registry of names with the compatibility manager
// they were registered into.
type Universe struct {
	Name     string
	Registry *Registry
	Manager  *typeconv.Manager
	Table    *Table
	Stats    castgraph.Stats
}

// Options tune Build.
type Options struct {
	// NoPropagate registers declared rules only, without transitive closure.
	NoPropagate bool
	// NoFreeze leaves the manager open for further registration.
	NoFreeze bool
	// MaxDiagnostics bounds the bag; 0 means 64.
	MaxDiagnostics int
}

// Default builds the built-in numeric universe.
func Default(ctx context.Context) (*Universe, error) {
	u, bag, err := Build(ctx, DefaultTable(), Options{})
	if err != nil {
		return nil, err
	}
	if err := bag.Err(); err != nil {
		return nil, err
	}
	return u, nil
}

// Build validates tbl and registers it. Table problems are reported in the
// bag; the returned error is set when the bag holds errors.
func Build(ctx context.Context, tbl *Table, opts Options) (*Universe, *diag.Bag, error) {
	if tbl == nil {
		return nil, nil, errors.New("nil type table")
	}
	maxDiag := opts.MaxDiagnostics
	if maxDiag <= 0 {
		maxDiag = 64
	}
	bag := diag.NewBag(maxDiag)
	span, ctx := trace.Start(ctx, trace.ScopePass, "universe:"+tbl.Name)

	reg := declareTypes(tbl, bag)
	graph := castgraph.New()
	declareRules(tbl, reg, graph, bag)

	if bag.HasErrors() {
		span.End("invalid table")
		return nil, bag, fmt.Errorf("type table %q: %w", tbl.Name, bag.Err())
	}

	var st castgraph.Stats
	if !opts.NoPropagate {
		st = graph.Propagate(ctx)
	}

	m := typeconv.NewManager()
	registered := graph.Apply(m)
	if !opts.NoFreeze {
		m.Freeze()
	}

	span.WithExtra("types", strconv.Itoa(reg.Len())).
		WithExtra("pairs", strconv.Itoa(registered)).
		End("")

	return &Universe{
		Name:     tbl.Name,
		Registry: reg,
		Manager:  m,
		Table:    tbl,
		Stats:    st,
	}, bag, nil
}

func declareTypes(tbl *Table, bag *diag.Bag) *Registry {
	reg := NewRegistry()
	for i, name := range tbl.Types {
		if _, err := reg.Declare(name); err != nil {
			code := diag.TblBadRule
			if errors.Is(err, ErrDuplicateType) {
				code = diag.TblDuplicateType
			}
			bag.Add(diag.Errorf(code, fmt.Sprintf("types[%d]", i), "%v", err))
		}
	}
	declareAliases(tbl.Aliases, reg, bag)
	return reg
}

// declareAliases resolves aliases in sorted order, repeating passes so an
// alias may name another alias. Whatever is left when a pass makes no
// progress sits on a cycle or a chain ending in an unknown name.
func declareAliases(aliases map[string]string, reg *Registry, bag *diag.Bag) {
	pending := slices.Sorted(maps.Keys(aliases))
	isAlias := make(map[string]bool, len(aliases))
	for _, a := range pending {
		isAlias[normalize(a)] = true
	}
	for len(pending) > 0 {
		var next []string
		for _, a := range pending {
			err := reg.Alias(a, aliases[a])
			switch {
			case err == nil:
				isAlias[normalize(a)] = false
			case errors.Is(err, ErrUnknownType) && isAlias[normalize(aliases[a])]:
				next = append(next, a)
			default:
				isAlias[normalize(a)] = false
				bag.Add(diag.Errorf(diag.TblBadAlias, "aliases."+a, "%v", err))
			}
		}
		if len(next) == len(pending) {
			for _, a := range next {
				bag.Add(diag.Errorf(diag.TblBadAlias, "aliases."+a, "alias %q never resolves: cycle through %q", a, aliases[a]))
			}
			return
		}
		pending = next
	}
}

func declareRules(tbl *Table, reg *Registry, graph *castgraph.Graph, bag *diag.Bag) {
	for i, rule := range tbl.Rules {
		subject := fmt.Sprintf("rules[%d] %s->%s", i, rule.From, rule.To)
		from, errFrom := reg.Lookup(rule.From)
		to, errTo := reg.Lookup(rule.To)
		if errFrom != nil || errTo != nil {
			bag.Add(diag.Errorf(diag.TblUnknownType, subject, "%v", errors.Join(errFrom, errTo)))
			continue
		}
		code, err := types.ParseCode(rule.Kind)
		if err != nil {
			bag.Add(diag.Errorf(diag.TblBadRule, subject, "%v", err))
			continue
		}
		insertRule(graph, from, to, code, subject, bag)
		if rule.Reverse == "" {
			continue
		}
		rev, err := types.ParseCode(rule.Reverse)
		if err != nil {
			bag.Add(diag.Errorf(diag.TblBadRule, subject, "reverse: %v", err))
			continue
		}
		insertRule(graph, to, from, rev, subject+" (reverse)", bag)
	}
}

func insertRule(graph *castgraph.Graph, from, to types.Type, code types.Code, subject string, bag *diag.Bag) {
	replaced, err := graph.Insert(from, to, code)
	if err != nil {
		bag.Add(diag.Errorf(diag.TblBadRule, subject, "%v", err))
		return
	}
	if replaced {
		bag.Add(diag.Warningf(diag.TblShadowedRule, subject, "overrides an earlier rule, now %s", code))
	}
}

// Lookup resolves a type name within the universe.
func (u *Universe) Lookup(name string) (types.Type, error) {
	return u.Registry.Lookup(name)
}

// Check answers a single-pair query by name.
func (u *Universe) Check(from, to string) (types.Code, error) {
	a, err := u.Registry.Lookup(from)
	if err != nil {
		return types.NoMatch, err
	}
	b, err := u.Registry.Lookup(to)
	if err != nil {
		return types.NoMatch, err
	}
	return u.Manager.IsCompatible(a, b), nil
}
