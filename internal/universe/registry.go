package universe

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"typeconv/internal/types"
)

var (
	// ErrUnknownType reports a name that was never declared.
	ErrUnknownType = errors.New("unknown type")
	// ErrDuplicateType reports a second declaration of the same name.
	ErrDuplicateType = errors.New("duplicate type")
)

// Registry assigns stable Types to type names. Ids are dense, starting at 0,
// in declaration order. Names are compared after NFC normalization.
type Registry struct {
	names []string
	index map[string]types.Type
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]types.Type, 32)}
}

// Declare adds a new type name.
func (r *Registry) Declare(name string) (types.Type, error) {
	key := normalize(name)
	if key == "" {
		return types.NoType, fmt.Errorf("empty type name")
	}
	if _, ok := r.index[key]; ok {
		return types.NoType, fmt.Errorf("%w: %q", ErrDuplicateType, key)
	}
	t, err := types.FromInt(len(r.names))
	if err != nil {
		return types.NoType, err
	}
	r.names = append(r.names, key)
	r.index[key] = t
	return t, nil
}

// Alias makes alias resolve to the same Type as target.
func (r *Registry) Alias(alias, target string) error {
	key := normalize(alias)
	if key == "" {
		return fmt.Errorf("empty alias name")
	}
	if _, ok := r.index[key]; ok {
		return fmt.Errorf("%w: alias %q", ErrDuplicateType, key)
	}
	t, err := r.Lookup(target)
	if err != nil {
		return fmt.Errorf("alias %q: %w", key, err)
	}
	r.index[key] = t
	return nil
}

// Lookup resolves a name or alias.
func (r *Registry) Lookup(name string) (types.Type, error) {
	key := normalize(name)
	if t, ok := r.index[key]; ok {
		return t, nil
	}
	return types.NoType, fmt.Errorf("%w: %q", ErrUnknownType, key)
}

// MustLookup panics on unknown names. For tables built in code.
func (r *Registry) MustLookup(name string) types.Type {
	t, err := r.Lookup(name)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the canonical name of t.
func (r *Registry) Name(t types.Type) string {
	if !t.Valid() || int(t.ID()) >= len(r.names) {
		return t.String()
	}
	return r.names[t.ID()]
}

// Names renders a signature as "(a, b)".
func (r *Registry) Names(sig []types.Type) string {
	parts := make([]string, len(sig))
	for i, t := range sig {
		parts[i] = r.Name(t)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// ParseSignature reads a comma separated list of names. Parentheses are
// optional; an empty list is the nullary signature.
func (r *Registry) ParseSignature(s string) ([]types.Type, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	if strings.TrimSpace(s) == "" {
		return []types.Type{}, nil
	}
	parts := strings.Split(s, ",")
	out := make([]types.Type, 0, len(parts))
	for _, p := range parts {
		t, err := r.Lookup(p)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Len returns the number of declared types (aliases excluded).
func (r *Registry) Len() int {
	return len(r.names)
}

// Types returns every declared type in id order.
func (r *Registry) Types() []types.Type {
	out := make([]types.Type, len(r.names))
	for i := range r.names {
		out[i] = r.index[r.names[i]]
	}
	return out
}

func normalize(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}
