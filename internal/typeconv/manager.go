package typeconv

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"typeconv/internal/tccmap"
	"typeconv/internal/types"
)

// ErrFrozen is the panic value for registration after Freeze.
var ErrFrozen = errors.New("typeconv: registration after Freeze")

// Manager is the compatibility façade. It must not be copied after first use.
type Manager struct {
	mu     sync.RWMutex
	frozen atomic.Bool
	tcc    tccmap.Map
}

// NewManager returns an empty manager in the registration phase.
func NewManager() *Manager {
	return &Manager{}
}

// Freeze ends the registration phase. Idempotent.
func (m *Manager) Freeze() {
	m.mu.Lock()
	m.frozen.Store(true)
	m.mu.Unlock()
}

// Frozen reports whether Freeze was called.
func (m *Manager) Frozen() bool {
	return m.frozen.Load()
}

// AddCompatibility registers (from, to) -> code. Last write wins.
func (m *Manager) AddCompatibility(from, to types.Type, code types.Code) {
	mustValid(from)
	mustValid(to)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.frozen.Load() {
		panic(ErrFrozen)
	}
	m.tcc.Insert(types.MakePair(from, to), code)
}

// AddPromotion registers a widening with no precision loss.
func (m *Manager) AddPromotion(from, to types.Type) {
	m.AddCompatibility(from, to, types.Promote)
}

// AddSafeConversion registers a kind change with no precision loss.
func (m *Manager) AddSafeConversion(from, to types.Type) {
	m.AddCompatibility(from, to, types.SafeConvert)
}

// AddUnsafeConversion registers a kind change that may lose precision.
func (m *Manager) AddUnsafeConversion(from, to types.Type) {
	m.AddCompatibility(from, to, types.UnsafeConvert)
}

// IsCompatible returns Exact for identical types, otherwise the registered
// code or NoMatch. Every other predicate is derived from it.
func (m *Manager) IsCompatible(from, to types.Type) types.Code {
	if m.rlock() {
		defer m.mu.RUnlock()
	}
	return m.isCompatible(from, to)
}

// CanPromote reports whether (from, to) is registered exactly as Promote.
func (m *Manager) CanPromote(from, to types.Type) bool {
	return m.IsCompatible(from, to) == types.Promote
}

// CanSafeConvert reports whether (from, to) is registered exactly as SafeConvert.
func (m *Manager) CanSafeConvert(from, to types.Type) bool {
	return m.IsCompatible(from, to) == types.SafeConvert
}

// CanUnsafeConvert reports whether (from, to) is registered exactly as UnsafeConvert.
func (m *Manager) CanUnsafeConvert(from, to types.Type) bool {
	return m.IsCompatible(from, to) == types.UnsafeConvert
}

// Records snapshots the live table contents.
func (m *Manager) Records() []tccmap.Record {
	if m.rlock() {
		defer m.mu.RUnlock()
	}
	return m.tcc.Records()
}

// Stats reports bucket occupancy of the underlying table.
func (m *Manager) Stats() (tccmap.Stats, error) {
	if m.rlock() {
		defer m.mu.RUnlock()
	}
	return m.tcc.Stats()
}

// isCompatible is the lock-free core; callers hold the read side when needed.
func (m *Manager) isCompatible(from, to types.Type) types.Code {
	mustValid(from)
	mustValid(to)
	if from == to {
		return types.Exact
	}
	return m.tcc.Find(types.MakePair(from, to))
}

// rlock takes the read side unless frozen; it returns true when the caller
// must release it.
func (m *Manager) rlock() bool {
	if m.frozen.Load() {
		return false
	}
	m.mu.RLock()
	return true
}

func mustValid(t types.Type) {
	if !t.Valid() {
		panic(fmt.Sprintf("typeconv: invalid type %v", t))
	}
}
