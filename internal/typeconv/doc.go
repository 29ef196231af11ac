// Package typeconv decides which overload signature a call may bind to.
//
// A Manager owns one compatibility table. The table is filled once while the
// type universe is set up (AddPromotion, AddSafeConversion, ...) and then
// queried from the compiler's hot path:
//
//	m := typeconv.NewManager()
//	m.AddPromotion(i32, i64)
//	m.AddSafeConversion(i32, f64)
//	m.Freeze()
//
//	sel := m.SelectOverload([]types.Type{i32}, [][]types.Type{{i64}, {f64}}, false)
//	if idx, ok := sel.Unique(); ok { ... }
//
// # Concurrency
//
// Before Freeze every mutation takes the write side of an RWMutex and every
// query the read side, so registration may be interleaved with lookups.
// After Freeze the table is immutable: queries take no lock and registration
// panics.
//
// # Ranking
//
// Candidates are scored with rating.Rating. Fewer unsafe conversions beats any
// number of safe conversions or promotions; then fewer safe conversions; then
// fewer promotions. Ties are reported, never broken.
package typeconv
