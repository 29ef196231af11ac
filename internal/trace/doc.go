// Package trace is the event log of the typeconv tools.
//
// It records where time goes while a type universe is loaded, while the cast
// graph is propagated and while batches of overload queries run. Individual
// SelectOverload calls are never traced; they are too hot.
//
// # Usage
//
//	typeconv stress --trace=- --trace-level=detail
//
// # Tracers
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: immediate write to a writer (file/stderr)
//   - RingTracer: circular buffer, dumped on failure
//   - MultiTracer: fan-out to several tracers
//
// # Levels and scopes
//
// LevelPhase emits ScopeDriver (CLI commands) and ScopePass (load, propagate,
// register, verify). LevelDetail adds ScopeTable (per type table, per worker).
// LevelDebug adds ScopeRule (individual rules and derived pairs).
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "propagate", 0)
//	defer span.End("")
package trace
