// Package diag defines the diagnostic records produced while loading type
// universes and resolving calls.
//
// The engine itself never fails: it answers with in-band sentinels. Callers
// that want to surface "no matching overload" or "ambiguous overload" to a
// user turn those answers into Diagnostics and collect them in a Bag.
//
// Diagnostic carries a Severity, a Code (stable numeric id with a string
// form), a short Message, the Subject it is about (a call name, a table path,
// a rule position) and optional Notes.
package diag
