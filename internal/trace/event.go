package trace

import "time"

// Kind tells spans, instants and heartbeats apart.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat // periodic liveness signal
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
	KindHeartbeat: "heartbeat",
}

func (k Kind) String() string {
	if k != 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event. Smaller is coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // a whole CLI command
	ScopePass                    // load, build, propagate, stress
	ScopeTable                   // one type table or one stress worker
	ScopeRule                    // single rules and derived pairs
)

var scopeNames = [...]string{
	ScopeDriver: "driver",
	ScopePass:   "pass",
	ScopeTable:  "table",
	ScopeRule:   "rule",
}

func (s Scope) String() string {
	if s != 0 && int(s) < len(scopeNames) {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is one trace record.
type Event struct {
	Time     time.Time
	Seq      uint64 // process-wide, assigned when stored or written
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for a root span
	GID      uint64 // goroutine that emitted the event
	Name     string // "universe:numeric", "propagate", "worker 3"
	Detail   string
	Extra    map[string]string
}
