package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota // no tracing
	LevelError               // nothing streams; the ring is dumped on failure
	LevelPhase               // commands and passes
	LevelDetail              // plus tables and stress workers
	LevelDebug               // plus single rules and derived pairs
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

// widest is the finest scope each level lets through; 0 admits nothing.
var widest = [...]Scope{
	LevelOff:    0,
	LevelError:  0,
	LevelPhase:  ScopePass,
	LevelDetail: ScopeTable,
	LevelDebug:  ScopeRule,
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts the names printed by String, in any case.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit reports whether events of scope pass at this level.
func (l Level) ShouldEmit(scope Scope) bool {
	if int(l) >= len(widest) {
		return false
	}
	return scope != 0 && scope <= widest[l]
}

// admits is ShouldEmit for a whole event. Heartbeats pass at any level so
// a stalled run still shows signs of life.
func (l Level) admits(ev *Event) bool {
	return ev.Kind == KindHeartbeat || l.ShouldEmit(ev.Scope)
}
