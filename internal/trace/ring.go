package trace

import (
	"io"
	"sync"
)

// RingTracer retains the most recent events so a failing command can
// show what led up to the failure without paying for a stream.
type RingTracer struct {
	mu    sync.RWMutex
	buf   []Event
	total uint64 // events ever stored; buf[total%len] is the next slot
	level Level
}

// NewRingTracer keeps up to capacity events; non-positive means 4096.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = 4096
	}
	return &RingTracer{buf: make([]Event, capacity), level: level}
}

// Emit stores ev, overwriting the oldest event once the ring is full.
// Heartbeats are kept at any level.
func (t *RingTracer) Emit(ev *Event) {
	if !t.level.admits(ev) {
		return
	}
	stored := *ev
	stored.Seq = NextSeq()

	t.mu.Lock()
	t.buf[t.total%uint64(len(t.buf))] = stored
	t.total++
	t.mu.Unlock()
}

// Len is the number of events currently held.
func (t *RingTracer) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.held()
}

// Dropped counts events that were overwritten.
func (t *RingTracer) Dropped() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.total - uint64(t.held())
}

func (t *RingTracer) held() int {
	if t.total < uint64(len(t.buf)) {
		return int(t.total)
	}
	return len(t.buf)
}

// Snapshot copies the held events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	return t.tail(0)
}

// tail returns the newest n events in order; n <= 0 means all.
func (t *RingTracer) tail(n int) []Event {
	t.mu.RLock()
	defer t.mu.RUnlock()

	held := t.held()
	if n <= 0 || n > held {
		n = held
	}
	out := make([]Event, n)
	size := uint64(len(t.buf))
	first := t.total - uint64(n)
	for i := range out {
		out[i] = t.buf[(first+uint64(i))%size]
	}
	return out
}

// Dump writes every held event.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	return writeEvents(w, t.tail(0), format)
}

// DumpTail writes only the newest n events.
func (t *RingTracer) DumpTail(w io.Writer, format Format, n int) error {
	return writeEvents(w, t.tail(n), format)
}

func writeEvents(w io.Writer, events []Event, format Format) error {
	for i := range events {
		if _, err := w.Write(FormatEvent(&events[i], format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error { return nil }
func (t *RingTracer) Close() error { return nil }

func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
