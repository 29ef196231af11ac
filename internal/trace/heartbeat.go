package trace

import (
	"fmt"
	"runtime"
	"sync"
	"time"
)

// Heartbeat emits a KindHeartbeat event every interval so a long stress or
// bench run that stops closing spans can be told apart from a slow one.
// Each beat carries the live goroutine count.
type Heartbeat struct {
	tracer   Tracer
	interval time.Duration
	done     chan struct{}
	exited   chan struct{}
	once     sync.Once
	beats    uint64
}

// StartHeartbeat returns nil when tracing is off or interval is not positive.
func StartHeartbeat(tracer Tracer, interval time.Duration) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{
		tracer:   tracer,
		interval: interval,
		done:     make(chan struct{}),
		exited:   make(chan struct{}),
	}
	go h.loop()
	return h
}

func (h *Heartbeat) loop() {
	defer close(h.exited)

	tick := time.NewTicker(h.interval)
	defer tick.Stop()
	for {
		select {
		case <-h.done:
			return
		case now := <-tick.C:
			h.beats++
			h.tracer.Emit(&Event{
				Time:   now,
				Seq:    NextSeq(),
				Kind:   KindHeartbeat,
				Scope:  ScopeDriver,
				GID:    getGoroutineID(),
				Name:   "heartbeat",
				Detail: fmt.Sprintf("#%d goroutines=%d", h.beats, runtime.NumGoroutine()),
			})
		}
	}
}

// Stop ends the loop and returns how many beats were emitted. It is safe
// to call more than once and on a nil Heartbeat.
func (h *Heartbeat) Stop() uint64 {
	if h == nil {
		return 0
	}
	h.once.Do(func() { close(h.done) })
	<-h.exited
	return h.beats
}
