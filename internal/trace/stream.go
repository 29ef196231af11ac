package trace

import (
	"io"
	"sync"
)

// StreamTracer formats and writes each admitted event as it arrives.
// Write errors are dropped: tracing never fails a command.
type StreamTracer struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer // set only when the tracer owns w
	level  Level
	format Format
}

// NewStreamTracer writes to w without taking ownership of it.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	if format == FormatAuto {
		format = FormatText
	}
	return &StreamTracer{w: w, level: level, format: format}
}

// newOwnedStream closes wc when the tracer is closed.
func newOwnedStream(wc io.WriteCloser, level Level, format Format) *StreamTracer {
	t := NewStreamTracer(wc, level, format)
	t.closer = wc
	return t
}

func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.admits(ev) {
		return
	}
	ev.Seq = NextSeq()
	data := FormatEvent(ev, t.format)

	t.mu.Lock()
	_, _ = t.w.Write(data)
	t.mu.Unlock()
}

// Flush forwards to the writer when it buffers.
func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if f, ok := t.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Close flushes, then closes the writer if the tracer opened it.
func (t *StreamTracer) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closer == nil {
		return nil
	}
	err := t.closer.Close()
	t.closer = nil
	return err
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
