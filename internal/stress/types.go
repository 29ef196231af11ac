package stress

import "time"

// Status captures worker state.
type Status string

const (
	// StatusQueued indicates the worker has not started.
	StatusQueued Status = "queued"
	// StatusWorking indicates the worker is replaying queries.
	StatusWorking Status = "working"
	// StatusDone indicates the worker finished its share.
	StatusDone Status = "done"
	// StatusError indicates the worker saw a mismatch or was cancelled.
	StatusError Status = "error"
)

// Event reports progress for one worker.
type Event struct {
	Worker     int
	Status     Status
	Done       uint64
	Total      uint64
	Mismatches uint64
	Err        error
	Elapsed    time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}
