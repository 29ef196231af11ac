package ui

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"typeconv/internal/stress"
)

func TestApplyEventTracksWorkers(t *testing.T) {
	ch := make(chan stress.Event)
	m := NewProgressModel("stress", 2, ch).(*progressModel)

	m.applyEvent(stress.Event{Worker: 0, Status: stress.StatusWorking, Done: 50, Total: 100})
	if got := m.fraction(); got != 0.25 {
		t.Fatalf("fraction = %v, want 0.25", got)
	}
	m.applyEvent(stress.Event{Worker: 1, Status: stress.StatusDone, Done: 100, Total: 100})
	if got := m.fraction(); got != 0.75 {
		t.Fatalf("fraction = %v, want 0.75", got)
	}
	m.applyEvent(stress.Event{Worker: 7, Status: stress.StatusDone})

	view := m.View()
	if !strings.Contains(view, "worker 0") || !strings.Contains(view, "50/100") {
		t.Fatalf("view missing worker row:\n%s", view)
	}
}

func TestDoneMessageQuits(t *testing.T) {
	ch := make(chan stress.Event)
	close(ch)
	m := NewProgressModel("stress", 1, ch).(*progressModel)
	if msg := m.listenForEvent()(); msg != (doneMsg{}) {
		t.Fatalf("closed channel produced %T", msg)
	}
	if _, cmd := m.Update(doneMsg{}); cmd == nil || !m.done {
		t.Fatalf("done message did not quit")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("worker 12345", 8); got != "worke..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("abc", 10); got != "abc" {
		t.Fatalf("truncate short = %q", got)
	}
	for _, w := range []int{2, 4, 8, 11} {
		if got := runewidth.StringWidth(truncate("worker 12345", w)); got != w {
			t.Fatalf("truncate to %d is %d columns wide", w, got)
		}
	}
}
