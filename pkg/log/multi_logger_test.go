package log

import (
	"sync"
	"testing"
)

// recordingLogger records events for testing.
type recordingLogger struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingLogger) Log(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func TestMultiLoggerCallsAll(t *testing.T) {
	first := &recordingLogger{}
	second := &recordingLogger{}

	multi := NewMultiLogger(first, nil, second)
	multi.Log(Event{BridgeID: "bridge-1", Category: CategoryDropped, Reason: ReasonUnmapped})

	for i, rec := range []*recordingLogger{first, second} {
		if len(rec.events) != 1 {
			t.Errorf("logger %d: got %d events, want 1", i, len(rec.events))
			continue
		}
		if rec.events[0].Reason != ReasonUnmapped {
			t.Errorf("logger %d: Reason = %q", i, rec.events[0].Reason)
		}
	}
}

func TestMultiLoggerEmptyList(t *testing.T) {
	NewMultiLogger().Log(Event{})
	NewMultiLogger(nil, nil).Log(Event{})
}
