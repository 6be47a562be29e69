package log

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func routedEvent(bridgeID string) Event {
	return Event{
		Timestamp: time.Now(),
		BridgeID:  bridgeID,
		Direction: DirectionInbound,
		Category:  CategoryRouted,
		Topic:     "device1/1/command",
		NodeID:    "ns=2;s=device1_command",
		Payload:   "on",
		Value:     "on",
	}
}

func decodeAll(t *testing.T, path string) []Event {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read trace file: %v", err)
	}
	decoder := NewDecoder(bytes.NewReader(data))
	var events []Event
	for {
		var event Event
		if err := decoder.Decode(&event); err != nil {
			break
		}
		events = append(events, event)
	}
	return events
}

func TestFileLoggerCreatesFileAndDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bridge.btrace")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	defer logger.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("trace file was not created")
	}
	if logger.Path() != path {
		t.Errorf("Path() = %q, want %q", logger.Path(), path)
	}
}

func TestFileLoggerWritesCBOR(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.btrace")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	logger.Log(routedEvent("bridge-123"))
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	events := decodeAll(t, path)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].BridgeID != "bridge-123" {
		t.Errorf("BridgeID = %q, want bridge-123", events[0].BridgeID)
	}
	if events[0].Value != "on" {
		t.Errorf("Value = %v, want on", events[0].Value)
	}
}

func TestFileLoggerAppendsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.btrace")

	for _, id := range []string{"first", "second"} {
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("NewFileLogger failed: %v", err)
		}
		logger.Log(routedEvent(id))
		logger.Close()
	}

	events := decodeAll(t, path)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].BridgeID != "first" || events[1].BridgeID != "second" {
		t.Errorf("events out of order: %q, %q", events[0].BridgeID, events[1].BridgeID)
	}
}

func TestFileLoggerConcurrentWriters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.btrace")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	const writers = 8
	const perWriter = 50

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				logger.Log(routedEvent("concurrent"))
			}
		}()
	}
	wg.Wait()

	written, failed := logger.Stats()
	if written != writers*perWriter || failed != 0 {
		t.Errorf("Stats() = %d, %d; want %d, 0", written, failed, writers*perWriter)
	}
	logger.Close()

	if got := len(decodeAll(t, path)); got != writers*perWriter {
		t.Errorf("decoded %d events, want %d", got, writers*perWriter)
	}
}

func TestFileLoggerCloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.btrace")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	logger.Log(routedEvent("a"))

	if err := logger.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}

	// Ignored after close.
	logger.Log(routedEvent("b"))
	if written, _ := logger.Stats(); written != 1 {
		t.Errorf("written = %d after close, want 1", written)
	}
}

func TestNewFileLoggerFailsOnDirectory(t *testing.T) {
	if _, err := NewFileLogger(t.TempDir()); err == nil {
		t.Error("expected error when path is a directory")
	}
}
