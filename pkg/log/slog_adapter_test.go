package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureSlog(t *testing.T, level slog.Level) (*SlogAdapter, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level})
	return NewSlogAdapter(slog.New(handler)), &buf
}

func TestSlogAdapterLogsRoutedEvent(t *testing.T) {
	adapter, buf := captureSlog(t, slog.LevelDebug)

	adapter.Log(Event{
		Timestamp: time.Now(),
		BridgeID:  "bridge-1",
		Direction: DirectionOutbound,
		Category:  CategoryRouted,
		Topic:     "device1/1/status",
		NodeID:    "ns=2;s=device1_status",
		Payload:   "42.5",
		Value:     42.5,
	})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "trace", entry["msg"])
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, "bridge-1", entry["bridge_id"])
	assert.Equal(t, "OUT", entry["direction"])
	assert.Equal(t, "ROUTED", entry["category"])
	assert.Equal(t, "device1/1/status", entry["topic"])
	assert.Equal(t, "ns=2;s=device1_status", entry["node_id"])
	assert.Equal(t, "42.5", entry["payload"])
	assert.Equal(t, "42.5", entry["value"])
	assert.NotContains(t, entry, "reason")
}

func TestSlogAdapterLogsStateChange(t *testing.T) {
	adapter, buf := captureSlog(t, slog.LevelDebug)

	adapter.Log(Event{
		Direction: DirectionNone,
		Category:  CategoryState,
		StateChange: &StateChangeEvent{
			Entity:   StateEntitySubscription,
			OldState: "",
			NewState: "failed",
			Reason:   "node not found",
		},
	})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "SUBSCRIPTION", entry["entity"])
	assert.Equal(t, "failed", entry["new_state"])
	assert.Equal(t, "node not found", entry["state_reason"])
}

func TestSlogAdapterRespectsLevel(t *testing.T) {
	adapter, buf := captureSlog(t, slog.LevelInfo)
	adapter.Log(Event{Category: CategoryRouted})
	assert.Empty(t, buf.String(), "debug events must be filtered at info level")
}
