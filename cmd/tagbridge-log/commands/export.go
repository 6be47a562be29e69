package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/tagbridge/tagbridge-go/pkg/log"
)

// RunExport exports the trace file to the specified format.
func RunExport(path string, filter log.Filter, format, output string) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}
}

// jsonEvent is the JSONL export shape.
type jsonEvent struct {
	Timestamp string `json:"timestamp"`
	BridgeID  string `json:"bridge_id"`
	Direction string `json:"direction"`
	Category  string `json:"category"`
	Topic     string `json:"topic,omitempty"`
	NodeID    string `json:"node_id,omitempty"`
	Payload   string `json:"payload,omitempty"`
	Value     any    `json:"value,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Entity    string `json:"entity,omitempty"`
	OldState  string `json:"old_state,omitempty"`
	NewState  string `json:"new_state,omitempty"`
}

func toJSONEvent(event log.Event) jsonEvent {
	je := jsonEvent{
		Timestamp: event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
		BridgeID:  event.BridgeID,
		Direction: event.Direction.String(),
		Category:  event.Category.String(),
		Topic:     event.Topic,
		NodeID:    event.NodeID,
		Payload:   event.Payload,
		Value:     event.Value,
		Reason:    event.Reason,
	}
	if sc := event.StateChange; sc != nil {
		je.Entity = sc.Entity.String()
		je.OldState = sc.OldState
		je.NewState = sc.NewState
		if je.Reason == "" {
			je.Reason = sc.Reason
		}
	}
	return je
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(toJSONEvent(event)); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "bridge_id", "direction", "category", "topic", "node_id", "payload", "reason"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		je := toJSONEvent(event)
		row := []string{je.Timestamp, je.BridgeID, je.Direction, je.Category, je.Topic, je.NodeID, je.Payload, je.Reason}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}
