// Package commands implements the tagbridge-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tagbridge/tagbridge-go/pkg/log"
)

// FilterFlags holds the raw filter flags shared by view, export and stats.
type FilterFlags struct {
	BridgeID  string
	Direction string
	Category  string
	Node      string
	Topic     string
	Since     string
	Until     string
}

// Build converts the flags into a log.Filter.
func (f FilterFlags) Build() (log.Filter, error) {
	filter := log.Filter{
		BridgeID: f.BridgeID,
		NodeID:   f.Node,
		Topic:    f.Topic,
	}

	if f.Direction != "" {
		d, err := ParseDirectionFlag(f.Direction)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Direction = &d
	}
	if f.Category != "" {
		c, err := ParseCategoryFlag(f.Category)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Category = &c
	}
	if f.Since != "" {
		t, err := time.Parse(time.RFC3339, f.Since)
		if err != nil {
			return log.Filter{}, fmt.Errorf("invalid since time: %w", err)
		}
		filter.Since = &t
	}
	if f.Until != "" {
		t, err := time.Parse(time.RFC3339, f.Until)
		if err != nil {
			return log.Filter{}, fmt.Errorf("invalid until time: %w", err)
		}
		filter.Until = &t
	}
	return filter, nil
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [bridge:id] DIRECTION CATEGORY
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	fmt.Fprintf(w, "%s [bridge:%s] %-3s %s\n", ts, shortenID(event.BridgeID), event.Direction, event.Category)

	if event.StateChange != nil {
		formatStateChangeDetails(w, event.StateChange)
		fmt.Fprintln(w)
		return
	}

	if event.Topic != "" {
		fmt.Fprintf(w, "  Topic: %s\n", event.Topic)
	}
	if event.NodeID != "" {
		fmt.Fprintf(w, "  Node: %s\n", event.NodeID)
	}
	if event.Payload != "" {
		fmt.Fprintf(w, "  Payload: %q\n", event.Payload)
	}
	if event.Value != nil {
		fmt.Fprintf(w, "  Value: %v\n", event.Value)
	}
	if event.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", event.Reason)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenID returns the first 8 characters of a bridge ID.
func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	fmt.Fprintf(w, "  Entity: %s\n", sc.Entity)
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

// ParseDirectionFlag parses a direction string from command-line flag (case-insensitive).
func ParseDirectionFlag(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in", "inbound":
		return log.DirectionInbound, nil
	case "out", "outbound":
		return log.DirectionOutbound, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in or out)", s)
	}
}

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "routed":
		return log.CategoryRouted, nil
	case "dropped":
		return log.CategoryDropped, nil
	case "error":
		return log.CategoryError, nil
	case "state":
		return log.CategoryState, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be routed, dropped, error, or state)", s)
	}
}

// RunView executes the view command.
func RunView(path string, filter log.Filter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}

	return nil
}
