package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/tagbridge/tagbridge-go/pkg/log"
)

// Stats holds aggregate statistics about a trace file.
type Stats struct {
	TotalEvents       int
	EventsByCategory  map[log.Category]int
	EventsByDirection map[log.Direction]int
	DropReasons       map[string]int
	Bridges           map[string]*BridgeStats
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// BridgeStats holds statistics for a single bridge instance.
type BridgeStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	Routed    int
	Failed    int
}

// RunStats analyzes the trace file and prints statistics.
func RunStats(path string, filter log.Filter, w io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByCategory:  make(map[log.Category]int),
		EventsByDirection: make(map[log.Direction]int),
		DropReasons:       make(map[string]int),
		Bridges:           make(map[string]*BridgeStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}

	printStats(w, stats)
	return nil
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByCategory[event.Category]++
	if event.Category != log.CategoryState {
		s.EventsByDirection[event.Direction]++
	}
	if event.Category == log.CategoryDropped {
		s.DropReasons[dropReason(event.Reason)]++
	}

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	b, ok := s.Bridges[event.BridgeID]
	if !ok {
		b = &BridgeStats{FirstSeen: event.Timestamp, LastSeen: event.Timestamp}
		s.Bridges[event.BridgeID] = b
	}
	b.Events++
	if event.Timestamp.After(b.LastSeen) {
		b.LastSeen = event.Timestamp
	}
	switch event.Category {
	case log.CategoryRouted:
		b.Routed++
	case log.CategoryError:
		b.Failed++
	}
}

// dropReason strips the detail after the reason code, e.g.
// "shutdown: 3 queued events" counts as "shutdown".
func dropReason(reason string) string {
	if reason == "" {
		return "unknown"
	}
	code, _, _ := strings.Cut(reason, ":")
	return code
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Tag Bridge Trace Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryRouted, log.CategoryDropped, log.CategoryError, log.CategoryState} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Direction:")
	for _, dir := range []log.Direction{log.DirectionInbound, log.DirectionOutbound} {
		if count := stats.EventsByDirection[dir]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", dir.String()+":", count)
		}
	}

	if len(stats.DropReasons) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Drop Reasons:")
		reasons := make([]string, 0, len(stats.DropReasons))
		for r := range stats.DropReasons {
			reasons = append(reasons, r)
		}
		sort.Strings(reasons)
		for _, r := range reasons {
			fmt.Fprintf(w, "  %-16s %d\n", r+":", stats.DropReasons[r])
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Bridges: %d\n", len(stats.Bridges))
	if len(stats.Bridges) == 0 {
		return
	}

	type bridgeInfo struct {
		id    string
		stats *BridgeStats
	}
	bridges := make([]bridgeInfo, 0, len(stats.Bridges))
	for id, bs := range stats.Bridges {
		bridges = append(bridges, bridgeInfo{id, bs})
	}
	sort.Slice(bridges, func(i, j int) bool {
		return bridges[i].stats.FirstSeen.Before(bridges[j].stats.FirstSeen)
	})

	fmt.Fprintln(w)
	for _, b := range bridges {
		duration := b.stats.LastSeen.Sub(b.stats.FirstSeen).Round(time.Millisecond)
		fmt.Fprintf(w, "  [%s] %d events, %d routed, %d failed, duration %s\n",
			shortenID(b.id), b.stats.Events, b.stats.Routed, b.stats.Failed, duration)
	}
}
