package log

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/tagbridge/tagbridge-go/pkg/address"
)

// Filter selects trace events. Zero-valued fields match everything.
type Filter struct {
	// BridgeID filters by exact bridge instance.
	BridgeID string

	// Direction filters by translation direction.
	Direction *Direction

	// Category filters by outcome.
	Category *Category

	// NodeID filters by exact node ID.
	NodeID string

	// Topic is a topic filter pattern; "+" and "#" wildcards are honoured.
	Topic string

	// Since keeps events at or after this time.
	Since *time.Time

	// Until keeps events before this time.
	Until *time.Time
}

// Matches reports whether event satisfies every criterion of f.
func (f *Filter) Matches(event Event) bool {
	if f.BridgeID != "" && event.BridgeID != f.BridgeID {
		return false
	}
	if f.Direction != nil && event.Direction != *f.Direction {
		return false
	}
	if f.Category != nil && event.Category != *f.Category {
		return false
	}
	if f.NodeID != "" && event.NodeID != f.NodeID {
		return false
	}
	if f.Topic != "" && (event.Topic == "" || !address.Match(f.Topic, event.Topic)) {
		return false
	}
	if f.Since != nil && event.Timestamp.Before(*f.Since) {
		return false
	}
	if f.Until != nil && !event.Timestamp.Before(*f.Until) {
		return false
	}
	return true
}

// Reader streams events from a trace file.
type Reader struct {
	file    *os.File
	decoder *cbor.Decoder
	filter  Filter
}

// NewReader opens a trace file and reads every event.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader opens a trace file and reads events matching filter.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r := NewStreamReader(f, filter)
	r.file = f
	return r, nil
}

// NewStreamReader reads events matching filter from an arbitrary stream,
// e.g. standard input.
func NewStreamReader(src io.Reader, filter Filter) *Reader {
	return &Reader{
		decoder: NewDecoder(src),
		filter:  filter,
	}
}

// Next returns the next matching event, or io.EOF at the end of the trace.
func (r *Reader) Next() (Event, error) {
	for {
		var event Event
		if err := r.decoder.Decode(&event); err != nil {
			if errors.Is(err, io.EOF) {
				return Event{}, io.EOF
			}
			return Event{}, err
		}

		if r.filter.Matches(event) {
			return event, nil
		}
	}
}

// Close closes the underlying file, if the reader opened one.
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	return r.file.Close()
}

// ReadAll returns every event in path matching filter.
func ReadAll(path string, filter Filter) ([]Event, error) {
	r, err := NewFilteredReader(path, filter)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var events []Event
	for {
		event, err := r.Next()
		if errors.Is(err, io.EOF) {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, event)
	}
}
