package log

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

var (
	traceEncMode cbor.EncMode
	traceDecMode cbor.DecMode
)

func init() {
	var err error
	if traceEncMode, err = traceEncOptions().EncMode(); err != nil {
		panic(fmt.Sprintf("trace: cbor encoder mode: %v", err))
	}
	if traceDecMode, err = traceDecOptions().DecMode(); err != nil {
		panic(fmt.Sprintf("trace: cbor decoder mode: %v", err))
	}
}

// traceEncOptions keeps records small and stable: canonical key order,
// nanosecond timestamps, and the shortest float that preserves the routed
// value. Infinities from overflowing payloads encode as half floats.
func traceEncOptions() cbor.EncOptions {
	return cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
		ShortestFloat: cbor.ShortestFloat16,
		NaNConvert:    cbor.NaNConvert7e00,
		InfConvert:    cbor.InfConvertFloat16,
	}
}

// traceDecOptions reads back whatever a FileLogger wrote. Bus payloads are
// arbitrary bytes, so text that is not valid UTF-8 is accepted as is.
func traceDecOptions() cbor.DecOptions {
	return cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
		UTF8:              cbor.UTF8DecodeInvalid,
		MaxNestedLevels:   16,
	}
}

// EncodeEvent encodes a trace event.
func EncodeEvent(event Event) ([]byte, error) {
	return traceEncMode.Marshal(event)
}

// DecodeEvent decodes a single trace event.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := traceDecMode.Unmarshal(data, &event); err != nil {
		return Event{}, err
	}
	return event, nil
}

// NewEncoder returns an encoder that appends trace events to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return traceEncMode.NewEncoder(w)
}

// NewDecoder returns a decoder that streams trace events from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return traceDecMode.NewDecoder(r)
}
