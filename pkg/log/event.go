package log

import "time"

// Event is a single routing trace record.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// BridgeID identifies the bridge instance (UUID) that produced the event.
	BridgeID string `cbor:"2,keyasint"`

	// Direction of translation.
	Direction Direction `cbor:"3,keyasint"`

	// Category classifies the outcome.
	Category Category `cbor:"4,keyasint"`

	// Topic is the bus topic received on or published to.
	Topic string `cbor:"5,keyasint,omitempty"`

	// NodeID is the data point written or reporting a change.
	NodeID string `cbor:"6,keyasint,omitempty"`

	// Payload is the bus-side text.
	Payload string `cbor:"7,keyasint,omitempty"`

	// Value is the node-side value, float64 or string.
	Value any `cbor:"8,keyasint,omitempty"`

	// Reason explains a drop or error, one of the Reason constants or an
	// error message.
	Reason string `cbor:"9,keyasint,omitempty"`

	// StateChange is set for CategoryState events.
	StateChange *StateChangeEvent `cbor:"10,keyasint,omitempty"`
}

// Direction indicates which way an event is translated.
type Direction uint8

const (
	// DirectionInbound is bus message -> data point write.
	DirectionInbound Direction = 0
	// DirectionOutbound is data point change -> bus publish.
	DirectionOutbound Direction = 1
	// DirectionNone is used for lifecycle events.
	DirectionNone Direction = 2
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionInbound:
		return "IN"
	case DirectionOutbound:
		return "OUT"
	case DirectionNone:
		return "-"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event.
type Category uint8

const (
	// CategoryRouted indicates the event reached the opposite side.
	CategoryRouted Category = 0
	// CategoryDropped indicates the event had no mapping or was discarded.
	CategoryDropped Category = 1
	// CategoryError indicates the write or publish failed.
	CategoryError Category = 2
	// CategoryState indicates a lifecycle change.
	CategoryState Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryRouted:
		return "ROUTED"
	case CategoryDropped:
		return "DROPPED"
	case CategoryError:
		return "ERROR"
	case CategoryState:
		return "STATE"
	default:
		return "UNKNOWN"
	}
}

// Drop and error reasons.
const (
	ReasonUnmapped      = "unmapped"
	ReasonWriteFailed   = "write_failed"
	ReasonPublishFailed = "publish_failed"
	ReasonShutdown      = "shutdown"
	ReasonNoDeviceID    = "no_device_id"
)

// StateChangeEvent captures controller and capability lifecycle changes.
type StateChangeEvent struct {
	// Entity being changed.
	Entity StateEntity `cbor:"1,keyasint"`

	// OldState is the previous state (may be empty).
	OldState string `cbor:"2,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"3,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"4,keyasint,omitempty"`
}

// StateEntity indicates what changed state.
type StateEntity uint8

const (
	// StateEntityBridge is the controller itself.
	StateEntityBridge StateEntity = 0
	// StateEntityBus is the bus connection.
	StateEntityBus StateEntity = 1
	// StateEntityEndpoint is the data endpoint connection.
	StateEntityEndpoint StateEntity = 2
	// StateEntitySubscription is a single node subscription.
	StateEntitySubscription StateEntity = 3
)

// String returns the state entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntityBridge:
		return "BRIDGE"
	case StateEntityBus:
		return "BUS"
	case StateEntityEndpoint:
		return "ENDPOINT"
	case StateEntitySubscription:
		return "SUBSCRIPTION"
	default:
		return "UNKNOWN"
	}
}
