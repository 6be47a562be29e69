package bridge

import (
	"context"

	"github.com/tagbridge/tagbridge-go/pkg/payload"
)

// Message is a bus-side unit: a payload received on a topic.
type Message struct {
	Topic   string
	Payload string
}

// DataChangeEvent reports a new value of a data point.
type DataChangeEvent struct {
	NodeID string
	Value  payload.Value
}

// MessageHandler receives bus messages.
type MessageHandler func(topic, payload string)

// DataChangeHandler receives data point changes.
type DataChangeHandler func(nodeID string, value payload.Value)

// DeviceIDFunc returns the device identifier substituted into the outbound
// topic template for event.
type DeviceIDFunc func(event DataChangeEvent) string

// StaticDeviceID returns a DeviceIDFunc that ignores the event.
func StaticDeviceID(id string) DeviceIDFunc {
	return func(DataChangeEvent) string { return id }
}

// Bus is the publish/subscribe capability. Implementations must be safe for
// concurrent use.
type Bus interface {
	// Connect establishes the broker session.
	Connect(ctx context.Context) error

	// Subscribe registers a topic filter. Matching messages are delivered to
	// the handler set with OnMessage.
	Subscribe(ctx context.Context, pattern string) error

	// Publish sends payload on topic.
	Publish(ctx context.Context, topic, payload string) error

	// OnMessage sets the handler for incoming messages. It is called before
	// Connect.
	OnMessage(handler MessageHandler)

	// Disconnect closes the session.
	Disconnect(ctx context.Context) error
}

// DataEndpoint is the tag-addressed data point capability. Implementations
// must be safe for concurrent use.
type DataEndpoint interface {
	// Connect opens the session.
	Connect(ctx context.Context) error

	// NamespaceArray returns the namespace URIs indexed by namespace index.
	NamespaceArray(ctx context.Context) ([]string, error)

	// Node returns a handle for nodeID.
	Node(nodeID string) (NodeHandle, error)

	// SubscribeDataChange calls handler whenever the value of nodeID changes.
	SubscribeDataChange(ctx context.Context, nodeID string, handler DataChangeHandler) (Subscription, error)

	// Disconnect closes the session.
	Disconnect(ctx context.Context) error
}

// NodeHandle addresses a single data point.
type NodeHandle interface {
	ID() string
	Value(ctx context.Context) (payload.Value, error)
	SetValue(ctx context.Context, value payload.Value) error
}

// Subscription is an active data change subscription.
type Subscription interface {
	Unsubscribe(ctx context.Context) error
}

// Publisher is the part of Bus the router needs.
type Publisher interface {
	Publish(ctx context.Context, topic, payload string) error
}

// NodeResolver is the part of DataEndpoint the router needs.
type NodeResolver interface {
	Node(nodeID string) (NodeHandle, error)
}

// Compile-time checks.
var (
	_ Publisher    = Bus(nil)
	_ NodeResolver = DataEndpoint(nil)
)
