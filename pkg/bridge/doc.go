// Package bridge routes events between a publish/subscribe bus and a
// tag-addressed data endpoint.
//
// The package consumes two capabilities and implements neither transport:
//
//   - [Bus]: connect, subscribe to topic filters, publish, deliver incoming
//     messages to a handler, disconnect.
//   - [DataEndpoint]: connect, report the namespace array, look up nodes,
//     read and write node values, subscribe to value changes, disconnect.
//
// # Router
//
// [Router] is a stateless dispatcher built around an immutable
// [address.Table]:
//
//	bus message  -> ResolveInbound  -> payload.Decode -> NodeHandle.SetValue
//	node change  -> ResolveOutbound -> payload.Encode -> Bus.Publish
//
// Events without a mapping are dropped with a diagnostic. A failed write or
// publish drops that one event; the router keeps running. HandleMessage and
// HandleDataChange may be called concurrently.
//
// Router.Run consumes two channels, one per direction, in independent
// goroutines. When the context is cancelled, in-flight dispatches complete
// before Run returns.
//
// # Controller
//
// [Controller] owns both capability handles for the lifetime of a bridge:
//
//	ctrl, err := bridge.NewController(bus, endpoint, table, bridge.DefaultControllerConfig())
//	if err != nil { ... }
//	err = ctrl.Run(ctx) // blocks until ctx is cancelled
//
// Run connects the bus and subscribes every inbound pattern, connects the
// endpoint, checks the configured namespace index, subscribes each outbound
// node (a failing node is skipped), then routes until ctx is cancelled.
// Everything acquired is released in reverse order on every exit path.
//
// # Device Identifier
//
// Outbound topics are rendered from templates containing {device_id}. The
// identifier comes from a [DeviceIDFunc] evaluated per event;
// [StaticDeviceID] returns the same identifier for every event.
package bridge
