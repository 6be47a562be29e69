package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tagbridge/tagbridge-go/pkg/address"
	"github.com/tagbridge/tagbridge-go/pkg/log"
	"github.com/tagbridge/tagbridge-go/pkg/payload"
)

// RouterConfig configures a Router. Zero fields get defaults.
type RouterConfig struct {
	// DeviceID supplies the {device_id} value for outbound topics.
	// Defaults to StaticDeviceID("1").
	DeviceID DeviceIDFunc

	// BridgeID is stamped on trace events.
	BridgeID string

	// Logger receives operational logs. Defaults to slog.Default().
	Logger *slog.Logger

	// Trace receives one event per routing decision. Defaults to NoopLogger.
	Trace log.Logger

	// Metrics counts routing outcomes. Optional.
	Metrics *Metrics
}

// DefaultDeviceID is the device identifier used when none is configured.
const DefaultDeviceID = "1"

// Router dispatches bus messages to data points and data point changes to
// the bus. It holds no mutable state and is safe for concurrent use.
type Router struct {
	table    *address.Table
	bus      Publisher
	nodes    NodeResolver
	deviceID DeviceIDFunc
	bridgeID string
	logger   *slog.Logger
	trace    log.Logger
	metrics  *Metrics
}

// NewRouter creates a router over table that publishes to bus and writes
// through nodes.
func NewRouter(table *address.Table, bus Publisher, nodes NodeResolver, config RouterConfig) (*Router, error) {
	if table == nil {
		return nil, fmt.Errorf("%w: address table is required", ErrInvalidConfig)
	}
	if bus == nil || nodes == nil {
		return nil, fmt.Errorf("%w: bus and data endpoint are required", ErrInvalidConfig)
	}

	r := &Router{
		table:    table,
		bus:      bus,
		nodes:    nodes,
		deviceID: config.DeviceID,
		bridgeID: config.BridgeID,
		logger:   config.Logger,
		trace:    config.Trace,
		metrics:  config.Metrics,
	}
	if r.deviceID == nil {
		r.deviceID = StaticDeviceID(DefaultDeviceID)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.trace == nil {
		r.trace = log.NoopLogger{}
	}
	return r, nil
}

// HandleDataChange forwards a data point change to the bus. It publishes
// exactly once for a mapped node and never for an unmapped one.
func (r *Router) HandleDataChange(ctx context.Context, event DataChangeEvent) (err error) {
	defer r.recoverDispatch(&err, log.Event{
		Direction: log.DirectionOutbound,
		NodeID:    event.NodeID,
		Value:     event.Value.Native(),
	})

	template, ok := r.table.ResolveOutbound(event.NodeID)
	if !ok {
		r.logger.Warn("no topic mapped for node", "node_id", event.NodeID, "value", event.Value)
		r.record(log.Event{
			Direction: log.DirectionOutbound,
			Category:  log.CategoryDropped,
			NodeID:    event.NodeID,
			Value:     event.Value.Native(),
			Reason:    log.ReasonUnmapped,
		})
		return fmt.Errorf("%w: node %s", ErrUnmappedAddress, event.NodeID)
	}

	deviceID := r.deviceID(event)
	if deviceID == "" {
		r.logger.Warn("no device identifier for node", "node_id", event.NodeID)
		r.record(log.Event{
			Direction: log.DirectionOutbound,
			Category:  log.CategoryDropped,
			NodeID:    event.NodeID,
			Value:     event.Value.Native(),
			Reason:    log.ReasonNoDeviceID,
		})
		return fmt.Errorf("%w: node %s", ErrNoDeviceID, event.NodeID)
	}

	topic := address.RenderTopic(template, deviceID)
	body := payload.Encode(event.Value)

	if err := r.bus.Publish(ctx, topic, body); err != nil {
		r.logger.Error("publish failed", "topic", topic, "node_id", event.NodeID, "error", err)
		r.record(log.Event{
			Direction: log.DirectionOutbound,
			Category:  log.CategoryError,
			NodeID:    event.NodeID,
			Topic:     topic,
			Payload:   body,
			Value:     event.Value.Native(),
			Reason:    log.ReasonPublishFailed + ": " + err.Error(),
		})
		return fmt.Errorf("%w: publish %s: %w", ErrEndpointWrite, topic, err)
	}

	r.logger.Debug("published data change", "node_id", event.NodeID, "topic", topic, "payload", body)
	r.record(log.Event{
		Direction: log.DirectionOutbound,
		Category:  log.CategoryRouted,
		NodeID:    event.NodeID,
		Topic:     topic,
		Payload:   body,
		Value:     event.Value.Native(),
	})
	return nil
}

// HandleMessage forwards a bus message to the data point mapped from its
// topic. It writes exactly once for a matching topic and never otherwise.
func (r *Router) HandleMessage(ctx context.Context, msg Message) (err error) {
	defer r.recoverDispatch(&err, log.Event{
		Direction: log.DirectionInbound,
		Topic:     msg.Topic,
		Payload:   msg.Payload,
	})

	nodeID, ok := r.table.ResolveInbound(msg.Topic)
	if !ok {
		r.logger.Warn("no node mapped for topic", "topic", msg.Topic)
		r.record(log.Event{
			Direction: log.DirectionInbound,
			Category:  log.CategoryDropped,
			Topic:     msg.Topic,
			Payload:   msg.Payload,
			Reason:    log.ReasonUnmapped,
		})
		return fmt.Errorf("%w: topic %s", ErrUnmappedAddress, msg.Topic)
	}

	value := payload.Decode(msg.Payload)

	if err := r.write(ctx, nodeID, value); err != nil {
		r.logger.Error("write failed", "node_id", nodeID, "topic", msg.Topic, "value", value, "error", err)
		r.record(log.Event{
			Direction: log.DirectionInbound,
			Category:  log.CategoryError,
			Topic:     msg.Topic,
			NodeID:    nodeID,
			Payload:   msg.Payload,
			Value:     value.Native(),
			Reason:    log.ReasonWriteFailed + ": " + err.Error(),
		})
		return fmt.Errorf("%w: node %s: %w", ErrEndpointWrite, nodeID, err)
	}

	r.logger.Debug("wrote message to node", "topic", msg.Topic, "node_id", nodeID, "value", value)
	r.record(log.Event{
		Direction: log.DirectionInbound,
		Category:  log.CategoryRouted,
		Topic:     msg.Topic,
		NodeID:    nodeID,
		Payload:   msg.Payload,
		Value:     value.Native(),
	})
	return nil
}

func (r *Router) write(ctx context.Context, nodeID string, value payload.Value) error {
	node, err := r.nodes.Node(nodeID)
	if err != nil {
		return err
	}
	return node.SetValue(ctx, value)
}

// Run dispatches messages and changes until ctx is cancelled or both
// channels are closed. Each direction runs in its own goroutine so a slow
// write never delays a publish. Dispatches in progress when ctx is cancelled
// run to completion; events still queued are discarded.
func (r *Router) Run(ctx context.Context, messages <-chan Message, changes <-chan DataChangeEvent) error {
	var g errgroup.Group

	g.Go(func() error {
		dispatchLoop(ctx, r, messages, log.DirectionInbound, r.HandleMessage)
		return nil
	})
	g.Go(func() error {
		dispatchLoop(ctx, r, changes, log.DirectionOutbound, r.HandleDataChange)
		return nil
	})

	return g.Wait()
}

func dispatchLoop[T any](ctx context.Context, r *Router, queue <-chan T, dir log.Direction, handle func(context.Context, T) error) {
	if queue == nil {
		return
	}

	// In-flight dispatches must not observe the shutdown.
	dispatchCtx := context.WithoutCancel(ctx)

	for {
		if ctx.Err() != nil {
			r.reportDiscarded(dir, discardQueued(queue))
			return
		}

		select {
		case <-ctx.Done():
			r.reportDiscarded(dir, discardQueued(queue))
			return
		case item, ok := <-queue:
			if !ok {
				return
			}
			// Errors are logged and traced by the handler.
			_ = handle(dispatchCtx, item)
		}
	}
}

// discardQueued empties whatever is buffered in queue without blocking.
func discardQueued[T any](queue <-chan T) int {
	n := 0
	for {
		select {
		case _, ok := <-queue:
			if !ok {
				return n
			}
			n++
		default:
			return n
		}
	}
}

func (r *Router) reportDiscarded(dir log.Direction, n int) {
	if n == 0 {
		return
	}
	r.logger.Warn("discarding queued events at shutdown", "direction", directionLabel(dir), "count", n)
	for i := 0; i < n; i++ {
		r.metrics.recordDropped(dir, log.ReasonShutdown)
	}
	r.trace.Log(log.Event{
		Timestamp: time.Now(),
		BridgeID:  r.bridgeID,
		Direction: dir,
		Category:  log.CategoryDropped,
		Reason:    fmt.Sprintf("%s: %d queued events", log.ReasonShutdown, n),
	})
}

// recoverDispatch turns a panic raised by a capability into an
// ErrEndpointWrite so one bad event cannot stop the router.
func (r *Router) recoverDispatch(err *error, event log.Event) {
	p := recover()
	if p == nil {
		return
	}
	r.logger.Error("dispatch panicked", "direction", directionLabel(event.Direction),
		"topic", event.Topic, "node_id", event.NodeID, "panic", p)
	event.Category = log.CategoryError
	event.Reason = fmt.Sprintf("panic: %v", p)
	r.record(event)
	*err = fmt.Errorf("%w: panic: %v", ErrEndpointWrite, p)
}

// record stamps, traces and counts a routing outcome.
func (r *Router) record(event log.Event) {
	event.Timestamp = time.Now()
	event.BridgeID = r.bridgeID
	r.trace.Log(event)

	switch event.Category {
	case log.CategoryRouted:
		r.metrics.recordRouted(event.Direction)
	case log.CategoryDropped:
		r.metrics.recordDropped(event.Direction, event.Reason)
	case log.CategoryError:
		if event.Direction == log.DirectionOutbound {
			r.metrics.recordDropped(event.Direction, log.ReasonPublishFailed)
		} else {
			r.metrics.recordDropped(event.Direction, log.ReasonWriteFailed)
		}
	}
}
