package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/tagbridge/tagbridge-go/pkg/address"
	"github.com/tagbridge/tagbridge-go/pkg/log"
	"github.com/tagbridge/tagbridge-go/pkg/payload"
)

// State represents the controller lifecycle state.
type State uint8

const (
	// StateIdle - controller created but not started.
	StateIdle State = iota

	// StateStarting - capabilities are being connected.
	StateStarting

	// StateRunning - events are being routed.
	StateRunning

	// StateStopping - capabilities are being released.
	StateStopping

	// StateStopped - controller has stopped.
	StateStopped
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateStarting:
		return "STARTING"
	case StateRunning:
		return "RUNNING"
	case StateStopping:
		return "STOPPING"
	case StateStopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// ControllerConfig configures a Controller.
type ControllerConfig struct {
	// NamespaceIndex is the namespace the mapped NodeIds live in. It must be
	// present in the endpoint's namespace array.
	NamespaceIndex int

	// NamespaceURI, if set, must equal the namespace array entry at
	// NamespaceIndex.
	NamespaceURI string

	// QueueSize is the buffer of each direction's event queue.
	QueueSize int

	// ShutdownTimeout bounds the release of both capabilities.
	ShutdownTimeout time.Duration

	// DeviceID supplies the {device_id} value for outbound topics.
	DeviceID DeviceIDFunc

	// BridgeID identifies this instance in trace events. Generated if empty.
	BridgeID string

	Logger  *slog.Logger
	Trace   log.Logger
	Metrics *Metrics
}

// DefaultControllerConfig returns a ControllerConfig with default values.
func DefaultControllerConfig() ControllerConfig {
	return ControllerConfig{
		NamespaceIndex:  2,
		QueueSize:       64,
		ShutdownTimeout: 10 * time.Second,
		DeviceID:        StaticDeviceID(DefaultDeviceID),
	}
}

// Controller wires a Bus and a DataEndpoint together through a Router and
// owns the lifecycle of both.
type Controller struct {
	mu sync.RWMutex

	bus      Bus
	endpoint DataEndpoint
	table    *address.Table
	router   *Router
	config   ControllerConfig
	logger   *slog.Logger
	trace    log.Logger

	state      State
	subscribed []string
}

// NewController creates a controller. Nothing is connected until Run.
func NewController(bus Bus, endpoint DataEndpoint, table *address.Table, config ControllerConfig) (*Controller, error) {
	if bus == nil || endpoint == nil {
		return nil, fmt.Errorf("%w: bus and data endpoint are required", ErrInvalidConfig)
	}
	if config.NamespaceIndex < 0 {
		return nil, fmt.Errorf("%w: negative namespace index %d", ErrInvalidConfig, config.NamespaceIndex)
	}
	if config.QueueSize < 0 {
		return nil, fmt.Errorf("%w: negative queue size %d", ErrInvalidConfig, config.QueueSize)
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = DefaultControllerConfig().ShutdownTimeout
	}
	if config.BridgeID == "" {
		config.BridgeID = uuid.NewString()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Trace == nil {
		config.Trace = log.NoopLogger{}
	}

	router, err := NewRouter(table, bus, endpoint, RouterConfig{
		DeviceID: config.DeviceID,
		BridgeID: config.BridgeID,
		Logger:   config.Logger,
		Trace:    config.Trace,
		Metrics:  config.Metrics,
	})
	if err != nil {
		return nil, err
	}

	return &Controller{
		bus:      bus,
		endpoint: endpoint,
		table:    table,
		router:   router,
		config:   config,
		logger:   config.Logger.With("bridge_id", config.BridgeID),
		trace:    config.Trace,
		state:    StateIdle,
	}, nil
}

// BridgeID returns the instance identifier stamped on trace events.
func (c *Controller) BridgeID() string {
	return c.config.BridgeID
}

// Router returns the router used by Run.
func (c *Controller) Router() *Router {
	return c.router
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Subscribed returns the NodeIds with an active data change subscription.
func (c *Controller) Subscribed() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.subscribed))
	copy(out, c.subscribed)
	return out
}

// releaser undoes one acquisition during teardown.
type releaser struct {
	name    string
	entity  log.StateEntity
	release func(ctx context.Context) error
}

// Run connects both capabilities, routes events until ctx is cancelled and
// then releases everything it acquired in reverse order. It returns nil on a
// clean shutdown. A controller runs once.
func (c *Controller) Run(ctx context.Context) (err error) {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.state = StateStarting
	c.mu.Unlock()
	c.traceState(log.StateEntityBridge, StateIdle.String(), StateStarting.String(), "")

	// Cancelled before teardown so that blocked sinks give up.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var acquired []releaser
	defer func() {
		cancel()
		c.setState(StateStopping, "")
		err = multierr.Append(err, c.release(ctx, acquired))
		reason := ""
		if err != nil {
			reason = err.Error()
		}
		c.setState(StateStopped, reason)
	}()

	messages := make(chan Message, c.config.QueueSize)
	changes := make(chan DataChangeEvent, c.config.QueueSize)

	c.bus.OnMessage(func(topic, body string) {
		select {
		case messages <- Message{Topic: topic, Payload: body}:
		case <-runCtx.Done():
		}
	})

	if err := c.bus.Connect(runCtx); err != nil {
		c.logger.Error("bus connect failed", "error", err)
		c.traceState(log.StateEntityBus, "", "FAILED", err.Error())
		return fmt.Errorf("connect bus: %w", err)
	}
	acquired = append(acquired, releaser{name: "bus", entity: log.StateEntityBus, release: c.bus.Disconnect})
	c.traceState(log.StateEntityBus, "", "CONNECTED", "")

	c.subscribeTopics(runCtx)

	if err := c.endpoint.Connect(runCtx); err != nil {
		c.logger.Error("data endpoint connect failed", "error", err)
		c.traceState(log.StateEntityEndpoint, "", "FAILED", err.Error())
		return fmt.Errorf("connect data endpoint: %w", err)
	}
	acquired = append(acquired, releaser{name: "endpoint", entity: log.StateEntityEndpoint, release: c.endpoint.Disconnect})
	c.traceState(log.StateEntityEndpoint, "", "CONNECTED", "")

	if err := c.checkNamespace(runCtx); err != nil {
		c.logger.Error("namespace check failed", "namespace_index", c.config.NamespaceIndex, "error", err)
		return err
	}

	acquired = append(acquired, c.subscribeNodes(runCtx, changes)...)

	c.setState(StateRunning, "")
	c.logger.Info("bridge running",
		"subscribed_nodes", len(c.Subscribed()),
		"inbound_patterns", len(c.table.InboundPatterns()))

	return c.router.Run(runCtx, messages, changes)
}

// subscribeTopics subscribes every inbound pattern. Failures are logged and
// the pattern is skipped.
func (c *Controller) subscribeTopics(ctx context.Context) {
	for _, pattern := range c.table.InboundPatterns() {
		if err := c.bus.Subscribe(ctx, pattern); err != nil {
			c.logger.Warn("topic subscription failed, skipping", "pattern", pattern, "error", err)
			continue
		}
		c.logger.Debug("subscribed topic", "pattern", pattern)
	}
}

// checkNamespace verifies that the configured namespace index exists and,
// if an expected URI is configured, that it matches.
func (c *Controller) checkNamespace(ctx context.Context) error {
	namespaces, err := c.endpoint.NamespaceArray(ctx)
	if err != nil {
		return fmt.Errorf("read namespace array: %w", err)
	}

	idx := c.config.NamespaceIndex
	if idx >= len(namespaces) {
		return fmt.Errorf("%w: index %d, endpoint has %d namespaces", ErrNamespaceOutOfRange, idx, len(namespaces))
	}
	if c.config.NamespaceURI != "" && namespaces[idx] != c.config.NamespaceURI {
		return fmt.Errorf("%w: index %d is %q, want %q", ErrNamespaceMismatch, idx, namespaces[idx], c.config.NamespaceURI)
	}

	c.logger.Info("namespace verified", "namespace_index", idx, "namespace_uri", namespaces[idx])
	return nil
}

// subscribeNodes subscribes to every outbound node in declaration order. A
// node that cannot be resolved, read or subscribed is logged and skipped.
func (c *Controller) subscribeNodes(ctx context.Context, changes chan<- DataChangeEvent) []releaser {
	sink := func(nodeID string, value payload.Value) {
		select {
		case changes <- DataChangeEvent{NodeID: nodeID, Value: value}:
		case <-ctx.Done():
		}
	}

	var subs []releaser
	for _, nodeID := range c.table.OutboundNodes() {
		sub, err := c.subscribeNode(ctx, nodeID, sink)
		if err != nil {
			c.logger.Warn("node subscription failed, skipping", "node_id", nodeID, "error", err)
			c.traceState(log.StateEntitySubscription, "", "FAILED", nodeID+": "+err.Error())
			continue
		}
		subs = append(subs, releaser{name: nodeID, entity: log.StateEntitySubscription, release: sub.Unsubscribe})
		c.addSubscribed(nodeID)
		c.traceState(log.StateEntitySubscription, "", "ACTIVE", nodeID)
	}
	return subs
}

func (c *Controller) subscribeNode(ctx context.Context, nodeID string, sink DataChangeHandler) (Subscription, error) {
	node, err := c.endpoint.Node(nodeID)
	if err != nil {
		return nil, fmt.Errorf("get node: %w", err)
	}
	value, err := node.Value(ctx)
	if err != nil {
		return nil, fmt.Errorf("read value: %w", err)
	}
	c.logger.Info("subscribing node", "node_id", nodeID, "value", value)

	sub, err := c.endpoint.SubscribeDataChange(ctx, nodeID, sink)
	if err != nil {
		return nil, fmt.Errorf("subscribe: %w", err)
	}
	return sub, nil
}

// release runs releasers in reverse order with a fresh context.
func (c *Controller) release(parent context.Context, acquired []releaser) error {
	if len(acquired) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), c.config.ShutdownTimeout)
	defer cancel()

	var errs error
	for i := len(acquired) - 1; i >= 0; i-- {
		r := acquired[i]
		if err := r.release(ctx); err != nil {
			c.logger.Warn("release failed", "entity", r.entity.String(), "name", r.name, "error", err)
			c.traceState(r.entity, "", "RELEASE_FAILED", r.name+": "+err.Error())
			errs = multierr.Append(errs, fmt.Errorf("release %s: %w", r.name, err))
			continue
		}
		c.logger.Debug("released", "entity", r.entity.String(), "name", r.name)
		c.traceState(r.entity, "", "RELEASED", r.name)
	}

	c.mu.Lock()
	c.subscribed = nil
	c.mu.Unlock()
	c.config.Metrics.setSubscriptions(0)

	return errs
}

func (c *Controller) addSubscribed(nodeID string) {
	c.mu.Lock()
	c.subscribed = append(c.subscribed, nodeID)
	n := len(c.subscribed)
	c.mu.Unlock()
	c.config.Metrics.setSubscriptions(n)
}

func (c *Controller) setState(state State, reason string) {
	c.mu.Lock()
	old := c.state
	c.state = state
	c.mu.Unlock()
	c.traceState(log.StateEntityBridge, old.String(), state.String(), reason)
}

func (c *Controller) traceState(entity log.StateEntity, oldState, newState, reason string) {
	c.trace.Log(log.Event{
		Timestamp: time.Now(),
		BridgeID:  c.config.BridgeID,
		Direction: log.DirectionNone,
		Category:  log.CategoryState,
		StateChange: &log.StateChangeEvent{
			Entity:   entity,
			OldState: oldState,
			NewState: newState,
			Reason:   reason,
		},
	})
}
