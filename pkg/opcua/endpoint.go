package opcua

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	gopcua "github.com/gopcua/opcua"
	"github.com/gopcua/opcua/ua"
	"go.uber.org/multierr"

	"github.com/tagbridge/tagbridge-go/pkg/bridge"
	"github.com/tagbridge/tagbridge-go/pkg/connection"
	"github.com/tagbridge/tagbridge-go/pkg/payload"
)

// Errors returned by the endpoint.
var (
	ErrNotConnected  = errors.New("opcua: not connected")
	ErrNotSubscribed = errors.New("opcua: subscription not active")
	ErrNoResult      = errors.New("opcua: empty response")
)

// DefaultNotifyQueueSize buffers publish notifications between the client
// and the pump goroutine.
const DefaultNotifyQueueSize = 256

// Config configures an Endpoint.
type Config struct {
	// URI is the server endpoint, e.g. "opc.tcp://localhost:4840".
	URI string

	// SubscriptionInterval is the requested publishing interval.
	// Defaults to gopcua.DefaultSubscriptionInterval.
	SubscriptionInterval time.Duration

	// RequestTimeout bounds each service call made by the client.
	RequestTimeout time.Duration

	// Retry governs the initial connect.
	Retry connection.Policy

	// Options are passed to the gopcua client after the defaults.
	Options []gopcua.Option

	Logger *slog.Logger
}

// DefaultConfig returns a Config for a local server.
func DefaultConfig() Config {
	return Config{
		URI:                  "opc.tcp://localhost:4840",
		SubscriptionInterval: gopcua.DefaultSubscriptionInterval,
		RequestTimeout:       10 * time.Second,
		Retry:                connection.DefaultPolicy(),
	}
}

// monitoredItem is one node watched through the shared subscription.
type monitoredItem struct {
	handle  uint32
	itemID  uint32
	nodeID  string
	handler bridge.DataChangeHandler
}

// Endpoint is a bridge.DataEndpoint backed by a gopcua client.
type Endpoint struct {
	config    Config
	logger    *slog.Logger
	newClient clientFactory

	mu         sync.Mutex
	client     client
	sub        subscription
	items      map[uint32]*monitoredItem
	nextHandle uint32
	stopPump   context.CancelFunc
	pumpDone   chan struct{}
}

// New creates an Endpoint. Nothing is connected until Connect.
func New(config Config) *Endpoint {
	return newEndpoint(config, newGopcuaClient)
}

func newEndpoint(config Config, newClient clientFactory) *Endpoint {
	if config.SubscriptionInterval <= 0 {
		config.SubscriptionInterval = gopcua.DefaultSubscriptionInterval
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Endpoint{
		config:    config,
		logger:    config.Logger.With("component", "opcua", "endpoint", config.URI),
		newClient: newClient,
		items:     make(map[uint32]*monitoredItem),
	}
}

// Connect implements bridge.DataEndpoint. Each attempt uses a fresh client.
func (e *Endpoint) Connect(ctx context.Context) error {
	opts := []gopcua.Option{gopcua.AutoReconnect(true)}
	if e.config.RequestTimeout > 0 {
		opts = append(opts, gopcua.RequestTimeout(e.config.RequestTimeout))
	}
	opts = append(opts, e.config.Options...)

	policy := e.config.Retry
	policy.OnRetry = func(attempt int, delay time.Duration, err error) {
		e.logger.Warn("endpoint connect failed, retrying", "attempt", attempt, "delay", delay, "error", err)
	}

	var c client
	err := connection.Connect(ctx, policy, func(ctx context.Context) error {
		candidate, err := e.newClient(e.config.URI, opts...)
		if err != nil {
			return err
		}
		if err := candidate.Connect(ctx); err != nil {
			return err
		}
		c = candidate
		return nil
	})
	if err != nil {
		return fmt.Errorf("opcua connect %s: %w", e.config.URI, err)
	}

	e.mu.Lock()
	e.client = c
	e.mu.Unlock()
	e.logger.Info("connected to server")
	return nil
}

// NamespaceArray implements bridge.DataEndpoint.
func (e *Endpoint) NamespaceArray(ctx context.Context) ([]string, error) {
	c, err := e.connected()
	if err != nil {
		return nil, err
	}
	ns, err := c.NamespaceArray(ctx)
	if err != nil {
		return nil, fmt.Errorf("read namespace array: %w", err)
	}
	return ns, nil
}

// Node implements bridge.DataEndpoint. The node id is parsed but not
// checked against the server.
func (e *Endpoint) Node(nodeID string) (bridge.NodeHandle, error) {
	if _, err := e.connected(); err != nil {
		return nil, err
	}
	id, err := ua.ParseNodeID(nodeID)
	if err != nil {
		return nil, fmt.Errorf("parse node id %q: %w", nodeID, err)
	}
	return &Node{endpoint: e, id: id, name: nodeID}, nil
}

// SubscribeDataChange implements bridge.DataEndpoint. The server reports the
// current value first, then every change.
func (e *Endpoint) SubscribeDataChange(ctx context.Context, nodeID string, handler bridge.DataChangeHandler) (bridge.Subscription, error) {
	if handler == nil {
		return nil, errors.New("nil data change handler")
	}
	id, err := ua.ParseNodeID(nodeID)
	if err != nil {
		return nil, fmt.Errorf("parse node id %q: %w", nodeID, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.client == nil {
		return nil, ErrNotConnected
	}
	if err := e.ensureSubscription(ctx); err != nil {
		return nil, err
	}

	e.nextHandle++
	item := &monitoredItem{handle: e.nextHandle, nodeID: nodeID, handler: handler}
	// Registered before Monitor so the initial value is not lost.
	e.items[item.handle] = item

	req := gopcua.NewMonitoredItemCreateRequestWithDefaults(id, ua.AttributeIDValue, item.handle)
	res, err := e.sub.Monitor(ctx, ua.TimestampsToReturnBoth, req)
	if err == nil && len(res.Results) == 0 {
		err = ErrNoResult
	}
	if err == nil && res.Results[0].StatusCode != ua.StatusOK {
		err = res.Results[0].StatusCode
	}
	if err != nil {
		delete(e.items, item.handle)
		return nil, fmt.Errorf("monitor %s: %w", nodeID, err)
	}
	item.itemID = res.Results[0].MonitoredItemID

	e.logger.Debug("monitoring node", "node_id", nodeID, "handle", item.handle)
	return &Subscription{endpoint: e, handle: item.handle, nodeID: nodeID}, nil
}

// Disconnect implements bridge.DataEndpoint. It cancels the shared
// subscription, stops the pump and closes the session.
func (e *Endpoint) Disconnect(ctx context.Context) error {
	e.mu.Lock()
	c, sub := e.client, e.sub
	stop, done := e.stopPump, e.pumpDone
	e.client, e.sub = nil, nil
	e.stopPump, e.pumpDone = nil, nil
	clear(e.items)
	e.mu.Unlock()

	if c == nil {
		return nil
	}

	var err error
	if sub != nil {
		if cerr := sub.Cancel(ctx); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("cancel subscription: %w", cerr))
		}
	}
	if stop != nil {
		stop()
		select {
		case <-done:
		case <-ctx.Done():
			err = multierr.Append(err, ctx.Err())
		}
	}
	if cerr := c.Close(ctx); cerr != nil {
		err = multierr.Append(err, fmt.Errorf("close session: %w", cerr))
	}

	e.logger.Info("disconnected from server")
	return err
}

func (e *Endpoint) connected() (client, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client == nil {
		return nil, ErrNotConnected
	}
	return e.client, nil
}

// ensureSubscription creates the shared subscription and its pump on first
// use. Callers hold mu.
func (e *Endpoint) ensureSubscription(ctx context.Context) error {
	if e.sub != nil {
		return nil
	}

	notify := make(chan *gopcua.PublishNotificationData, DefaultNotifyQueueSize)
	params := &gopcua.SubscriptionParameters{Interval: e.config.SubscriptionInterval}
	sub, err := e.client.Subscribe(ctx, params, notify)
	if err != nil {
		return fmt.Errorf("create subscription: %w", err)
	}

	pumpCtx, cancel := context.WithCancel(context.Background())
	e.sub = sub
	e.stopPump = cancel
	e.pumpDone = make(chan struct{})
	go e.pump(pumpCtx, notify, e.pumpDone)
	return nil
}

func (e *Endpoint) pump(ctx context.Context, notify <-chan *gopcua.PublishNotificationData, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case data := <-notify:
			if data == nil {
				continue
			}
			if data.Error != nil {
				e.logger.Warn("subscription error", "subscription_id", data.SubscriptionID, "error", data.Error)
				continue
			}
			if change, ok := data.Value.(*ua.DataChangeNotification); ok {
				e.dispatch(change)
			}
		}
	}
}

func (e *Endpoint) dispatch(change *ua.DataChangeNotification) {
	for _, n := range change.MonitoredItems {
		if n == nil {
			continue
		}
		e.mu.Lock()
		item, ok := e.items[n.ClientHandle]
		e.mu.Unlock()
		if !ok {
			continue
		}

		value, err := dataValue(n.Value)
		if err != nil {
			e.logger.Warn("dropping data change", "node_id", item.nodeID, "error", err)
			continue
		}
		item.handler(item.nodeID, value)
	}
}

// forget stops monitoring handle.
func (e *Endpoint) forget(ctx context.Context, handle uint32) error {
	e.mu.Lock()
	item, ok := e.items[handle]
	sub := e.sub
	delete(e.items, handle)
	e.mu.Unlock()

	if !ok || sub == nil {
		return ErrNotSubscribed
	}

	res, err := sub.Unmonitor(ctx, item.itemID)
	if err != nil {
		return err
	}
	if len(res.Results) > 0 && res.Results[0] != ua.StatusOK {
		return res.Results[0]
	}
	return nil
}

// dataValue converts a reported DataValue. Non-Good statuses are errors.
func dataValue(dv *ua.DataValue) (payload.Value, error) {
	if dv == nil {
		return payload.Value{}, ErrNoResult
	}
	if dv.Status != ua.StatusOK {
		return payload.Value{}, dv.Status
	}
	if dv.Value == nil {
		return payload.Value{}, ErrNoResult
	}
	return payload.FromNative(dv.Value.Value())
}

// variant converts a bridge value to the variant written to the server.
func variant(v payload.Value) *ua.Variant {
	if f, ok := v.AsFloat(); ok {
		return ua.MustVariant(f)
	}
	s, _ := v.AsString()
	return ua.MustVariant(s)
}

var _ bridge.DataEndpoint = (*Endpoint)(nil)
