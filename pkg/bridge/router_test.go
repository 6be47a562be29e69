package bridge_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tagbridge/tagbridge-go/pkg/address"
	"github.com/tagbridge/tagbridge-go/pkg/bridge"
	"github.com/tagbridge/tagbridge-go/pkg/bridge/mocks"
	"github.com/tagbridge/tagbridge-go/pkg/log"
	"github.com/tagbridge/tagbridge-go/pkg/payload"
)

const (
	statusNode  = "ns=2;s=device1_status"
	commandNode = "ns=2;s=device1_command"
)

func testTable(t *testing.T) *address.Table {
	t.Helper()
	table, err := address.NewTable(
		[]address.Outbound{{NodeID: statusNode, Template: "device1/{device_id}/status"}},
		[]address.Inbound{{Pattern: "device1/+/command", NodeID: commandNode}},
	)
	require.NoError(t, err)
	return table
}

// traceRecorder collects trace events.
type traceRecorder struct {
	mu     sync.Mutex
	events []log.Event
}

func (r *traceRecorder) Log(event log.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *traceRecorder) Events() []log.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]log.Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *traceRecorder) Category(cat log.Category) []log.Event {
	var out []log.Event
	for _, e := range r.Events() {
		if e.Category == cat {
			out = append(out, e)
		}
	}
	return out
}

// counterValue reads a counter from reg by name and label set.
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
	metrics:
		for _, m := range family.GetMetric() {
			for _, lp := range m.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue metrics
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

type routerFixture struct {
	router  *bridge.Router
	bus     *mocks.MockBus
	nodes   *mocks.MockDataEndpoint
	trace   *traceRecorder
	reg     *prometheus.Registry
	metrics *bridge.Metrics
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	f := &routerFixture{
		bus:   mocks.NewMockBus(t),
		nodes: mocks.NewMockDataEndpoint(t),
		trace: &traceRecorder{},
		reg:   prometheus.NewRegistry(),
	}
	var err error
	f.metrics, err = bridge.NewMetrics(f.reg)
	require.NoError(t, err)

	f.router, err = bridge.NewRouter(testTable(t), f.bus, f.nodes, bridge.RouterConfig{
		BridgeID: "bridge-1",
		Trace:    f.trace,
		Metrics:  f.metrics,
	})
	require.NoError(t, err)
	return f
}

func TestNewRouterRequiresCollaborators(t *testing.T) {
	table := testTable(t)

	_, err := bridge.NewRouter(nil, mocks.NewMockBus(t), mocks.NewMockDataEndpoint(t), bridge.RouterConfig{})
	assert.ErrorIs(t, err, bridge.ErrInvalidConfig)

	_, err = bridge.NewRouter(table, nil, mocks.NewMockDataEndpoint(t), bridge.RouterConfig{})
	assert.ErrorIs(t, err, bridge.ErrInvalidConfig)

	_, err = bridge.NewRouter(table, mocks.NewMockBus(t), nil, bridge.RouterConfig{})
	assert.ErrorIs(t, err, bridge.ErrInvalidConfig)
}

func TestHandleDataChangePublishesRenderedTopic(t *testing.T) {
	f := newRouterFixture(t)
	f.bus.EXPECT().Publish(mock.Anything, "device1/1/status", "42.5").Return(nil).Once()

	err := f.router.HandleDataChange(context.Background(), bridge.DataChangeEvent{
		NodeID: statusNode,
		Value:  payload.Float(42.5),
	})
	require.NoError(t, err)

	routed := f.trace.Category(log.CategoryRouted)
	require.Len(t, routed, 1)
	assert.Equal(t, log.DirectionOutbound, routed[0].Direction)
	assert.Equal(t, "device1/1/status", routed[0].Topic)
	assert.Equal(t, "42.5", routed[0].Payload)
	assert.Equal(t, "bridge-1", routed[0].BridgeID)
	assert.False(t, routed[0].Timestamp.IsZero())

	assert.Equal(t, 1.0, counterValue(t, f.reg, "tagbridge_events_routed_total",
		map[string]string{"direction": "outbound"}))
}

func TestHandleDataChangeEncodesStrings(t *testing.T) {
	f := newRouterFixture(t)
	f.bus.EXPECT().Publish(mock.Anything, "device1/1/status", "running").Return(nil).Once()

	err := f.router.HandleDataChange(context.Background(), bridge.DataChangeEvent{
		NodeID: statusNode,
		Value:  payload.String("running"),
	})
	assert.NoError(t, err)
}

func TestHandleDataChangeUnmappedNode(t *testing.T) {
	f := newRouterFixture(t)

	err := f.router.HandleDataChange(context.Background(), bridge.DataChangeEvent{
		NodeID: "ns=2;s=unknown",
		Value:  payload.Float(1),
	})
	assert.ErrorIs(t, err, bridge.ErrUnmappedAddress)
	f.bus.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)

	dropped := f.trace.Category(log.CategoryDropped)
	require.Len(t, dropped, 1)
	assert.Equal(t, log.ReasonUnmapped, dropped[0].Reason)
	assert.Equal(t, 1.0, counterValue(t, f.reg, "tagbridge_events_dropped_total",
		map[string]string{"direction": "outbound", "reason": "unmapped"}))
}

func TestHandleDataChangeDeviceIDFunc(t *testing.T) {
	bus := mocks.NewMockBus(t)
	bus.EXPECT().Publish(mock.Anything, "device1/device1_status/status", "7").Return(nil).Once()

	router, err := bridge.NewRouter(testTable(t), bus, mocks.NewMockDataEndpoint(t), bridge.RouterConfig{
		DeviceID: func(event bridge.DataChangeEvent) string {
			return event.NodeID[len("ns=2;s="):]
		},
	})
	require.NoError(t, err)

	err = router.HandleDataChange(context.Background(), bridge.DataChangeEvent{NodeID: statusNode, Value: payload.Float(7)})
	assert.NoError(t, err)
}

func TestHandleDataChangeEmptyDeviceID(t *testing.T) {
	bus := mocks.NewMockBus(t)
	router, err := bridge.NewRouter(testTable(t), bus, mocks.NewMockDataEndpoint(t), bridge.RouterConfig{
		DeviceID: bridge.StaticDeviceID(""),
	})
	require.NoError(t, err)

	err = router.HandleDataChange(context.Background(), bridge.DataChangeEvent{NodeID: statusNode, Value: payload.Float(7)})
	assert.ErrorIs(t, err, bridge.ErrNoDeviceID)
	bus.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleDataChangePublishFailure(t *testing.T) {
	f := newRouterFixture(t)
	brokerErr := errors.New("broker unavailable")
	f.bus.EXPECT().Publish(mock.Anything, "device1/1/status", "1").Return(brokerErr).Once()

	err := f.router.HandleDataChange(context.Background(), bridge.DataChangeEvent{NodeID: statusNode, Value: payload.Float(1)})
	assert.ErrorIs(t, err, bridge.ErrEndpointWrite)
	assert.ErrorIs(t, err, brokerErr)

	errs := f.trace.Category(log.CategoryError)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Reason, log.ReasonPublishFailed)
	assert.Equal(t, 1.0, counterValue(t, f.reg, "tagbridge_events_dropped_total",
		map[string]string{"direction": "outbound", "reason": "publish_failed"}))
}

func TestHandleMessageWritesDecodedString(t *testing.T) {
	f := newRouterFixture(t)
	node := mocks.NewMockNodeHandle(t)
	f.nodes.EXPECT().Node(commandNode).Return(node, nil).Once()
	node.EXPECT().SetValue(mock.Anything, payload.String("on")).Return(nil).Once()

	err := f.router.HandleMessage(context.Background(), bridge.Message{Topic: "device1/1/command", Payload: "on"})
	require.NoError(t, err)

	routed := f.trace.Category(log.CategoryRouted)
	require.Len(t, routed, 1)
	assert.Equal(t, log.DirectionInbound, routed[0].Direction)
	assert.Equal(t, commandNode, routed[0].NodeID)
	assert.Equal(t, "on", routed[0].Value)
}

func TestHandleMessageWritesDecodedNumber(t *testing.T) {
	f := newRouterFixture(t)
	node := mocks.NewMockNodeHandle(t)
	f.nodes.EXPECT().Node(commandNode).Return(node, nil).Once()
	node.EXPECT().SetValue(mock.Anything, payload.Float(21.5)).Return(nil).Once()

	err := f.router.HandleMessage(context.Background(), bridge.Message{Topic: "device1/7/command", Payload: " 21.5 "})
	assert.NoError(t, err)
}

func TestHandleMessageUnmappedTopic(t *testing.T) {
	tests := []string{
		"device1/1/status",
		"device1/5/extra/command",
		"device2/1/command",
	}

	for _, topic := range tests {
		t.Run(topic, func(t *testing.T) {
			f := newRouterFixture(t)

			var err error
			assert.NotPanics(t, func() {
				err = f.router.HandleMessage(context.Background(), bridge.Message{Topic: topic, Payload: "on"})
			})
			assert.ErrorIs(t, err, bridge.ErrUnmappedAddress)
			f.nodes.AssertNotCalled(t, "Node", mock.Anything)
			assert.Equal(t, 1.0, counterValue(t, f.reg, "tagbridge_events_dropped_total",
				map[string]string{"direction": "inbound", "reason": "unmapped"}))
		})
	}
}

func TestHandleMessageWriteFailure(t *testing.T) {
	f := newRouterFixture(t)
	node := mocks.NewMockNodeHandle(t)
	writeErr := errors.New("bad node id")
	f.nodes.EXPECT().Node(commandNode).Return(node, nil).Once()
	node.EXPECT().SetValue(mock.Anything, mock.Anything).Return(writeErr).Once()

	err := f.router.HandleMessage(context.Background(), bridge.Message{Topic: "device1/1/command", Payload: "on"})
	assert.ErrorIs(t, err, bridge.ErrEndpointWrite)
	assert.ErrorIs(t, err, writeErr)
	assert.Equal(t, 1.0, counterValue(t, f.reg, "tagbridge_events_dropped_total",
		map[string]string{"direction": "inbound", "reason": "write_failed"}))
}

func TestHandleMessageNodeLookupFailure(t *testing.T) {
	f := newRouterFixture(t)
	lookupErr := errors.New("node not found")
	f.nodes.EXPECT().Node(commandNode).Return(nil, lookupErr).Once()

	err := f.router.HandleMessage(context.Background(), bridge.Message{Topic: "device1/1/command", Payload: "1"})
	assert.ErrorIs(t, err, bridge.ErrEndpointWrite)
	assert.ErrorIs(t, err, lookupErr)
}

func TestHandleMessageRecoversPanic(t *testing.T) {
	f := newRouterFixture(t)
	node := mocks.NewMockNodeHandle(t)
	f.nodes.EXPECT().Node(commandNode).Return(node, nil).Once()
	node.EXPECT().SetValue(mock.Anything, mock.Anything).RunAndReturn(func(context.Context, payload.Value) error {
		panic("session lost")
	}).Once()

	var err error
	require.NotPanics(t, func() {
		err = f.router.HandleMessage(context.Background(), bridge.Message{Topic: "device1/1/command", Payload: "1"})
	})
	assert.ErrorIs(t, err, bridge.ErrEndpointWrite)
	assert.Contains(t, err.Error(), "session lost")

	errs := f.trace.Category(log.CategoryError)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Reason, "panic")
}

func TestRunContinuesAfterWriteFailure(t *testing.T) {
	f := newRouterFixture(t)
	node := mocks.NewMockNodeHandle(t)

	writes := make(chan payload.Value, 2)
	published := make(chan struct{})
	f.nodes.EXPECT().Node(commandNode).Return(node, nil).Times(2)
	node.EXPECT().SetValue(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, v payload.Value) error {
			writes <- v
			if s, _ := v.AsString(); s == "on" {
				return errors.New("write rejected")
			}
			return nil
		}).Times(2)
	f.bus.EXPECT().Publish(mock.Anything, "device1/1/status", "3").
		RunAndReturn(func(context.Context, string, string) error {
			close(published)
			return nil
		}).Once()

	messages := make(chan bridge.Message, 1)
	changes := make(chan bridge.DataChangeEvent, 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.router.Run(ctx, messages, changes) }()

	nextWrite := func() payload.Value {
		t.Helper()
		select {
		case v := <-writes:
			return v
		case <-time.After(2 * time.Second):
			t.Fatal("write was not attempted")
			return payload.Value{}
		}
	}

	messages <- bridge.Message{Topic: "device1/1/command", Payload: "on"}
	assert.Equal(t, payload.String("on"), nextWrite())

	// The failed write must not stop either direction.
	messages <- bridge.Message{Topic: "device1/2/command", Payload: "off"}
	changes <- bridge.DataChangeEvent{NodeID: statusNode, Value: payload.Float(3)}
	assert.Equal(t, payload.String("off"), nextWrite())

	select {
	case <-published:
	case <-time.After(2 * time.Second):
		t.Fatal("data change was not published after failed write")
	}

	require.Eventually(t, func() bool {
		return len(f.trace.Category(log.CategoryRouted)) == 2
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	errs := f.trace.Category(log.CategoryError)
	require.Len(t, errs, 1)
	assert.Equal(t, "device1/1/command", errs[0].Topic)
}

func TestRunProcessesInboundInOrder(t *testing.T) {
	f := newRouterFixture(t)
	node := mocks.NewMockNodeHandle(t)

	var mu sync.Mutex
	var written []payload.Value
	f.nodes.EXPECT().Node(commandNode).Return(node, nil).Times(3)
	node.EXPECT().SetValue(mock.Anything, mock.Anything).RunAndReturn(func(_ context.Context, v payload.Value) error {
		mu.Lock()
		written = append(written, v)
		mu.Unlock()
		return nil
	}).Times(3)

	messages := make(chan bridge.Message, 3)
	messages <- bridge.Message{Topic: "device1/1/command", Payload: "1"}
	messages <- bridge.Message{Topic: "device1/1/command", Payload: "2"}
	messages <- bridge.Message{Topic: "device1/1/command", Payload: "three"}
	close(messages)

	changes := make(chan bridge.DataChangeEvent)
	close(changes)

	err := f.router.Run(context.Background(), messages, changes)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []payload.Value{payload.Float(1), payload.Float(2), payload.String("three")}, written)
}

func TestRunCompletesInFlightDispatch(t *testing.T) {
	f := newRouterFixture(t)

	started := make(chan struct{})
	release := make(chan struct{})
	var dispatchCtxErr error
	f.bus.EXPECT().Publish(mock.Anything, "device1/1/status", "1").
		RunAndReturn(func(ctx context.Context, _, _ string) error {
			close(started)
			<-release
			dispatchCtxErr = ctx.Err()
			return nil
		}).Once()

	changes := make(chan bridge.DataChangeEvent, 1)
	changes <- bridge.DataChangeEvent{NodeID: statusNode, Value: payload.Float(1)}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.router.Run(ctx, nil, changes) }()

	<-started
	cancel()
	close(release)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
	assert.NoError(t, dispatchCtxErr)
	assert.Len(t, f.trace.Category(log.CategoryRouted), 1)
}

func TestRunDiscardsQueuedEventsOnCancel(t *testing.T) {
	f := newRouterFixture(t)

	messages := make(chan bridge.Message, 4)
	for i := 0; i < 3; i++ {
		messages <- bridge.Message{Topic: "device1/1/command", Payload: "1"}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.router.Run(ctx, messages, nil)
	require.NoError(t, err)

	f.nodes.AssertNotCalled(t, "Node", mock.Anything)
	assert.Equal(t, 3.0, counterValue(t, f.reg, "tagbridge_events_dropped_total",
		map[string]string{"direction": "inbound", "reason": "shutdown"}))

	dropped := f.trace.Category(log.CategoryDropped)
	require.Len(t, dropped, 1)
	assert.Contains(t, dropped[0].Reason, log.ReasonShutdown)
}

func TestRouterConcurrentDispatch(t *testing.T) {
	f := newRouterFixture(t)
	node := mocks.NewMockNodeHandle(t)
	f.nodes.EXPECT().Node(commandNode).Return(node, nil)
	node.EXPECT().SetValue(mock.Anything, mock.Anything).Return(nil)
	f.bus.EXPECT().Publish(mock.Anything, mock.Anything, mock.Anything).Return(nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = f.router.HandleMessage(context.Background(), bridge.Message{Topic: "device1/1/command", Payload: "1"})
		}()
		go func() {
			defer wg.Done()
			_ = f.router.HandleDataChange(context.Background(), bridge.DataChangeEvent{NodeID: statusNode, Value: payload.Float(1)})
		}()
	}
	wg.Wait()

	assert.Equal(t, 20.0, counterValue(t, f.reg, "tagbridge_events_routed_total", map[string]string{"direction": "inbound"}))
	assert.Equal(t, 20.0, counterValue(t, f.reg, "tagbridge_events_routed_total", map[string]string{"direction": "outbound"}))
}
