package mqtt

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagbridge/tagbridge-go/pkg/address"
	"github.com/tagbridge/tagbridge-go/pkg/connection"
)

// fakeToken is a completed paho.Token.
type fakeToken struct {
	err  error
	done chan struct{}
}

func doneToken(err error) *fakeToken {
	t := &fakeToken{err: err, done: make(chan struct{})}
	close(t.done)
	return t
}

func (t *fakeToken) Wait() bool                     { <-t.done; return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

type published struct {
	topic   string
	qos     byte
	payload string
}

// fakeClient records calls made by the adapter.
type fakeClient struct {
	mu         sync.Mutex
	opts       *paho.ClientOptions
	connected  bool
	connectErr []error
	connects   int
	subscribed []string
	handlers   map[string]paho.MessageHandler
	published  []published
	subErr     error
	quiesce    uint
}

func (c *fakeClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}
func (c *fakeClient) IsConnectionOpen() bool { return c.IsConnected() }

func (c *fakeClient) Connect() paho.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connects++
	if len(c.connectErr) > 0 {
		err := c.connectErr[0]
		c.connectErr = c.connectErr[1:]
		return doneToken(err)
	}
	c.connected = true
	return doneToken(nil)
}

func (c *fakeClient) Disconnect(quiesce uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	c.quiesce = quiesce
}

func (c *fakeClient) Publish(topic string, qos byte, _ bool, payload interface{}) paho.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.published = append(c.published, published{topic: topic, qos: qos, payload: payload.(string)})
	return doneToken(nil)
}

func (c *fakeClient) Subscribe(topic string, _ byte, callback paho.MessageHandler) paho.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.subErr != nil {
		return doneToken(c.subErr)
	}
	c.subscribed = append(c.subscribed, topic)
	c.handlers[topic] = callback
	return doneToken(nil)
}

func (c *fakeClient) SubscribeMultiple(map[string]byte, paho.MessageHandler) paho.Token {
	return doneToken(errors.New("not supported"))
}
func (c *fakeClient) Unsubscribe(...string) paho.Token          { return doneToken(nil) }
func (c *fakeClient) AddRoute(string, paho.MessageHandler)      {}
func (c *fakeClient) OptionsReader() paho.ClientOptionsReader   { return paho.NewOptionsReader(c.opts) }

func (c *fakeClient) receive(filter, topic, payload string) {
	c.mu.Lock()
	h := c.handlers[filter]
	c.mu.Unlock()
	h(c, &fakeMessage{topic: topic, payload: []byte(payload)})
}

type fakeMessage struct {
	topic   string
	payload []byte
}

func (m *fakeMessage) Duplicate() bool   { return false }
func (m *fakeMessage) Qos() byte         { return 0 }
func (m *fakeMessage) Retained() bool    { return false }
func (m *fakeMessage) Topic() string     { return m.topic }
func (m *fakeMessage) MessageID() uint16 { return 0 }
func (m *fakeMessage) Payload() []byte   { return m.payload }
func (m *fakeMessage) Ack()              {}

func newTestBus(t *testing.T, cfg Config) (*Bus, *fakeClient) {
	t.Helper()
	fake := &fakeClient{handlers: make(map[string]paho.MessageHandler)}
	b := newBus(cfg, func(opts *paho.ClientOptions) paho.Client {
		fake.opts = opts
		return fake
	})
	return b, fake
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Retry = connection.Policy{
		Attempts: 3,
		Backoff:  connection.BackoffConfig{Initial: time.Millisecond, Jitter: -1},
	}
	return cfg
}

func TestNewAppliesOptions(t *testing.T) {
	cfg := testConfig()
	cfg.Broker = "tcp://broker.local:1883"
	cfg.Username = "bridge"
	cfg.Password = "secret"

	b, fake := newTestBus(t, cfg)
	r := paho.NewOptionsReader(fake.opts)

	require.Len(t, r.Servers(), 1)
	assert.Equal(t, "broker.local:1883", r.Servers()[0].Host)
	assert.Equal(t, b.ClientID(), r.ClientID())
	assert.Regexp(t, `^tagbridge-[0-9a-f]{8}$`, b.ClientID())
	assert.Equal(t, "bridge", r.Username())
	assert.Equal(t, "secret", r.Password())
	assert.True(t, r.AutoReconnect())
	assert.True(t, r.CleanSession())
	assert.Equal(t, 30*time.Second, r.KeepAlive())
}

func TestExplicitClientID(t *testing.T) {
	cfg := testConfig()
	cfg.ClientID = "plant-bridge"
	b, _ := newTestBus(t, cfg)
	assert.Equal(t, "plant-bridge", b.ClientID())
}

func TestConnectRetries(t *testing.T) {
	b, fake := newTestBus(t, testConfig())
	fake.connectErr = []error{errors.New("refused"), errors.New("refused")}

	require.NoError(t, b.Connect(context.Background()))
	assert.Equal(t, 3, fake.connects)
}

func TestConnectGivesUp(t *testing.T) {
	b, fake := newTestBus(t, testConfig())
	refused := errors.New("refused")
	fake.connectErr = []error{refused, refused, refused}

	err := b.Connect(context.Background())
	assert.ErrorIs(t, err, connection.ErrAttemptsExhausted)
	assert.ErrorIs(t, err, refused)
}

func TestSubscribeAndDeliver(t *testing.T) {
	b, fake := newTestBus(t, testConfig())
	ctx := context.Background()

	var got []string
	b.OnMessage(func(topic, payload string) { got = append(got, topic+"="+payload) })

	assert.ErrorIs(t, b.Subscribe(ctx, "device1/+/command"), ErrNotConnected)

	require.NoError(t, b.Connect(ctx))
	assert.ErrorIs(t, b.Subscribe(ctx, "device1/#/x"), address.ErrInvalidPattern)
	require.NoError(t, b.Subscribe(ctx, "device1/+/command"))

	fake.receive("device1/+/command", "device1/1/command", "on")
	assert.Equal(t, []string{"device1/1/command=on"}, got)
}

func TestSubscribeFailure(t *testing.T) {
	b, fake := newTestBus(t, testConfig())
	ctx := context.Background()
	require.NoError(t, b.Connect(ctx))

	fake.subErr = errors.New("not authorized")
	err := b.Subscribe(ctx, "a/#")
	assert.ErrorContains(t, err, "not authorized")
	assert.Empty(t, b.filters)
}

func TestResubscribeOnReconnect(t *testing.T) {
	b, fake := newTestBus(t, testConfig())
	ctx := context.Background()
	require.NoError(t, b.Connect(ctx))
	require.NoError(t, b.Subscribe(ctx, "a/#"))
	require.NoError(t, b.Subscribe(ctx, "b/+"))
	require.NoError(t, b.Subscribe(ctx, "a/#"))

	fake.opts.OnConnect(fake)

	assert.Equal(t, []string{"a/#", "b/+", "a/#", "a/#", "b/+"}, fake.subscribed)
}

func TestPublish(t *testing.T) {
	cfg := testConfig()
	cfg.QoS = 1
	b, fake := newTestBus(t, cfg)
	ctx := context.Background()
	require.NoError(t, b.Connect(ctx))

	require.NoError(t, b.Publish(ctx, "device1/1/status", "42.5"))
	assert.Error(t, b.Publish(ctx, "device1/+/status", "1"))
	assert.Equal(t, []published{{topic: "device1/1/status", qos: 1, payload: "42.5"}}, fake.published)
}

func TestDeliverWithoutHandler(t *testing.T) {
	b, fake := newTestBus(t, testConfig())
	ctx := context.Background()
	require.NoError(t, b.Connect(ctx))
	require.NoError(t, b.Subscribe(ctx, "a/#"))

	assert.NotPanics(t, func() { fake.receive("a/#", "a/b", "1") })
}

func TestDisconnectQuiesce(t *testing.T) {
	b, fake := newTestBus(t, testConfig())
	ctx := context.Background()
	require.NoError(t, b.Connect(ctx))
	require.NoError(t, b.Subscribe(ctx, "a/#"))

	require.NoError(t, b.Disconnect(ctx))
	assert.False(t, fake.IsConnected())
	assert.Equal(t, uint(250), fake.quiesce)
	assert.Empty(t, b.filters)

	short, cancel := context.WithTimeout(ctx, time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)
	require.NoError(t, b.Disconnect(short))
	assert.Equal(t, uint(0), fake.quiesce)
}
