package mqtt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/tagbridge/tagbridge-go/pkg/address"
	"github.com/tagbridge/tagbridge-go/pkg/bridge"
	"github.com/tagbridge/tagbridge-go/pkg/connection"
)

// ErrNotConnected is returned when an operation needs a live session.
var ErrNotConnected = errors.New("mqtt: not connected")

// Config configures a Bus.
type Config struct {
	// Broker is the broker URL, e.g. "tcp://localhost:1883".
	Broker string

	// ClientID defaults to "tagbridge-" followed by a random suffix.
	ClientID string

	Username string
	Password string

	// QoS is used for subscriptions and publishes.
	QoS byte

	KeepAlive      time.Duration
	ConnectTimeout time.Duration

	// DisconnectQuiesce is how long Disconnect lets in-flight work finish.
	DisconnectQuiesce time.Duration

	// Retry governs the initial connect.
	Retry connection.Policy

	Logger *slog.Logger
}

// DefaultConfig returns a Config for a local broker.
func DefaultConfig() Config {
	return Config{
		Broker:            "tcp://localhost:1883",
		KeepAlive:         30 * time.Second,
		ConnectTimeout:    10 * time.Second,
		DisconnectQuiesce: 250 * time.Millisecond,
		Retry:             connection.DefaultPolicy(),
	}
}

// Bus is a bridge.Bus backed by a Paho client.
type Bus struct {
	config Config
	client paho.Client
	logger *slog.Logger

	mu      sync.RWMutex
	handler bridge.MessageHandler
	filters []string
}

// New creates a Bus. Nothing is connected until Connect.
func New(config Config) *Bus {
	return newBus(config, paho.NewClient)
}

func newBus(config Config, newClient func(*paho.ClientOptions) paho.Client) *Bus {
	if config.ClientID == "" {
		config.ClientID = "tagbridge-" + uuid.NewString()[:8]
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	b := &Bus{
		config: config,
		logger: config.Logger.With("component", "mqtt", "client_id", config.ClientID),
	}

	opts := paho.NewClientOptions().
		AddBroker(config.Broker).
		SetClientID(config.ClientID).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetOnConnectHandler(b.onConnect).
		SetConnectionLostHandler(b.onConnectionLost).
		SetReconnectingHandler(func(paho.Client, *paho.ClientOptions) {
			b.logger.Info("reconnecting to broker", "broker", config.Broker)
		})
	if config.Username != "" {
		opts.SetUsername(config.Username)
		opts.SetPassword(config.Password)
	}
	if config.KeepAlive > 0 {
		opts.SetKeepAlive(config.KeepAlive)
	}
	if config.ConnectTimeout > 0 {
		opts.SetConnectTimeout(config.ConnectTimeout)
	}

	b.client = newClient(opts)
	return b
}

// ClientID returns the MQTT client identifier.
func (b *Bus) ClientID() string {
	return b.config.ClientID
}

// Connect implements bridge.Bus. Failed attempts are retried according to
// the configured policy.
func (b *Bus) Connect(ctx context.Context) error {
	policy := b.config.Retry
	policy.OnRetry = func(attempt int, delay time.Duration, err error) {
		b.logger.Warn("broker connect failed, retrying",
			"broker", b.config.Broker, "attempt", attempt, "delay", delay, "error", err)
	}

	err := connection.Connect(ctx, policy, func(ctx context.Context) error {
		return wait(ctx, b.client.Connect())
	})
	if err != nil {
		return fmt.Errorf("mqtt connect %s: %w", b.config.Broker, err)
	}
	b.logger.Info("connected to broker", "broker", b.config.Broker)
	return nil
}

// Subscribe implements bridge.Bus. The filter is re-subscribed after every
// reconnect.
func (b *Bus) Subscribe(ctx context.Context, pattern string) error {
	if err := address.ValidatePattern(pattern); err != nil {
		return err
	}
	if !b.client.IsConnected() {
		return ErrNotConnected
	}

	if err := wait(ctx, b.client.Subscribe(pattern, b.config.QoS, b.deliver)); err != nil {
		return fmt.Errorf("mqtt subscribe %s: %w", pattern, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, f := range b.filters {
		if f == pattern {
			return nil
		}
	}
	b.filters = append(b.filters, pattern)
	return nil
}

// Publish implements bridge.Bus.
func (b *Bus) Publish(ctx context.Context, topic, payload string) error {
	if err := address.ValidateTopic(topic); err != nil {
		return err
	}
	if err := wait(ctx, b.client.Publish(topic, b.config.QoS, false, payload)); err != nil {
		return fmt.Errorf("mqtt publish %s: %w", topic, err)
	}
	return nil
}

// OnMessage implements bridge.Bus.
func (b *Bus) OnMessage(handler bridge.MessageHandler) {
	b.mu.Lock()
	b.handler = handler
	b.mu.Unlock()
}

// Disconnect implements bridge.Bus.
func (b *Bus) Disconnect(ctx context.Context) error {
	quiesce := b.config.DisconnectQuiesce
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < quiesce {
			quiesce = max(remaining, 0)
		}
	}
	b.client.Disconnect(uint(quiesce.Milliseconds()))

	b.mu.Lock()
	b.filters = nil
	b.mu.Unlock()
	b.logger.Info("disconnected from broker")
	return nil
}

func (b *Bus) deliver(_ paho.Client, msg paho.Message) {
	b.mu.RLock()
	handler := b.handler
	b.mu.RUnlock()

	if handler == nil {
		b.logger.Warn("message dropped, no handler", "topic", msg.Topic())
		return
	}
	handler(msg.Topic(), string(msg.Payload()))
}

// onConnect runs on every successful (re)connect.
func (b *Bus) onConnect(c paho.Client) {
	b.mu.RLock()
	filters := append([]string(nil), b.filters...)
	b.mu.RUnlock()

	for _, f := range filters {
		tok := c.Subscribe(f, b.config.QoS, b.deliver)
		tok.Wait()
		if err := tok.Error(); err != nil {
			b.logger.Error("resubscribe failed", "pattern", f, "error", err)
			continue
		}
		b.logger.Debug("resubscribed", "pattern", f)
	}
}

func (b *Bus) onConnectionLost(_ paho.Client, err error) {
	b.logger.Warn("broker connection lost", "error", err)
}

// wait blocks until tok completes or ctx is done.
func wait(ctx context.Context, tok paho.Token) error {
	select {
	case <-tok.Done():
		return tok.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ bridge.Bus = (*Bus)(nil)
