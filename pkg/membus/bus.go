package membus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/tagbridge/tagbridge-go/pkg/address"
	"github.com/tagbridge/tagbridge-go/pkg/bridge"
)

// Bus errors.
var (
	ErrNotConnected = errors.New("bus not connected")
	ErrNoHandler    = errors.New("no message handler registered")
)

// Option configures a Bus.
type Option func(*Bus)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bus) { b.logger = logger }
}

// Bus is an in-memory broker with a single client session.
type Bus struct {
	mu sync.RWMutex

	connected bool
	handler   bridge.MessageHandler
	filters   []string
	published []bridge.Message

	// listeners observe every publish, used by the simulator.
	listeners []func(bridge.Message)

	logger *slog.Logger
}

// New creates a disconnected bus.
func New(opts ...Option) *Bus {
	b := &Bus{logger: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Connect implements bridge.Bus.
func (b *Bus) Connect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	b.connected = true
	b.mu.Unlock()
	return nil
}

// Disconnect implements bridge.Bus. Subscriptions are dropped.
func (b *Bus) Disconnect(ctx context.Context) error {
	b.mu.Lock()
	b.connected = false
	b.filters = nil
	b.mu.Unlock()
	return nil
}

// Connected reports whether the session is open.
func (b *Bus) Connected() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.connected
}

// OnMessage implements bridge.Bus.
func (b *Bus) OnMessage(handler bridge.MessageHandler) {
	b.mu.Lock()
	b.handler = handler
	b.mu.Unlock()
}

// OnPublish registers fn to observe every published message.
func (b *Bus) OnPublish(fn func(bridge.Message)) {
	b.mu.Lock()
	b.listeners = append(b.listeners, fn)
	b.mu.Unlock()
}

// Subscribe implements bridge.Bus.
func (b *Bus) Subscribe(ctx context.Context, pattern string) error {
	if err := address.ValidatePattern(pattern); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.connected {
		return ErrNotConnected
	}
	for _, f := range b.filters {
		if f == pattern {
			return nil
		}
	}
	b.filters = append(b.filters, pattern)
	return nil
}

// Subscriptions returns the active topic filters.
func (b *Bus) Subscriptions() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]string(nil), b.filters...)
}

// Publish implements bridge.Bus. The message is delivered once to the
// session handler when any active filter matches the topic, however many
// filters match.
func (b *Bus) Publish(ctx context.Context, topic, body string) error {
	if err := address.ValidateTopic(topic); err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	b.mu.Lock()
	if !b.connected {
		b.mu.Unlock()
		return ErrNotConnected
	}
	msg := bridge.Message{Topic: topic, Payload: body}
	b.published = append(b.published, msg)
	handler, matched := b.route(topic)
	listeners := slices.Clone(b.listeners)
	b.mu.Unlock()

	b.logger.Debug("membus publish", "topic", topic, "payload", body, "delivered", matched)
	for _, fn := range listeners {
		fn(msg)
	}
	if matched {
		handler(topic, body)
	}
	return nil
}

// Inject delivers a message from an external client without recording it
// as a publish. It reports whether a subscription matched.
func (b *Bus) Inject(topic, body string) (bool, error) {
	if err := address.ValidateTopic(topic); err != nil {
		return false, fmt.Errorf("inject: %w", err)
	}

	b.mu.RLock()
	if !b.connected {
		b.mu.RUnlock()
		return false, ErrNotConnected
	}
	if b.handler == nil {
		b.mu.RUnlock()
		return false, ErrNoHandler
	}
	handler, matched := b.route(topic)
	b.mu.RUnlock()

	if matched {
		handler(topic, body)
	}
	return matched, nil
}

// Published returns every message published through the bus.
func (b *Bus) Published() []bridge.Message {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]bridge.Message(nil), b.published...)
}

// Reset clears the publish record.
func (b *Bus) Reset() {
	b.mu.Lock()
	b.published = nil
	b.mu.Unlock()
}

// route reports the handler for topic if a filter matches. Callers hold mu.
func (b *Bus) route(topic string) (bridge.MessageHandler, bool) {
	if b.handler == nil {
		return nil, false
	}
	for _, f := range b.filters {
		if address.Match(f, topic) {
			return b.handler, true
		}
	}
	return nil, false
}

var _ bridge.Bus = (*Bus)(nil)
