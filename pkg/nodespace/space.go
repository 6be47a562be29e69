package nodespace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/gopcua/opcua/ua"

	"github.com/tagbridge/tagbridge-go/pkg/bridge"
	"github.com/tagbridge/tagbridge-go/pkg/payload"
)

// Namespace URIs present in every space.
const (
	// BaseNamespaceURI is namespace index 0.
	BaseNamespaceURI = "http://opcfoundation.org/UA/"

	// DefaultServerURI is namespace index 1 unless overridden.
	DefaultServerURI = "urn:tagbridge:nodespace"
)

// Node space errors.
var (
	ErrNodeNotFound  = errors.New("node not found")
	ErrNodeExists    = errors.New("node already exists")
	ErrInvalidNodeID = errors.New("invalid node id")
	ErrUnknownNS     = errors.New("unknown namespace index")
	ErrTypeMismatch  = errors.New("value type does not match variable")
	ErrNotWritable   = errors.New("variable is not writable")
	ErrNotConnected  = errors.New("not connected")
	ErrNotSubscribed = errors.New("subscription not active")
)

// Access flags for variables.
type Access uint8

const (
	// AccessRead allows reading the value.
	AccessRead Access = 1 << iota

	// AccessWrite allows client writes.
	AccessWrite
)

// CanWrite reports whether client writes are allowed.
func (a Access) CanWrite() bool { return a&AccessWrite != 0 }

// String returns a short access description.
func (a Access) String() string {
	switch {
	case a.CanWrite():
		return "rw"
	case a&AccessRead != 0:
		return "r"
	default:
		return "-"
	}
}

// Variable describes a variable in the space.
type Variable struct {
	NodeID string
	Value  payload.Value
	Access Access
}

type variable struct {
	id     string
	kind   payload.Kind
	access Access
	value  payload.Value
}

// Option configures a Space.
type Option func(*Space)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Space) { s.logger = logger }
}

// WithServerURI sets the URI at namespace index 1.
func WithServerURI(uri string) Option {
	return func(s *Space) { s.namespaces[1] = uri }
}

// Space is an in-memory data endpoint. It is safe for concurrent use.
type Space struct {
	mu sync.RWMutex

	namespaces []string
	variables  map[string]*variable
	order      []string
	connected  bool

	subs    map[uint64]*subscription
	nextSub uint64

	logger *slog.Logger
}

// New creates an empty space holding the base and server namespaces.
func New(opts ...Option) *Space {
	s := &Space{
		namespaces: []string{BaseNamespaceURI, DefaultServerURI},
		variables:  make(map[string]*variable),
		subs:       make(map[uint64]*subscription),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterNamespace adds uri to the namespace array and returns its index.
// Registering an existing URI returns the existing index.
func (s *Space) RegisterNamespace(uri string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, ns := range s.namespaces {
		if ns == uri {
			return i
		}
	}
	s.namespaces = append(s.namespaces, uri)
	return len(s.namespaces) - 1
}

// AddVariable adds a variable. Its type is fixed by initial.
func (s *Space) AddVariable(nodeID string, initial payload.Value, writable bool) error {
	id, err := parseNodeID(nodeID)
	if err != nil {
		return err
	}
	canonical := id.String()

	s.mu.Lock()
	defer s.mu.Unlock()

	if int(id.Namespace()) >= len(s.namespaces) {
		return fmt.Errorf("%w: %d in %s", ErrUnknownNS, id.Namespace(), canonical)
	}
	if _, exists := s.variables[canonical]; exists {
		return fmt.Errorf("%w: %s", ErrNodeExists, canonical)
	}

	access := AccessRead
	if writable {
		access |= AccessWrite
	}
	s.variables[canonical] = &variable{
		id:     canonical,
		kind:   initial.Kind(),
		access: access,
		value:  initial,
	}
	s.order = append(s.order, canonical)
	return nil
}

// Variables returns a snapshot of all variables in insertion order.
func (s *Space) Variables() []Variable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Variable, 0, len(s.order))
	for _, id := range s.order {
		v := s.variables[id]
		out = append(out, Variable{NodeID: v.id, Value: v.value, Access: v.access})
	}
	return out
}

// Get returns the current value of nodeID regardless of connection state.
func (s *Space) Get(nodeID string) (payload.Value, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, err := s.lookup(nodeID)
	if err != nil {
		return payload.Value{}, err
	}
	return v.value, nil
}

// Set changes a value from the server side. Access flags are ignored but the
// type must match. Subscribers are notified.
func (s *Space) Set(nodeID string, value payload.Value) error {
	return s.store(nodeID, value, false)
}

// Connect implements bridge.DataEndpoint.
func (s *Space) Connect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.connected = true
	s.mu.Unlock()
	s.logger.Debug("nodespace connected", "variables", len(s.Variables()))
	return nil
}

// Disconnect implements bridge.DataEndpoint. Active subscriptions are
// cancelled.
func (s *Space) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	s.connected = false
	subs := s.subs
	s.subs = make(map[uint64]*subscription)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.stop()
	}
	s.logger.Debug("nodespace disconnected", "cancelled_subscriptions", len(subs))
	return nil
}

// Connected reports whether a client session is open.
func (s *Space) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

// NamespaceArray implements bridge.DataEndpoint.
func (s *Space) NamespaceArray(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.connected {
		return nil, ErrNotConnected
	}
	out := make([]string, len(s.namespaces))
	copy(out, s.namespaces)
	return out, nil
}

// Node implements bridge.DataEndpoint.
func (s *Space) Node(nodeID string) (bridge.NodeHandle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.connected {
		return nil, ErrNotConnected
	}
	v, err := s.lookup(nodeID)
	if err != nil {
		return nil, err
	}
	return &Node{space: s, id: v.id}, nil
}

// SubscribeDataChange implements bridge.DataEndpoint. The current value is
// delivered first, then every subsequent write.
func (s *Space) SubscribeDataChange(ctx context.Context, nodeID string, handler bridge.DataChangeHandler) (bridge.Subscription, error) {
	if handler == nil {
		return nil, errors.New("nil data change handler")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return nil, ErrNotConnected
	}
	v, err := s.lookup(nodeID)
	if err != nil {
		return nil, err
	}

	s.nextSub++
	sub := newSubscription(s, s.nextSub, v.id, handler)
	s.subs[sub.id] = sub
	sub.deliver(v.value)
	return sub, nil
}

// SubscriptionCount returns the number of active subscriptions.
func (s *Space) SubscriptionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

func (s *Space) unsubscribe(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[id]; !ok {
		return false
	}
	delete(s.subs, id)
	return true
}

// lookup resolves nodeID in canonical form. Callers hold mu.
func (s *Space) lookup(nodeID string) (*variable, error) {
	if v, ok := s.variables[nodeID]; ok {
		return v, nil
	}
	id, err := parseNodeID(nodeID)
	if err != nil {
		return nil, err
	}
	v, ok := s.variables[id.String()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, nodeID)
	}
	return v, nil
}

// parseNodeID accepts the text form "[ns=<index>;]<i|s|g|b>=<identifier>".
// ua.ParseNodeID alone also takes any bare string as a string identifier.
func parseNodeID(nodeID string) (*ua.NodeID, error) {
	ident := nodeID
	if strings.HasPrefix(ident, "ns=") {
		_, rest, ok := strings.Cut(ident, ";")
		if !ok {
			return nil, fmt.Errorf("%w: %q: missing identifier", ErrInvalidNodeID, nodeID)
		}
		ident = rest
	}
	kind, value, ok := strings.Cut(ident, "=")
	if !ok || len(kind) != 1 || !strings.Contains("isgb", kind) || value == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNodeID, nodeID)
	}

	id, err := ua.ParseNodeID(nodeID)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidNodeID, nodeID, err)
	}
	return id, nil
}

func (s *Space) store(nodeID string, value payload.Value, client bool) error {
	s.mu.Lock()
	if client && !s.connected {
		s.mu.Unlock()
		return ErrNotConnected
	}
	v, err := s.lookup(nodeID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if client && !v.access.CanWrite() {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotWritable, v.id)
	}
	if value.Kind() != v.kind {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s holds %s, got %s", ErrTypeMismatch, v.id, v.kind, value.Kind())
	}
	v.value = value

	var targets []*subscription
	for _, sub := range s.subs {
		if sub.nodeID == v.id {
			targets = append(targets, sub)
		}
	}
	s.mu.Unlock()

	s.logger.Debug("variable updated", "node_id", v.id, "value", value, "client", client)
	for _, sub := range targets {
		sub.deliver(value)
	}
	return nil
}

// Node is a handle for one variable.
type Node struct {
	space *Space
	id    string
}

// ID implements bridge.NodeHandle.
func (n *Node) ID() string { return n.id }

// Value implements bridge.NodeHandle.
func (n *Node) Value(ctx context.Context) (payload.Value, error) {
	n.space.mu.RLock()
	defer n.space.mu.RUnlock()
	if !n.space.connected {
		return payload.Value{}, ErrNotConnected
	}
	v, err := n.space.lookup(n.id)
	if err != nil {
		return payload.Value{}, err
	}
	return v.value, nil
}

// SetValue implements bridge.NodeHandle.
func (n *Node) SetValue(ctx context.Context, value payload.Value) error {
	return n.space.store(n.id, value, true)
}

// Compile-time interface checks.
var (
	_ bridge.DataEndpoint = (*Space)(nil)
	_ bridge.NodeHandle   = (*Node)(nil)
	_ bridge.Subscription = (*subscription)(nil)
)
