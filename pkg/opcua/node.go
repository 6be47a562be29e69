package opcua

import (
	"context"
	"fmt"

	"github.com/gopcua/opcua/ua"

	"github.com/tagbridge/tagbridge-go/pkg/bridge"
	"github.com/tagbridge/tagbridge-go/pkg/payload"
)

// Node is a bridge.NodeHandle for one server node.
type Node struct {
	endpoint *Endpoint
	id       *ua.NodeID
	name     string
}

// ID returns the node id as configured.
func (n *Node) ID() string { return n.name }

// Value reads the Value attribute.
func (n *Node) Value(ctx context.Context) (payload.Value, error) {
	c, err := n.endpoint.connected()
	if err != nil {
		return payload.Value{}, err
	}

	res, err := c.Read(ctx, &ua.ReadRequest{
		NodesToRead:        []*ua.ReadValueID{{NodeID: n.id, AttributeID: ua.AttributeIDValue}},
		TimestampsToReturn: ua.TimestampsToReturnBoth,
	})
	if err != nil {
		return payload.Value{}, fmt.Errorf("read %s: %w", n.name, err)
	}
	if len(res.Results) == 0 {
		return payload.Value{}, fmt.Errorf("read %s: %w", n.name, ErrNoResult)
	}

	value, err := dataValue(res.Results[0])
	if err != nil {
		return payload.Value{}, fmt.Errorf("read %s: %w", n.name, err)
	}
	return value, nil
}

// SetValue writes a Double or String variant to the Value attribute.
func (n *Node) SetValue(ctx context.Context, value payload.Value) error {
	c, err := n.endpoint.connected()
	if err != nil {
		return err
	}

	res, err := c.Write(ctx, &ua.WriteRequest{
		NodesToWrite: []*ua.WriteValue{{
			NodeID:      n.id,
			AttributeID: ua.AttributeIDValue,
			Value: &ua.DataValue{
				EncodingMask: ua.DataValueValue,
				Value:        variant(value),
			},
		}},
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", n.name, err)
	}
	if len(res.Results) == 0 {
		return fmt.Errorf("write %s: %w", n.name, ErrNoResult)
	}
	if status := res.Results[0]; status != ua.StatusOK {
		return fmt.Errorf("write %s: %w", n.name, status)
	}
	return nil
}

// Subscription is a bridge.Subscription for one monitored item.
type Subscription struct {
	endpoint *Endpoint
	handle   uint32
	nodeID   string
}

// Unsubscribe removes the monitored item from the shared subscription.
func (s *Subscription) Unsubscribe(ctx context.Context) error {
	if err := s.endpoint.forget(ctx, s.handle); err != nil {
		return fmt.Errorf("unsubscribe %s: %w", s.nodeID, err)
	}
	return nil
}

var (
	_ bridge.NodeHandle   = (*Node)(nil)
	_ bridge.Subscription = (*Subscription)(nil)
)
