package address

import "fmt"

// Outbound maps a node to the topic template its changes are published on.
type Outbound struct {
	NodeID   string
	Template string
}

// Inbound maps a topic pattern to the node that messages matching it are
// written to.
type Inbound struct {
	Pattern string
	NodeID  string
}

// Table is the immutable, validated bidirectional mapping. A *Table is safe
// for concurrent use.
type Table struct {
	outbound      map[string]string
	outboundOrder []string
	inbound       []Inbound
}

// NewTable validates both mapping sets and builds a table. Inbound entries
// keep their declaration order. Any invalid entry is reported as a
// *ConfigError.
func NewTable(outbound []Outbound, inbound []Inbound) (*Table, error) {
	t := &Table{
		outbound:      make(map[string]string, len(outbound)),
		outboundOrder: make([]string, 0, len(outbound)),
		inbound:       make([]Inbound, 0, len(inbound)),
	}

	for i, entry := range outbound {
		if entry.NodeID == "" {
			return nil, &ConfigError{Set: "outbound", Index: i, Entry: entry.Template, Err: ErrEmptyNodeID}
		}
		if err := ValidateTemplate(entry.Template); err != nil {
			return nil, &ConfigError{Set: "outbound", Index: i, Entry: entry.Template, Err: err}
		}
		if _, exists := t.outbound[entry.NodeID]; exists {
			return nil, &ConfigError{
				Set:   "outbound",
				Index: i,
				Entry: entry.NodeID,
				Err:   fmt.Errorf("%w: node already mapped", ErrDuplicateMapping),
			}
		}
		t.outbound[entry.NodeID] = entry.Template
		t.outboundOrder = append(t.outboundOrder, entry.NodeID)
	}

	seen := make(map[string]struct{}, len(inbound))
	for i, entry := range inbound {
		if err := ValidatePattern(entry.Pattern); err != nil {
			return nil, &ConfigError{Set: "inbound", Index: i, Entry: entry.Pattern, Err: err}
		}
		if entry.NodeID == "" {
			return nil, &ConfigError{Set: "inbound", Index: i, Entry: entry.Pattern, Err: ErrEmptyNodeID}
		}
		if _, exists := seen[entry.Pattern]; exists {
			return nil, &ConfigError{
				Set:   "inbound",
				Index: i,
				Entry: entry.Pattern,
				Err:   fmt.Errorf("%w: pattern already mapped", ErrDuplicateMapping),
			}
		}
		seen[entry.Pattern] = struct{}{}
		t.inbound = append(t.inbound, entry)
	}

	return t, nil
}

// ResolveOutbound returns the topic template for nodeID.
func (t *Table) ResolveOutbound(nodeID string) (string, bool) {
	template, ok := t.outbound[nodeID]
	return template, ok
}

// ResolveInbound returns the node mapped from the first pattern, in
// declaration order, that matches topic.
func (t *Table) ResolveInbound(topic string) (string, bool) {
	for _, entry := range t.inbound {
		if Match(entry.Pattern, topic) {
			return entry.NodeID, true
		}
	}
	return "", false
}

// OutboundNodes returns the mapped node IDs in declaration order.
func (t *Table) OutboundNodes() []string {
	nodes := make([]string, len(t.outboundOrder))
	copy(nodes, t.outboundOrder)
	return nodes
}

// InboundPatterns returns the topic patterns in declaration order.
func (t *Table) InboundPatterns() []string {
	patterns := make([]string, len(t.inbound))
	for i, entry := range t.inbound {
		patterns[i] = entry.Pattern
	}
	return patterns
}

// Len returns the number of outbound and inbound mappings.
func (t *Table) Len() (outbound, inbound int) {
	return len(t.outboundOrder), len(t.inbound)
}
