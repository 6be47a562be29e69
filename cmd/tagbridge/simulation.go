package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/tagbridge/tagbridge-go/pkg/address"
	"github.com/tagbridge/tagbridge-go/pkg/bridge"
	"github.com/tagbridge/tagbridge-go/pkg/config"
	"github.com/tagbridge/tagbridge-go/pkg/membus"
	"github.com/tagbridge/tagbridge-go/pkg/nodespace"
	"github.com/tagbridge/tagbridge-go/pkg/payload"
)

// simNamespaceURI is registered when the configuration names none.
const simNamespaceURI = "urn:tagbridge:sim"

// simulator stands in for the OPC UA server and the MQTT broker. Outbound
// variables follow a slow wave and every inbound filter receives an
// alternating "on"/"off" command.
type simulator struct {
	space    *nodespace.Space
	bus      *membus.Bus
	outbound []string
	commands []string
	interval time.Duration
	logger   *slog.Logger
}

func newSimulator(cfg config.File, interval time.Duration, logger *slog.Logger) (*simulator, error) {
	logger = logger.With("component", "sim")

	space := nodespace.New(nodespace.WithLogger(logger))
	uri := cfg.Endpoint.NamespaceURI
	if uri == "" {
		uri = simNamespaceURI
	}
	for i := 2; i < cfg.Endpoint.NamespaceIndex; i++ {
		space.RegisterNamespace(fmt.Sprintf("%s:unused:%d", simNamespaceURI, i))
	}
	if cfg.Endpoint.NamespaceIndex >= 2 {
		space.RegisterNamespace(uri)
	}

	sim := &simulator{
		space:    space,
		bus:      membus.New(membus.WithLogger(logger)),
		interval: interval,
		logger:   logger,
	}

	// Inbound targets are strings so that any command text is accepted.
	for _, m := range cfg.Inbound {
		if err := space.AddVariable(m.Node, payload.String(""), true); err != nil && !errors.Is(err, nodespace.ErrNodeExists) {
			return nil, fmt.Errorf("simulate %s: %w", m.Node, err)
		}
		sim.commands = append(sim.commands, concreteTopic(m.Topic, cfg.DeviceID))
	}
	for _, m := range cfg.Outbound {
		err := space.AddVariable(m.Node, payload.Float(0), false)
		switch {
		case err == nil:
			sim.outbound = append(sim.outbound, m.Node)
		case errors.Is(err, nodespace.ErrNodeExists):
		default:
			return nil, fmt.Errorf("simulate %s: %w", m.Node, err)
		}
	}

	sim.bus.OnPublish(func(msg bridge.Message) {
		logger.Info("[SIM] broker received", "topic", msg.Topic, "payload", msg.Payload)
	})
	return sim, nil
}

// concreteTopic fills the wildcards of pattern so that it can be published.
func concreteTopic(pattern, deviceID string) string {
	levels := strings.Split(pattern, address.Separator)
	for i, level := range levels {
		switch level {
		case address.SingleLevelWildcard:
			levels[i] = deviceID
		case address.MultiLevelWildcard:
			levels[i] = "sim"
		}
	}
	return strings.Join(levels, address.Separator)
}

func (s *simulator) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("[SIM] simulation started", "outbound", len(s.outbound), "commands", len(s.commands))
	for step := 1; ; step++ {
		select {
		case <-ctx.Done():
			s.logger.Info("[SIM] simulation stopped")
			return
		case <-ticker.C:
			s.tick(step)
		}
	}
}

func (s *simulator) tick(step int) {
	for i, nodeID := range s.outbound {
		phase := float64(step)/10 + float64(i)
		value := math.Round((20+5*math.Sin(phase))*100) / 100
		if err := s.space.Set(nodeID, payload.Float(value)); err != nil {
			s.logger.Warn("[SIM] update failed", "node_id", nodeID, "error", err)
		}
	}

	command := "on"
	if step%2 == 0 {
		command = "off"
	}
	for _, topic := range s.commands {
		matched, err := s.bus.Inject(topic, command)
		switch {
		case err != nil:
			s.logger.Debug("[SIM] command not delivered", "topic", topic, "error", err)
		case !matched:
			s.logger.Debug("[SIM] no subscriber for command", "topic", topic)
		}
	}

	// Only the listener output matters in simulation.
	s.bus.Reset()
}
