package bridge

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tagbridge/tagbridge-go/pkg/log"
)

// Metrics counts routing outcomes. A nil *Metrics records nothing.
type Metrics struct {
	routed        *prometheus.CounterVec
	dropped       *prometheus.CounterVec
	subscriptions prometheus.Gauge
}

// NewMetrics creates the bridge collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		routed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tagbridge",
			Name:      "events_routed_total",
			Help:      "Events delivered to the opposite side, by direction.",
		}, []string{"direction"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tagbridge",
			Name:      "events_dropped_total",
			Help:      "Events not delivered, by direction and reason.",
		}, []string{"direction", "reason"}),
		subscriptions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tagbridge",
			Name:      "node_subscriptions",
			Help:      "Data points with an active change subscription.",
		}),
	}

	for _, c := range []prometheus.Collector{m.routed, m.dropped, m.subscriptions} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) recordRouted(dir log.Direction) {
	if m == nil {
		return
	}
	m.routed.WithLabelValues(directionLabel(dir)).Inc()
}

func (m *Metrics) recordDropped(dir log.Direction, reason string) {
	if m == nil {
		return
	}
	m.dropped.WithLabelValues(directionLabel(dir), reason).Inc()
}

func (m *Metrics) setSubscriptions(n int) {
	if m == nil {
		return
	}
	m.subscriptions.Set(float64(n))
}

func directionLabel(dir log.Direction) string {
	switch dir {
	case log.DirectionInbound:
		return "inbound"
	case log.DirectionOutbound:
		return "outbound"
	default:
		return "none"
	}
}
