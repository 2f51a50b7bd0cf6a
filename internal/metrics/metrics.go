// Package metrics exposes Prometheus counters for the session engine. A nil
// *Metrics is valid and records nothing.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outcome labels for action metrics.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

type Metrics struct {
	actions     *prometheus.CounterVec
	connections *prometheus.CounterVec
	online      prometheus.Gauge
	deliveries  prometheus.Counter
	dropped     prometheus.Counter
}

// New creates the engine metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dungeon_actions_total",
				Help: "Player actions by event and outcome",
			},
			[]string{"event", "outcome"},
		),
		connections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dungeon_connections_total",
				Help: "Session joins and leaves",
			},
			[]string{"kind"},
		),
		online: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dungeon_players_online",
			Help: "Players currently in the game",
		}),
		deliveries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dungeon_deliveries_total",
			Help: "Outbound events published to players",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dungeon_deliveries_dropped_total",
			Help: "Outbound events dropped because a connection fell behind",
		}),
	}

	reg.MustRegister(m.actions, m.connections, m.online, m.deliveries, m.dropped)
	return m
}

func (m *Metrics) Action(event, outcome string) {
	if m == nil {
		return
	}
	m.actions.WithLabelValues(event, outcome).Inc()
}

// Joined records a new session. evicted is true when it replaced an older one.
func (m *Metrics) Joined(evicted bool) {
	if m == nil {
		return
	}
	if evicted {
		m.connections.WithLabelValues("evict").Inc()
		return
	}
	m.connections.WithLabelValues("join").Inc()
	m.online.Inc()
}

func (m *Metrics) Left() {
	if m == nil {
		return
	}
	m.connections.WithLabelValues("leave").Inc()
	m.online.Dec()
}

func (m *Metrics) Delivered(n int) {
	if m == nil {
		return
	}
	m.deliveries.Add(float64(n))
}

func (m *Metrics) Dropped() {
	if m == nil {
		return
	}
	m.dropped.Inc()
}
