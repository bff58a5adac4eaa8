package review

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts logged events and decision outcomes. Attach one via
// Config.Metrics and register it with your Prometheus registry.
type Metrics struct {
	events    *prometheus.CounterVec
	decisions *prometheus.CounterVec
}

// NewMetrics creates unregistered collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "happyreview_events_total",
				Help: "Total number of events reported to the decision engine.",
			},
			[]string{"event"},
		),
		decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "happyreview_decisions_total",
				Help: "Decision outcomes per LogEvent call.",
			},
			[]string{"result"},
		),
	}
}

// Register registers the collectors with reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	if err := reg.Register(m.events); err != nil {
		return err
	}
	return reg.Register(m.decisions)
}

func (m *Metrics) observe(event string, result Result) {
	m.events.WithLabelValues(event).Inc()
	m.decisions.WithLabelValues(string(result)).Inc()
}
