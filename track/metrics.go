package track

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wippyai/sharedref"
)

// Metrics exports handle lifecycle activity to Prometheus. It implements
// sharedref.Observer; subscribe it to a Registry or pass it directly to
// sharedref.WithObserver.
type Metrics struct {
	liveBlocks *prometheus.GaugeVec
	events     *prometheus.CounterVec
}

// NewMetrics creates the collectors. Call Register to attach them to a
// prometheus.Registerer.
func NewMetrics() *Metrics {
	return &Metrics{
		liveBlocks: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "sharedref",
			Name:      "live_blocks",
			Help:      "Control blocks currently allocated, by storage mode.",
		}, []string{"mode"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sharedref",
			Name:      "events_total",
			Help:      "Handle lifecycle events, by type.",
		}, []string{"event"}),
	}
}

// Register attaches the collectors to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	if err := reg.Register(m.liveBlocks); err != nil {
		return err
	}
	return reg.Register(m.events)
}

// OnHandleEvent implements sharedref.Observer.
func (m *Metrics) OnHandleEvent(e sharedref.Event) {
	m.events.WithLabelValues(e.Type.String()).Inc()

	switch e.Type {
	case sharedref.EventAlloc:
		m.liveBlocks.WithLabelValues(e.Mode.String()).Inc()
	case sharedref.EventFree:
		m.liveBlocks.WithLabelValues(e.Mode.String()).Dec()
	}
}
