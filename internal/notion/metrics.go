package notion

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records Notion API traffic. A nil *Metrics is valid and records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewMetrics registers the Notion collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wawa",
			Subsystem: "notion",
			Name:      "requests_total",
			Help:      "Notion API requests by operation and outcome.",
		}, []string{"op", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "wawa",
			Subsystem: "notion",
			Name:      "request_duration_seconds",
			Help:      "Notion API request latency.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2, 5, 10},
		}, []string{"op"}),
	}
	reg.MustRegister(m.requests, m.latency)
	return m
}

func (m *Metrics) observe(op string, err error, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(op, outcome(err)).Inc()
	m.latency.WithLabelValues(op).Observe(d.Seconds())
}
