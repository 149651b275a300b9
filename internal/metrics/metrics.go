// Package metrics exposes prometheus collectors for the monitor loop and
// the broadcast hub. A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "netviz"

// Metrics groups every collector the service exports
type Metrics struct {
	Cycles        prometheus.Counter
	CycleDuration prometheus.Histogram
	FetchFailures *prometheus.CounterVec
	Published     prometheus.Counter
	Suppressed    prometheus.Counter
	LoopPanics    prometheus.Counter
	Subscribers   prometheus.Gauge
	Dropped       prometheus.Counter
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "monitor", Name: "cycles_total",
			Help: "Monitor cycles started.",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "monitor", Name: "cycle_duration_seconds",
			Help:    "Time spent collecting and publishing one cycle.",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
		}),
		FetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "monitor", Name: "fetch_failures_total",
			Help: "Stats fetches that returned an error or unreachable status.",
		}, []string{"resource", "status"}),
		Published: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "monitor", Name: "payloads_published_total",
			Help: "Update payloads handed to the hub.",
		}),
		Suppressed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "monitor", Name: "payloads_suppressed_total",
			Help: "Cycles with no activity and no forwarding table.",
		}),
		LoopPanics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "monitor", Name: "panics_total",
			Help: "Cycles aborted by an unexpected fault.",
		}),
		Subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "hub", Name: "subscribers",
			Help: "Currently connected viewers.",
		}),
		Dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "hub", Name: "deliveries_dropped_total",
			Help: "Messages not delivered because a subscriber was full or closed.",
		}),
	}

	reg.MustRegister(
		m.Cycles, m.CycleDuration, m.FetchFailures, m.Published,
		m.Suppressed, m.LoopPanics, m.Subscribers, m.Dropped,
	)
	return m
}

func (m *Metrics) CycleStarted() {
	if m == nil {
		return
	}
	m.Cycles.Inc()
}

// ObserveCycle records the duration of a cycle that ran to completion
func (m *Metrics) ObserveCycle(d time.Duration) {
	if m == nil {
		return
	}
	m.CycleDuration.Observe(d.Seconds())
}

func (m *Metrics) FetchFailed(resource, status string) {
	if m == nil {
		return
	}
	m.FetchFailures.WithLabelValues(resource, status).Inc()
}

func (m *Metrics) PayloadPublished() {
	if m == nil {
		return
	}
	m.Published.Inc()
}

func (m *Metrics) PayloadSuppressed() {
	if m == nil {
		return
	}
	m.Suppressed.Inc()
}

func (m *Metrics) LoopPanicked() {
	if m == nil {
		return
	}
	m.LoopPanics.Inc()
}

func (m *Metrics) SetSubscribers(n int) {
	if m == nil {
		return
	}
	m.Subscribers.Set(float64(n))
}

func (m *Metrics) DeliveryDropped() {
	if m == nil {
		return
	}
	m.Dropped.Inc()
}
