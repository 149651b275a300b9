package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.CycleStarted()
		m.ObserveCycle(time.Millisecond)
		m.FetchFailed("router", "error")
		m.PayloadPublished()
		m.PayloadSuppressed()
		m.LoopPanicked()
		m.SetSubscribers(3)
		m.DeliveryDropped()
	})
}

func TestRecorders(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.CycleStarted()
	m.CycleStarted()
	m.ObserveCycle(20 * time.Millisecond)
	m.FetchFailed("coredns", "unreachable")
	m.PayloadPublished()
	m.PayloadSuppressed()
	m.SetSubscribers(2)
	m.DeliveryDropped()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Cycles))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchFailures.WithLabelValues("coredns", "unreachable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Published))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Suppressed))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Subscribers))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Dropped))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "netviz_monitor_cycle_duration_seconds")
	assert.Contains(t, names, "netviz_hub_subscribers")
}
