// Package monitor polls every resource in the topology on a fixed cadence,
// turns counter deltas into activity records and hands the result to a
// publisher.
package monitor

import (
	"context"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/rusenback/netviz/internal/metrics"
	"github.com/rusenback/netviz/internal/model"
)

const DefaultInterval = 500 * time.Millisecond

// StatsFetcher returns a snapshot for one resource. It must not fail;
// errors are carried in the snapshot status.
type StatsFetcher interface {
	Fetch(ctx context.Context, id string) model.Snapshot
}

// Prober returns the forwarding table of a router resource, if available
type Prober interface {
	Probe(ctx context.Context, id string) (string, bool)
}

// Publisher receives the payload of every cycle that has something to report
type Publisher interface {
	Publish(p *model.UpdatePayload)
}

// Options configures a Monitor
type Options struct {
	Topology  *model.Topology
	Stats     StatsFetcher
	Prober    Prober // nil disables the forwarding-table probe
	Publisher Publisher
	Router    string
	Interval  time.Duration
	Threshold uint64
	Logger    *log.Logger
	Metrics   *metrics.Metrics
	Now       func() time.Time
}

// Monitor runs the polling loop. It owns the previous-snapshot table;
// nothing else reads or writes it.
type Monitor struct {
	topo      *model.Topology
	stats     StatsFetcher
	prober    Prober
	publisher Publisher
	router    string
	interval  time.Duration
	threshold uint64
	logger    *log.Logger
	metrics   *metrics.Metrics
	now       func() time.Time

	previous map[string]model.Snapshot
}

// New creates a monitor, filling unset options with defaults
func New(opts Options) *Monitor {
	m := &Monitor{
		topo:      opts.Topology,
		stats:     opts.Stats,
		prober:    opts.Prober,
		publisher: opts.Publisher,
		router:    opts.Router,
		interval:  opts.Interval,
		threshold: opts.Threshold,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		now:       opts.Now,
		previous:  make(map[string]model.Snapshot),
	}
	if m.interval <= 0 {
		m.interval = DefaultInterval
	}
	if m.logger == nil {
		m.logger = log.New(os.Stderr, "monitor: ", log.LstdFlags)
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// Run executes a cycle immediately and then once per interval until ctx
// is cancelled. A cycle that panics is logged and the loop carries on.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		m.safeCycle(ctx)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (m *Monitor) safeCycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			m.metrics.LoopPanicked()
			m.logger.Printf("Monitor error: %v\n%s", r, debug.Stack())
		}
	}()

	m.metrics.CycleStarted()
	start := time.Now()
	m.Cycle(ctx)
	m.metrics.ObserveCycle(time.Since(start))
}

// Cycle polls every resource once, computes activity against the previous
// cycle and publishes a payload if there was activity or the probe
// returned a forwarding table. It reports whether a payload was published.
func (m *Monitor) Cycle(ctx context.Context) (*model.UpdatePayload, bool) {
	current := FetchAll(ctx, m.topo, m.stats)

	var activity []model.ActivityRecord
	for _, id := range m.topo.ResourceIDs() {
		snap := current[id]
		if !snap.OK() {
			m.metrics.FetchFailed(id, string(snap.Status))
		}

		var prev *model.Snapshot
		if p, ok := m.previous[id]; ok {
			prev = &p
		}
		if rec := Compute(id, prev, snap, m.threshold); rec != nil {
			activity = append(activity, *rec)
		}
	}

	var table string
	if m.prober != nil && m.router != "" {
		table, _ = m.prober.Probe(ctx, m.router)
	}

	// Replace the baseline before handing off the payload
	m.previous = current

	if len(activity) == 0 && table == "" {
		m.metrics.PayloadSuppressed()
		return nil, false
	}

	payload := &model.UpdatePayload{
		Timestamp:       m.now(),
		Activity:        activity,
		Stats:           current,
		ForwardingTable: table,
	}
	m.publisher.Publish(payload)
	m.metrics.PayloadPublished()
	return payload, true
}

// FetchAll polls every resource of the topology in registry order
func FetchAll(ctx context.Context, topo *model.Topology, stats StatsFetcher) map[string]model.Snapshot {
	current := make(map[string]model.Snapshot, len(topo.Resources))
	for _, id := range topo.ResourceIDs() {
		current[id] = stats.Fetch(ctx, id)
	}
	return current
}
