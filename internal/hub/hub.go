// Package hub fans monitor payloads out to connected viewers.
package hub

import (
	"sync"

	"github.com/rusenback/netviz/internal/metrics"
	"github.com/rusenback/netviz/internal/model"
)

const DefaultBuffer = 16

// Subscriber is one viewer's delivery channel
type Subscriber struct {
	ch     chan model.Message
	mu     sync.Mutex
	closed bool
}

// C returns the channel messages are delivered on. It is closed when the
// subscriber is closed or unsubscribed.
func (s *Subscriber) C() <-chan model.Message {
	return s.ch
}

// deliver hands msg over without blocking. It reports false if the
// subscriber is closed or its buffer is full.
func (s *Subscriber) deliver(msg model.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	select {
	case s.ch <- msg:
		return true
	default:
		return false
	}
}

// Close stops delivery to this subscriber. Safe to call more than once.
func (s *Subscriber) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// Hub holds the set of live subscribers
type Hub struct {
	topo    *model.Topology
	buffer  int
	metrics *metrics.Metrics

	mu   sync.RWMutex
	subs map[*Subscriber]struct{}
}

// New creates a hub that greets every subscriber with topo
func New(topo *model.Topology, buffer int, m *metrics.Metrics) *Hub {
	if buffer < 1 {
		buffer = DefaultBuffer
	}
	return &Hub{
		topo:    topo,
		buffer:  buffer,
		metrics: m,
		subs:    make(map[*Subscriber]struct{}),
	}
}

// Subscribe registers a new subscriber. The topology is queued on its
// channel before it joins the set, so it always precedes any update.
func (h *Hub) Subscribe() *Subscriber {
	s := &Subscriber{ch: make(chan model.Message, h.buffer)}
	s.ch <- model.TopologyMessage(h.topo)

	h.mu.Lock()
	h.subs[s] = struct{}{}
	n := len(h.subs)
	h.mu.Unlock()

	h.metrics.SetSubscribers(n)
	return s
}

// Unsubscribe removes s from the hub and closes it
func (h *Hub) Unsubscribe(s *Subscriber) {
	h.mu.Lock()
	delete(h.subs, s)
	n := len(h.subs)
	h.mu.Unlock()

	s.Close()
	h.metrics.SetSubscribers(n)
}

// Publish delivers p to every subscriber registered at call time. A slow
// or closed subscriber misses the message without affecting the others.
func (h *Hub) Publish(p *model.UpdatePayload) {
	msg := model.UpdateMessage(p)

	for _, s := range h.snapshot() {
		if !s.deliver(msg) {
			h.metrics.DeliveryDropped()
		}
	}
}

// Len returns the number of registered subscribers
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) snapshot() []*Subscriber {
	h.mu.RLock()
	defer h.mu.RUnlock()

	subs := make([]*Subscriber, 0, len(h.subs))
	for s := range h.subs {
		subs = append(subs, s)
	}
	return subs
}
