package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rusenback/netviz/internal/model"
)

// Update handles messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}

		case key.Matches(msg, keys.Down):
			if m.topo != nil && m.cursor < len(m.topo.Resources)-1 {
				m.cursor++
			}

		case key.Matches(msg, keys.PageUp):
			// Scroll feed up by half page
			step := max(m.visibleFeedLines()/2, 1)
			m.feedScroll = max(m.feedScroll-step, 0)
			m.feedAutoScroll = false

		case key.Matches(msg, keys.PageDown):
			step := max(m.visibleFeedLines()/2, 1)
			m.feedScroll += step
			if maxScroll := m.maxFeedScroll(); m.feedScroll >= maxScroll {
				m.feedScroll = maxScroll
				m.feedAutoScroll = true
			}

		case key.Matches(msg, keys.Auto):
			m.feedAutoScroll = !m.feedAutoScroll
			if m.feedAutoScroll {
				m.feedScroll = m.maxFeedScroll()
			}

		case key.Matches(msg, keys.Clear):
			m.feed = nil
			m.feedScroll = 0
		}

	case tickMsg:
		return m, tickCmd()

	case closedMsg:
		m.closed = true
		return m, nil

	case hubMsg:
		switch data := msg.msg.Data.(type) {
		case *model.Topology:
			m.applyTopology(data)
		case *model.UpdatePayload:
			m.applyUpdate(data)
		}
		// Keep waiting for the next hub message
		return m, waitForMessage(m.source)
	}

	return m, nil
}

func (m *Model) applyTopology(t *model.Topology) {
	m.topo = t
	m.subnetsOf = make(map[string][]string)
	for _, s := range t.Subnets {
		for _, id := range s.Members {
			m.subnetsOf[id] = append(m.subnetsOf[id], s.ID)
		}
	}
	if m.cursor >= len(t.Resources) {
		m.cursor = max(len(t.Resources)-1, 0)
	}
}

func (m *Model) applyUpdate(p *model.UpdatePayload) {
	m.updates++
	m.lastUpdate = p.Timestamp
	for id, snap := range p.Stats {
		m.stats[id] = snap
	}
	if p.ForwardingTable != "" {
		m.table = p.ForwardingTable
	}

	moved := make(map[string]float64, len(p.Activity))
	for _, rec := range p.Activity {
		moved[rec.Resource] = float64(rec.RxBytes + rec.TxBytes)
		m.feed = append(m.feed, feedEntry{At: p.Timestamp, Record: rec})
	}
	if len(m.feed) > maxFeedEntries {
		m.feed = m.feed[len(m.feed)-maxFeedEntries:]
	}

	if m.topo != nil {
		for _, r := range m.topo.Resources {
			h := append(m.history[r.ID], moved[r.ID])
			if len(h) > maxHistory {
				h = h[len(h)-maxHistory:]
			}
			m.history[r.ID] = h
		}
	}

	if m.feedAutoScroll {
		m.feedScroll = m.maxFeedScroll()
	}
}
