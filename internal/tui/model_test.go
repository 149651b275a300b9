package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rusenback/netviz/internal/model"
	"github.com/rusenback/netviz/internal/topology"
)

type chanSource chan model.Message

func (c chanSource) C() <-chan model.Message { return c }

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func sized(t *testing.T, src Source) Model {
	m := NewModel(src)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 160, Height: 50})
	return m
}

func samplePayload(at time.Time) *model.UpdatePayload {
	return &model.UpdatePayload{
		Timestamp: at,
		Activity: []model.ActivityRecord{
			{Resource: "client10", RxBytes: 4096, TxBytes: 512, RxPackets: 4, TxPackets: 2},
		},
		Stats: map[string]model.Snapshot{
			"client10": {RxBytes: 10_000, TxBytes: 2_000, RxPackets: 40, TxPackets: 20, Status: model.StatusRunning},
			"wan-host": model.FailedSnapshot(model.StatusUnreachable, nil),
		},
		ForwardingTable: "Chain FORWARD (policy ACCEPT 0 packets, 0 bytes)\n",
	}
}

func TestViewBeforeResize(t *testing.T) {
	m := NewModel(make(chanSource))
	assert.Equal(t, "Connecting...", m.View())
}

func TestTopologyMessage(t *testing.T) {
	m := sized(t, make(chanSource))
	m, cmd := update(t, m, hubMsg{msg: model.TopologyMessage(topology.Default())})

	require.NotNil(t, m.topo)
	assert.NotNil(t, cmd, "keeps listening after a message")
	assert.ElementsMatch(t, []string{"vlan10", "vlan20", "wan"}, m.subnetsOf["router"])
	assert.Equal(t, []string{"vlan10", "vlan20"}, m.subnetsOf["coredns"])

	view := m.View()
	assert.Contains(t, view, "Router")
	assert.Contains(t, view, "Nginx HTTPS")
	assert.Contains(t, view, "No activity yet")
}

func TestUpdateMessage(t *testing.T) {
	m := sized(t, make(chanSource))
	m, _ = update(t, m, hubMsg{msg: model.TopologyMessage(topology.Default())})

	at := time.Now()
	m, _ = update(t, m, hubMsg{msg: model.UpdateMessage(samplePayload(at))})

	assert.Equal(t, 1, m.updates)
	assert.Equal(t, at, m.lastUpdate)
	assert.Equal(t, uint64(10_000), m.stats["client10"].RxBytes)
	assert.Equal(t, model.StatusUnreachable, m.stats["wan-host"].Status)
	require.Len(t, m.feed, 1)
	assert.Equal(t, "client10", m.feed[0].Record.Resource)
	assert.Equal(t, []float64{4608}, m.history["client10"])
	assert.Equal(t, []float64{0}, m.history["router"])
	assert.Contains(t, m.table, "Chain FORWARD")

	view := m.View()
	assert.Contains(t, view, "client10")
	assert.Contains(t, view, "Chain FORWARD")
	assert.Contains(t, view, "unreachable")
}

func TestUpdateKeepsLastForwardingTable(t *testing.T) {
	m := sized(t, make(chanSource))
	m, _ = update(t, m, hubMsg{msg: model.UpdateMessage(samplePayload(time.Now()))})

	next := samplePayload(time.Now())
	next.ForwardingTable = ""
	m, _ = update(t, m, hubMsg{msg: model.UpdateMessage(next)})

	assert.Contains(t, m.table, "Chain FORWARD")
	assert.Len(t, m.feed, 2)
}

func TestFeedIsCapped(t *testing.T) {
	m := sized(t, make(chanSource))
	for i := 0; i < maxFeedEntries+20; i++ {
		m, _ = update(t, m, hubMsg{msg: model.UpdateMessage(samplePayload(time.Now()))})
	}
	assert.Len(t, m.feed, maxFeedEntries)
	assert.Equal(t, m.maxFeedScroll(), m.feedScroll)
}

func TestCursorMovement(t *testing.T) {
	m := sized(t, make(chanSource))
	m, _ = update(t, m, hubMsg{msg: model.TopologyMessage(topology.Default())})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.cursor)

	for i := 0; i < 10; i++ {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, 6, m.cursor)
	assert.Contains(t, m.View(), "172.20.0.100")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 5, m.cursor)
}

func TestCursorClampedOnSmallerTopology(t *testing.T) {
	m := sized(t, make(chanSource))
	m, _ = update(t, m, hubMsg{msg: model.TopologyMessage(topology.Default())})
	for i := 0; i < 6; i++ {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}

	small := &model.Topology{Resources: []model.Resource{{ID: "router", Label: "Router", Category: model.CategoryRouter}}}
	m, _ = update(t, m, hubMsg{msg: model.TopologyMessage(small)})
	assert.Equal(t, 0, m.cursor)
}

func TestFeedKeys(t *testing.T) {
	m := sized(t, make(chanSource))
	for i := 0; i < 50; i++ {
		m, _ = update(t, m, hubMsg{msg: model.UpdateMessage(samplePayload(time.Now()))})
	}
	bottom := m.maxFeedScroll()
	require.Positive(t, bottom)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyPgUp})
	assert.False(t, m.feedAutoScroll)
	assert.Less(t, m.feedScroll, bottom)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyPgDown})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyPgDown})
	assert.True(t, m.feedAutoScroll)
	assert.Equal(t, bottom, m.feedScroll)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	assert.False(t, m.feedAutoScroll)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	assert.Empty(t, m.feed)
	assert.Equal(t, 0, m.feedScroll)
}

func TestQuit(t *testing.T) {
	m := sized(t, make(chanSource))
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestWaitForMessage(t *testing.T) {
	src := make(chanSource, 1)
	src <- model.TopologyMessage(topology.Default())

	msg := waitForMessage(src)()
	hm, ok := msg.(hubMsg)
	require.True(t, ok)
	assert.Equal(t, model.EventTopology, hm.msg.Event)

	close(src)
	assert.Equal(t, closedMsg{}, waitForMessage(src)())
}

func TestClosedSource(t *testing.T) {
	m := sized(t, make(chanSource))
	m, _ = update(t, m, hubMsg{msg: model.TopologyMessage(topology.Default())})
	m, cmd := update(t, m, closedMsg{})
	assert.True(t, m.closed)
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "Update channel closed")
}

func TestRenderSparkline(t *testing.T) {
	assert.Equal(t, "", renderSparkline([]float64{1, 2}, 0))
	assert.Equal(t, "▁▁▁▁", renderSparkline(nil, 4))

	line := renderSparkline([]float64{0, 5, 10}, 3)
	assert.Equal(t, "▁▄█", line)

	// Only the most recent points are drawn
	assert.Equal(t, 2, len([]rune(renderSparkline([]float64{1, 2, 3, 4}, 2))))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd...", truncate("abcdefghij", 7))
	assert.True(t, strings.HasPrefix(truncate("abcdefghij", 7), "abcd"))
}
