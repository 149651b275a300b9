package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rusenback/netviz/internal/model"
)

const (
	maxFeedEntries = 500
	maxHistory     = 120
)

// Source delivers hub messages; *hub.Subscriber satisfies it
type Source interface {
	C() <-chan model.Message
}

// feedEntry is one activity record as shown in the feed
type feedEntry struct {
	At     time.Time
	Record model.ActivityRecord
}

// Model represents the TUI application state
type Model struct {
	source Source

	topo       *model.Topology
	subnetsOf  map[string][]string
	stats      map[string]model.Snapshot
	history    map[string][]float64 // bytes moved per update, for sparklines
	feed       []feedEntry
	table      string
	lastUpdate time.Time
	updates    int
	closed     bool

	cursor         int
	feedScroll     int
	feedAutoScroll bool
	width          int
	height         int
}

// Message types for Bubbletea update loop
type tickMsg time.Time

type hubMsg struct {
	msg model.Message
}

type closedMsg struct{}

// NewModel creates a TUI model reading from src
func NewModel(src Source) Model {
	return Model{
		source:         src,
		stats:          make(map[string]model.Snapshot),
		history:        make(map[string][]float64),
		subnetsOf:      make(map[string][]string),
		feedAutoScroll: true,
	}
}

// Init starts listening to the hub and the refresh ticker
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForMessage(m.source), tickCmd())
}
