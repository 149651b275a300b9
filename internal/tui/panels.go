package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/rusenback/netviz/internal/model"
)

func (m Model) panel(width, height int, content string) string {
	return panelStyle.
		Width(max(width-4, 1)).
		Height(max(height-4, 1)).
		Render(content)
}

// renderResourcePanel renders the resource list with live counters
func (m Model) renderResourcePanel(width, height int) string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("🌐 Resources") + "\n\n")

	if m.topo == nil {
		s.WriteString("Waiting for topology...\n")
		return m.panel(width, height, s.String())
	}

	running := 0
	for _, r := range m.topo.Resources {
		if m.stats[r.ID].OK() {
			running++
		}
	}
	s.WriteString(fmt.Sprintf("%d resources, %d running, %s\n\n", len(m.topo.Resources), running, m.updateAge()))

	colWidth := width - 16
	nameWidth := int(float64(colWidth) * 0.30)
	typeWidth := 10
	statusWidth := 12
	counterWidth := max((colWidth-nameWidth-typeWidth-statusWidth)/2, 8)

	header := fmt.Sprintf("%-*s %-*s %-*s %*s %*s",
		nameWidth, "NAME",
		typeWidth, "TYPE",
		statusWidth, "STATUS",
		counterWidth, "RX",
		counterWidth, "TX")
	s.WriteString(headerStyle.Render(header) + "\n")

	maxRows := height - 12
	for i, r := range m.topo.Resources {
		if i >= maxRows {
			break
		}
		snap, seen := m.stats[r.ID]

		status := "-"
		if seen {
			status = string(snap.Status)
		}

		line := fmt.Sprintf("%-*s %-*s %-*s %*s %*s",
			nameWidth, truncate(r.Label, nameWidth),
			typeWidth, string(r.Category),
			statusWidth, status,
			counterWidth, humanize.Bytes(snap.RxBytes),
			counterWidth, humanize.Bytes(snap.TxBytes),
		)

		switch {
		case i == m.cursor:
			s.WriteString(selectedStyle.Render("> " + line))
		case !seen:
			s.WriteString("  " + dimStyle.Render(line))
		default:
			s.WriteString("  " + statusStyle(snap.Status).Render(line))
		}
		s.WriteString("\n")
	}

	if m.closed {
		s.WriteString("\n" + stoppedStyle.Render("Update channel closed") + "\n")
	}

	s.WriteString(helpStyle.Render(helpLine()))
	return m.panel(width, height, s.String())
}

func statusStyle(status model.Status) lipgloss.Style {
	switch status {
	case model.StatusRunning:
		return runningStyle
	case model.StatusUnreachable:
		return unreachableStyle
	default:
		return stoppedStyle
	}
}

// renderDetailPanel shows the selected resource
func (m Model) renderDetailPanel(width, height int) string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("📊 Details") + "\n\n")

	if m.topo == nil || len(m.topo.Resources) == 0 {
		s.WriteString("No resource selected")
		return m.panel(width, height, s.String())
	}

	r := m.topo.Resources[m.cursor]
	snap := m.stats[r.ID]

	s.WriteString(fmt.Sprintf("%s (%s)\n", r.Label, r.ID))
	s.WriteString(dimStyle.Render(fmt.Sprintf("%s · %s", r.Category, r.Address)) + "\n")
	if subnets := m.subnetsOf[r.ID]; len(subnets) > 0 {
		s.WriteString(dimStyle.Render("subnets: "+strings.Join(subnets, ", ")) + "\n")
	}
	s.WriteString("\n")

	s.WriteString(rxStyle.Render(fmt.Sprintf("RX %s  (%s packets)", humanize.Bytes(snap.RxBytes), humanize.Comma(int64(snap.RxPackets)))) + "\n")
	s.WriteString(txStyle.Render(fmt.Sprintf("TX %s  (%s packets)", humanize.Bytes(snap.TxBytes), humanize.Comma(int64(snap.TxPackets)))) + "\n")
	if snap.Error != "" {
		s.WriteString("\n" + stoppedStyle.Render(truncate(snap.Error, width-8)) + "\n")
	}

	s.WriteString("\n" + dimStyle.Render("traffic per update") + "\n")
	s.WriteString(rxStyle.Render(renderSparkline(m.history[r.ID], max(width-10, 10))))

	return m.panel(width, height, s.String())
}

// renderFeedPanel renders the scrolling activity feed
func (m Model) renderFeedPanel(width, height int) string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("📡 Activity"))
	if m.feedAutoScroll {
		s.WriteString(dimStyle.Render(" [Auto-scroll: ON]"))
	}
	s.WriteString("\n\n")

	if len(m.feed) == 0 {
		s.WriteString("No activity yet...")
		return m.panel(width, height, s.String())
	}

	visible := m.visibleFeedLines()
	start := min(m.feedScroll, m.maxFeedScroll())
	end := min(start+visible, len(m.feed))

	for _, e := range m.feed[start:end] {
		s.WriteString(formatFeedEntry(e, width-8) + "\n")
	}

	if len(m.feed) > visible {
		s.WriteString(dimStyle.Render(fmt.Sprintf("\n[%d/%d] PgUp/PgDown:scroll | a:toggle auto | c:clear", start+1, len(m.feed))))
	}
	return m.panel(width, height, s.String())
}

func formatFeedEntry(e feedEntry, width int) string {
	r := e.Record
	line := fmt.Sprintf("%-12s ↓%-10s ↑%-10s %d/%d pkts",
		r.Resource,
		humanize.Bytes(r.RxBytes),
		humanize.Bytes(r.TxBytes),
		r.RxPackets, r.TxPackets)
	return dimStyle.Render(e.At.Format("15:04:05.000")) + " " + truncate(line, max(width-13, 10))
}

// renderForwardingPanel shows the last forwarding table the router returned
func (m Model) renderForwardingPanel(width, height int) string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("🔀 Forwarding") + "\n\n")

	if m.table == "" {
		s.WriteString("No forwarding table yet...")
		return m.panel(width, height, s.String())
	}

	lines := strings.Split(strings.TrimRight(m.table, "\n"), "\n")
	limit := max(height-8, 1)
	for i, line := range lines {
		if i >= limit {
			s.WriteString(dimStyle.Render(fmt.Sprintf("… %d more lines", len(lines)-limit)))
			break
		}
		s.WriteString(truncate(line, width-8) + "\n")
	}
	return m.panel(width, height, s.String())
}

func (m Model) updateAge() string {
	if m.updates == 0 {
		return "no updates yet"
	}
	return "updated " + humanize.RelTime(m.lastUpdate, time.Now(), "ago", "from now")
}
