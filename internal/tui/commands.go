package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// tickCmd refreshes the "last update" age once a second
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForMessage creates a command that waits for the next hub message
func waitForMessage(src Source) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-src.C()
		if !ok {
			return closedMsg{}
		}
		return hubMsg{msg: msg}
	}
}
