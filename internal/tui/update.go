package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gcpctl/gcpctl/internal/dispatch"
)

// Update handles bubbletea messages and updates model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ActionStartMsg:
		if msg.Index >= 0 && msg.Index < len(m.entries) {
			m.entries[msg.Index].status = dispatch.StatusRunning
		}
		return m, nil
	case ActionDoneMsg:
		if msg.Index < 0 || msg.Index >= len(m.entries) {
			return m, nil
		}
		e := &m.entries[msg.Index]
		alreadyDone := e.status != dispatch.StatusPending && e.status != dispatch.StatusRunning
		e.status = msg.Result.Status
		e.stderr = msg.Result.Stderr
		if !alreadyDone {
			m.completed++
			m.markFinishedIfComplete()
		}
		if msg.Result.Status == dispatch.StatusFailed {
			m.finished = true
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.cancelled = true
			m.finished = true
			return m, tea.Quit
		}
	case tea.QuitMsg:
		m.finished = true
		return m, nil
	}

	return m, nil
}
