// Package tui renders execute-mode progress with bubbletea.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gcpctl/gcpctl/internal/dispatch"
	"github.com/gcpctl/gcpctl/internal/plan"
)

// ActionStartMsg indicates an action has started executing.
type ActionStartMsg struct {
	Index int
}

// ActionDoneMsg reports that an action finished.
type ActionDoneMsg struct {
	Index  int
	Result dispatch.ActionResult
}

// entry is the display state of one plan action.
type entry struct {
	description string
	status      string
	stderr      string
}

// Model contains the bubbletea state for a plan execution.
type Model struct {
	target    string
	entries   []entry
	completed int
	finished  bool
	cancelled bool
}

// NewModel constructs the progress model for the actions about to run.
func NewModel(target string, actions []plan.Action) Model {
	entries := make([]entry, len(actions))
	for i, a := range actions {
		entries[i] = entry{description: a.Description, status: dispatch.StatusPending}
	}
	return Model{target: target, entries: entries}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Finished reports whether every action reached a terminal status.
func (m Model) Finished() bool {
	return m.finished
}

func (m *Model) markFinishedIfComplete() {
	if m.completed >= len(m.entries) {
		m.finished = true
	}
}
