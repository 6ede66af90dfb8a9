package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gcpctl/gcpctl/internal/dispatch"
	"github.com/gcpctl/gcpctl/internal/plan"
)

// ProgramObserver forwards dispatcher progress into a running bubbletea
// program.
type ProgramObserver struct {
	program *tea.Program
}

var _ dispatch.Observer = (*ProgramObserver)(nil)

// NewProgramObserver wraps the program.
func NewProgramObserver(program *tea.Program) *ProgramObserver {
	return &ProgramObserver{program: program}
}

// ActionStarted implements dispatch.Observer.
func (o *ProgramObserver) ActionStarted(index int, _ plan.Action) {
	o.program.Send(ActionStartMsg{Index: index})
}

// ActionFinished implements dispatch.Observer.
func (o *ProgramObserver) ActionFinished(index int, result dispatch.ActionResult) {
	o.program.Send(ActionDoneMsg{Index: index, Result: result})
}
