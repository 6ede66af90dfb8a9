// Package presenter prints plan and dispatch summaries. Pure formatting, no
// business logic.
package presenter

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gcpctl/gcpctl/internal/dispatch"
	"github.com/gcpctl/gcpctl/internal/plan"
	"github.com/gcpctl/gcpctl/pkg/diff"
)

var (
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	sectionStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).MarginTop(1)
	requiredStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	okStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	mutedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	diagnosticStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("178")).Italic(true)
)

// FieldChange is one before/after row of the plan report.
type FieldChange struct {
	Field   string
	Current string
	Desired string
}

// Presenter writes human-readable reports to a single writer.
type Presenter struct {
	w io.Writer
}

// New constructs a Presenter writing to w.
func New(w io.Writer) *Presenter {
	return &Presenter{w: w}
}

// PlanSummary prints the plan's actions with their classification plus any
// diagnostics recorded during planning.
func (pr *Presenter) PlanSummary(p *plan.Plan) {
	fmt.Fprintln(pr.w, titleStyle.Render(fmt.Sprintf("Plan for %s", p.Target)))

	minimal := p.Minimal()
	full := p.Full()

	if len(minimal) == 0 {
		fmt.Fprintln(pr.w, okStyle.Render("current state already matches desired state"))
	} else {
		fmt.Fprintln(pr.w, sectionStyle.Render(fmt.Sprintf("Required actions (%d)", len(minimal))))
		for _, a := range minimal {
			fmt.Fprintf(pr.w, " %s %s\n", requiredStyle.Render("→"), a.Description)
		}
	}

	declarativeOnly := len(full) - len(minimal)
	if declarativeOnly > 0 {
		fmt.Fprintln(pr.w, mutedStyle.Render(fmt.Sprintf("(%d more declarative actions in the full rebuild script)", declarativeOnly)))
	}

	for _, d := range p.Diagnostics() {
		fmt.Fprintln(pr.w, diagnosticStyle.Render(d.String()))
	}
}

// FieldChanges prints a before/after report. Multi-line values are rendered
// as line diffs.
func (pr *Presenter) FieldChanges(changes []FieldChange) {
	if len(changes) == 0 {
		return
	}
	fmt.Fprintln(pr.w, sectionStyle.Render("Changes"))
	for _, c := range changes {
		if strings.Contains(c.Current, "\n") || strings.Contains(c.Desired, "\n") {
			fmt.Fprintf(pr.w, " %s:\n%s\n", c.Field, indent(diff.Render(c.Current, c.Desired), "   "))
			continue
		}
		fmt.Fprintf(pr.w, " %s: %s %s %s\n", c.Field, mutedStyle.Render(orUnset(c.Current)), mutedStyle.Render("→"), c.Desired)
	}
}

// DispatchSummary prints the outcome of a dispatch run.
func (pr *Presenter) DispatchSummary(res dispatch.Result) {
	switch {
	case res.ScriptPath != "":
		fmt.Fprintln(pr.w, okStyle.Render(fmt.Sprintf("script written: %s", res.ScriptPath)))
	case res.Failed:
		fmt.Fprintln(pr.w, failStyle.Render(fmt.Sprintf(
			"failed: %d succeeded, %d failed, %d not attempted", res.Succeeded, res.FailedCount, res.NotAttempted)))
		for _, a := range res.Actions {
			if a.Status == dispatch.StatusFailed && a.Stderr != "" {
				fmt.Fprintln(pr.w, mutedStyle.Render(indent(strings.TrimSpace(a.Stderr), "   ")))
			}
		}
	default:
		fmt.Fprintln(pr.w, okStyle.Render(fmt.Sprintf("done: %d actions applied", res.Succeeded)))
	}
}

func orUnset(v string) string {
	if strings.TrimSpace(v) == "" {
		return "<unset>"
	}
	return v
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
