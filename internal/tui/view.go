package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gcpctl/gcpctl/internal/dispatch"
)

// View renders the current state of the model.
func (m Model) View() string {
	var sections []string

	sections = append(sections, titleStyle.Render(fmt.Sprintf("gcpctl • %s", m.target)))

	var lines []string
	for _, e := range m.entries {
		line := fmt.Sprintf(" %s %s", statusIcon(e.status), e.description)
		if e.status == dispatch.StatusFailed && strings.TrimSpace(e.stderr) != "" {
			line = fmt.Sprintf("%s - %s", line, strings.TrimSpace(e.stderr))
		}
		lines = append(lines, line)
	}
	if len(lines) > 0 {
		sections = append(sections, strings.Join(lines, "\n"))
	}

	summary := fmt.Sprintf("%d/%d actions complete", m.completed, len(m.entries))
	if m.cancelled {
		summary = "cancelled: already-applied actions remain in effect"
	}
	sections = append(sections, summaryStyle.Render(summary))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func statusIcon(status string) string {
	switch status {
	case dispatch.StatusSuccess:
		return successStyle.Render("✓")
	case dispatch.StatusRunning:
		return runningStyle.Render("⏳")
	case dispatch.StatusFailed:
		return failureStyle.Render("✗")
	case dispatch.StatusNotAttempted:
		return skippedStyle.Render("⊘")
	default:
		return pendingStyle.Render("•")
	}
}
