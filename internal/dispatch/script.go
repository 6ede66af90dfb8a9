package dispatch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gcpctl/gcpctl/internal/plan"
	gcperrors "github.com/gcpctl/gcpctl/pkg/errors"
)

// scriptHeader opens every emitted artifact. The strict-failure directive
// makes a partially failing re-run stop at the first broken command, the
// same fail-fast contract EXECUTE mode has.
const scriptHeader = "#!/usr/bin/env bash\nset -euo pipefail\n"

func (d *Dispatcher) emit(p *plan.Plan, mode Mode, actions []plan.Action) (Result, error) {
	result := Result{Mode: mode}

	name := fmt.Sprintf("%s-apply-%s.sh", sanitizeName(p.Target), mode)
	path := filepath.Join(d.outputDir, name)

	content := renderScript(p, mode, actions)
	if err := os.MkdirAll(d.outputDir, 0o755); err != nil {
		result.Failed = true
		return result, fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		result.Failed = true
		return result, fmt.Errorf("write script artifact: %w", err)
	}

	result.ScriptPath = path
	d.log.WithFields(map[string]any{"path": path, "actions": len(actions)}).Info("script artifact written")
	return result, nil
}

func renderScript(p *plan.Plan, mode Mode, actions []plan.Action) string {
	var b strings.Builder
	b.WriteString(scriptHeader)
	fmt.Fprintf(&b, "# generated by gcpctl on %s for %s (%s plan)\n", time.Now().Format(time.RFC3339), p.Target, mode)
	if mode == ModeEmitFull {
		b.WriteString("# idempotent: re-running reconciles the resource to the declared state\n")
	}
	for _, diag := range p.Diagnostics() {
		fmt.Fprintf(&b, "# %s\n", diag)
	}
	b.WriteString("\n")

	for _, action := range actions {
		fmt.Fprintf(&b, "# %s\n", action.Description)
		line := action.CommandLine()
		if mode == ModeEmitFull && action.GuardExists {
			line += " || true # tolerated: resource may already exist"
		}
		b.WriteString(line)
		b.WriteString("\n\n")
	}
	return b.String()
}

// sanitizeName keeps script file names shell-friendly.
func sanitizeName(target string) string {
	replacer := strings.NewReplacer("/", "-", ":", "-", "@", "-", " ", "-")
	name := replacer.Replace(target)
	if name == "" {
		name = "plan"
	}
	return name
}

// ValidateMode checks an operator-supplied mode string.
func ValidateMode(raw string) (Mode, error) {
	switch Mode(raw) {
	case ModeExecute, ModeEmitMinimal, ModeEmitFull:
		return Mode(raw), nil
	default:
		return "", gcperrors.NewValidationError("mode",
			fmt.Sprintf("unknown mode %q, expected execute, emit-minimal or emit-full", raw), nil)
	}
}
