// Package gcloud wraps the gcloud CLI as the state provider: it fetches
// current resource state as structured JSON and executes plan actions.
package gcloud

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
)

// Runner executes a provider CLI invocation and returns the captured output
// streams. The argv excludes the program name.
type Runner interface {
	Run(ctx context.Context, program string, args ...string) (stdout, stderr string, err error)
}

// ExecRunner shells out to the real binaries on PATH.
type ExecRunner struct{}

var _ Runner = ExecRunner{}

// Run executes program with args and captures both output streams.
func (ExecRunner) Run(ctx context.Context, program string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, program, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// notFoundMarkers are stderr fragments gcloud prints for missing resources.
// Only these responses may be treated as "resource absent"; any other
// failure propagates as a fetch error.
var notFoundMarkers = []string{
	"NOT_FOUND",
	"was not found",
	"does not exist",
	"Requested entity was not found",
}

func isNotFoundOutput(stderr string) bool {
	for _, marker := range notFoundMarkers {
		if strings.Contains(stderr, marker) {
			return true
		}
	}
	return false
}
