package gcloud

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// FakeRunner is a scripted Runner used by tests across packages. Responses
// are matched by substring against the joined command line; unmatched
// commands fail loudly so tests never silently shell out.
type FakeRunner struct {
	mu        sync.Mutex
	responses []fakeResponse
	calls     []string
}

type fakeResponse struct {
	match  string
	stdout string
	stderr string
	err    error
}

// NewFakeRunner creates an empty scripted runner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{}
}

// Respond registers stdout for command lines containing match.
func (f *FakeRunner) Respond(match, stdout string) *FakeRunner {
	return f.respond(match, stdout, "", nil)
}

// Fail registers a failure with stderr for command lines containing match.
func (f *FakeRunner) Fail(match, stderr string, err error) *FakeRunner {
	return f.respond(match, "", stderr, err)
}

func (f *FakeRunner) respond(match, stdout, stderr string, err error) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, fakeResponse{match: match, stdout: stdout, stderr: stderr, err: err})
	return f
}

// Run implements Runner.
func (f *FakeRunner) Run(ctx context.Context, program string, args ...string) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	line := program + " " + strings.Join(args, " ")

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, line)

	for _, r := range f.responses {
		if strings.Contains(line, r.match) {
			return r.stdout, r.stderr, r.err
		}
	}
	return "", "", fmt.Errorf("fake runner: no response scripted for %q", line)
}

// Calls returns the command lines executed so far.
func (f *FakeRunner) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}
