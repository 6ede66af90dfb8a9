package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"

	"github.com/gcpctl/gcpctl/internal/gcloud"
)

func executeCommand(root *cobra.Command, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// withFakeRunner points command wiring at a scripted runner for the test.
func withFakeRunner(t *testing.T, fake *gcloud.FakeRunner) {
	t.Helper()
	original := defaultRunner
	defaultRunner = fake
	t.Cleanup(func() { defaultRunner = original })
}
