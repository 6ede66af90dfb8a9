package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gcpctl/gcpctl/internal/gcloud"
)

func TestWorkloadBindFlagsReachRunner(t *testing.T) {
	originalRunner := workloadBindRunner
	t.Cleanup(func() { workloadBindRunner = originalRunner })

	var got workloadBindOptions
	workloadBindRunner = func(ctx context.Context, root *rootFlags, opts workloadBindOptions) error {
		got = opts
		return nil
	}

	_, err := executeCommand(newRootCmd(),
		"workload", "bind", "app-sa",
		"--project", "my-proj",
		"--namespace", "backend",
		"--ksa", "app-ksa",
	)
	require.NoError(t, err)
	require.Equal(t, "app-sa", got.gsaName)
	require.Equal(t, "my-proj", got.project)
	require.Equal(t, "backend", got.namespace)
	require.Equal(t, "app-ksa", got.ksaName)
}

func TestWorkloadBindMissingGSAWritesAllThreeLegs(t *testing.T) {
	fake := gcloud.NewFakeRunner().
		Fail("service-accounts describe app-sa@my-proj.iam.gserviceaccount.com",
			"ERROR: (gcloud.iam.service-accounts.describe) NOT_FOUND",
			errors.New("exit status 1")).
		Fail("kubectl get serviceaccount", "", errors.New("no cluster access"))
	withFakeRunner(t, fake)

	outputDir := t.TempDir()
	_, err := executeCommand(newRootCmd(),
		"workload", "bind", "app-sa",
		"--project", "my-proj",
		"--namespace", "backend",
		"--ksa", "app-ksa",
		"--non-interactive", "--mode", "emit-minimal",
		"--output-dir", outputDir,
	)
	require.NoError(t, err)

	script, err := os.ReadFile(filepath.Join(outputDir, "app-sa-apply-emit-minimal.sh"))
	require.NoError(t, err)

	content := string(script)
	require.Contains(t, content, "gcloud iam service-accounts create app-sa")
	require.Contains(t, content, "add-iam-policy-binding app-sa@my-proj.iam.gserviceaccount.com")
	require.Contains(t, content, "serviceAccount:my-proj.svc.id.goog[backend/app-ksa]")
	require.Contains(t, content, "kubectl annotate serviceaccount app-ksa")

	// create must come before bind
	require.Less(t, strings.Index(content, "service-accounts create"), strings.Index(content, "add-iam-policy-binding"))
}

func TestWorkloadBindFullyBoundHasEmptyMinimalPlan(t *testing.T) {
	const email = "app-sa@my-proj.iam.gserviceaccount.com"
	fake := gcloud.NewFakeRunner().
		Respond("service-accounts describe "+email, `{"email": "`+email+`", "projectId": "my-proj"}`).
		Respond("service-accounts get-iam-policy "+email, `{
			"bindings": [
				{"role": "roles/iam.workloadIdentityUser", "members": ["serviceAccount:my-proj.svc.id.goog[backend/app-ksa]"]}
			]
		}`).
		Respond("kubectl get serviceaccount app-ksa", email)
	withFakeRunner(t, fake)

	outputDir := t.TempDir()
	_, err := executeCommand(newRootCmd(),
		"workload", "bind", "app-sa",
		"--project", "my-proj",
		"--namespace", "backend",
		"--ksa", "app-ksa",
		"--non-interactive", "--mode", "emit-minimal",
		"--output-dir", outputDir,
	)
	require.NoError(t, err)

	script, err := os.ReadFile(filepath.Join(outputDir, "app-sa-apply-emit-minimal.sh"))
	require.NoError(t, err)
	require.NotContains(t, string(script), "gcloud")
	require.NotContains(t, string(script), "kubectl annotate")
}
