package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gcpctl/gcpctl/internal/gcloud"
)

const sourcePoolJSON = `{
	"name": "default-pool",
	"version": "1.29.4-gke.1043002",
	"initialNodeCount": 3,
	"locations": ["us-central1-a"],
	"config": {
		"machineType": "e2-medium",
		"diskSizeGb": 100,
		"diskType": "pd-balanced",
		"imageType": "COS_CONTAINERD",
		"labels": {"env": "prod", "goog-gke-node": "managed"},
		"oauthScopes": ["https://www.googleapis.com/auth/cloud-platform"],
		"serviceAccount": "default"
	},
	"autoscaling": {"enabled": true, "minNodeCount": 1, "maxNodeCount": 5}
}`

const clusterJSON = `{
	"name": "prod-cluster",
	"currentMasterVersion": "1.30.1-gke.1329003",
	"location": "us-central1-a"
}`

func TestNodePoolCloneFlagsReachRunner(t *testing.T) {
	originalRunner := nodePoolCloneRunner
	t.Cleanup(func() { nodePoolCloneRunner = originalRunner })

	var got nodePoolCloneOptions
	nodePoolCloneRunner = func(ctx context.Context, root *rootFlags, opts nodePoolCloneOptions) error {
		got = opts
		return nil
	}

	_, err := executeCommand(newRootCmd(),
		"nodepool", "clone", "my-proj,us-central1-a,prod-cluster,default-pool",
		"--target-name", "api-pool",
		"--machine-type", "e2-standard-4",
		"--labels", "tier=api",
	)
	require.NoError(t, err)
	require.Equal(t, "my-proj,us-central1-a,prod-cluster,default-pool", got.source)
	require.Equal(t, "api-pool", got.targetName)
	require.Equal(t, "e2-standard-4", got.machineType)
	require.Equal(t, "tier=api", got.labels)
}

func TestNodePoolCloneNewPoolWritesCreateScript(t *testing.T) {
	fake := gcloud.NewFakeRunner().
		Respond("node-pools describe default-pool", sourcePoolJSON).
		Fail("node-pools describe api-pool",
			"ERROR: (gcloud.container.node-pools.describe) NOT_FOUND: pool api-pool was not found",
			errors.New("exit status 1")).
		Respond("container clusters describe prod-cluster", clusterJSON)
	withFakeRunner(t, fake)

	outputDir := t.TempDir()
	_, err := executeCommand(newRootCmd(),
		"nodepool", "clone", "my-proj,us-central1-a,prod-cluster,default-pool",
		"--target-name", "api-pool",
		"--machine-type", "e2-standard-4",
		"--non-interactive", "--mode", "emit-minimal",
		"--output-dir", outputDir,
	)
	require.NoError(t, err)

	script, err := os.ReadFile(filepath.Join(outputDir, "api-pool-apply-emit-minimal.sh"))
	require.NoError(t, err)

	content := string(script)
	require.Contains(t, content, "gcloud container node-pools create api-pool")
	require.Contains(t, content, "--cluster=prod-cluster")
	require.Contains(t, content, "--machine-type=e2-standard-4")
	// node version comes from the cluster master, not the source pool
	require.Contains(t, content, "--node-version=1.30.1-gke.1329003")
	require.NotContains(t, content, "goog-gke-node")
}

func TestNodePoolCloneClusterFetchFailureFallsBack(t *testing.T) {
	fake := gcloud.NewFakeRunner().
		Respond("node-pools describe default-pool", sourcePoolJSON).
		Fail("node-pools describe api-pool",
			"ERROR: NOT_FOUND", errors.New("exit status 1")).
		Fail("container clusters describe prod-cluster",
			"ERROR: permission denied", errors.New("exit status 1"))
	withFakeRunner(t, fake)

	outputDir := t.TempDir()
	_, err := executeCommand(newRootCmd(),
		"nodepool", "clone", "my-proj,us-central1-a,prod-cluster,default-pool",
		"--target-name", "api-pool",
		"--non-interactive", "--mode", "emit-full",
		"--output-dir", outputDir,
	)
	require.NoError(t, err)

	script, err := os.ReadFile(filepath.Join(outputDir, "api-pool-apply-emit-full.sh"))
	require.NoError(t, err)

	content := string(script)
	require.Contains(t, content, "--node-version=1.29.4-gke.1043002")
	require.Contains(t, content, "# cluster master version unavailable")
	require.Contains(t, content, "|| true")
}

func TestNodePoolCloneExistingPoolWritesUpdates(t *testing.T) {
	fake := gcloud.NewFakeRunner().
		Respond("node-pools describe default-pool", sourcePoolJSON).
		Respond("node-pools describe api-pool", `{
			"name": "api-pool",
			"version": "1.30.1-gke.1329003",
			"initialNodeCount": 3,
			"locations": ["us-central1-a"],
			"config": {
				"machineType": "e2-medium",
				"diskSizeGb": 100,
				"diskType": "pd-balanced",
				"imageType": "COS_CONTAINERD",
				"labels": {"env": "staging"},
				"serviceAccount": "default"
			},
			"autoscaling": {"enabled": true, "minNodeCount": 1, "maxNodeCount": 5}
		}`).
		Respond("container clusters describe prod-cluster", clusterJSON)
	withFakeRunner(t, fake)

	outputDir := t.TempDir()
	_, err := executeCommand(newRootCmd(),
		"nodepool", "clone", "my-proj,us-central1-a,prod-cluster,default-pool",
		"--target-name", "api-pool",
		"--non-interactive", "--mode", "emit-minimal",
		"--output-dir", outputDir,
	)
	require.NoError(t, err)

	script, err := os.ReadFile(filepath.Join(outputDir, "api-pool-apply-emit-minimal.sh"))
	require.NoError(t, err)

	content := string(script)
	require.Contains(t, content, "gcloud container node-pools update api-pool")
	require.Contains(t, content, "--node-labels=env=prod")
	require.NotContains(t, content, "node-pools create")
}
