package locator

import (
	"testing"

	"github.com/stretchr/testify/require"

	gcperrors "github.com/gcpctl/gcpctl/pkg/errors"
)

func TestParseNodePoolConsoleURL(t *testing.T) {
	t.Parallel()

	id, err := ParseNodePool("https://console.cloud.google.com/kubernetes/nodepool/us-central1-c/prod-cluster/default-pool?project=acme-prod")
	require.NoError(t, err)
	require.Equal(t, KindNodePool, id.Kind)
	require.Equal(t, "acme-prod", id.Project)
	require.Equal(t, "us-central1-c", id.Location)
	require.Equal(t, "prod-cluster", id.Parent)
	require.Equal(t, "default-pool", id.Name)
	require.True(t, id.Zonal())
}

func TestParseNodePoolCommaDelimited(t *testing.T) {
	t.Parallel()

	id, err := ParseNodePool(" acme-prod , us-east1 , prod-cluster , gpu-pool ")
	require.NoError(t, err)
	require.Equal(t, "gpu-pool", id.Name)
	require.False(t, id.Zonal())
	require.Equal(t, "--region=us-east1", id.LocationFlag())
}

func TestParseNodePoolMissingProject(t *testing.T) {
	t.Parallel()

	_, err := ParseNodePool("https://console.cloud.google.com/kubernetes/nodepool/us-central1-c/prod-cluster/default-pool")
	var parseErr *gcperrors.ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "project", parseErr.Field)
}

func TestParseInstanceConsoleURL(t *testing.T) {
	t.Parallel()

	id, err := ParseInstance("https://console.cloud.google.com/compute/instancesDetail/zones/europe-west1-b/instances/build-agent?project=acme-ci&tab=details")
	require.NoError(t, err)
	require.Equal(t, KindInstance, id.Kind)
	require.Equal(t, "acme-ci", id.Project)
	require.Equal(t, "europe-west1-b", id.Location)
	require.Equal(t, "build-agent", id.Name)
	require.Equal(t, "--zone=europe-west1-b", id.LocationFlag())
}

func TestParseDiskCommaDelimited(t *testing.T) {
	t.Parallel()

	id, err := ParseDisk("acme-prod,us-central1-a,data-disk")
	require.NoError(t, err)
	require.Equal(t, KindDisk, id.Kind)
	require.Equal(t, "data-disk", id.Name)
}

func TestParseRejectsMalformedInput(t *testing.T) {
	t.Parallel()

	cases := []string{
		"",
		"acme-prod,us-central1-a",
		"https://console.cloud.google.com/kubernetes/clusters/details/us-central1-c/prod-cluster?project=p",
		"acme,zone,cluster,pool,extra",
	}
	for _, input := range cases {
		_, err := ParseNodePool(input)
		require.Error(t, err, "input %q", input)
		var parseErr *gcperrors.ParseError
		require.ErrorAs(t, err, &parseErr)
	}
}
