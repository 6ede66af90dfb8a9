package planner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gcpctl/gcpctl/internal/gcloud"
	"github.com/gcpctl/gcpctl/internal/locator"
	"github.com/gcpctl/gcpctl/internal/plan"
)

func vmIdentity() locator.ResourceIdentity {
	return locator.ResourceIdentity{Kind: locator.KindInstance, Project: "acme-ci", Location: "europe-west1-b", Name: "build-agent"}
}

func diskIdentity() locator.ResourceIdentity {
	return locator.ResourceIdentity{Kind: locator.KindDisk, Project: "acme-prod", Location: "us-central1-a", Name: "data-disk"}
}

func TestVMResizePlanStopSetStartOrder(t *testing.T) {
	t.Parallel()

	p, err := BuildVMResizePlan(VMResizeInput{
		Identity:           vmIdentity(),
		Instance:           &gcloud.Instance{Name: "build-agent", MachineType: ".../machineTypes/e2-medium", Status: "RUNNING"},
		DesiredMachineType: "n2-standard-4",
	})
	require.NoError(t, err)

	actions := p.Minimal()
	require.Len(t, actions, 3)
	require.Contains(t, actions[0].CommandLine(), "instances stop")
	require.Contains(t, actions[1].CommandLine(), "set-machine-type")
	require.Contains(t, actions[1].CommandLine(), "--machine-type=n2-standard-4")
	require.Contains(t, actions[2].CommandLine(), "instances start")
}

func TestVMResizePlanNoChangeIsDeclarativeOnly(t *testing.T) {
	t.Parallel()

	p, err := BuildVMResizePlan(VMResizeInput{
		Identity:           vmIdentity(),
		Instance:           &gcloud.Instance{Name: "build-agent", MachineType: ".../machineTypes/e2-medium", Status: "RUNNING"},
		DesiredMachineType: "e2-medium",
	})
	require.NoError(t, err)
	require.True(t, p.Empty())
	require.Len(t, p.Full(), 3)
}

func TestVMResizePlanSkipsStopWhenTerminated(t *testing.T) {
	t.Parallel()

	p, err := BuildVMResizePlan(VMResizeInput{
		Identity:           vmIdentity(),
		Instance:           &gcloud.Instance{Name: "build-agent", MachineType: ".../machineTypes/e2-medium", Status: "TERMINATED"},
		DesiredMachineType: "n2-standard-4",
	})
	require.NoError(t, err)

	actions := p.Minimal()
	require.Len(t, actions, 2)
	require.Contains(t, actions[0].CommandLine(), "set-machine-type")
	require.Len(t, p.Diagnostics(), 1)
}

func TestDiskExpandPlanGrowth(t *testing.T) {
	t.Parallel()

	p, err := BuildDiskExpandPlan(DiskExpandInput{
		Identity:      diskIdentity(),
		Disk:          &gcloud.Disk{Name: "data-disk", SizeGb: "50"},
		DesiredSizeGb: 100,
	})
	require.NoError(t, err)

	actions := p.Minimal()
	require.Len(t, actions, 1)
	require.Contains(t, actions[0].CommandLine(), "--size=100GB")
	require.Contains(t, actions[0].CommandLine(), "disks resize data-disk")
}

func TestDiskExpandPlanRejectsEqualSize(t *testing.T) {
	t.Parallel()

	_, err := BuildDiskExpandPlan(DiskExpandInput{
		Identity:      diskIdentity(),
		Disk:          &gcloud.Disk{Name: "data-disk", SizeGb: "50"},
		DesiredSizeGb: 50,
	})
	var domainErr *plan.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, plan.ErrCodeResize, domainErr.Code)
}

func TestDiskExpandPlanRejectsShrink(t *testing.T) {
	t.Parallel()

	_, err := BuildDiskExpandPlan(DiskExpandInput{
		Identity:      diskIdentity(),
		Disk:          &gcloud.Disk{Name: "data-disk", SizeGb: "500"},
		DesiredSizeGb: 100,
	})
	var domainErr *plan.DomainError
	require.True(t, errors.As(err, &domainErr))
	require.Equal(t, plan.ErrCodeResize, domainErr.Code)
}

func TestDiskExpandPlanAttachedFilesystemGrowth(t *testing.T) {
	t.Parallel()

	p, err := BuildDiskExpandPlan(DiskExpandInput{
		Identity:       diskIdentity(),
		Disk:           &gcloud.Disk{Name: "data-disk", SizeGb: "50", Users: []string{".../instances/db-1"}},
		DesiredSizeGb:  100,
		GrowFilesystem: true,
	})
	require.NoError(t, err)

	full := p.Full()
	require.Len(t, full, 2)
	require.Contains(t, full[1].CommandLine(), "resize2fs")
	require.Contains(t, full[1].CommandLine(), "ssh db-1")
	// Filesystem growth is declarative only: it never joins the minimal plan.
	require.Len(t, p.Minimal(), 1)
}
