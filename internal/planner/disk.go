package planner

import (
	"fmt"

	"github.com/gcpctl/gcpctl/internal/gcloud"
	"github.com/gcpctl/gcpctl/internal/locator"
	"github.com/gcpctl/gcpctl/internal/plan"
)

// DiskExpandInput describes a persistent disk growth.
type DiskExpandInput struct {
	Identity      locator.ResourceIdentity
	Disk          *gcloud.Disk
	DesiredSizeGb int64
	// GrowFilesystem adds the in-guest filesystem expansion to the full
	// plan when the disk is attached to an instance.
	GrowFilesystem bool
	// FilesystemDevice is the block device to grow inside the guest.
	FilesystemDevice string
}

// BuildDiskExpandPlan produces the resize action plus, for attached disks,
// the in-guest filesystem growth. Shrinking is rejected during delta
// computation, before any plan exists.
func BuildDiskExpandPlan(in DiskExpandInput) (*plan.Plan, error) {
	if in.Disk == nil {
		return nil, fmt.Errorf("disk expand plan requires a disk snapshot")
	}

	delta := plan.GrowthDelta("disk-size", in.Disk.SizeGiB(), in.DesiredSizeGb)
	changed, err := delta.Changed()
	if err != nil {
		return nil, err
	}

	p := plan.New(in.Identity.Name)

	resize := plan.Action{
		Description: fmt.Sprintf("resize disk %s from %dGB to %dGB", in.Identity.Name, in.Disk.SizeGiB(), in.DesiredSizeGb),
		Field:       "disk-size",
		Command: []string{
			"gcloud", "compute", "disks", "resize", in.Identity.Name,
			fmt.Sprintf("--size=%dGB", in.DesiredSizeGb),
			"--project=" + in.Identity.Project,
			"--zone=" + in.Identity.Location,
			"--quiet",
		},
		Class:  classify(changed),
		Repeat: plan.SafeRepeat,
		Tier:   plan.TierCreate,
	}
	if err := p.Add(resize); err != nil {
		return nil, err
	}

	attached := in.Disk.AttachedInstances()
	if len(attached) == 0 {
		p.AddDiagnostic("disk is not attached to any instance; filesystem growth must happen after attachment")
		return p, nil
	}

	if !in.GrowFilesystem {
		p.AddDiagnostic(fmt.Sprintf(
			"disk is attached to %s; grow the filesystem in the guest after resizing (resize2fs or xfs_growfs)", attached[0]))
		return p, nil
	}

	device := in.FilesystemDevice
	if device == "" {
		device = "/dev/sdb"
	}
	grow := plan.Action{
		Description: fmt.Sprintf("grow filesystem on %s via %s", device, attached[0]),
		Field:       "filesystem",
		Command: []string{
			"gcloud", "compute", "ssh", attached[0],
			"--project=" + in.Identity.Project,
			"--zone=" + in.Identity.Location,
			"--command=sudo resize2fs " + device,
		},
		Class:  plan.ClassDeclarative,
		Repeat: plan.SafeRepeat,
		Tier:   plan.TierAnnotate,
	}
	if err := p.Add(grow); err != nil {
		return nil, err
	}

	return p, nil
}
