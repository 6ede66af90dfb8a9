package planner

import (
	"fmt"

	"github.com/gcpctl/gcpctl/internal/gcloud"
	"github.com/gcpctl/gcpctl/internal/locator"
	"github.com/gcpctl/gcpctl/internal/plan"
)

// VMResizeInput describes a machine type change for a VM.
type VMResizeInput struct {
	Identity           locator.ResourceIdentity
	Instance           *gcloud.Instance
	DesiredMachineType string
}

// BuildVMResizePlan produces the stop / set-machine-type / start sequence.
// The machine type can only change while the instance is stopped, so the
// bracketing actions are part of the plan whenever the resize itself is.
// An instance that is already TERMINATED skips the stop action.
func BuildVMResizePlan(in VMResizeInput) (*plan.Plan, error) {
	if in.Instance == nil {
		return nil, fmt.Errorf("vm resize plan requires an instance snapshot")
	}
	if in.DesiredMachineType == "" {
		return nil, fmt.Errorf("vm resize plan requires a desired machine type")
	}

	delta := plan.ExactDelta("machine-type", in.Instance.MachineTypeName(), in.DesiredMachineType)
	changed, err := delta.Changed()
	if err != nil {
		return nil, err
	}

	class := classify(changed)
	p := plan.New(in.Identity.Name)

	base := []string{
		"--project=" + in.Identity.Project,
		"--zone=" + in.Identity.Location,
	}

	if in.Instance.Status != "TERMINATED" {
		stop := plan.Action{
			Description: fmt.Sprintf("stop instance %s", in.Identity.Name),
			Field:       "machine-type",
			Command:     append([]string{"gcloud", "compute", "instances", "stop", in.Identity.Name}, base...),
			Class:       class,
			Repeat:      plan.SafeRepeat,
			Tier:        plan.TierCreate,
		}
		if err := p.Add(stop); err != nil {
			return nil, err
		}
	} else {
		p.AddDiagnostic("instance is already stopped; the plan skips the stop action")
	}

	set := plan.Action{
		Description: fmt.Sprintf("set machine type of %s to %s", in.Identity.Name, in.DesiredMachineType),
		Field:       "machine-type",
		Command: append([]string{
			"gcloud", "compute", "instances", "set-machine-type", in.Identity.Name,
			"--machine-type=" + in.DesiredMachineType,
		}, base...),
		Class:  class,
		Repeat: plan.SafeRepeat,
		Tier:   plan.TierBind,
	}
	if err := p.Add(set); err != nil {
		return nil, err
	}

	start := plan.Action{
		Description: fmt.Sprintf("start instance %s", in.Identity.Name),
		Field:       "machine-type",
		Command:     append([]string{"gcloud", "compute", "instances", "start", in.Identity.Name}, base...),
		Class:       class,
		Repeat:      plan.SafeRepeat,
		Tier:        plan.TierAnnotate,
	}
	if err := p.Add(start); err != nil {
		return nil, err
	}

	return p, nil
}
