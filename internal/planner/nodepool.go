// Package planner builds reconciliation plans for each tool: it compares a
// desired state against a fetched snapshot and emits tier-ordered actions.
package planner

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gcpctl/gcpctl/internal/gcloud"
	"github.com/gcpctl/gcpctl/internal/locator"
	"github.com/gcpctl/gcpctl/internal/plan"
)

// NodePoolOverrides carries operator-supplied replacements for individual
// node pool fields. Zero values mean "keep the source pool's value".
type NodePoolOverrides struct {
	MachineType string
	DiskSizeGb  int64
	DiskType    string
	ImageType   string
	Labels      map[string]string
	// Taints use the canonical key=value:Effect form.
	Taints    []string
	Locations []string
	MinNodes  *int64
	MaxNodes  *int64
	NodeCount *int64
}

// NodePoolPlanInput gathers everything the node pool builder needs. Existing
// is nil when the target pool does not exist yet. ClusterVersion is the
// parent cluster's current master version; VersionFallback marks that the
// cluster lookup failed and Source.Version was substituted.
type NodePoolPlanInput struct {
	Identity        locator.ResourceIdentity
	Target          string
	Source          *gcloud.NodePool
	Existing        *gcloud.NodePool
	ClusterVersion  string
	VersionFallback bool
	Overrides       NodePoolOverrides
}

// nodePoolState is the merged desired state of the target pool.
type nodePoolState struct {
	MachineType string
	DiskSizeGb  int64
	DiskType    string
	ImageType   string
	Version     string
	Labels      map[string]string
	Taints      []string
	Locations   []string
	Autoscaling gcloud.Autoscaling
	NodeCount   int64
	// carried unchanged from the source pool
	ServiceAccount string
	OauthScopes    []string
	Tags           []string
	Spot           bool
	Preemptible    bool
}

// nodePoolField describes one tracked attribute: how to read it from a
// snapshot, how to compare it, and whether the provider supports updating it
// in place. Keeping the tracked-field knowledge in this table is what keeps
// the builder free of scattered per-field conditionals.
type nodePoolField struct {
	name      string
	delta     func(current *gcloud.NodePool, desired nodePoolState) plan.FieldDelta
	updatable bool
	update    func(in NodePoolPlanInput, desired nodePoolState) plan.Action
}

var nodePoolFields = []nodePoolField{
	{
		name: "machine-type",
		delta: func(cur *gcloud.NodePool, des nodePoolState) plan.FieldDelta {
			return plan.ExactDelta("machine-type", cur.Config.MachineType, des.MachineType)
		},
	},
	{
		name: "disk-size",
		delta: func(cur *gcloud.NodePool, des nodePoolState) plan.FieldDelta {
			return plan.ExactDelta("disk-size", fmt.Sprintf("%d", cur.Config.DiskSizeGb), fmt.Sprintf("%d", des.DiskSizeGb))
		},
	},
	{
		name: "disk-type",
		delta: func(cur *gcloud.NodePool, des nodePoolState) plan.FieldDelta {
			return plan.ExactDelta("disk-type", cur.Config.DiskType, des.DiskType)
		},
	},
	{
		name: "image-type",
		delta: func(cur *gcloud.NodePool, des nodePoolState) plan.FieldDelta {
			return plan.ExactDelta("image-type", cur.Config.ImageType, des.ImageType)
		},
	},
	{
		name: "node-version",
		delta: func(cur *gcloud.NodePool, des nodePoolState) plan.FieldDelta {
			return plan.ExactDelta("node-version", cur.Version, des.Version)
		},
	},
	{
		name: "labels",
		delta: func(cur *gcloud.NodePool, des nodePoolState) plan.FieldDelta {
			return plan.MapDelta("labels", plan.FilterReservedLabels(cur.Config.Labels), des.Labels)
		},
		updatable: true,
		update: func(in NodePoolPlanInput, des nodePoolState) plan.Action {
			return plan.Action{
				Description: fmt.Sprintf("update node labels of pool %s", in.Target),
				Field:       "labels",
				Command:     nodePoolUpdateArgs(in, "--node-labels="+renderLabels(des.Labels)),
				Class:       plan.ClassRequired,
				Repeat:      plan.SafeRepeat,
				Tier:        plan.TierAnnotate,
			}
		},
	},
	{
		name: "taints",
		delta: func(cur *gcloud.NodePool, des nodePoolState) plan.FieldDelta {
			return plan.SetDelta("taints", canonicalTaints(cur.Config.Taints), des.Taints)
		},
		updatable: true,
		update: func(in NodePoolPlanInput, des nodePoolState) plan.Action {
			return plan.Action{
				Description: fmt.Sprintf("update node taints of pool %s", in.Target),
				Field:       "taints",
				Command:     nodePoolUpdateArgs(in, "--node-taints="+strings.Join(des.Taints, ",")),
				Class:       plan.ClassRequired,
				Repeat:      plan.SafeRepeat,
				Tier:        plan.TierAnnotate,
			}
		},
	},
	{
		name: "node-locations",
		delta: func(cur *gcloud.NodePool, des nodePoolState) plan.FieldDelta {
			return plan.SetDelta("node-locations", cur.Locations, des.Locations)
		},
		updatable: true,
		update: func(in NodePoolPlanInput, des nodePoolState) plan.Action {
			return plan.Action{
				Description: fmt.Sprintf("update node locations of pool %s", in.Target),
				Field:       "node-locations",
				Command:     nodePoolUpdateArgs(in, "--node-locations="+strings.Join(des.Locations, ",")),
				Class:       plan.ClassRequired,
				Repeat:      plan.SafeRepeat,
				Tier:        plan.TierBind,
			}
		},
	},
	{
		name: "autoscaling",
		delta: func(cur *gcloud.NodePool, des nodePoolState) plan.FieldDelta {
			return plan.ExactDelta("autoscaling", renderAutoscaling(cur.Autoscaling), renderAutoscaling(des.Autoscaling))
		},
		updatable: true,
		update: func(in NodePoolPlanInput, des nodePoolState) plan.Action {
			args := nodePoolUpdateArgs(in, autoscalingFlags(des.Autoscaling)...)
			return plan.Action{
				Description: fmt.Sprintf("update autoscaling of pool %s", in.Target),
				Field:       "autoscaling",
				Command:     args,
				Class:       plan.ClassRequired,
				Repeat:      plan.SafeRepeat,
				Tier:        plan.TierBind,
			}
		},
	},
	{
		name: "node-count",
		delta: func(cur *gcloud.NodePool, des nodePoolState) plan.FieldDelta {
			// Node count only matters when autoscaling is off.
			if des.Autoscaling.Enabled {
				return plan.ExactDelta("node-count", "", "")
			}
			return plan.ExactDelta("node-count", fmt.Sprintf("%d", cur.InitialNodeCount), fmt.Sprintf("%d", des.NodeCount))
		},
		updatable: true,
		update: func(in NodePoolPlanInput, des nodePoolState) plan.Action {
			return plan.Action{
				Description: fmt.Sprintf("resize pool %s to %d nodes", in.Target, des.NodeCount),
				Field:       "node-count",
				Command: []string{
					"gcloud", "container", "clusters", "resize", in.Identity.Parent,
					"--node-pool=" + in.Target,
					fmt.Sprintf("--num-nodes=%d", des.NodeCount),
					"--project=" + in.Identity.Project,
					in.Identity.LocationFlag(),
					"--quiet",
				},
				Class:  plan.ClassRequired,
				Repeat: plan.SafeRepeat,
				Tier:   plan.TierBind,
			}
		},
	},
}

// BuildNodePoolPlan produces the clone/update plan for a node pool. When the
// target pool does not exist, the declarative create action is also the
// required one. When it exists, per-field update actions reconcile the
// updatable fields and create-only differences surface as diagnostics.
func BuildNodePoolPlan(in NodePoolPlanInput) (*plan.Plan, error) {
	if in.Source == nil {
		return nil, fmt.Errorf("node pool plan requires a source snapshot")
	}

	desired := mergeNodePoolState(in)
	p := plan.New(in.Target)

	if in.VersionFallback {
		p.AddDiagnostic(fmt.Sprintf(
			"cluster master version unavailable; node version %s taken from the source pool itself, verify it matches the cluster before applying",
			desired.Version))
	}

	create := plan.Action{
		Description: fmt.Sprintf("create node pool %s in cluster %s", in.Target, in.Identity.Parent),
		Field:       "node-pool",
		Command:     nodePoolCreateArgs(in, desired),
		Class:       plan.ClassDeclarative,
		Repeat:      plan.Stateful,
		Tier:        plan.TierCreate,
		GuardExists: true,
	}

	if in.Existing == nil {
		create.Class = plan.ClassRequired
		if err := p.Add(create); err != nil {
			return nil, err
		}
		return p, nil
	}

	if err := p.Add(create); err != nil {
		return nil, err
	}

	for _, field := range nodePoolFields {
		delta := field.delta(in.Existing, desired)
		changed, err := delta.Changed()
		if err != nil {
			return nil, err
		}
		if !changed {
			continue
		}
		if !field.updatable {
			p.AddDiagnostic(fmt.Sprintf(
				"%s differs (%s -> %s) but can only be set at pool creation; use the full script to recreate the pool",
				field.name, delta.Current, delta.Desired))
			continue
		}
		if err := p.Add(field.update(in, desired)); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func mergeNodePoolState(in NodePoolPlanInput) nodePoolState {
	src := in.Source
	desired := nodePoolState{
		MachineType:    src.Config.MachineType,
		DiskSizeGb:     src.Config.DiskSizeGb,
		DiskType:       src.Config.DiskType,
		ImageType:      src.Config.ImageType,
		Version:        in.ClusterVersion,
		Labels:         plan.FilterReservedLabels(src.Config.Labels),
		Taints:         canonicalTaints(src.Config.Taints),
		Locations:      append([]string(nil), src.Locations...),
		Autoscaling:    src.Autoscaling,
		NodeCount:      src.InitialNodeCount,
		ServiceAccount: src.Config.ServiceAccount,
		OauthScopes:    append([]string(nil), src.Config.OauthScopes...),
		Tags:           append([]string(nil), src.Config.Tags...),
		Spot:           src.Config.Spot,
		Preemptible:    src.Config.Preemptible,
	}
	if desired.Version == "" {
		desired.Version = src.Version
	}

	ov := in.Overrides
	if ov.MachineType != "" {
		desired.MachineType = ov.MachineType
	}
	if ov.DiskSizeGb > 0 {
		desired.DiskSizeGb = ov.DiskSizeGb
	}
	if ov.DiskType != "" {
		desired.DiskType = ov.DiskType
	}
	if ov.ImageType != "" {
		desired.ImageType = ov.ImageType
	}
	if ov.Labels != nil {
		desired.Labels = plan.FilterReservedLabels(ov.Labels)
	}
	if ov.Taints != nil {
		desired.Taints = normalizeTaintStrings(ov.Taints)
	}
	if ov.Locations != nil {
		desired.Locations = append([]string(nil), ov.Locations...)
	}
	if ov.MinNodes != nil {
		desired.Autoscaling.Enabled = true
		desired.Autoscaling.MinNodeCount = *ov.MinNodes
	}
	if ov.MaxNodes != nil {
		desired.Autoscaling.Enabled = true
		desired.Autoscaling.MaxNodeCount = *ov.MaxNodes
	}
	if ov.NodeCount != nil {
		desired.NodeCount = *ov.NodeCount
	}

	return desired
}

func nodePoolCreateArgs(in NodePoolPlanInput, des nodePoolState) []string {
	args := []string{
		"gcloud", "container", "node-pools", "create", in.Target,
		"--cluster=" + in.Identity.Parent,
		"--project=" + in.Identity.Project,
		in.Identity.LocationFlag(),
		"--machine-type=" + des.MachineType,
		fmt.Sprintf("--disk-size=%d", des.DiskSizeGb),
	}
	if des.DiskType != "" {
		args = append(args, "--disk-type="+des.DiskType)
	}
	if des.ImageType != "" {
		args = append(args, "--image-type="+des.ImageType)
	}
	if des.Version != "" {
		args = append(args, "--node-version="+des.Version)
	}
	if des.Autoscaling.Enabled {
		args = append(args,
			"--enable-autoscaling",
			fmt.Sprintf("--min-nodes=%d", des.Autoscaling.MinNodeCount),
			fmt.Sprintf("--max-nodes=%d", des.Autoscaling.MaxNodeCount),
		)
	} else if des.NodeCount > 0 {
		args = append(args, fmt.Sprintf("--num-nodes=%d", des.NodeCount))
	}
	if len(des.Labels) > 0 {
		args = append(args, "--node-labels="+renderLabels(des.Labels))
	}
	if len(des.Taints) > 0 {
		args = append(args, "--node-taints="+strings.Join(des.Taints, ","))
	}
	if len(des.Locations) > 0 {
		args = append(args, "--node-locations="+strings.Join(des.Locations, ","))
	}
	if des.ServiceAccount != "" {
		args = append(args, "--service-account="+des.ServiceAccount)
	}
	if len(des.OauthScopes) > 0 {
		args = append(args, "--scopes="+strings.Join(des.OauthScopes, ","))
	}
	if len(des.Tags) > 0 {
		args = append(args, "--tags="+strings.Join(des.Tags, ","))
	}
	if des.Spot {
		args = append(args, "--spot")
	}
	if des.Preemptible {
		args = append(args, "--preemptible")
	}
	return args
}

func nodePoolUpdateArgs(in NodePoolPlanInput, flags ...string) []string {
	args := []string{
		"gcloud", "container", "node-pools", "update", in.Target,
		"--cluster=" + in.Identity.Parent,
		"--project=" + in.Identity.Project,
		in.Identity.LocationFlag(),
	}
	return append(args, flags...)
}

func autoscalingFlags(a gcloud.Autoscaling) []string {
	if !a.Enabled {
		return []string{"--no-enable-autoscaling"}
	}
	return []string{
		"--enable-autoscaling",
		fmt.Sprintf("--min-nodes=%d", a.MinNodeCount),
		fmt.Sprintf("--max-nodes=%d", a.MaxNodeCount),
	}
}

func renderAutoscaling(a gcloud.Autoscaling) string {
	if !a.Enabled {
		return "disabled"
	}
	return fmt.Sprintf("enabled:%d-%d", a.MinNodeCount, a.MaxNodeCount)
}

func renderLabels(labels map[string]string) string {
	pairs := make([]string, 0, len(labels))
	for k, v := range labels {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}

func canonicalTaints(taints []gcloud.NodeTaint) []string {
	out := make([]string, 0, len(taints))
	for _, t := range taints {
		out = append(out, fmt.Sprintf("%s=%s:%s", t.Key, t.Value, plan.NormalizeTaintEffect(t.Effect)))
	}
	return out
}

func normalizeTaintStrings(taints []string) []string {
	out := make([]string, 0, len(taints))
	for _, t := range taints {
		if idx := strings.LastIndex(t, ":"); idx >= 0 {
			t = t[:idx+1] + plan.NormalizeTaintEffect(t[idx+1:])
		}
		out = append(out, t)
	}
	return out
}
