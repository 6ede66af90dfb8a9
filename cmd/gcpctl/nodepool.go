package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gcpctl/gcpctl/internal/gcloud"
	"github.com/gcpctl/gcpctl/internal/locator"
	"github.com/gcpctl/gcpctl/internal/planner"
	"github.com/gcpctl/gcpctl/internal/presenter"
)

type nodePoolCloneOptions struct {
	source      string
	targetName  string
	machineType string
	diskSizeGb  int64
	diskType    string
	imageType   string
	labels      string
	taints      string
	locations   string
	minNodes    int64
	maxNodes    int64
	nodeCount   int64
}

var nodePoolCloneRunner = runNodePoolClone

func newNodePoolCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nodepool",
		Short: "GKE node pool operations",
	}
	cmd.AddCommand(newNodePoolCloneCmd(root))
	return cmd
}

func newNodePoolCloneCmd(root *rootFlags) *cobra.Command {
	opts := nodePoolCloneOptions{}

	cmd := &cobra.Command{
		Use:   "clone <console-url|project,location,cluster,pool>",
		Short: "Clone a node pool, optionally overriding individual fields",
		Long: `clone reads the source pool's configuration, applies any overrides, and
reconciles the target pool against it. A missing target pool becomes a
create; an existing one becomes per-field updates plus diagnostics for
fields only settable at creation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.source = args[0]
			return nodePoolCloneRunner(cmd.Context(), root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.targetName, "target-name", "", "Name of the pool to create or update (prompted when omitted)")
	cmd.Flags().StringVar(&opts.machineType, "machine-type", "", "Override the machine type")
	cmd.Flags().Int64Var(&opts.diskSizeGb, "disk-size", 0, "Override the boot disk size in GB")
	cmd.Flags().StringVar(&opts.diskType, "disk-type", "", "Override the boot disk type")
	cmd.Flags().StringVar(&opts.imageType, "image-type", "", "Override the node image type")
	cmd.Flags().StringVar(&opts.labels, "labels", "", "Override node labels (key=value,...)")
	cmd.Flags().StringVar(&opts.taints, "taints", "", "Override node taints (key=value:Effect,...)")
	cmd.Flags().StringVar(&opts.locations, "node-locations", "", "Override node locations (zone,...)")
	cmd.Flags().Int64Var(&opts.minNodes, "min-nodes", -1, "Override autoscaling minimum node count")
	cmd.Flags().Int64Var(&opts.maxNodes, "max-nodes", -1, "Override autoscaling maximum node count")
	cmd.Flags().Int64Var(&opts.nodeCount, "num-nodes", -1, "Override the static node count")

	return cmd
}

func runNodePoolClone(ctx context.Context, root *rootFlags, opts nodePoolCloneOptions) error {
	a, err := newApp(root)
	if err != nil {
		return err
	}

	sourceID, err := locator.ParseNodePool(opts.source)
	if err != nil {
		return err
	}

	source, err := a.client.DescribeNodePool(ctx, sourceID)
	if err != nil {
		return err
	}

	targetName, err := a.value(ctx, opts.targetName,
		"Target pool name",
		fmt.Sprintf("Pool to create or update in cluster %s", sourceID.Parent),
		sourceID.Name+"-clone")
	if err != nil {
		return err
	}

	targetID := sourceID
	targetID.Name = targetName
	var existing *gcloud.NodePool
	if pool, err := a.client.DescribeNodePool(ctx, targetID); err == nil {
		existing = pool
	} else if !gcloud.IsNotFound(err) {
		return err
	}

	clusterVersion := ""
	versionFallback := false
	if cluster, err := a.client.DescribeCluster(ctx, sourceID); err == nil {
		clusterVersion = cluster.CurrentMasterVersion
	} else {
		a.log.WithFields(map[string]any{"cluster": sourceID.Parent, "error": err.Error()}).
			Warn("cluster describe failed, falling back to the source pool version")
		versionFallback = true
	}

	overrides, err := parseNodePoolOverrides(opts)
	if err != nil {
		return err
	}

	p, err := planner.BuildNodePoolPlan(planner.NodePoolPlanInput{
		Identity:        sourceID,
		Target:          targetName,
		Source:          source,
		Existing:        existing,
		ClusterVersion:  clusterVersion,
		VersionFallback: versionFallback,
		Overrides:       overrides,
	})
	if err != nil {
		return err
	}

	a.present.PlanSummary(p)
	a.present.FieldChanges(nodePoolChanges(source, opts))

	mode, err := a.mode(ctx)
	if err != nil {
		return err
	}
	return a.dispatchPlan(ctx, p, mode)
}

func parseNodePoolOverrides(opts nodePoolCloneOptions) (planner.NodePoolOverrides, error) {
	labels, err := parseKeyValues(opts.labels, "labels")
	if err != nil {
		return planner.NodePoolOverrides{}, err
	}

	overrides := planner.NodePoolOverrides{
		MachineType: opts.machineType,
		DiskSizeGb:  opts.diskSizeGb,
		DiskType:    opts.diskType,
		ImageType:   opts.imageType,
		Labels:      labels,
		Taints:      splitList(opts.taints),
		Locations:   splitList(opts.locations),
	}
	if opts.minNodes >= 0 {
		min := opts.minNodes
		overrides.MinNodes = &min
	}
	if opts.maxNodes >= 0 {
		max := opts.maxNodes
		overrides.MaxNodes = &max
	}
	if opts.nodeCount >= 0 {
		count := opts.nodeCount
		overrides.NodeCount = &count
	}
	return overrides, nil
}

// nodePoolChanges lists the operator-overridden fields for the report. Field
// deltas against an existing pool already surface through the plan itself.
func nodePoolChanges(source *gcloud.NodePool, opts nodePoolCloneOptions) []presenter.FieldChange {
	var changes []presenter.FieldChange
	if opts.machineType != "" && opts.machineType != source.Config.MachineType {
		changes = append(changes, presenter.FieldChange{Field: "machine-type", Current: source.Config.MachineType, Desired: opts.machineType})
	}
	if opts.diskSizeGb > 0 && opts.diskSizeGb != source.Config.DiskSizeGb {
		changes = append(changes, presenter.FieldChange{
			Field:   "disk-size",
			Current: fmt.Sprintf("%dGB", source.Config.DiskSizeGb),
			Desired: fmt.Sprintf("%dGB", opts.diskSizeGb),
		})
	}
	if opts.diskType != "" && opts.diskType != source.Config.DiskType {
		changes = append(changes, presenter.FieldChange{Field: "disk-type", Current: source.Config.DiskType, Desired: opts.diskType})
	}
	if opts.imageType != "" && opts.imageType != source.Config.ImageType {
		changes = append(changes, presenter.FieldChange{Field: "image-type", Current: source.Config.ImageType, Desired: opts.imageType})
	}
	return changes
}
