package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gcpctl/gcpctl/internal/locator"
	"github.com/gcpctl/gcpctl/internal/planner"
	"github.com/gcpctl/gcpctl/internal/presenter"
)

type diskExpandOptions struct {
	disk           string
	size           string
	growFilesystem bool
	device         string
}

var diskExpandRunner = runDiskExpand

func newDiskCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "disk",
		Short: "Persistent disk operations",
	}
	cmd.AddCommand(newDiskExpandCmd(root))
	return cmd
}

func newDiskExpandCmd(root *rootFlags) *cobra.Command {
	opts := diskExpandOptions{}

	cmd := &cobra.Command{
		Use:   "expand <console-url|project,zone,disk>",
		Short: "Grow a persistent disk",
		Long: `expand grows a persistent disk to the desired size. Shrinking is not
supported by the provider and is rejected before any plan is built. For
attached disks the full plan includes the in-guest filesystem growth.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.disk = args[0]
			return diskExpandRunner(cmd.Context(), root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.size, "size", "", "Desired size in GiB (prompted when omitted)")
	cmd.Flags().BoolVar(&opts.growFilesystem, "grow-filesystem", false, "Include the in-guest filesystem growth in the full plan")
	cmd.Flags().StringVar(&opts.device, "device", "/dev/sdb", "Block device to grow inside the guest")

	return cmd
}

func runDiskExpand(ctx context.Context, root *rootFlags, opts diskExpandOptions) error {
	a, err := newApp(root)
	if err != nil {
		return err
	}

	id, err := locator.ParseDisk(opts.disk)
	if err != nil {
		return err
	}

	disk, err := a.client.DescribeDisk(ctx, id)
	if err != nil {
		return err
	}

	raw, err := a.value(ctx, opts.size,
		"Desired size (GiB)",
		fmt.Sprintf("Current size: %dGB; disks only grow", disk.SizeGiB()),
		fmt.Sprintf("%d", disk.SizeGiB()*2))
	if err != nil {
		return err
	}
	size, err := parseSizeGb(raw)
	if err != nil {
		return err
	}

	p, err := planner.BuildDiskExpandPlan(planner.DiskExpandInput{
		Identity:         id,
		Disk:             disk,
		DesiredSizeGb:    size,
		GrowFilesystem:   opts.growFilesystem,
		FilesystemDevice: opts.device,
	})
	if err != nil {
		return err
	}

	a.present.PlanSummary(p)
	a.present.FieldChanges([]presenter.FieldChange{
		{
			Field:   "disk-size",
			Current: fmt.Sprintf("%dGB", disk.SizeGiB()),
			Desired: fmt.Sprintf("%dGB", size),
		},
	})

	mode, err := a.mode(ctx)
	if err != nil {
		return err
	}
	return a.dispatchPlan(ctx, p, mode)
}
