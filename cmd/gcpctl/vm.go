package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/gcpctl/gcpctl/internal/locator"
	"github.com/gcpctl/gcpctl/internal/planner"
	"github.com/gcpctl/gcpctl/internal/presenter"
)

type vmResizeOptions struct {
	instance    string
	machineType string
}

var vmResizeRunner = runVMResize

func newVMCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vm",
		Short: "Compute Engine instance operations",
	}
	cmd.AddCommand(newVMResizeCmd(root))
	return cmd
}

func newVMResizeCmd(root *rootFlags) *cobra.Command {
	opts := vmResizeOptions{}

	cmd := &cobra.Command{
		Use:   "resize <console-url|project,zone,instance>",
		Short: "Change an instance's machine type",
		Long: `resize compares the instance's machine type against the desired one and,
when they differ, plans the stop / set-machine-type / start sequence. An
instance that is already stopped skips the stop step.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.instance = args[0]
			return vmResizeRunner(cmd.Context(), root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.machineType, "machine-type", "", "Desired machine type (prompted when omitted)")

	return cmd
}

func runVMResize(ctx context.Context, root *rootFlags, opts vmResizeOptions) error {
	a, err := newApp(root)
	if err != nil {
		return err
	}

	id, err := locator.ParseInstance(opts.instance)
	if err != nil {
		return err
	}

	instance, err := a.client.DescribeInstance(ctx, id)
	if err != nil {
		return err
	}

	machineType, err := a.value(ctx, opts.machineType,
		"Desired machine type",
		"Current type: "+instance.MachineTypeName(),
		"e2-standard-4")
	if err != nil {
		return err
	}

	p, err := planner.BuildVMResizePlan(planner.VMResizeInput{
		Identity:           id,
		Instance:           instance,
		DesiredMachineType: machineType,
	})
	if err != nil {
		return err
	}

	a.present.PlanSummary(p)
	a.present.FieldChanges([]presenter.FieldChange{
		{Field: "machine-type", Current: instance.MachineTypeName(), Desired: machineType},
	})

	mode, err := a.mode(ctx)
	if err != nil {
		return err
	}
	return a.dispatchPlan(ctx, p, mode)
}
