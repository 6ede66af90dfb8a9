package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	verbose        bool
	mode           string
	nonInteractive bool
	outputDir      string
	configPath     string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "gcpctl",
		Short:         "gcpctl automates GCP lifecycle operations through plans and scripts",
		Long: `gcpctl inspects the current state of a GCP resource, computes the delta to
a desired state, and either applies the reconciliation now or writes it out
as a re-runnable shell script.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringVar(&flags.mode, "mode", "", "Dispatch mode: execute, emit-minimal or emit-full (skips the prompt)")
	cmd.PersistentFlags().BoolVar(&flags.nonInteractive, "non-interactive", false, "Never prompt; requires --mode and value flags")
	cmd.PersistentFlags().StringVarP(&flags.outputDir, "output-dir", "o", "", "Directory for script artifacts")
	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Path to a gcpctl config file")

	cmd.AddCommand(newNodePoolCmd(flags))
	cmd.AddCommand(newWorkloadCmd(flags))
	cmd.AddCommand(newVMCmd(flags))
	cmd.AddCommand(newDiskCmd(flags))
	cmd.AddCommand(newIAMCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
