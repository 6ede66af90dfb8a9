package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gcpctl/gcpctl/internal/gcloud"
	"github.com/gcpctl/gcpctl/internal/planner"
	"github.com/gcpctl/gcpctl/internal/presenter"
)

type workloadBindOptions struct {
	project   string
	gsaName   string
	namespace string
	ksaName   string
}

var workloadBindRunner = runWorkloadBind

func newWorkloadCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workload",
		Short: "Workload identity operations",
	}
	cmd.AddCommand(newWorkloadBindCmd(root))
	return cmd
}

func newWorkloadBindCmd(root *rootFlags) *cobra.Command {
	opts := workloadBindOptions{}

	cmd := &cobra.Command{
		Use:   "bind [gsa-name]",
		Short: "Bind a Kubernetes service account to a Google service account",
		Long: `bind reconciles the three legs of a workload identity binding: the Google
service account itself, the workloadIdentityUser role for the Kubernetes
service account, and the annotation on the Kubernetes service account.
Legs that already hold the desired state stay out of the minimal plan.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.gsaName = args[0]
			}
			return workloadBindRunner(cmd.Context(), root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.project, "project", "", "Project owning the Google service account")
	cmd.Flags().StringVar(&opts.namespace, "namespace", "", "Namespace of the Kubernetes service account")
	cmd.Flags().StringVar(&opts.ksaName, "ksa", "", "Name of the Kubernetes service account")

	return cmd
}

func runWorkloadBind(ctx context.Context, root *rootFlags, opts workloadBindOptions) error {
	a, err := newApp(root)
	if err != nil {
		return err
	}

	projectFlag := opts.project
	if projectFlag == "" {
		projectFlag = a.cfg.Project
	}
	project, err := a.value(ctx, projectFlag, "Project", "Project owning the Google service account", "my-project")
	if err != nil {
		return err
	}
	gsaName, err := a.value(ctx, opts.gsaName, "Service account name", "Google service account to bind (short name)", "workload-sa")
	if err != nil {
		return err
	}
	namespace, err := a.value(ctx, opts.namespace, "Namespace", "Namespace of the Kubernetes service account", "default")
	if err != nil {
		return err
	}
	ksaName, err := a.value(ctx, opts.ksaName, "Kubernetes service account", "Kubernetes service account to annotate", gsaName)
	if err != nil {
		return err
	}

	in := planner.WorkloadBindingInput{
		Project:   project,
		GSAName:   gsaName,
		Namespace: namespace,
		KSAName:   ksaName,
	}

	if _, err := a.client.DescribeServiceAccount(ctx, project, in.GSAEmail()); err == nil {
		in.GSAExists = true
	} else if !gcloud.IsNotFound(err) {
		return err
	}

	if in.GSAExists {
		policy, err := a.client.GetServiceAccountIAMPolicy(ctx, project, in.GSAEmail())
		if err != nil {
			return err
		}
		in.BindingExists = policy.HasBinding(in.KSAMember(), planner.WorkloadIdentityRole)
	}

	in.CurrentAnnotation = currentKSAAnnotation(ctx, a, namespace, ksaName)

	p, err := planner.BuildWorkloadBindingPlan(in)
	if err != nil {
		return err
	}

	a.present.PlanSummary(p)
	a.present.FieldChanges([]presenter.FieldChange{
		{Field: "annotation", Current: in.CurrentAnnotation, Desired: in.GSAEmail()},
	})

	mode, err := a.mode(ctx)
	if err != nil {
		return err
	}
	return a.dispatchPlan(ctx, p, mode)
}

// currentKSAAnnotation reads the binding annotation off the KSA. The cluster
// may be unreachable from the operator's shell; treat any failure as "no
// annotation" so the annotate leg stays required.
func currentKSAAnnotation(ctx context.Context, a *app, namespace, ksaName string) string {
	stdout, _, err := a.runner.Run(ctx, "kubectl",
		"get", "serviceaccount", ksaName,
		"--namespace="+namespace,
		"-o", "jsonpath={.metadata.annotations."+escapeJSONPathKey(planner.KSAAnnotation)+"}",
	)
	if err != nil {
		a.log.Debug("ksa annotation lookup failed: " + err.Error())
		return ""
	}
	return strings.TrimSpace(stdout)
}

// escapeJSONPathKey escapes dots inside a jsonpath map key.
func escapeJSONPathKey(key string) string {
	return strings.ReplaceAll(key, ".", `\.`)
}
