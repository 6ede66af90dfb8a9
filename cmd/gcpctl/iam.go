package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/gcpctl/gcpctl/internal/gcloud"
	"github.com/gcpctl/gcpctl/internal/inputfile"
	"github.com/gcpctl/gcpctl/internal/planner"
)

func newIAMCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "iam",
		Short: "Project IAM operations",
	}
	cmd.AddCommand(newIAMReplicateCmd(root))
	cmd.AddCommand(newIAMGrantCmd(root))
	return cmd
}

type iamReplicateOptions struct {
	sourceProject string
	targetProject string
	sourceMember  string
	targetMember  string
}

var iamReplicateRunner = runIAMReplicate

func newIAMReplicateCmd(root *rootFlags) *cobra.Command {
	opts := iamReplicateOptions{}

	cmd := &cobra.Command{
		Use:   "replicate",
		Short: "Copy one principal's role bindings onto another",
		Long: `replicate reads every role the source principal holds in the source
project and plans the matching bindings for the target principal in the
target project. Roles the target already holds stay out of the minimal
plan.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return iamReplicateRunner(cmd.Context(), root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.sourceProject, "source-project", "", "Project to read bindings from")
	cmd.Flags().StringVar(&opts.targetProject, "target-project", "", "Project to grant bindings in (defaults to the source project)")
	cmd.Flags().StringVar(&opts.sourceMember, "source-member", "", "Principal whose roles are copied (e.g. user:alice@example.com)")
	cmd.Flags().StringVar(&opts.targetMember, "target-member", "", "Principal receiving the roles")

	return cmd
}

func runIAMReplicate(ctx context.Context, root *rootFlags, opts iamReplicateOptions) error {
	a, err := newApp(root)
	if err != nil {
		return err
	}

	sourceProjectFlag := opts.sourceProject
	if sourceProjectFlag == "" {
		sourceProjectFlag = a.cfg.Project
	}
	sourceProject, err := a.value(ctx, sourceProjectFlag, "Source project", "Project to read bindings from", "my-project")
	if err != nil {
		return err
	}
	sourceMember, err := a.value(ctx, opts.sourceMember, "Source principal", "Principal whose roles are copied", "user:alice@example.com")
	if err != nil {
		return err
	}
	targetMember, err := a.value(ctx, opts.targetMember, "Target principal", "Principal receiving the roles", "user:bob@example.com")
	if err != nil {
		return err
	}
	targetProject := opts.targetProject
	if targetProject == "" {
		targetProject = sourceProject
	}

	sourcePolicy, err := a.client.GetIAMPolicy(ctx, sourceProject)
	if err != nil {
		return err
	}
	targetPolicy := sourcePolicy
	if targetProject != sourceProject {
		targetPolicy, err = a.client.GetIAMPolicy(ctx, targetProject)
		if err != nil {
			return err
		}
	}

	p, err := planner.BuildIAMReplicatePlan(planner.IAMReplicateInput{
		SourceProject: sourceProject,
		TargetProject: targetProject,
		SourceMember:  sourceMember,
		TargetMember:  targetMember,
		SourcePolicy:  sourcePolicy,
		TargetPolicy:  targetPolicy,
	})
	if err != nil {
		return err
	}

	a.present.PlanSummary(p)

	mode, err := a.mode(ctx)
	if err != nil {
		return err
	}
	return a.dispatchPlan(ctx, p, mode)
}

type iamGrantOptions struct {
	member       string
	rolesFile    string
	projectsFile string
	skipFetch    bool
}

var iamGrantRunner = runIAMGrant

func newIAMGrantCmd(root *rootFlags) *cobra.Command {
	opts := iamGrantOptions{}

	cmd := &cobra.Command{
		Use:   "grant [member]",
		Short: "Grant a set of roles across a set of projects",
		Long: `grant applies every role from the roles file to the member in every
project from the projects file. Pairs already bound stay out of the
minimal plan; with --skip-fetch no state is read and the whole cross
product is emitted as a declarative script.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.member = args[0]
			}
			return iamGrantRunner(cmd.Context(), root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.rolesFile, "roles-file", "", "File with one role per line")
	cmd.Flags().StringVar(&opts.projectsFile, "projects-file", "", "File with one project id per line")
	cmd.Flags().BoolVar(&opts.skipFetch, "skip-fetch", false, "Skip reading current policies; every pair becomes declarative-only")
	cmd.MarkFlagRequired("roles-file")    //nolint:errcheck
	cmd.MarkFlagRequired("projects-file") //nolint:errcheck

	return cmd
}

func runIAMGrant(ctx context.Context, root *rootFlags, opts iamGrantOptions) error {
	a, err := newApp(root)
	if err != nil {
		return err
	}

	member, err := a.value(ctx, opts.member, "Member", "Principal receiving the roles", "serviceAccount:ci@my-project.iam.gserviceaccount.com")
	if err != nil {
		return err
	}

	roles, err := inputfile.ReadLines(opts.rolesFile)
	if err != nil {
		return err
	}
	projects, err := inputfile.ReadLines(opts.projectsFile)
	if err != nil {
		return err
	}

	var policies map[string]*gcloud.IAMPolicy
	if !opts.skipFetch {
		policies = make(map[string]*gcloud.IAMPolicy, len(projects))
		for _, project := range projects {
			policy, err := a.client.GetIAMPolicy(ctx, project)
			if err != nil {
				return err
			}
			policies[project] = policy
		}
	}

	p, err := planner.BuildIAMGrantPlan(planner.IAMGrantInput{
		Member:   member,
		Roles:    roles,
		Projects: projects,
		Policies: policies,
	})
	if err != nil {
		return err
	}

	a.present.PlanSummary(p)
	a.log.WithFields(map[string]any{
		"member":   member,
		"roles":    len(roles),
		"projects": len(projects),
	}).Debug("built grant cross product")

	mode, err := a.mode(ctx)
	if err != nil {
		return err
	}
	return a.dispatchPlan(ctx, p, mode)
}
