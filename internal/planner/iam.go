package planner

import (
	"fmt"
	"strings"

	"github.com/gcpctl/gcpctl/internal/gcloud"
	"github.com/gcpctl/gcpctl/internal/plan"
)

// IAMReplicateInput describes copying every role the source principal holds
// in SourceProject onto the target principal in TargetProject.
type IAMReplicateInput struct {
	SourceProject string
	TargetProject string
	SourceMember  string
	TargetMember  string
	// SourcePolicy is the IAM policy of the source project.
	SourcePolicy *gcloud.IAMPolicy
	// TargetPolicy is the IAM policy of the target project, used to
	// suppress bindings the target already holds. May equal SourcePolicy
	// for same-project replication.
	TargetPolicy *gcloud.IAMPolicy
}

// BuildIAMReplicatePlan emits one binding action per source role. Roles the
// target already holds stay declarative-only.
func BuildIAMReplicatePlan(in IAMReplicateInput) (*plan.Plan, error) {
	if in.SourcePolicy == nil {
		return nil, fmt.Errorf("iam replicate plan requires the source project policy")
	}
	if in.SourceMember == "" || in.TargetMember == "" {
		return nil, fmt.Errorf("iam replicate plan requires source and target members")
	}

	roles := in.SourcePolicy.RolesFor(in.SourceMember)
	p := plan.New(memberSlug(in.TargetMember))
	if len(roles) == 0 {
		p.AddDiagnostic(fmt.Sprintf("%s holds no roles in %s; nothing to replicate", in.SourceMember, in.SourceProject))
		return p, nil
	}

	for _, role := range roles {
		alreadyBound := in.TargetPolicy != nil && in.TargetPolicy.HasBinding(in.TargetMember, role)
		if err := p.Add(bindingAction(in.TargetProject, in.TargetMember, role, !alreadyBound)); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// IAMGrantInput describes the batch tool: apply every role from a roles file
// to the member across every project from a projects file.
type IAMGrantInput struct {
	Member   string
	Roles    []string
	Projects []string
	// Policies maps project id to its fetched IAM policy. A nil map means
	// state fetch was skipped and every pair is declarative-only.
	Policies map[string]*gcloud.IAMPolicy
}

// BuildIAMGrantPlan emits the roles x projects cross product as binding
// actions, suppressing required status for pairs already bound.
func BuildIAMGrantPlan(in IAMGrantInput) (*plan.Plan, error) {
	if in.Member == "" {
		return nil, fmt.Errorf("iam grant plan requires a member")
	}
	if len(in.Roles) == 0 || len(in.Projects) == 0 {
		return nil, fmt.Errorf("iam grant plan requires at least one role and one project")
	}

	p := plan.New(memberSlug(in.Member))
	for _, project := range in.Projects {
		policy := in.Policies[project]
		for _, role := range in.Roles {
			required := in.Policies != nil && (policy == nil || !policy.HasBinding(in.Member, role))
			if err := p.Add(bindingAction(project, in.Member, role, required)); err != nil {
				return nil, err
			}
		}
	}
	return p, nil
}

func bindingAction(project, member, role string, required bool) plan.Action {
	return plan.Action{
		Description: fmt.Sprintf("grant %s to %s in %s", role, member, project),
		Field:       "iam-binding:" + project + ":" + role,
		Command: []string{
			"gcloud", "projects", "add-iam-policy-binding", project,
			"--member=" + member,
			"--role=" + role,
			"--condition=None",
			"--quiet",
		},
		Class:  classify(required),
		Repeat: plan.SafeRepeat,
		Tier:   plan.TierBind,
	}
}

func memberSlug(member string) string {
	slug := member
	if idx := strings.Index(slug, ":"); idx >= 0 {
		slug = slug[idx+1:]
	}
	if idx := strings.Index(slug, "@"); idx >= 0 {
		slug = slug[:idx]
	}
	return slug
}
