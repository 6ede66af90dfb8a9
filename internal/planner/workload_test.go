package planner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gcpctl/gcpctl/internal/plan"
)

func bindingInput() WorkloadBindingInput {
	return WorkloadBindingInput{
		Project:   "acme-prod",
		GSAName:   "pipeline-runner",
		Namespace: "data",
		KSAName:   "pipeline",
	}
}

func TestWorkloadPlanCreatePrecedesBind(t *testing.T) {
	t.Parallel()

	p, err := BuildWorkloadBindingPlan(bindingInput())
	require.NoError(t, err)

	actions := p.Minimal()
	require.Len(t, actions, 3)

	createIdx, bindIdx := -1, -1
	for i, a := range actions {
		switch a.Field {
		case "service-account":
			createIdx = i
		case "iam-binding":
			bindIdx = i
		}
	}
	require.GreaterOrEqual(t, createIdx, 0)
	require.GreaterOrEqual(t, bindIdx, 0)
	require.Less(t, createIdx, bindIdx, "create must sort strictly before bind")
}

func TestWorkloadPlanMemberFormat(t *testing.T) {
	t.Parallel()

	in := bindingInput()
	require.Equal(t, "serviceAccount:acme-prod.svc.id.goog[data/pipeline]", in.KSAMember())
	require.Equal(t, "pipeline-runner@acme-prod.iam.gserviceaccount.com", in.GSAEmail())

	p, err := BuildWorkloadBindingPlan(in)
	require.NoError(t, err)

	var bind plan.Action
	for _, a := range p.Full() {
		if a.Field == "iam-binding" {
			bind = a
		}
	}
	require.Contains(t, bind.CommandLine(), "roles/iam.workloadIdentityUser")
	require.Contains(t, bind.CommandLine(), "svc.id.goog[data/pipeline]")
}

func TestWorkloadPlanExistingLegsAreDeclarativeOnly(t *testing.T) {
	t.Parallel()

	in := bindingInput()
	in.GSAExists = true
	in.BindingExists = true
	in.CurrentAnnotation = in.GSAEmail()

	p, err := BuildWorkloadBindingPlan(in)
	require.NoError(t, err)
	require.True(t, p.Empty(), "fully converged binding must have an empty minimal plan")
	require.Len(t, p.Full(), 3, "full plan keeps all three declarative legs")
}

func TestWorkloadPlanStaleAnnotationIsRequired(t *testing.T) {
	t.Parallel()

	in := bindingInput()
	in.GSAExists = true
	in.BindingExists = true
	in.CurrentAnnotation = "old-runner@acme-prod.iam.gserviceaccount.com"

	p, err := BuildWorkloadBindingPlan(in)
	require.NoError(t, err)

	minimal := p.Minimal()
	require.Len(t, minimal, 1)
	require.Equal(t, "annotation", minimal[0].Field)
	require.Contains(t, minimal[0].CommandLine(), "--overwrite")
}

func TestWorkloadPlanCreateIsGuardedStateful(t *testing.T) {
	t.Parallel()

	p, err := BuildWorkloadBindingPlan(bindingInput())
	require.NoError(t, err)

	create := p.Full()[0]
	require.Equal(t, plan.Stateful, create.Repeat)
	require.True(t, create.GuardExists)
}

func TestWorkloadPlanRejectsIncompleteInput(t *testing.T) {
	t.Parallel()

	in := bindingInput()
	in.Namespace = ""
	_, err := BuildWorkloadBindingPlan(in)
	require.Error(t, err)
}
