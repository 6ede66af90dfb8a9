package presenter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gcpctl/gcpctl/internal/dispatch"
	"github.com/gcpctl/gcpctl/internal/plan"
)

func TestPlanSummaryListsRequiredActions(t *testing.T) {
	t.Parallel()

	p := plan.New("default-pool-v2")
	require.NoError(t, p.Add(plan.Action{
		Description: "create node pool default-pool-v2",
		Field:       "node-pool",
		Command:     []string{"gcloud", "container", "node-pools", "create", "default-pool-v2"},
		Class:       plan.ClassRequired,
		Repeat:      plan.Stateful,
		Tier:        plan.TierCreate,
	}))
	p.AddDiagnostic("cluster version unavailable, using node pool version")

	var buf bytes.Buffer
	New(&buf).PlanSummary(p)

	out := buf.String()
	require.Contains(t, out, "Plan for default-pool-v2")
	require.Contains(t, out, "create node pool default-pool-v2")
	require.Contains(t, out, "cluster version unavailable")
}

func TestPlanSummaryEmptyPlan(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	New(&buf).PlanSummary(plan.New("idle"))
	require.Contains(t, buf.String(), "already matches")
}

func TestFieldChangesRendersInlineAndDiff(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	New(&buf).FieldChanges([]FieldChange{
		{Field: "machine-type", Current: "e2-medium", Desired: "n2-standard-4"},
		{Field: "labels", Current: "env=prod\nteam=data", Desired: "env=staging\nteam=data"},
	})

	out := buf.String()
	require.Contains(t, out, "machine-type")
	require.Contains(t, out, "e2-medium")
	require.Contains(t, out, "- env=prod")
	require.Contains(t, out, "+ env=staging")
}

func TestDispatchSummaryVariants(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	pr := New(&buf)

	pr.DispatchSummary(dispatch.Result{ScriptPath: "/tmp/x.sh"})
	require.Contains(t, buf.String(), "script written")

	buf.Reset()
	pr.DispatchSummary(dispatch.Result{Failed: true, Succeeded: 1, FailedCount: 1, NotAttempted: 1, Actions: []dispatch.ActionResult{
		{Status: dispatch.StatusFailed, Stderr: "ERROR: permission denied"},
	}})
	require.Contains(t, buf.String(), "1 succeeded, 1 failed, 1 not attempted")
	require.Contains(t, buf.String(), "permission denied")

	buf.Reset()
	pr.DispatchSummary(dispatch.Result{Succeeded: 2})
	require.Contains(t, buf.String(), "2 actions applied")
}
