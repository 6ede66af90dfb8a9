package plan

import (
	"errors"
	"testing"
)

func action(desc, field string, class Classification, tier Tier) Action {
	return Action{
		Description: desc,
		Field:       field,
		Command:     []string{"gcloud", "dummy", field},
		Class:       class,
		Repeat:      SafeRepeat,
		Tier:        tier,
	}
}

func TestPlanTierOrdering(t *testing.T) {
	p := New("demo-sa")

	// Inserted bind-first to prove ordering is by tier, not insertion.
	if err := p.Add(action("bind role", "iam-binding", ClassRequired, TierBind)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Add(action("create service account", "service-account", ClassRequired, TierCreate)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Add(action("annotate ksa", "annotation", ClassRequired, TierAnnotate)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	minimal := p.Minimal()
	if len(minimal) != 3 {
		t.Fatalf("expected 3 actions, got %d", len(minimal))
	}
	if minimal[0].Field != "service-account" || minimal[1].Field != "iam-binding" || minimal[2].Field != "annotation" {
		t.Fatalf("actions out of dependency order: %v", minimal)
	}
}

func TestFullPlanIsSupersetOfMinimal(t *testing.T) {
	p := New("pool-a")
	if err := p.Add(action("create node pool", "node-pool", ClassDeclarative, TierCreate)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Add(action("update labels", "labels", ClassRequired, TierAnnotate)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	minimal := p.Minimal()
	full := p.Full()
	if len(full) < len(minimal) {
		t.Fatalf("full plan smaller than minimal: %d < %d", len(full), len(minimal))
	}

	fields := make(map[string]struct{})
	for _, a := range full {
		fields[a.Field] = struct{}{}
	}
	for _, a := range minimal {
		if _, ok := fields[a.Field]; !ok {
			t.Fatalf("field %s missing from full plan", a.Field)
		}
	}
}

func TestEmptyPlanHasNoRequiredActions(t *testing.T) {
	p := New("pool-a")
	if err := p.Add(action("create node pool", "node-pool", ClassDeclarative, TierCreate)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.Empty() {
		t.Fatal("plan with only declarative actions should report empty minimal set")
	}
}

func TestAddRejectsUnderSpecifiedAction(t *testing.T) {
	p := New("pool-a")
	err := p.Add(Action{Description: "no command", Class: ClassRequired, Repeat: SafeRepeat})
	if err == nil {
		t.Fatal("expected missing command error")
	}
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != ErrCodeMissing {
		t.Fatalf("expected missing-field domain error, got %v", err)
	}
}

func TestPlanDiagnosticsAreCopied(t *testing.T) {
	p := New("pool-a")
	p.AddDiagnostic("cluster version unavailable, using node pool version")

	diags := p.Diagnostics()
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	diags[0].Message = "mutated"
	if p.Diagnostics()[0].Message == "mutated" {
		t.Fatal("diagnostics slice must be a copy")
	}
}
