package plan

import (
	"errors"
	"testing"
)

func TestExactDeltaDetectsChange(t *testing.T) {
	d := ExactDelta("machine-type", "e2-medium", "n2-standard-4")
	changed, err := d.Changed()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !changed {
		t.Fatal("expected change")
	}

	same := ExactDelta("machine-type", "e2-medium", "e2-medium")
	changed, err = same.Changed()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if changed {
		t.Fatal("identical values must not require action")
	}
}

func TestSetDeltaIgnoresOrderAndDuplicates(t *testing.T) {
	d := SetDelta("node-locations", []string{"us-east1-b", "us-east1-c"}, []string{"us-east1-c", "us-east1-b", "us-east1-b"})
	changed, err := d.Changed()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if changed {
		t.Fatal("sets with same members must compare equal")
	}
}

func TestMapDeltaComparesPairs(t *testing.T) {
	current := map[string]string{"env": "prod", "team": "data"}
	desired := map[string]string{"team": "data", "env": "staging"}
	changed, err := MapDelta("labels", current, desired).Changed()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !changed {
		t.Fatal("expected label change")
	}
}

func TestGrowthDeltaValidation(t *testing.T) {
	// Equal sizes are an invalid resize, not a no-op.
	_, err := GrowthDelta("disk-size", 50, 50).Changed()
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != ErrCodeResize {
		t.Fatalf("expected resize domain error, got %v", err)
	}

	_, err = GrowthDelta("disk-size", 100, 50).Changed()
	if !errors.As(err, &domainErr) || domainErr.Code != ErrCodeResize {
		t.Fatalf("expected resize domain error for shrink, got %v", err)
	}

	changed, err := GrowthDelta("disk-size", 50, 100).Changed()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !changed {
		t.Fatal("growth must require action")
	}
}

func TestGrowthDeltaRejectsNonNumeric(t *testing.T) {
	d := FieldDelta{Field: "disk-size", Current: "50", Desired: "fifty", Comparator: CompareGrowth}
	_, err := d.Changed()
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != ErrCodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPresenceDelta(t *testing.T) {
	changed, err := PresenceDelta("iam-binding", false).Changed()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !changed {
		t.Fatal("absent relationship must require action")
	}

	changed, err = PresenceDelta("iam-binding", true).Changed()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if changed {
		t.Fatal("existing relationship must suppress action")
	}
}
