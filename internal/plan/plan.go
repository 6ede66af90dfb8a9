package plan

// Plan is an ordered sequence of actions targeting a single resource,
// partitioned into the minimal set (required reconciliation only) and the
// full declarative set used by rebuild scripts.
//
// Actions are bucketed by dependency tier at insertion time; within a tier
// insertion order is preserved. This is an explicit topological constraint:
// a binding that references a not-yet-created principal must never sort
// before the creation action.
type Plan struct {
	// Target is the resource name plans and script artifacts are keyed by.
	Target string

	tiers       [TierAnnotate + 1][]Action
	diagnostics []Diagnostic
}

// New creates an empty plan for the named target resource.
func New(target string) *Plan {
	return &Plan{Target: target}
}

// Add appends an action to its dependency tier.
func (p *Plan) Add(a Action) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.Tier < TierCreate || a.Tier > TierAnnotate {
		return newValidationError("unknown action tier", map[string]interface{}{
			"action": a.Description,
			"tier":   int(a.Tier),
		})
	}
	p.tiers[a.Tier] = append(p.tiers[a.Tier], a)
	return nil
}

// AddDiagnostic records a non-fatal advisory on the plan.
func (p *Plan) AddDiagnostic(message string) {
	p.diagnostics = append(p.diagnostics, Diagnostic{Message: message})
}

// Diagnostics returns the advisories recorded during plan construction.
func (p *Plan) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), p.diagnostics...)
}

// Minimal returns the required actions in dependency order.
func (p *Plan) Minimal() []Action {
	return p.collect(func(a Action) bool { return a.Class == ClassRequired })
}

// Full returns every action in dependency order. The full set is a superset
// of the minimal set by field coverage.
func (p *Plan) Full() []Action {
	return p.collect(func(Action) bool { return true })
}

// Empty reports whether the plan has no required actions.
func (p *Plan) Empty() bool {
	return len(p.Minimal()) == 0
}

func (p *Plan) collect(keep func(Action) bool) []Action {
	var out []Action
	for tier := TierCreate; tier <= TierAnnotate; tier++ {
		for _, a := range p.tiers[tier] {
			if keep(a) {
				out = append(out, a)
			}
		}
	}
	return out
}
