package plan

import (
	"fmt"
	"strings"
)

// Classification marks why an action is part of a plan.
type Classification string

const (
	// ClassRequired marks an action needed because current state differs
	// from desired state.
	ClassRequired Classification = "required"
	// ClassDeclarative marks an action that is always part of a full
	// rebuild script regardless of current state.
	ClassDeclarative Classification = "declarative"
)

// Idempotency describes whether re-running an action is safe.
type Idempotency string

const (
	// SafeRepeat actions have no additional effect when re-run.
	SafeRepeat Idempotency = "safe-repeat"
	// Stateful actions must not be repeated blindly, e.g. resource creation.
	Stateful Idempotency = "stateful"
)

// Tier buckets actions by dependency order. Creation actions run before
// binding actions, which run before annotation and labeling actions.
type Tier int

const (
	TierCreate Tier = iota
	TierBind
	TierAnnotate
)

// Action is a single provider command bound to concrete parameter values.
type Action struct {
	// Description is the human-readable summary shown in plan output and
	// failure reports.
	Description string
	// Field names the tracked attribute this action reconciles.
	Field string
	// Command is the argv of the underlying CLI invocation, program first.
	Command []string
	Class   Classification
	Repeat  Idempotency
	Tier    Tier
	// GuardExists requests an ignore-already-exists guard when the action
	// is serialized into a full-rebuild script.
	GuardExists bool
}

// CommandLine renders the action's argv as a single shell command line.
// Arguments containing shell metacharacters are single-quoted.
func (a Action) CommandLine() string {
	parts := make([]string, 0, len(a.Command))
	for _, arg := range a.Command {
		parts = append(parts, shellQuote(arg))
	}
	return strings.Join(parts, " ")
}

// Validate ensures the action is fully specified before planning accepts it.
func (a Action) Validate() error {
	if strings.TrimSpace(a.Description) == "" {
		return newMissingFieldError("description")
	}
	if len(a.Command) == 0 {
		return newMissingFieldError("command").WithContext(map[string]interface{}{"action": a.Description})
	}
	if a.Class != ClassRequired && a.Class != ClassDeclarative {
		return newValidationError("unknown action classification", map[string]interface{}{
			"action":         a.Description,
			"classification": string(a.Class),
		})
	}
	if a.Repeat != SafeRepeat && a.Repeat != Stateful {
		return newValidationError("unknown idempotency class", map[string]interface{}{
			"action":      a.Description,
			"idempotency": string(a.Repeat),
		})
	}
	return nil
}

func shellQuote(arg string) string {
	if arg == "" {
		return "''"
	}
	if !strings.ContainsAny(arg, " \t\n\"'`$&|;<>()*?[]#~%{}\\") {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'"'"'`) + "'"
}

// Diagnostic is a non-fatal advisory attached to a plan, surfaced to the
// operator and embedded as comments in emitted scripts.
type Diagnostic struct {
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("note: %s", d.Message)
}
