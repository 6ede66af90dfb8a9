// Package dispatch runs a plan or serializes it into a re-runnable script
// artifact, depending on the chosen mode.
package dispatch

import (
	"context"

	"github.com/gcpctl/gcpctl/internal/gcloud"
	"github.com/gcpctl/gcpctl/internal/logger"
	"github.com/gcpctl/gcpctl/internal/plan"
	gcperrors "github.com/gcpctl/gcpctl/pkg/errors"
)

// Mode selects what dispatching a plan means.
type Mode string

const (
	// ModeExecute runs the minimal plan now, sequentially and fail-fast.
	ModeExecute Mode = "execute"
	// ModeEmitMinimal serializes the minimal plan into a script artifact.
	ModeEmitMinimal Mode = "emit-minimal"
	// ModeEmitFull serializes the full declarative plan into an idempotent
	// rebuild script.
	ModeEmitFull Mode = "emit-full"
)

// Action execution statuses reported through ActionResult.
const (
	StatusPending      = "pending"
	StatusRunning      = "running"
	StatusSuccess      = "success"
	StatusFailed       = "failed"
	StatusNotAttempted = "not-attempted"
)

// ActionResult captures the outcome of one executed action.
type ActionResult struct {
	Description string
	Status      string
	Stderr      string
	Err         error
}

// Result summarizes a dispatch run.
type Result struct {
	Mode         Mode
	Failed       bool
	Succeeded    int
	FailedCount  int
	NotAttempted int
	// ScriptPath is set in the emit modes.
	ScriptPath string
	Actions    []ActionResult
}

// Observer receives progress callbacks during EXECUTE mode. Implementations
// must be fast; execution blocks on them.
type Observer interface {
	ActionStarted(index int, action plan.Action)
	ActionFinished(index int, result ActionResult)
}

// Dispatcher executes plans through a provider runner or writes them out as
// script artifacts.
type Dispatcher struct {
	runner    gcloud.Runner
	log       *logger.Logger
	outputDir string
	observer  Observer
}

// New constructs a Dispatcher writing script artifacts into outputDir.
func New(runner gcloud.Runner, log *logger.Logger, outputDir string) *Dispatcher {
	return &Dispatcher{runner: runner, log: log, outputDir: outputDir}
}

// WithObserver attaches a progress observer for EXECUTE mode.
func (d *Dispatcher) WithObserver(obs Observer) *Dispatcher {
	d.observer = obs
	return d
}

// Dispatch applies the plan according to mode. In EXECUTE mode an empty
// minimal plan is a no-op success. The first action failure stops execution
// and surfaces as an ExecutionError alongside the partial Result.
func (d *Dispatcher) Dispatch(ctx context.Context, p *plan.Plan, mode Mode) (Result, error) {
	switch mode {
	case ModeExecute:
		return d.execute(ctx, p)
	case ModeEmitMinimal:
		return d.emit(p, mode, p.Minimal())
	case ModeEmitFull:
		return d.emit(p, mode, p.Full())
	default:
		return Result{Mode: mode, Failed: true}, gcperrors.NewValidationError("mode", "unknown dispatch mode: "+string(mode), nil)
	}
}

func (d *Dispatcher) execute(ctx context.Context, p *plan.Plan) (Result, error) {
	actions := p.Minimal()
	result := Result{Mode: ModeExecute, Actions: make([]ActionResult, len(actions))}

	if len(actions) == 0 {
		d.log.Info("nothing to do: current state already matches desired state")
		return result, nil
	}

	for i, action := range actions {
		if d.observer != nil {
			d.observer.ActionStarted(i, action)
		}
		d.log.WithFields(map[string]any{"action": action.Description}).Info("executing")

		_, stderr, err := d.runner.Run(ctx, action.Command[0], action.Command[1:]...)
		if err != nil {
			result.Actions[i] = ActionResult{Description: action.Description, Status: StatusFailed, Stderr: stderr, Err: err}
			if d.observer != nil {
				d.observer.ActionFinished(i, result.Actions[i])
			}
			result.Failed = true
			result.FailedCount = 1
			result.NotAttempted = len(actions) - i - 1
			for j := i + 1; j < len(actions); j++ {
				result.Actions[j] = ActionResult{Description: actions[j].Description, Status: StatusNotAttempted}
				if d.observer != nil {
					d.observer.ActionFinished(j, result.Actions[j])
				}
			}
			return result, gcperrors.NewExecutionError(action.Description, result.Succeeded, result.NotAttempted, stderr, err)
		}

		result.Actions[i] = ActionResult{Description: action.Description, Status: StatusSuccess}
		result.Succeeded++
		if d.observer != nil {
			d.observer.ActionFinished(i, result.Actions[i])
		}
	}

	return result, nil
}
