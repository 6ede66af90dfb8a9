package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/gcpctl/gcpctl/internal/config"
	"github.com/gcpctl/gcpctl/internal/dispatch"
	"github.com/gcpctl/gcpctl/internal/gcloud"
	"github.com/gcpctl/gcpctl/internal/logger"
	"github.com/gcpctl/gcpctl/internal/plan"
	"github.com/gcpctl/gcpctl/internal/presenter"
	"github.com/gcpctl/gcpctl/internal/prompt"
	"github.com/gcpctl/gcpctl/internal/tui"
)

// defaultRunner is the provider runner; command tests swap in a fake.
var defaultRunner gcloud.Runner = gcloud.ExecRunner{}

// app wires the collaborators every command needs.
type app struct {
	cfg         config.Config
	log         *logger.Logger
	runner      gcloud.Runner
	client      *gcloud.Client
	decider     prompt.Decider
	present     *presenter.Presenter
	outputDir   string
	fixedMode   dispatch.Mode
	interactive bool
}

func newApp(flags *rootFlags) (*app, error) {
	path := flags.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path, flags.configPath != "")
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if flags.verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Options{Level: level})
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:       cfg,
		log:       log,
		runner:    defaultRunner,
		present:   presenter.New(os.Stdout),
		outputDir: cfg.OutputDir,
	}
	a.client = gcloud.NewClient(a.runner, log)
	if flags.outputDir != "" {
		a.outputDir = flags.outputDir
	}

	a.interactive = !flags.nonInteractive && term.IsTerminal(int(os.Stdout.Fd()))

	modeFlag := flags.mode
	if modeFlag == "" && !a.interactive {
		modeFlag = cfg.DefaultMode
	}
	if modeFlag != "" {
		mode, err := dispatch.ValidateMode(modeFlag)
		if err != nil {
			return nil, err
		}
		a.fixedMode = mode
	}

	if a.interactive {
		a.decider = prompt.Terminal{}
	} else {
		a.decider = prompt.NewStatic(a.fixedMode)
	}

	return a, nil
}

// mode resolves the dispatch mode: flag first, then the interactive prompt.
func (a *app) mode(ctx context.Context) (dispatch.Mode, error) {
	if a.fixedMode != "" {
		return a.fixedMode, nil
	}
	return a.decider.Mode(ctx)
}

// value resolves an operator-supplied value: flag first, then a prompt.
func (a *app) value(ctx context.Context, flagValue, title, description, placeholder string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	return a.decider.Value(ctx, title, description, placeholder)
}

// dispatchPlan applies the plan in the chosen mode, with a live progress
// view for interactive execution.
func (a *app) dispatchPlan(ctx context.Context, p *plan.Plan, mode dispatch.Mode) error {
	d := dispatch.New(a.runner, a.log, a.outputDir)

	actions := p.Minimal()
	if mode == dispatch.ModeExecute && a.interactive && len(actions) > 0 {
		model := tui.NewModel(p.Target, actions)
		program := tea.NewProgram(model)
		d = d.WithObserver(tui.NewProgramObserver(program))

		// Ctrl+C quits the program, which cancels runCtx and kills the
		// in-flight provider command; remaining actions become
		// not-attempted.
		runCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		done := make(chan error, 1)
		go func() {
			_, err := program.Run()
			cancel()
			done <- err
		}()

		result, dispatchErr := d.Dispatch(runCtx, p, mode)
		program.Send(tea.QuitMsg{})
		tuiErr := <-done
		a.present.DispatchSummary(result)
		return firstError(dispatchErr, tuiErr)
	}

	result, err := d.Dispatch(ctx, p, mode)
	a.present.DispatchSummary(result)
	return err
}

// firstError keeps an action failure visible even when the progress view
// also failed tearing down.
func firstError(dispatchErr, tuiErr error) error {
	if dispatchErr != nil {
		return dispatchErr
	}
	return tuiErr
}
