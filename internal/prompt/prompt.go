// Package prompt is the decision port: it resolves the dispatch mode and any
// operator-supplied values before planning hands over to the dispatcher. The
// planning core never reads the terminal itself.
package prompt

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/gcpctl/gcpctl/internal/dispatch"
)

// ErrAborted reports that the operator declined to proceed. Empty input on a
// value prompt aborts without making or emitting anything.
var ErrAborted = errors.New("aborted by operator")

// Decider yields the dispatch mode and any values a tool still needs.
type Decider interface {
	// Mode asks which of the three dispatch modes to use.
	Mode(ctx context.Context) (dispatch.Mode, error)
	// Value asks for a free-text value such as a new machine type. An
	// empty answer returns ErrAborted.
	Value(ctx context.Context, title, description, placeholder string) (string, error)
}

// Terminal is the interactive Decider backed by terminal forms.
type Terminal struct{}

var _ Decider = Terminal{}

// Mode presents the three-mode confirmation prompt.
func (Terminal) Mode(ctx context.Context) (dispatch.Mode, error) {
	var mode string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("How should this plan be applied?").
				Options(
					huh.NewOption("Execute now (minimal plan, fail-fast)", string(dispatch.ModeExecute)),
					huh.NewOption("Write minimal script (only what differs)", string(dispatch.ModeEmitMinimal)),
					huh.NewOption("Write full script (idempotent rebuild)", string(dispatch.ModeEmitFull)),
				).
				Value(&mode),
		),
	).RunWithContext(ctx)
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrAborted
		}
		return "", err
	}
	return dispatch.Mode(mode), nil
}

// Value presents a free-text input. Empty input aborts the run.
func (Terminal) Value(ctx context.Context, title, description, placeholder string) (string, error) {
	var value string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Description(description).
				Placeholder(placeholder).
				Value(&value),
		),
	).RunWithContext(ctx)
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrAborted
		}
		return "", err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", ErrAborted
	}
	return value, nil
}

// Static is a non-interactive Decider resolved entirely from flags. Values
// are consumed in the order they were queued.
type Static struct {
	mode   dispatch.Mode
	values []string
}

var _ Decider = (*Static)(nil)

// NewStatic builds a Static decider for the given mode.
func NewStatic(mode dispatch.Mode, values ...string) *Static {
	return &Static{mode: mode, values: values}
}

// Mode returns the preconfigured mode.
func (s *Static) Mode(context.Context) (dispatch.Mode, error) {
	if s.mode == "" {
		return "", errors.New("non-interactive run requires --mode")
	}
	return s.mode, nil
}

// Value pops the next queued value.
func (s *Static) Value(_ context.Context, title, _, _ string) (string, error) {
	if len(s.values) == 0 {
		return "", errors.New("non-interactive run is missing a value for: " + title)
	}
	value := strings.TrimSpace(s.values[0])
	s.values = s.values[1:]
	if value == "" {
		return "", ErrAborted
	}
	return value, nil
}
