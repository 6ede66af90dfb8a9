package errors

import (
	"fmt"
)

// ParseError represents a malformed resource identity input (console URL or
// comma-delimited identity string).
type ParseError struct {
	Input   string
	Field   string
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(input, field, message string, err error) error {
	return &ParseError{Input: input, Field: field, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("parse error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures a desired value failing a business rule, such as a
// disk resize target that does not grow the disk.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// StateFetchError indicates the current state of a resource could not be
// retrieved from the provider. A "not found" response is a distinct condition
// and is reported through NotFound.
type StateFetchError struct {
	Resource string
	NotFound bool
	Stderr   string
	Err      error
}

// NewStateFetchError constructs a StateFetchError for a failed provider call.
func NewStateFetchError(resource, stderr string, err error) error {
	return &StateFetchError{Resource: resource, Stderr: stderr, Err: err}
}

// NewNotFoundError constructs a StateFetchError marking an explicit
// not-found provider response.
func NewNotFoundError(resource string) error {
	return &StateFetchError{Resource: resource, NotFound: true}
}

func (e *StateFetchError) Error() string {
	if e == nil {
		return ""
	}
	if e.NotFound {
		return fmt.Sprintf("state fetch: %s not found", e.Resource)
	}
	if e.Stderr != "" {
		return fmt.Sprintf("state fetch failed for %s: %v: %s", e.Resource, e.Err, e.Stderr)
	}
	return fmt.Sprintf("state fetch failed for %s: %v", e.Resource, e.Err)
}

// Unwrap exposes the underlying error.
func (e *StateFetchError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ExecutionError represents a runtime failure while executing a plan action.
// Succeeded counts the actions completed before the failure; NotAttempted
// counts the actions left unexecuted after the fail-fast stop.
type ExecutionError struct {
	Action       string
	Succeeded    int
	NotAttempted int
	Stderr       string
	Err          error
}

// NewExecutionError constructs an ExecutionError.
func NewExecutionError(action string, succeeded, notAttempted int, stderr string, err error) error {
	return &ExecutionError{Action: action, Succeeded: succeeded, NotAttempted: notAttempted, Stderr: stderr, Err: err}
}

func (e *ExecutionError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("execution error on action %q: %v", e.Action, e.Err)
	if e.Stderr != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Stderr)
	}
	return fmt.Sprintf("%s (%d succeeded, %d not attempted)", msg, e.Succeeded, e.NotAttempted)
}

// Unwrap exposes the root error.
func (e *ExecutionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
