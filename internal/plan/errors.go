package plan

import (
	"errors"
	"fmt"
)

// ErrorCode identifies well-known domain error categories used across the
// planning layer.
type ErrorCode string

const (
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	ErrCodeMissing    ErrorCode = "MISSING_REQUIRED"
	ErrCodeNotFound   ErrorCode = "NOT_FOUND"
	ErrCodeResize     ErrorCode = "INVALID_RESIZE"
	ErrCodeStateFetch ErrorCode = "STATE_FETCH"
	ErrCodeExecution  ErrorCode = "EXECUTION_ERROR"
	ErrCodeCancelled  ErrorCode = "CANCELLED"
	ErrCodeInternal   ErrorCode = "INTERNAL_ERROR"
)

// DomainError represents a typed error enriched with contextual data while
// remaining free from infrastructure dependencies.
type DomainError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is / errors.As usage.
func (e *DomainError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is allows errors.Is comparisons against other DomainError values.
func (e *DomainError) Is(target error) bool {
	var domainErr *DomainError
	if !errors.As(target, &domainErr) {
		return false
	}
	return e.Code == domainErr.Code && e.Message == domainErr.Message
}

// WithContext clones the error with additional contextual metadata.
func (e *DomainError) WithContext(ctx map[string]interface{}) *DomainError {
	if e == nil {
		return nil
	}
	merged := make(map[string]interface{}, len(e.Context)+len(ctx))
	for k, v := range e.Context {
		merged[k] = v
	}
	for k, v := range ctx {
		merged[k] = v
	}
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Cause:   e.Cause,
		Context: merged,
	}
}

func newDomainError(code ErrorCode, message string, cause error, context map[string]interface{}) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: context,
	}
}

// Helper constructors to simplify error creation throughout planning code.

func newValidationError(message string, context map[string]interface{}) *DomainError {
	return newDomainError(ErrCodeValidation, message, nil, context)
}

func newMissingFieldError(field string) *DomainError {
	return newDomainError(ErrCodeMissing, "missing required field", nil, map[string]interface{}{
		"field": field,
	})
}

// NewResizeError reports a resize target that does not grow the resource.
func NewResizeError(field string, current, desired int64) *DomainError {
	return newDomainError(ErrCodeResize, "desired size must exceed current size", nil, map[string]interface{}{
		"field":   field,
		"current": current,
		"desired": desired,
	})
}
