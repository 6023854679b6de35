package engine

import (
	"errors"
	"fmt"
)

// StateError is an error surfaced by an engine operation.
//
// Every failure a caller can act on carries a code; the message is the
// generic user-facing text for that category. Underlying causes are
// wrapped for diagnostics but user messaging never depends on them.
type StateError struct {
	// Code identifies the error category.
	Code StateErrorCode

	// Message is the user-facing description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// StateErrorCode categorizes engine errors.
type StateErrorCode string

const (
	// ErrCodeValidation indicates invalid input blocked the operation
	// before any state change (e.g., no free days selected).
	ErrCodeValidation StateErrorCode = "VALIDATION"

	// ErrCodeGenerationFailed indicates the plan generator rejected the
	// request. Recoverable: the caller may retry with adjusted input.
	ErrCodeGenerationFailed StateErrorCode = "GENERATION_FAILED"

	// ErrCodeGenerationInFlight indicates a generation is already running.
	// The busy flag is the sole admission control for generation.
	ErrCodeGenerationInFlight StateErrorCode = "GENERATION_IN_FLIGHT"

	// ErrCodeNotLoaded indicates a mutating operation was attempted before
	// the user's initial load completed.
	ErrCodeNotLoaded StateErrorCode = "NOT_LOADED"

	// ErrCodeLoadFailed indicates the initial load itself failed. Blocking:
	// the write gate stays closed and no default data is presented.
	ErrCodeLoadFailed StateErrorCode = "LOAD_FAILED"

	// ErrCodeNoPlan indicates the operation requires a committed plan.
	ErrCodeNoPlan StateErrorCode = "NO_PLAN"

	// ErrCodeNoDraft indicates the operation requires an active draft.
	ErrCodeNoDraft StateErrorCode = "NO_DRAFT"

	// ErrCodeDayOutOfRange indicates a day index outside the plan.
	ErrCodeDayOutOfRange StateErrorCode = "DAY_OUT_OF_RANGE"

	// ErrCodeEditTargetOutOfRange indicates an edit op addressed a
	// location that does not exist in the draft.
	ErrCodeEditTargetOutOfRange StateErrorCode = "EDIT_TARGET_OUT_OF_RANGE"

	// ErrCodeLogAppendFailed indicates the store rejected the workout log
	// append. The completion ledger is left untouched.
	ErrCodeLogAppendFailed StateErrorCode = "LOG_APPEND_FAILED"
)

// Error implements the error interface.
func (e *StateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *StateError) Unwrap() error {
	return e.Err
}

// newStateError creates a StateError without an underlying cause.
func newStateError(code StateErrorCode, message string) *StateError {
	return &StateError{Code: code, Message: message}
}

// wrapStateError creates a StateError wrapping an underlying cause.
func wrapStateError(code StateErrorCode, message string, err error) *StateError {
	return &StateError{Code: code, Message: message, Err: err}
}

// CodeOf extracts the StateErrorCode from an error.
// Returns "" if the error is not a StateError. Uses errors.As to handle
// wrapped errors.
func CodeOf(err error) StateErrorCode {
	var se *StateError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	return CodeOf(err) == ErrCodeValidation
}

// IsGenerationFailed reports whether err is a generation failure.
func IsGenerationFailed(err error) bool {
	return CodeOf(err) == ErrCodeGenerationFailed
}

// IsNotLoaded reports whether err is a not-loaded gate error.
func IsNotLoaded(err error) bool {
	return CodeOf(err) == ErrCodeNotLoaded
}
