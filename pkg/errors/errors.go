// Package errors provides structured errors with stable codes for the
// deployment and launch-interception layers.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Deployment-method support errors
	ErrUnsupportedPlatform ErrorCode = "UNSUPPORTED_PLATFORM"
	ErrUnsupportedGame     ErrorCode = "UNSUPPORTED_GAME"

	// Deployment-cycle errors
	ErrDeploymentCycle     ErrorCode = "DEPLOYMENT_CYCLE_FAILURE"
	ErrManualDeployReject  ErrorCode = "MANUAL_DEPLOY_REJECTED"
	ErrSessionNotPrepared  ErrorCode = "SESSION_NOT_PREPARED"

	// Launch errors
	ErrExecutableNotFound ErrorCode = "EXECUTABLE_NOT_FOUND"
	ErrHookLaunchFailure  ErrorCode = "HOOK_LAUNCH_FAILURE"

	// VFS capability errors
	ErrVFSFailure     ErrorCode = "VFS_FAILURE"
	ErrVFSLogMonitor  ErrorCode = "VFS_LOG_MONITOR"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
)

// ModvfsError represents a structured error with code and details
type ModvfsError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *ModvfsError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ModvfsError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *ModvfsError) Is(target error) bool {
	var targetErr *ModvfsError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new ModvfsError with the given code and message
func New(code ErrorCode, message string) *ModvfsError {
	return &ModvfsError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new ModvfsError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ModvfsError {
	return &ModvfsError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a ModvfsError
func Wrap(err error, code ErrorCode, message string) *ModvfsError {
	if err == nil {
		return nil
	}
	return &ModvfsError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ModvfsError {
	if err == nil {
		return nil
	}
	return &ModvfsError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *ModvfsError) WithDetail(key string, value interface{}) *ModvfsError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// GetCode extracts the error code from an error, returning ErrUnknown for
// errors that did not originate here.
func GetCode(err error) ErrorCode {
	var e *ModvfsError
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrUnknown
}

// IsCode reports whether err carries the given code anywhere in its chain.
func IsCode(err error, code ErrorCode) bool {
	var e *ModvfsError
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
