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
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Validation errors
	ErrIdentifierInvalid ErrorCode = "IDENTIFIER_INVALID"
	ErrVariantUnknown    ErrorCode = "VARIANT_UNKNOWN"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrCopy         ErrorCode = "COPY_FAILED"
	ErrRewrite      ErrorCode = "REWRITE_FAILED"
	ErrRemove       ErrorCode = "REMOVE_FAILED"

	// Version control errors
	ErrVCSNotFound ErrorCode = "VCS_NOT_FOUND"
	ErrVCSCommand  ErrorCode = "VCS_COMMAND"
	ErrSubmodule   ErrorCode = "SUBMODULE_FAILED"
	ErrBootstrap   ErrorCode = "BOOTSTRAP_FAILED"
)

// HatchError represents a structured error with code and details
type HatchError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *HatchError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *HatchError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *HatchError) Is(target error) bool {
	var targetErr *HatchError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new HatchError with the given code and message
func New(code ErrorCode, message string) *HatchError {
	return &HatchError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new HatchError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *HatchError {
	return &HatchError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a HatchError
func Wrap(err error, code ErrorCode, message string) *HatchError {
	if err == nil {
		return nil
	}
	return &HatchError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *HatchError {
	if err == nil {
		return nil
	}
	return &HatchError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *HatchError) WithDetail(key string, value interface{}) *HatchError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *HatchError) WithDetails(details map[string]interface{}) *HatchError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var hatchErr *HatchError
	if errors.As(err, &hatchErr) {
		return hatchErr.Code == code
	}
	return false
}

// HasErrorCode checks the whole chain, including wrapped and joined errors,
// for code
func HasErrorCode(err error, code ErrorCode) bool {
	return errors.Is(err, &HatchError{Code: code})
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a HatchError
func GetErrorCode(err error) ErrorCode {
	var hatchErr *HatchError
	if errors.As(err, &hatchErr) {
		return hatchErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a HatchError
func GetErrorDetails(err error) map[string]interface{} {
	var hatchErr *HatchError
	if errors.As(err, &hatchErr) {
		return hatchErr.Details
	}
	return nil
}

// Join aggregates several errors into one, dropping nils.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
