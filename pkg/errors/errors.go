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

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Merge errors
	ErrStrategyNotFound ErrorCode = "STRATEGY_NOT_FOUND"
	ErrStrategyConflict ErrorCode = "STRATEGY_CONFLICT"
	ErrMergeFailed      ErrorCode = "MERGE_FAILED"

	// Invariant violations; these indicate a defect in fatpack itself,
	// never bad user input
	ErrInvariant ErrorCode = "INTERNAL_INVARIANT"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileRead     ErrorCode = "FILE_READ"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"

	// Assembly errors
	ErrExtract      ErrorCode = "EXTRACT"
	ErrWorkspace    ErrorCode = "WORKSPACE"
	ErrArchiveWrite ErrorCode = "ARCHIVE_WRITE"
)

// FatpackError represents a structured error with code and details
type FatpackError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *FatpackError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *FatpackError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *FatpackError) Is(target error) bool {
	var targetErr *FatpackError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new FatpackError with the given code and message
func New(code ErrorCode, message string) *FatpackError {
	return &FatpackError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new FatpackError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *FatpackError {
	return &FatpackError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a FatpackError
func Wrap(err error, code ErrorCode, message string) *FatpackError {
	if err == nil {
		return nil
	}
	return &FatpackError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *FatpackError {
	if err == nil {
		return nil
	}
	return &FatpackError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *FatpackError) WithDetail(key string, value interface{}) *FatpackError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *FatpackError) WithDetails(details map[string]interface{}) *FatpackError {
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
	var fpErr *FatpackError
	if errors.As(err, &fpErr) {
		return fpErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a FatpackError
func GetErrorCode(err error) ErrorCode {
	var fpErr *FatpackError
	if errors.As(err, &fpErr) {
		return fpErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a FatpackError
func GetErrorDetails(err error) map[string]interface{} {
	var fpErr *FatpackError
	if errors.As(err, &fpErr) {
		return fpErr.Details
	}
	return nil
}
