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
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrPermission   ErrorCode = "PERMISSION"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Chest and shulker box errors
	ErrChestNotFound ErrorCode = "CHEST_NOT_FOUND"
	ErrBoxInvalid    ErrorCode = "BOX_INVALID"
	ErrBoxOrdering   ErrorCode = "BOX_ORDERING"

	// Match errors
	ErrMatchCondition ErrorCode = "MATCH_CONDITION"

	// Linking errors
	ErrLinkConflict ErrorCode = "LINK_CONFLICT"
	ErrLinkCreate   ErrorCode = "LINK_CREATE"
	ErrLinkEvicted  ErrorCode = "LINK_EVICTED"
	ErrDirCreate    ErrorCode = "DIR_CREATE"

	// Uninstall errors
	ErrCopyBack ErrorCode = "COPY_BACK"
)

// EnderlinkError represents a structured error with code and details
type EnderlinkError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *EnderlinkError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *EnderlinkError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *EnderlinkError) Is(target error) bool {
	var targetErr *EnderlinkError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new EnderlinkError with the given code and message
func New(code ErrorCode, message string) *EnderlinkError {
	return &EnderlinkError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new EnderlinkError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *EnderlinkError {
	return &EnderlinkError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an EnderlinkError
func Wrap(err error, code ErrorCode, message string) *EnderlinkError {
	if err == nil {
		return nil
	}
	return &EnderlinkError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *EnderlinkError {
	if err == nil {
		return nil
	}
	return &EnderlinkError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *EnderlinkError) WithDetail(key string, value interface{}) *EnderlinkError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var elErr *EnderlinkError
	if errors.As(err, &elErr) {
		return elErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not
// an EnderlinkError
func GetErrorCode(err error) ErrorCode {
	var elErr *EnderlinkError
	if errors.As(err, &elErr) {
		return elErr.Code
	}
	return ErrUnknown
}
