package chatsync

import (
	"errors"
	"fmt"
)

// ErrorCode represents a categorized error type.
type ErrorCode int

const (
	ErrorUnknown ErrorCode = iota

	// Transport errors
	ErrorConnection
	ErrorDisconnected
	ErrorNotConnected

	// Local usage errors
	ErrorInvalidConfig
	ErrorInvalidUsername
	ErrorUsernameLocked
	ErrorNotAuthenticated

	// Data and protocol errors
	ErrorSerialization
	ErrorRosterFetch
	ErrorTimeout
)

// String returns the string representation of an ErrorCode.
func (e ErrorCode) String() string {
	switch e {
	case ErrorUnknown:
		return "unknown"
	case ErrorConnection:
		return "connection_error"
	case ErrorDisconnected:
		return "disconnected"
	case ErrorNotConnected:
		return "not_connected"
	case ErrorInvalidConfig:
		return "invalid_config"
	case ErrorInvalidUsername:
		return "invalid_username"
	case ErrorUsernameLocked:
		return "username_locked"
	case ErrorNotAuthenticated:
		return "not_authenticated"
	case ErrorSerialization:
		return "serialization_error"
	case ErrorRosterFetch:
		return "roster_fetch_error"
	case ErrorTimeout:
		return "timeout"
	default:
		return fmt.Sprintf("unknown_code_%d", e)
	}
}

// ChatError is a structured error with code and context.
type ChatError struct {
	Code    ErrorCode
	Message string
	Wrapped error
}

// Error implements the error interface.
func (e *ChatError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %s (wrapped: %v)", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error for errors.Unwrap support.
func (e *ChatError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface for error comparison.
func (e *ChatError) Is(target error) bool {
	t, ok := target.(*ChatError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewError creates a new ChatError with the given code and message.
func NewError(code ErrorCode, message string) *ChatError {
	return &ChatError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with a ChatError.
func WrapError(code ErrorCode, message string, err error) *ChatError {
	return &ChatError{
		Code:    code,
		Message: message,
		Wrapped: err,
	}
}

// CodeOf extracts the ErrorCode from an error, or ErrorUnknown if the
// error is not a ChatError.
func CodeOf(err error) ErrorCode {
	var ce *ChatError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ErrorUnknown
}

// IsTransportError reports whether an error is connection-related: the
// transport was never established, dropped, or was not up when needed.
func IsTransportError(err error) bool {
	switch CodeOf(err) {
	case ErrorConnection, ErrorDisconnected, ErrorNotConnected:
		return true
	default:
		return false
	}
}

// IsRosterFetchError reports whether an error came from a failed roster
// fetch. The roster itself is left unchanged when this is returned.
func IsRosterFetchError(err error) bool {
	return CodeOf(err) == ErrorRosterFetch
}
