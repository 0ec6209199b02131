package physics

import (
	"errors"
	"fmt"
)

// Protocol errors
var (
	// Local programmer errors, never dispatched

	ErrInvalidHeader   = errors.New("payload header was not produced by a kind constructor")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNilEntity       = errors.New("entity is nil")

	// Array views

	ErrStaleView        = errors.New("array view used after its lease was released")
	ErrLeaseHeld        = errors.New("an engaged lease is still held")
	ErrNotPopulated     = errors.New("status has not been populated")
	ErrIndexOutOfRange  = errors.New("array view index out of range")
	ErrAddressNotMapped = errors.New("native address is not mapped")

	// Boundary

	ErrLayoutMismatch = errors.New("native layout fingerprint does not match")
	ErrNativeFailure  = errors.New("native dispatch failed")
)

// ErrorCode is a numeric error code for logging and the remote bridge.
type ErrorCode int

const (
	ErrorCodeSuccess ErrorCode = 0

	// Local error codes (1000-1999)

	ErrorCodeInvalidHeader   ErrorCode = 1001
	ErrorCodeInvalidArgument ErrorCode = 1002
	ErrorCodeNilEntity       ErrorCode = 1003

	// View error codes (2000-2999)

	ErrorCodeStaleView        ErrorCode = 2001
	ErrorCodeLeaseHeld        ErrorCode = 2002
	ErrorCodeNotPopulated     ErrorCode = 2003
	ErrorCodeIndexOutOfRange  ErrorCode = 2004
	ErrorCodeAddressNotMapped ErrorCode = 2005

	// Boundary error codes (3000-3999)

	ErrorCodeLayoutMismatch ErrorCode = 3001
	ErrorCodeNativeFailure  ErrorCode = 3002

	ErrorCodeUnknown ErrorCode = 9999
)

// Error is a protocol error with a code and the field it concerns.
type Error struct {
	Code    ErrorCode
	Field   string
	Message string
	Cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new protocol error
func NewError(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ContractError reports a caller-side contract violation on a payload field.
// It matches ErrInvalidArgument under errors.Is.
func ContractError(field, format string, args ...any) *Error {
	return &Error{
		Code:    ErrorCodeInvalidArgument,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
		Cause:   ErrInvalidArgument,
	}
}

var errorCodeMap = map[error]ErrorCode{
	ErrInvalidHeader:    ErrorCodeInvalidHeader,
	ErrInvalidArgument:  ErrorCodeInvalidArgument,
	ErrNilEntity:        ErrorCodeNilEntity,
	ErrStaleView:        ErrorCodeStaleView,
	ErrLeaseHeld:        ErrorCodeLeaseHeld,
	ErrNotPopulated:     ErrorCodeNotPopulated,
	ErrIndexOutOfRange:  ErrorCodeIndexOutOfRange,
	ErrAddressNotMapped: ErrorCodeAddressNotMapped,
	ErrLayoutMismatch:   ErrorCodeLayoutMismatch,
	ErrNativeFailure:    ErrorCodeNativeFailure,
}

// GetErrorCode returns the error code for a given error
func GetErrorCode(err error) ErrorCode {
	if err == nil {
		return ErrorCodeSuccess
	}
	var protocolErr *Error
	if errors.As(err, &protocolErr) {
		return protocolErr.Code
	}
	for sentinel, code := range errorCodeMap {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return ErrorCodeUnknown
}
