package errorx

import (
	"errors"
	"fmt"
)

type Code int

const (
	Unauthorized Code = iota + 1
	Forbidden
	NotFound
	Validation
	OperationFailed
)

func (c Code) String() string {
	switch c {
	case Unauthorized:
		return "Unauthorized"
	case Forbidden:
		return "Forbidden"
	case NotFound:
		return "NotFound"
	case Validation:
		return "ValidationError"
	case OperationFailed:
		return "OperationFailed"
	default:
		return "Unknown"
	}
}

// Error is the error type returned by the engagement services.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap turns a persistence failure into OperationFailed. Errors that already carry
// a code pass through unchanged.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Code: OperationFailed, Message: message, cause: err}
}

// CodeOf returns the code carried by err, or OperationFailed for foreign errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return OperationFailed
}

func Is(err error, code Code) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}

var (
	ErrUnauthorized = New(Unauthorized, "You must be signed in")
)
