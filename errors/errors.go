package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode is the machine-readable "code" field of an error body.
type ErrorCode string

// AppError is an error that knows how it should look on the wire.
type AppError struct {
	Code       ErrorCode
	Message    string
	Hint       string
	HTTPStatus int
	// Retryable tells the client the same request may succeed later.
	Retryable bool
	Details   map[string]any
	Cause     error
}

// New builds an AppError. Callers usually want one of the catalog
// constructors instead.
func New(code ErrorCode, message string, status int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithCause attaches the internal error. It is logged, never rendered.
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// WithDetail adds a key to the rendered details object.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = map[string]any{}
	}
	e.Details[key] = value
	return e
}

// AsAppError finds the first AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var ae *AppError
	ok := stderrors.As(err, &ae)
	return ae, ok
}

// IsAppError reports whether err's chain holds an AppError.
func IsAppError(err error) bool {
	_, ok := AsAppError(err)
	return ok
}

// Wrap returns the AppError in err's chain, or an Internal error around
// err when there is none. Wrap(nil) is nil.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if ae, ok := AsAppError(err); ok {
		return ae
	}
	return Internal(err)
}
