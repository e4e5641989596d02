package errors

import (
	"fmt"
	"net/http"
)

const (
	CodeInvalidInput       ErrorCode = "INVALID_INPUT"
	CodeMissingField       ErrorCode = "MISSING_FIELD"
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	CodeUsernameTaken      ErrorCode = "USERNAME_TAKEN"
	CodeRateLimited        ErrorCode = "RATE_LIMITED"
	CodeInternal           ErrorCode = "INTERNAL_ERROR"
)

// Client-facing texts. Which check failed behind a token or credential
// rejection is never put into a body.
const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgTokenInvalid       = "Token expired or invalid"
	MsgTokenRefreshHint   = "Please refresh your token or login again"
	MsgUsernameTaken      = "Username already exists"
)

// InvalidToken is the single answer for every token failure, expiry
// included.
func InvalidToken() *AppError {
	return &AppError{Code: CodeInvalidToken, Message: MsgTokenInvalid, Hint: MsgTokenRefreshHint, HTTPStatus: http.StatusUnauthorized}
}

// InvalidCredentials does not say whether the username or the password
// was wrong.
func InvalidCredentials() *AppError {
	return New(CodeInvalidCredentials, MsgInvalidCredentials, http.StatusUnauthorized)
}

func UsernameTaken() *AppError {
	return New(CodeUsernameTaken, MsgUsernameTaken, http.StatusBadRequest)
}

// Unauthorized is for routes that need an identity when none was sent.
func Unauthorized(reason string) *AppError {
	if reason == "" {
		reason = "Authentication required"
	}
	return New(CodeUnauthorized, reason, http.StatusUnauthorized)
}

func Validation(message string) *AppError {
	return New(CodeInvalidInput, message, http.StatusBadRequest)
}

func InvalidInput(field, reason string) *AppError {
	e := New(CodeInvalidInput, "Invalid input: "+reason, http.StatusBadRequest)
	if field != "" {
		e.WithDetail("field", field)
	}
	return e
}

func MissingField(field string) *AppError {
	return New(CodeMissingField, fmt.Sprintf("Missing required field: %s", field), http.StatusBadRequest).
		WithDetail("field", field)
}

func PayloadTooLarge() *AppError {
	return New(CodeInvalidInput, "Request body too large", http.StatusRequestEntityTooLarge)
}

func RateLimited() *AppError {
	e := New(CodeRateLimited, "Too many requests. Please slow down.", http.StatusTooManyRequests)
	e.Retryable = true
	return e
}

// Internal hides cause from the client.
func Internal(cause error) *AppError {
	return New(CodeInternal, "An unexpected error occurred", http.StatusInternalServerError).WithCause(cause)
}
