// Package errors carries HTTP-mapped errors across handler and
// middleware boundaries.
package errors

import "net/http"

// AppError pairs a response status with a user-facing message.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

func New(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Errors shared between the auth, task and badge endpoints.
var (
	ErrInvalidRequest = New(http.StatusBadRequest, "Invalid request parameters")
	ErrUnauthorized   = New(http.StatusUnauthorized, "Invalid credentials")
	ErrTenantMismatch = New(http.StatusUnauthorized, "Tenant mismatch")
	ErrForbidden      = New(http.StatusForbidden, "Forbidden")
	ErrTaskNotFound   = New(http.StatusNotFound, "Task not found")
	ErrTaskCompleted  = New(http.StatusConflict, "Task already completed")
	ErrRateLimited    = New(http.StatusTooManyRequests, "Rate limit exceeded. Please slow down.")
)

func BadRequest(msg string) *AppError {
	return New(http.StatusBadRequest, msg)
}

func NotFound(msg string) *AppError {
	return New(http.StatusNotFound, msg)
}

func Internal(msg string) *AppError {
	return New(http.StatusInternalServerError, msg)
}
