package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the JSON shape of every API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError carries a machine-readable code alongside the user-facing
// message. Handlers map the code to an HTTP status.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error { return e.Err }

// NewNotFoundError reports that a resource lookup by ID came up empty.
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: fmt.Sprintf("%s with ID %v not found", resource, id)}
}

// NewValidationError reports rejected input.
func NewValidationError(message string) *AppError {
	return &AppError{Code: "VALIDATION_ERROR", Message: message}
}

// NewUnauthorizedError reports missing or invalid credentials.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Message: message}
}

// NewForbiddenError reports an action the caller is not allowed to take.
func NewForbiddenError(message string) *AppError {
	return &AppError{Code: "FORBIDDEN", Message: message}
}

// NewConflictError reports an operation that lost to a concurrent change
// or clashes with existing state.
func NewConflictError(message string) *AppError {
	return &AppError{Code: "CONFLICT", Message: message}
}

// NewInternalError wraps an unexpected failure without leaking it to the
// caller's message.
func NewInternalError(err error) *AppError {
	return &AppError{Code: "INTERNAL_ERROR", Message: "Internal server error", Err: err}
}

// RespondWithError writes err as a JSON ErrorResponse with the given status.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return c.Status(status).JSON(ErrorResponse{Error: err.Error()})
	}

	response := ErrorResponse{Error: appErr.Message, Code: appErr.Code}
	if appErr.Err != nil {
		response.Details = appErr.Err.Error()
	}
	return c.Status(status).JSON(response)
}
