package models

import (
	"errors"
	"fmt"
	"log/slog"

	"devconnector/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried by AppError.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeAlreadyLiked    = "ALREADY_LIKED"
	CodeNotLiked        = "NOT_LIKED"
	CodeWriteConflict   = "WRITE_CONFLICT"
	CodeInternal        = "INTERNAL_ERROR"
)

// ServerErrorBody is the plain-text body of every 500 response.
const ServerErrorBody = "Server Error"

// Sentinel errors for like toggling.
var (
	ErrAlreadyLiked  = &AppError{Code: CodeAlreadyLiked, Message: "Post already liked"}
	ErrNotLiked      = &AppError{Code: CodeNotLiked, Message: "Post has not yet been liked"}
	ErrWriteConflict = &AppError{Code: CodeWriteConflict, Message: "Document was modified concurrently, please retry"}
)

// FieldError is one entry of a validation failure.
type FieldError struct {
	Msg   string `json:"msg"`
	Param string `json:"param,omitempty"`
}

// ErrorResponse is the body of non-validation error responses.
type ErrorResponse struct {
	Msg string `json:"msg"`
}

// ValidationResponse is the body of validation error responses.
type ValidationResponse struct {
	Errors []FieldError `json:"errors"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Fields  []FieldError
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on code, and on message when the target carries one.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if t.Code != e.Code {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

// Status maps the error code to an HTTP status.
func (e *AppError) Status() int {
	switch e.Code {
	case CodeValidation, CodeConflict, CodeAlreadyLiked, CodeNotLiked:
		return fiber.StatusBadRequest
	case CodeUnauthenticated, CodeForbidden:
		return fiber.StatusUnauthorized
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeWriteConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// Predefined error constructors
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: resource + " not found",
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
		Fields:  []FieldError{{Msg: message}},
	}
}

// NewFieldValidationError wraps a list of field failures. It returns nil for an empty list.
func NewFieldValidationError(fields []FieldError) *AppError {
	if len(fields) == 0 {
		return nil
	}
	return &AppError{
		Code:    CodeValidation,
		Message: fields[0].Msg,
		Fields:  fields,
	}
}

func NewUnauthenticatedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthenticated,
		Message: message,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
	}
}

// NewConflictError reports a uniqueness violation. It renders in the
// validation shape, the same way duplicate registration always has.
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
		Fields:  []FieldError{{Msg: message}},
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// AsAppError unwraps err into an AppError, treating anything else as internal.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError(err)
}

// RespondWithError writes the standard response for err.
func RespondWithError(c *fiber.Ctx, err error) error {
	appErr := AsAppError(err)
	status := appErr.Status()

	if status >= fiber.StatusInternalServerError {
		observability.Logger.ErrorContext(c.UserContext(), "request failed",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.Status(status).SendString(ServerErrorBody)
	}

	if len(appErr.Fields) > 0 {
		return c.Status(status).JSON(ValidationResponse{Errors: appErr.Fields})
	}
	return c.Status(status).JSON(ErrorResponse{Msg: appErr.Message})
}
