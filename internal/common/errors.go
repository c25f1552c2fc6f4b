package common

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Pipeline error taxonomy. Every stage failure wraps exactly one of these so
// callers can classify an outcome without string matching.
var (
	ErrValidation        = errors.New("validation failed")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrExtraction        = errors.New("text extraction failed")
	ErrWorkerExecution   = errors.New("worker execution failed")
	ErrEmptyOutput       = errors.New("worker produced empty output")
	ErrMalformedOutput   = errors.New("worker produced malformed output")
	ErrStorage           = errors.New("storage failure")
	ErrNotFound          = errors.New("resource not found")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// ValidationErrorf builds a client-fault validation error.
func ValidationErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// HTTPStatus maps a pipeline error onto an HTTP status code. Client faults
// (bad submissions, unknown formats) map to 4xx; worker, extraction, and
// storage failures stay 5xx.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrWorkerExecution), errors.Is(err, ErrEmptyOutput), errors.Is(err, ErrMalformedOutput):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ClientMessage returns the error text that is safe to hand to the caller.
// Worker diagnostics and raw output stay in server logs; the client sees only
// the taxonomy sentinel text for internal failures.
func ClientMessage(err error) string {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrUnsupportedFormat), errors.Is(err, ErrNotFound):
		return err.Error()
	case errors.Is(err, ErrWorkerExecution):
		return ErrWorkerExecution.Error()
	case errors.Is(err, ErrEmptyOutput):
		return ErrEmptyOutput.Error()
	case errors.Is(err, ErrMalformedOutput):
		return ErrMalformedOutput.Error()
	case errors.Is(err, ErrExtraction):
		return ErrExtraction.Error()
	case errors.Is(err, ErrStorage):
		return ErrStorage.Error()
	default:
		return "internal error"
	}
}
