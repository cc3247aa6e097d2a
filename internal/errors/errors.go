package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"gopenguins/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context. Domain sentinel errors keep
// their classification so callers can still map them to a code.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    codeForDomain(err),
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the error code of the outermost AppError, the code implied
// by a domain sentinel, or "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	if code := codeForDomain(err); code != CodeInternalError {
		return code
	}
	return "UNKNOWN"
}

// HTTPStatus maps an error to the status code the HTTP surfaces answer with
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case CodeInvalidParameter, CodeInvalidInput, CodeValidationError:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func codeForDomain(err error) string {
	switch {
	case core.IsInvalidParameter(err):
		return CodeInvalidParameter
	case core.IsNotFoundError(err):
		return CodeNotFound
	case stderrors.Is(err, core.ErrEmptyTable):
		return CodeUnavailable
	default:
		return CodeInternalError
	}
}

// Predefined error codes
const (
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeValidationError  = "VALIDATION_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeInternalError    = "INTERNAL_ERROR"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeInvalidParameter = "INVALID_PARAMETER"
	CodeDataLoad         = "DATA_LOAD_ERROR"
	CodeUnavailable      = "UNAVAILABLE"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func DataLoadError(path string, cause error) *AppError {
	return &AppError{
		Code:    CodeDataLoad,
		Message: fmt.Sprintf("failed to load dataset %s", path),
		Cause:   cause,
	}
}
