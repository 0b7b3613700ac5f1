package errors

import (
	"errors"
	"fmt"
)

// AppError is an error carrying a business code.
type AppError struct {
	Code    int
	Message string
	Err     error
	Details string
}

func (e *AppError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	case e.Details != "":
		return fmt.Sprintf("[%d] %s: %s", e.Code, e.Message, e.Details)
	default:
		return fmt.Sprintf("[%d] %s", e.Code, e.Message)
	}
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status for the error code.
func (e *AppError) HTTPStatus() int {
	return GetHTTPStatus(e.Code)
}

// New creates an AppError with the default message for code.
func New(code int, details ...string) *AppError {
	return &AppError{Code: code, Message: GetMessage(code), Details: first(details)}
}

// Wrap attaches code to err. An err that already is an AppError keeps its
// code; only its details are replaced when provided.
func Wrap(err error, code int, details ...string) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		if d := first(details); d != "" {
			appErr.Details = d
		}
		return appErr
	}
	return &AppError{Code: code, Message: GetMessage(code), Err: err, Details: first(details)}
}

func Wrapf(err error, code int, format string, args ...any) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// Is reports whether err is an AppError with the given code.
func Is(err error, code int) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// ExtractCode returns the code of err, or ErrInternalServer.
func ExtractCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternalServer
}

// GetDetails returns the details of an AppError. Plain errors are not
// exposed.
func GetDetails(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Details
	}
	return ""
}

func NewBadRequestError(details ...string) *AppError {
	return New(ErrBadRequest, details...)
}

func NewUnauthorizedError(details ...string) *AppError {
	return New(ErrUnauthorized, details...)
}

func NewNotFoundError(resource string) *AppError {
	return New(ErrNotFound, resource)
}

func NewInternalError(details ...string) *AppError {
	return New(ErrInternalServer, details...)
}

func first(s []string) string {
	if len(s) > 0 {
		return s[0]
	}
	return ""
}
