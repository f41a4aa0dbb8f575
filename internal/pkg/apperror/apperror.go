package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an AppError so callers can branch on the failure category
// without comparing messages.
type Kind string

const (
	KindValidation Kind = "validation_error"
	KindNotFound   Kind = "not_found"
	KindCapacity   Kind = "capacity_error"
	KindConflict   Kind = "conflict"
	KindPermission Kind = "permission_denied"
	KindState      Kind = "invalid_state"
	KindInternal   Kind = "internal_error"
)

// AppError is a custom error type that includes an HTTP status code and an optional internal error code.
type AppError struct {
	Code    int            // HTTP Status Code (e.g., 400, 404)
	Kind    Kind           // Failure category exposed to clients
	Message string         // User-facing error message
	Details map[string]any // Optional structured context (e.g. missing fields)
	Err     error          // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Wrap creates a new AppError wrapping an existing error.
// The kind is derived from the status code.
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kindForCode(code),
		Message: message,
		Err:     err,
	}
}

// WithDetails returns a copy of e carrying the given details.
// Sentinel errors are shared, so they are never mutated in place.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

func Validation(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Kind: KindValidation, Message: message}
}

func NotFound(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Kind: KindNotFound, Message: message}
}

func Capacity(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Kind: KindCapacity, Message: message}
}

func Conflict(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Kind: KindConflict, Message: message}
}

func Permission(message string) *AppError {
	return &AppError{Code: http.StatusForbidden, Kind: KindPermission, Message: message}
}

func State(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Kind: KindState, Message: message}
}

// KindOf reports the Kind of the first AppError in err's chain,
// or KindInternal when there is none.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func kindForCode(code int) Kind {
	switch code {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	case http.StatusForbidden:
		return KindPermission
	default:
		return KindInternal
	}
}
