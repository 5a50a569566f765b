package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller is authenticated but lacks the required role.
var ErrForbidden = errors.New("forbidden")

// ErrStorage indicates the underlying store could not complete an operation.
// Any write attempted as part of the failed operation has been rolled back.
var ErrStorage = errors.New("storage failure")

// Ledger posting errors. Each one is terminal for the call and leaves the
// balance account and the ledger untouched.
var (
	ErrInvalidAmount       = fmt.Errorf("%w: amount must be a positive value with at most two decimal places", ErrValidation)
	ErrStudentNotFound     = fmt.Errorf("%w: student balance account does not exist", ErrNotFound)
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// AppError carries an HTTP-ish status code alongside the wrapped cause.
// Codes >= 500 are treated as storage/infrastructure faults.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrStorage) match any server-side AppError.
func (e *AppError) Is(target error) bool {
	return target == ErrStorage && e.Code >= http.StatusInternalServerError
}
