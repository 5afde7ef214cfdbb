package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the resource changed underneath the operation.
var ErrConflict = errors.New("resource changed concurrently")

// ErrCurrencyMismatch indicates arithmetic or posting across two different currencies.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// ErrInvalidState indicates a broken ledger invariant. It is never corrected silently.
var ErrInvalidState = errors.New("invalid ledger state")

// ErrDuplicateCascadeEffect indicates a second tracking category or transfer payee
// was about to be created for an account that already has one.
var ErrDuplicateCascadeEffect = errors.New("duplicate cascade effect")

// ErrPartialTransferFailure indicates that one side of a transfer could not be posted.
var ErrPartialTransferFailure = errors.New("transfer could not be posted on both accounts")

// ErrCascadeIncomplete indicates that an account was persisted but its derived
// entities are missing. The account creation cascade must be re-run for it.
var ErrCascadeIncomplete = errors.New("account creation cascade incomplete")

// AppError carries an HTTP-ish status code with an infrastructure failure.
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
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}
