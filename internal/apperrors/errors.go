package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidState indicates an illegal lifecycle transition, such as approving a rejected voucher.
var ErrInvalidState = errors.New("invalid state transition")

// ErrImbalance indicates that a batch of journal entries does not balance.
// It is an internal invariant violation and should never reach a caller.
var ErrImbalance = errors.New("journal entries do not balance")

// ErrStorage indicates that the backing store failed or is unavailable.
var ErrStorage = errors.New("storage error")

// ErrConflict indicates a concurrent request already holds the resource.
var ErrConflict = errors.New("conflicting request in progress")

// ErrForbidden indicates the caller is not allowed to perform the action.
var ErrForbidden = errors.New("forbidden")

// AppError carries an HTTP-ish status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
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

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewStorageError wraps a driver failure so that errors.Is(err, ErrStorage) holds
// while the original cause stays inspectable.
func NewStorageError(message string, err error) *AppError {
	if err == nil {
		return &AppError{Code: 503, Message: message, Err: ErrStorage}
	}
	return &AppError{Code: 503, Message: message, Err: fmt.Errorf("%w: %w", ErrStorage, err)}
}

// NewValidationError formats a message wrapped in ErrValidation.
func NewValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NewNotFoundError reports a missing resource of the given kind.
func NewNotFoundError(kind, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
}

// NewInvalidStateError reports a rejected lifecycle transition.
func NewInvalidStateError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}

// ImbalanceError describes a batch whose debit and credit totals differ.
type ImbalanceError struct {
	VoucherID string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

func (e *ImbalanceError) Error() string {
	return fmt.Sprintf("%s: voucher %s debits %s != credits %s",
		ErrImbalance.Error(), e.VoucherID, e.Debit.StringFixed(2), e.Credit.StringFixed(2))
}

// Is lets errors.Is(err, ErrImbalance) match.
func (e *ImbalanceError) Is(target error) bool {
	return target == ErrImbalance
}
