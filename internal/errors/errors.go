// Package errors provides custom error types for the Moneta API.
// All service-layer errors should use AppError so handlers can translate
// them to consistent HTTP responses without leaking internal details.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication errors.
var (
	ErrUnauthorized = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrAlreadyExists  = &AppError{Code: "ALREADY_EXISTS", Message: "Resource already exists", StatusCode: http.StatusBadRequest}
	ErrIntegrity      = &AppError{Code: "DB_INTEGRITY", Message: "DB integrity error", StatusCode: http.StatusBadRequest}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Account errors.
var (
	ErrAccountNotFound     = &AppError{Code: "ACCOUNT_NOT_FOUND", Message: "Account not found", StatusCode: http.StatusNotFound}
	ErrSelfFundingAccount  = &AppError{Code: "SELF_FUNDING_ACCOUNT", Message: "An account cannot fund itself", StatusCode: http.StatusBadRequest}
	ErrFundingNotChecking  = &AppError{Code: "FUNDING_NOT_CHECKING", Message: "A funding account must be a checking account", StatusCode: http.StatusBadRequest}
	ErrFundingNotSupported = &AppError{Code: "FUNDING_NOT_SUPPORTED", Message: "Only credit card accounts may have a funding account", StatusCode: http.StatusBadRequest}
)

// Transaction errors.
var (
	ErrTransactionNotFound    = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrInvalidTransactionType = &AppError{Code: "INVALID_TRANSACTION_TYPE", Message: "Unsupported transaction type", StatusCode: http.StatusBadRequest}
	ErrSameAccountTransfer    = &AppError{Code: "SAME_ACCOUNT_TRANSFER", Message: "Cannot transfer to the same account", StatusCode: http.StatusBadRequest}
	ErrTransferAccounts       = &AppError{Code: "TRANSFER_ACCOUNTS", Message: "A transfer requires both a source and a destination account", StatusCode: http.StatusBadRequest}
)

// Reminder errors.
var (
	ErrReminderNotFound  = &AppError{Code: "REMINDER_NOT_FOUND", Message: "Reminder not found", StatusCode: http.StatusNotFound}
	ErrRepeatNotFound    = &AppError{Code: "REPEAT_NOT_FOUND", Message: "Repeat not found", StatusCode: http.StatusNotFound}
	ErrZeroRepeat        = &AppError{Code: "ZERO_REPEAT", Message: "Repeat period does not advance", StatusCode: http.StatusInternalServerError}
	ErrExclusionNotFound = &AppError{Code: "EXCLUSION_NOT_FOUND", Message: "Reminder exclusion not found", StatusCode: http.StatusNotFound}
)

// Tag errors.
var (
	ErrTagNotFound = &AppError{Code: "TAG_NOT_FOUND", Message: "Tag not found", StatusCode: http.StatusNotFound}
)

// Budget errors.
var (
	ErrBudgetNotFound = &AppError{Code: "BUDGET_NOT_FOUND", Message: "Budget not found", StatusCode: http.StatusNotFound}
)
