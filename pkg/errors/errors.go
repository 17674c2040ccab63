package errors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeRecipientRequired = "RECIPIENT_REQUIRED"
	CodePaymentProtocol   = "PAYMENT_PROTOCOL_ERROR"
	CodeLedgerWrite       = "LEDGER_WRITE_FAILURE"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeNotFound          = "NOT_FOUND"
	CodeBadRequest        = "BAD_REQUEST"
	CodeForbidden         = "FORBIDDEN"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeConflict          = "CONFLICT"
	CodeInternal          = "INTERNAL_ERROR"
	CodeTooManyRequests   = "TOO_MANY_REQUESTS"
)

type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
	// Fields maps an input field name to what is wrong with it.
	Fields map[string]string
	// Retryable marks failures the caller may safely repeat.
	Retryable bool
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code string, message string, status int, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Status:  http.StatusNotFound,
		Err:     err,
	}
}

func BadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    CodeBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

func Unauthorized(message string, err error) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     err,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

func Forbidden(message string, err error) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
		Status:  http.StatusForbidden,
		Err:     err,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
		Status:  http.StatusConflict,
	}
}

func TooManyRequests(message string) *AppError {
	return &AppError{
		Code:      CodeTooManyRequests,
		Message:   message,
		Status:    http.StatusTooManyRequests,
		Retryable: true,
	}
}

// Validation reports every invalid input field at once.
func Validation(fields map[string]string) *AppError {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	return &AppError{
		Code:    CodeValidation,
		Message: "Invalid fields: " + strings.Join(names, ", "),
		Status:  http.StatusBadRequest,
		Fields:  fields,
	}
}

func RecipientRequired() *AppError {
	return &AppError{
		Code:    CodeRecipientRequired,
		Message: "A recipient is required to send a message",
		Status:  http.StatusBadRequest,
	}
}

func PaymentProtocol(message string, err error) *AppError {
	return &AppError{
		Code:    CodePaymentProtocol,
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

// LedgerWriteFailure means the gateway took the money but the ledger row could not be stored.
// It must never be presented to the user as a failed payment.
func LedgerWriteFailure(reference string, err error) *AppError {
	return &AppError{
		Code:      CodeLedgerWrite,
		Message:   fmt.Sprintf("Payment %s succeeded but could not be recorded, please contact support", reference),
		Status:    http.StatusServiceUnavailable,
		Err:       err,
		Retryable: true,
	}
}

func InvalidTransition(from, to string) *AppError {
	return &AppError{
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("Order cannot move from %s to %s", from, to),
		Status:  http.StatusConflict,
	}
}

func Is(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// As extracts the AppError from err, if any.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
