// Package errors defines the typed errors returned by the store services and
// mapped onto HTTP responses. Callers match kinds with errors.Is against the
// exported sentinels, or recover the full value with GetServiceError.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode is the machine-readable kind of a ServiceError.
type ErrorCode string

const (
	CodeValidation        ErrorCode = "VALIDATION_ERROR"
	CodeDuplicateEmail    ErrorCode = "DUPLICATE_EMAIL"
	CodeDuplicatePayment  ErrorCode = "DUPLICATE_PAYMENT"
	CodeInvalidReference  ErrorCode = "INVALID_REFERENCE"
	CodeNotFound          ErrorCode = "NOT_FOUND"
	CodeMissingHeader     ErrorCode = "MISSING_HEADER"
	CodeInvalidHeader     ErrorCode = "INVALID_HEADER"
	CodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	CodeInternal          ErrorCode = "INTERNAL_ERROR"
)

// ServiceError carries a kind, a human-readable message, the HTTP status it
// maps to and optional structured details.
type ServiceError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

// Sentinels for errors.Is. Only the code is compared.
var (
	ErrValidation        = &ServiceError{Code: CodeValidation, HTTPStatus: http.StatusBadRequest}
	ErrDuplicateEmail    = &ServiceError{Code: CodeDuplicateEmail, HTTPStatus: http.StatusBadRequest}
	ErrDuplicatePayment  = &ServiceError{Code: CodeDuplicatePayment, HTTPStatus: http.StatusBadRequest}
	ErrInvalidReference  = &ServiceError{Code: CodeInvalidReference, HTTPStatus: http.StatusBadRequest}
	ErrNotFound          = &ServiceError{Code: CodeNotFound, HTTPStatus: http.StatusNotFound}
	ErrMissingHeader     = &ServiceError{Code: CodeMissingHeader, HTTPStatus: http.StatusBadRequest}
	ErrInvalidHeader     = &ServiceError{Code: CodeInvalidHeader, HTTPStatus: http.StatusBadRequest}
	ErrRateLimitExceeded = &ServiceError{Code: CodeRateLimitExceeded, HTTPStatus: http.StatusTooManyRequests}
	ErrInternal          = &ServiceError{Code: CodeInternal, HTTPStatus: http.StatusInternalServerError}
)

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a ServiceError of the same kind.
func (e *ServiceError) Is(target error) bool {
	t, ok := target.(*ServiceError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithDetails returns a copy of e with key set in its details.
func (e *ServiceError) WithDetails(key string, value any) *ServiceError {
	clone := *e
	clone.Details = make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		clone.Details[k] = v
	}
	clone.Details[key] = value
	return &clone
}

// New builds a ServiceError of an arbitrary kind.
func New(code ErrorCode, status int, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message, HTTPStatus: status}
}

// Validation reports malformed or missing input. fields is the per-field
// breakdown and is exposed to callers under details.fields.
func Validation(message string, fields any) *ServiceError {
	err := New(CodeValidation, http.StatusBadRequest, message)
	if fields != nil {
		err = err.WithDetails("fields", fields)
	}
	return err
}

func DuplicateEmail(email string) *ServiceError {
	return New(CodeDuplicateEmail, http.StatusBadRequest, "User already registered").
		WithDetails("email", email)
}

func DuplicatePayment(purchaseID int64) *ServiceError {
	return New(CodeDuplicatePayment, http.StatusBadRequest, "Payment already registered for this purchase").
		WithDetails("purchase_id", purchaseID)
}

// InvalidReference reports a foreign key that does not resolve, e.g.
// InvalidReference("user_id", 7).
func InvalidReference(field string, id int64) *ServiceError {
	return New(CodeInvalidReference, http.StatusBadRequest, fmt.Sprintf("Invalid or missing %s", field)).
		WithDetails(field, id)
}

func NotFound(message string) *ServiceError {
	return New(CodeNotFound, http.StatusNotFound, message)
}

func MissingHeader(name string) *ServiceError {
	return New(CodeMissingHeader, http.StatusBadRequest, fmt.Sprintf("Missing %s header", name))
}

func InvalidHeader(name string) *ServiceError {
	return New(CodeInvalidHeader, http.StatusBadRequest, fmt.Sprintf("Invalid %s header", name))
}

func RateLimitExceeded(limit int, window string) *ServiceError {
	return New(CodeRateLimitExceeded, http.StatusTooManyRequests, "Rate limit exceeded").
		WithDetails("limit", limit).
		WithDetails("window", window)
}

func Internal(message string, err error) *ServiceError {
	e := New(CodeInternal, http.StatusInternalServerError, message)
	e.Err = err
	return e
}

// GetServiceError returns the first ServiceError in err's chain, or nil.
func GetServiceError(err error) *ServiceError {
	var se *ServiceError
	if stderrors.As(err, &se) {
		return se
	}
	return nil
}

// HTTPStatus maps err to a response status; unknown errors are 500.
func HTTPStatus(err error) int {
	if se := GetServiceError(err); se != nil && se.HTTPStatus != 0 {
		return se.HTTPStatus
	}
	return http.StatusInternalServerError
}

// CodeOf returns the code of the first ServiceError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	if se := GetServiceError(err); se != nil {
		return se.Code
	}
	return ""
}

// IsInternal reports whether err maps to a 5xx status. Errors that are not a
// ServiceError count as internal.
func IsInternal(err error) bool {
	return err != nil && HTTPStatus(err) >= http.StatusInternalServerError
}
