package errorutil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Error codes returned in the JSON error envelope.
const (
	CodeUnauthenticated       = "UNAUTHENTICATED"
	CodeForbidden             = "FORBIDDEN"
	CodeNotFound              = "NOT_FOUND"
	CodeInvalidTransition     = "INVALID_TRANSITION"
	CodeValidation            = "VALIDATION_FAILED"
	CodeConflict              = "CONFLICT"
	CodeRateLimited           = "RATE_LIMITED"
	CodeDependencyUnavailable = "DEPENDENCY_UNAVAILABLE"
	CodeInternal              = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the caller may retry the same request later.
func (e *DomainError) Retryable() bool {
	return e.Code == CodeDependencyUnavailable
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string) error {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound, nil)
}

func NewUnauthenticated(message string) error {
	return NewDomainError(CodeUnauthenticated, message, http.StatusUnauthorized, nil)
}

// NewForbidden is deliberately message-less: not-owner and wrong-role denials look identical.
func NewForbidden() error {
	return NewDomainError(CodeForbidden, "forbidden", http.StatusForbidden, nil)
}

func NewInvalidTransition(message string, details map[string]any) error {
	return NewDomainError(CodeInvalidTransition, message, http.StatusConflict, details)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

func NewRateLimited() error {
	return NewDomainError(CodeRateLimited, "rate limit exceeded", http.StatusTooManyRequests, nil)
}

func NewDependencyUnavailable(dependency string, err error) error {
	return &DomainError{
		Code:       CodeDependencyUnavailable,
		Message:    fmt.Sprintf("%s unavailable", dependency),
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewDependencyUnavailable("upstream", err).(*DomainError)
	}
	return NewInternalError(err).(*DomainError)
}

// HasCode reports whether err converts to a DomainError carrying code.
func HasCode(err error, code string) bool {
	de := ToDomainError(err)
	return de != nil && de.Code == code
}
