package shared

import (
	"errors"
	"strings"
)

// DomainError represents a domain-level error with a stable machine-readable code
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors shared across bounded contexts
var (
	ErrNotFound            = NewDomainError("DOCUMENT_NOT_FOUND", "Document not found")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidTransition   = NewDomainError("INVALID_TRANSITION", "Transition not allowed from current state")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Document was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
)

// IsNotFound reports whether err is any not-found domain error
// (DOCUMENT_NOT_FOUND, RATE_NOT_FOUND, ...)
func IsNotFound(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return strings.HasSuffix(domainErr.Code, "_NOT_FOUND")
	}
	return false
}
