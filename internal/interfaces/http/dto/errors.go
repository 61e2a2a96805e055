package dto

import (
	"net/http"
	"strings"
)

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeValidation is used when request validation fails
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeTooLarge is used when the request body exceeds the size limit
	ErrCodeTooLarge   = "ERR_TOO_LARGE"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the caller lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a document is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// DomainCodeHTTPStatus maps the domain error taxonomy to HTTP status codes.
// Slot conflicts, duplicate invoices and stale writes are 409; guard
// violations on an existing document are 422; bad input is 400.
var DomainCodeHTTPStatus = map[string]int{
	"SLOT_UNAVAILABLE":     http.StatusConflict,
	"DUPLICATE_INVOICE":    http.StatusConflict,
	"INVALID_TRANSITION":   http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"BOOKING_TERMINAL":     http.StatusConflict,

	"OVER_PAYMENT":   http.StatusUnprocessableEntity,
	"INVALID_REASON": http.StatusUnprocessableEntity,

	"INVALID_INTERVAL":       http.StatusBadRequest,
	"INVALID_AMOUNT":         http.StatusBadRequest,
	"INVALID_DEPOSIT_SPEC":   http.StatusBadRequest,
	"INVALID_TAX_MODE":       http.StatusBadRequest,
	"INVALID_BILLING_MODE":   http.StatusBadRequest,
	"INVALID_RATE":           http.StatusBadRequest,
	"INVALID_RESOURCE":       http.StatusBadRequest,
	"INVALID_BOOKING":        http.StatusBadRequest,
	"INVALID_CUSTOMER_NAME":  http.StatusBadRequest,
	"INVALID_SOURCE":         http.StatusBadRequest,
	"INVALID_INVOICE_KIND":   http.StatusBadRequest,
	"INVALID_INPUT":          http.StatusBadRequest,
	"INVALID_QUOTATION_NUMBER": http.StatusBadRequest,
	"INVALID_INVOICE_NUMBER":   http.StatusBadRequest,

	"UNAUTHORIZED": http.StatusUnauthorized,

	ErrCodeUnknown:      http.StatusInternalServerError,
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeTooLarge:     http.StatusRequestEntityTooLarge,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeConflict:     http.StatusConflict,
	ErrCodeRateLimited:  http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Any *_NOT_FOUND code maps to 404; unknown codes fall back to 500.
func GetHTTPStatus(code string) int {
	if status, ok := DomainCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasSuffix(code, "_NOT_FOUND") {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
