package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// Common allowed sort fields for entities with base fields
// These are the common fields present in most entities

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// BookingSortFields contains allowed sort fields for bookings
var BookingSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"resource_id":   true,
	"customer_name": true,
	"booking_date":  true,
	"start_minute":  true,
	"status":        true,
	"source":        true,
	"price_gross":   true,
	"confirmed_at":  true,
	"cancelled_at":  true,
	"completed_at":  true,
}

// QuotationSortFields contains allowed sort fields for quotations
var QuotationSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"quotation_number": true,
	"resource_id":      true,
	"customer_name":    true,
	"booking_date":     true,
	"status":           true,
	"price_gross":      true,
	"valid_until":      true,
	"sent_at":          true,
	"accepted_at":      true,
}

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"invoice_number": true,
	"booking_id":     true,
	"kind":           true,
	"status":         true,
	"amount_due":     true,
	"paid_amount":    true,
	"due_date":       true,
	"sent_at":        true,
	"paid_at":        true,
}

// ResourceRateSortFields contains allowed sort fields for resource rates
var ResourceRateSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"resource_id":  true,
	"billing_mode": true,
	"weekday_rate": true,
	"weekend_rate": true,
}

// AuditLogSortFields contains allowed sort fields for audit trail entries
var AuditLogSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"actor_id":   true,
	"action":     true,
}
