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

// VoucherSortFields contains allowed sort fields for vouchers
var VoucherSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"voucher_number": true,
	"voucher_date":   true,
	"job_ref":        true,
	"kind":           true,
	"status":         true,
	"due_date":       true,
}

// CounterpartySortFields contains allowed sort fields for counterparties
var CounterpartySortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"display_name": true,
	"type":         true,
	"country":      true,
}
