package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes a sort direction to ASC or DESC,
// defaulting to DESC for anything unrecognized.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField checks a requested sort column against a whitelist
// and falls back to defaultField when the column is unknown. Sort
// columns end up interpolated into ORDER BY clauses, so only
// whitelisted names ever reach the query builder.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" || !allowedFields[trimmed] {
		return defaultField
	}
	return trimmed
}

// ProgramSortFields contains allowed sort columns for program listings
var ProgramSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"status":     true,
	"health":     true,
	"completion": true,
	"budget":     true,
	"start_date": true,
	"end_date":   true,
}

// BatchReportSortFields contains allowed sort columns for batch report listings
var BatchReportSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"title":      true,
	"status":     true,
}
