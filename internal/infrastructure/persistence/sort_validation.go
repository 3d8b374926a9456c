package persistence

import (
	"strings"

	"github.com/lojinha/backend/internal/domain/catalog"
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

// ProductSortFields contains the product columns the store may order by
var ProductSortFields = map[string]bool{
	string(catalog.SortFieldPrice):     true,
	string(catalog.SortFieldCreatedAt): true,
}

// productOrderClause renders a native order as SQL with id as tiebreaker,
// so pages are disjoint even when many rows share a price
func productOrderClause(order catalog.NativeOrder) string {
	field := ValidateSortField(string(order.Field), ProductSortFields, string(catalog.SortFieldCreatedAt))
	dir := "ASC"
	if order.Desc {
		dir = "DESC"
	}
	return field + " " + ValidateSortOrder(dir) + ", id ASC"
}
