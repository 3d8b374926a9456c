package catalog

import (
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Listing bounds
const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 50
)

// ListingInput carries raw listing parameters as received from a caller.
// Page and PerPage stay strings so that absent, garbage and non-finite
// values all fall back to defaults instead of failing the request.
type ListingInput struct {
	Search     string
	Category   string
	CategoryID string
	Sort       string
	Page       string
	PerPage    string
}

// ProductFilter is the predicate part of a listing
type ProductFilter struct {
	// NameContains restricts to products whose name contains the term, case-insensitively
	NameContains string
	// Category is nil when no category constraint applies
	Category CategoryCriterion
}

// ListingQuery is a normalized listing request
type ListingQuery struct {
	Filter  ProductFilter
	Sort    SortKey
	Page    int
	PerPage int
}

// Offset returns the number of rows skipped before the page starts
func (q ListingQuery) Offset() int {
	return (q.Page - 1) * q.PerPage
}

// NormalizeListing turns raw parameters into a query. It never fails.
func NormalizeListing(in ListingInput) ListingQuery {
	q := ListingQuery{
		Filter: ProductFilter{
			NameContains: strings.TrimSpace(in.Search),
		},
		Sort:    ParseSortKey(in.Sort),
		Page:    parsePositive(in.Page, DefaultPage),
		PerPage: parsePositive(in.PerPage, DefaultPerPage),
	}
	if q.PerPage > MaxPerPage {
		q.PerPage = MaxPerPage
	}

	if id, err := uuid.Parse(strings.TrimSpace(in.CategoryID)); err == nil {
		q.Filter.Category = CategoryIDCriterion{ID: id}
	} else if term := strings.TrimSpace(in.Category); term != "" {
		q.Filter.Category = FreeTextCategory{Term: term}
	}

	return q
}

// parsePositive reads a number, truncating fractions. Anything missing,
// unparsable, non-finite, below one, or too large to be meaningful returns def.
func parsePositive(raw string, def int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	f = math.Trunc(f)
	if f < 1 || f > math.MaxInt32 {
		return def
	}
	return int(f)
}
