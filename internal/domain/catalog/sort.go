package catalog

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the listing order
type SortKey string

const (
	SortRelevance SortKey = "relevance"
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
	SortNameAsc   SortKey = "name_asc"
	SortNameDesc  SortKey = "name_desc"
)

// ParseSortKey maps a raw value to a SortKey; unknown values mean relevance
func ParseSortKey(raw string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(raw))); k {
	case SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc:
		return k
	}
	return SortRelevance
}

// SortField is a column the store can order by natively
type SortField string

const (
	SortFieldPrice     SortField = "price"
	SortFieldCreatedAt SortField = "created_at"
)

// NativeOrder describes ordering delegated to the store
type NativeOrder struct {
	Field SortField
	Desc  bool
}

// NativeOrder returns the store ordering for k. The second result is false
// for keys that must be ordered by the application collator.
func (k SortKey) NativeOrder() (NativeOrder, bool) {
	switch k {
	case SortPriceAsc:
		return NativeOrder{Field: SortFieldPrice}, true
	case SortPriceDesc:
		return NativeOrder{Field: SortFieldPrice, Desc: true}, true
	case SortNameAsc, SortNameDesc:
		return NativeOrder{}, false
	default:
		return NativeOrder{Field: SortFieldCreatedAt, Desc: true}, true
	}
}

// NameCollator compares names with Brazilian Portuguese rules, folding case
// and diacritics. A collator keeps scratch buffers, so each goroutine needs its own.
type NameCollator struct {
	c *collate.Collator
}

// NewNameCollator creates a pt-BR collator at base strength
func NewNameCollator() *NameCollator {
	return &NameCollator{c: collate.New(language.BrazilianPortuguese, collate.Loose)}
}

// Compare returns a negative number when a sorts before b, zero when they
// are equal at base strength, and a positive number otherwise
func (n *NameCollator) Compare(a, b string) int {
	return n.c.CompareString(a, b)
}

// SortByName orders products by name in place. The sort is stable and the
// descending order is the exact reverse of the ascending one.
func (n *NameCollator) SortByName(products []Product, desc bool) {
	slices.SortStableFunc(products, func(a, b Product) int {
		return n.Compare(a.Name, b.Name)
	})
	if desc {
		slices.Reverse(products)
	}
}
