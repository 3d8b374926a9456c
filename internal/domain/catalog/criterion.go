package catalog

import "github.com/google/uuid"

// CategoryCriterion narrows a listing to a category. Storage adapters
// translate each implementation into their own predicate.
type CategoryCriterion interface {
	categoryCriterion()
}

// FreeTextCategory matches products whose name or description contains
// Term, case-insensitively. It does not consult the categories table.
type FreeTextCategory struct {
	Term string
}

func (FreeTextCategory) categoryCriterion() {}

// CategoryIDCriterion matches products assigned to a specific category
type CategoryIDCriterion struct {
	ID uuid.UUID
}

func (CategoryIDCriterion) categoryCriterion() {}
