package catalog

import (
	"strings"

	"github.com/lojinha/backend/internal/domain/shared"
)

// Category groups products. Categories are created on demand from the
// free-text name an administrator types when saving a product.
type Category struct {
	shared.BaseEntity
	Name string
	Slug string
}

// NewCategory creates a new category from a display name
func NewCategory(name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("Category name cannot be empty")
	}
	if len([]rune(name)) > 100 {
		return nil, shared.NewValidationError("Category name cannot exceed 100 characters")
	}
	slug := Slugify(name)
	if slug == "" {
		return nil, shared.NewValidationError("Category name must contain at least one letter or digit")
	}
	return &Category{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Slug:       slug,
	}, nil
}
