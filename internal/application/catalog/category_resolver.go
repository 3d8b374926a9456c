package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/lojinha/backend/internal/domain/catalog"
	"github.com/lojinha/backend/internal/domain/shared"
)

// CategoryResolver finds or lazily creates the category named by free text
type CategoryResolver struct {
	repo catalog.CategoryRepository
}

// NewCategoryResolver creates a new CategoryResolver
func NewCategoryResolver(repo catalog.CategoryRepository) *CategoryResolver {
	return &CategoryResolver{repo: repo}
}

// Resolve matches name case-insensitively, then by slug, and creates the
// category when neither matches
func (r *CategoryResolver) Resolve(ctx context.Context, name string) (*catalog.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("Category name cannot be empty")
	}

	category, err := r.repo.FindByNameFold(ctx, name)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	category, err = r.repo.FindBySlug(ctx, catalog.Slugify(name))
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	category, err = catalog.NewCategory(name)
	if err != nil {
		return nil, err
	}
	if err := r.repo.Create(ctx, category); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			// created concurrently under the same slug
			return r.repo.FindBySlug(ctx, category.Slug)
		}
		return nil, err
	}
	return category, nil
}
