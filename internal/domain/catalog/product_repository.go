package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductReader is the read side used by the catalog pager
type ProductReader interface {
	// Count returns the number of products matching filter
	Count(ctx context.Context, filter ProductFilter) (int64, error)

	// FindPage returns at most limit products matching filter, ordered natively
	FindPage(ctx context.Context, filter ProductFilter, order NativeOrder, offset, limit int) ([]Product, error)

	// FindAllMatching returns every product matching filter, newest first
	FindAllMatching(ctx context.Context, filter ProductFilter) ([]Product, error)
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	ProductReader

	// FindByID finds a product by ID; returns shared.ErrNotFound when absent
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindBySlug finds a product by slug; returns shared.ErrNotFound when absent
	FindBySlug(ctx context.Context, slug string) (*Product, error)

	// ExistsBySlug checks whether another product already uses slug.
	// excludeID may be uuid.Nil.
	ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)

	// Save creates or updates a product; a slug collision returns shared.ErrAlreadyExists
	Save(ctx context.Context, product *Product) error
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByNameFold finds a category whose name equals name ignoring case
	FindByNameFold(ctx context.Context, name string) (*Category, error)

	// FindBySlug finds a category by slug
	FindBySlug(ctx context.Context, slug string) (*Category, error)

	// FindByID finds a category by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// Create inserts a category; a slug collision returns shared.ErrAlreadyExists
	Create(ctx context.Context, category *Category) error
}
