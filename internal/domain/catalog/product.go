package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/lojinha/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductTag is an optional merchandising label
type ProductTag string

const (
	ProductTagNone       ProductTag = ""
	ProductTagNew        ProductTag = "new"
	ProductTagSale       ProductTag = "sale"
	ProductTagFeatured   ProductTag = "featured"
	ProductTagBestseller ProductTag = "bestseller"
	ProductTagLimited    ProductTag = "limited"
)

// IsValid reports whether t belongs to the fixed enumeration
func (t ProductTag) IsValid() bool {
	switch t {
	case ProductTagNone, ProductTagNew, ProductTagSale, ProductTagFeatured, ProductTagBestseller, ProductTagLimited:
		return true
	}
	return false
}

const maxProductNameLength = 200

// Product is a sellable item in the catalog.
// Slug always tracks Name: renaming regenerates it.
type Product struct {
	shared.BaseAggregateRoot
	Name        string
	Slug        string
	Description string
	Price       decimal.Decimal
	Stock       int
	ImageURL    string
	Tag         ProductTag
	CategoryID  *uuid.UUID
}

// NewProduct creates a new product
func NewProduct(name string, price decimal.Decimal, stock int) (*Product, error) {
	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
	}
	if err := product.applyName(name); err != nil {
		return nil, err
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}
	if err := validateStock(stock); err != nil {
		return nil, err
	}
	product.Price = price
	product.Stock = stock

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Rename changes the display name and regenerates the slug
func (p *Product) Rename(name string) error {
	if err := p.applyName(name); err != nil {
		return err
	}
	p.Touch()
	p.AddDomainEvent(NewProductUpdatedEvent(p))
	return nil
}

// SetDetails updates the free-form description and image reference
func (p *Product) SetDetails(description, imageURL string) {
	p.Description = strings.TrimSpace(description)
	p.ImageURL = strings.TrimSpace(imageURL)
	p.Touch()
}

// SetPrice updates the unit price
func (p *Product) SetPrice(price decimal.Decimal) error {
	if err := validatePrice(price); err != nil {
		return err
	}
	p.Price = price
	p.Touch()
	return nil
}

// SetStock updates the available quantity
func (p *Product) SetStock(stock int) error {
	if err := validateStock(stock); err != nil {
		return err
	}
	p.Stock = stock
	p.Touch()
	return nil
}

// SetTag sets or clears the merchandising tag
func (p *Product) SetTag(tag ProductTag) error {
	if !tag.IsValid() {
		return shared.NewValidationError("Tag must be one of: new, sale, featured, bestseller, limited")
	}
	p.Tag = tag
	p.Touch()
	return nil
}

// SetCategory sets or clears the category reference
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.Touch()
}

// HasStockFor reports whether quantity units can be reserved
func (p *Product) HasStockFor(quantity int) bool {
	return quantity <= p.Stock
}

func (p *Product) applyName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("Product name cannot be empty")
	}
	if len([]rune(name)) > maxProductNameLength {
		return shared.NewValidationError("Product name cannot exceed 200 characters")
	}
	slug := Slugify(name)
	if slug == "" {
		return shared.NewValidationError("Product name must contain at least one letter or digit")
	}
	p.Name = name
	p.Slug = slug
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewValidationError("Price cannot be negative")
	}
	return nil
}

func validateStock(stock int) error {
	if stock < 0 {
		return shared.NewValidationError("Stock cannot be negative")
	}
	return nil
}
