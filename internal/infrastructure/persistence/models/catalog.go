package models

import (
	"github.com/google/uuid"
	"github.com/lojinha/backend/internal/domain/catalog"
	"github.com/lojinha/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product aggregate.
type ProductModel struct {
	BaseModel
	Name        string             `gorm:"type:varchar(200);not null"`
	Slug        string             `gorm:"type:varchar(220);not null;uniqueIndex:idx_products_slug"`
	Description string             `gorm:"type:text;not null"`
	Price       decimal.Decimal    `gorm:"type:decimal(12,2);not null;index"`
	Stock       int                `gorm:"not null"`
	ImageURL    string             `gorm:"type:varchar(500);not null"`
	Tag         catalog.ProductTag `gorm:"type:varchar(20);not null"`
	CategoryID  *uuid.UUID         `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot: shared.BaseAggregateRoot{BaseEntity: m.BaseModel.ToDomain()},
		Name:              m.Name,
		Slug:              m.Slug,
		Description:       m.Description,
		Price:             m.Price,
		Stock:             m.Stock,
		ImageURL:          m.ImageURL,
		Tag:               m.Tag,
		CategoryID:        m.CategoryID,
	}
}

// FromDomain populates the persistence model from a domain Product.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Name = p.Name
	m.Slug = p.Slug
	m.Description = p.Description
	m.Price = p.Price
	m.Stock = p.Stock
	m.ImageURL = p.ImageURL
	m.Tag = p.Tag
	m.CategoryID = p.CategoryID
}

// ProductModelFromDomain creates a new persistence model from a domain Product.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// ProductModelsToDomain converts a slice of models, preserving order
func ProductModelsToDomain(ms []ProductModel) []catalog.Product {
	products := make([]catalog.Product, len(ms))
	for i := range ms {
		products[i] = *ms[i].ToDomain()
	}
	return products
}

// CategoryModel is the persistence model for the Category entity.
type CategoryModel struct {
	BaseModel
	Name string `gorm:"type:varchar(100);not null"`
	Slug string `gorm:"type:varchar(120);not null;uniqueIndex:idx_categories_slug"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category.
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Slug:       m.Slug,
	}
}

// FromDomain populates the persistence model from a domain Category.
func (m *CategoryModel) FromDomain(c *catalog.Category) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.Slug = c.Slug
}

// CategoryModelFromDomain creates a new persistence model from a domain Category.
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	m := &CategoryModel{}
	m.FromDomain(c)
	return m
}
