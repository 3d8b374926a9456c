package models

import (
	"github.com/google/uuid"
	"github.com/lojinha/backend/internal/domain/cart"
	"github.com/shopspring/decimal"
)

// CartModel is the persistence model for a user's cart. One row per user.
type CartModel struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_carts_user"`
}

// TableName returns the table name for GORM
func (CartModel) TableName() string {
	return "carts"
}

// ToDomain converts the persistence model to a domain Cart.
func (m *CartModel) ToDomain() *cart.Cart {
	return &cart.Cart{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
	}
}

// CartModelFromDomain creates a new persistence model from a domain Cart.
func CartModelFromDomain(c *cart.Cart) *CartModel {
	m := &CartModel{UserID: c.UserID}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}

// CartItemModel is one product line. (cart_id, product_id) is unique so
// concurrent adds of the same product converge on a single row.
type CartItemModel struct {
	BaseModel
	CartID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product,priority:1"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product,priority:2;index"`
	Quantity  int       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartItemModel) TableName() string {
	return "cart_items"
}

// ToDomain converts the persistence model to a domain CartItem.
func (m *CartItemModel) ToDomain() *cart.CartItem {
	return &cart.CartItem{
		BaseEntity: m.BaseModel.ToDomain(),
		CartID:     m.CartID,
		ProductID:  m.ProductID,
		Quantity:   m.Quantity,
	}
}

// CartItemModelFromDomain creates a new persistence model from a domain CartItem.
func CartItemModelFromDomain(item *cart.CartItem) *CartItemModel {
	m := &CartItemModel{
		CartID:    item.CartID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
	}
	m.FromDomainBaseEntity(item.BaseEntity)
	return m
}

// CartLineRow is a cart item joined with its product, as scanned from ListLines
type CartLineRow struct {
	ItemID      uuid.UUID
	ProductID   uuid.UUID
	Quantity    int
	ProductName string
	ProductSlug string
	ImageURL    string
	UnitPrice   decimal.Decimal
	Stock       int
}

// ToDomain converts the row to a domain CartLine.
func (r *CartLineRow) ToDomain() cart.CartLine {
	return cart.CartLine{
		ItemID:      r.ItemID,
		ProductID:   r.ProductID,
		ProductName: r.ProductName,
		ProductSlug: r.ProductSlug,
		ImageURL:    r.ImageURL,
		UnitPrice:   r.UnitPrice,
		Stock:       r.Stock,
		Quantity:    r.Quantity,
	}
}
