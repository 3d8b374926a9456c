package cart

import (
	"github.com/google/uuid"
	"github.com/lojinha/backend/internal/domain/shared"
	"github.com/lojinha/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeCart = "Cart"

// Cart is the single shopping cart a user owns. It is created the first
// time the user touches it and lives as long as the user.
type Cart struct {
	shared.BaseEntity
	UserID uuid.UUID
}

// NewCart creates an empty cart for a user
func NewCart(userID uuid.UUID) (*Cart, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrMissingIdentity
	}
	return &Cart{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
	}, nil
}

// CartItem is one line of a cart. A cart holds at most one item per
// product and an item never persists with a quantity below one.
type CartItem struct {
	shared.BaseEntity
	CartID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int
}

// NewCartItem creates a new line for productID
func NewCartItem(cartID, productID uuid.UUID, quantity int) (*CartItem, error) {
	if err := ValidateAddQuantity(quantity); err != nil {
		return nil, err
	}
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Product ID is required")
	}
	return &CartItem{
		BaseEntity: shared.NewBaseEntity(),
		CartID:     cartID,
		ProductID:  productID,
		Quantity:   quantity,
	}, nil
}

// ValidateAddQuantity checks the amount added in one step
func ValidateAddQuantity(quantity int) error {
	if quantity <= 0 {
		return shared.NewValidationError("Quantity must be a positive integer")
	}
	return nil
}

// ValidateSetQuantity checks an absolute quantity; zero means removal
func ValidateSetQuantity(quantity int) error {
	if quantity < 0 {
		return shared.NewValidationError("Quantity must be a non-negative integer")
	}
	return nil
}

// CartLine is a cart item joined with the product fields shown to the shopper
type CartLine struct {
	ItemID      uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	ProductSlug string
	ImageURL    string
	UnitPrice   decimal.Decimal
	Stock       int
	Quantity    int
}

// LineTotal returns unit price times quantity
func (l CartLine) LineTotal() valueobject.Money {
	return valueobject.NewMoneyBRL(l.UnitPrice).MultiplyByInt(int64(l.Quantity))
}

// CartView is a cart with its expanded lines
type CartView struct {
	Cart  Cart
	Lines []CartLine
}

// Subtotal sums every line total
func (v CartView) Subtotal() valueobject.Money {
	total := valueobject.ZeroBRL()
	for _, line := range v.Lines {
		// every line is BRL, Add cannot fail
		total, _ = total.Add(line.LineTotal())
	}
	return total
}

// ItemCount sums quantities across lines
func (v CartView) ItemCount() int {
	n := 0
	for _, line := range v.Lines {
		n += line.Quantity
	}
	return n
}
