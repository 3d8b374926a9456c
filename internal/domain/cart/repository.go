package cart

import (
	"context"

	"github.com/google/uuid"
)

// UpsertResult reports what an add did to the stored line
type UpsertResult struct {
	Item    *CartItem
	Created bool
}

// CartRepository defines the interface for cart persistence. Every item
// operation is scoped by cart ID, so an item of another user's cart is
// indistinguishable from a missing one.
type CartRepository interface {
	// EnsureForUser returns the user's cart, creating it if absent.
	// Concurrent callers for the same user observe the same cart.
	EnsureForUser(ctx context.Context, userID uuid.UUID) (*Cart, error)

	// FindByUser returns the user's cart or shared.ErrNotFound
	FindByUser(ctx context.Context, userID uuid.UUID) (*Cart, error)

	// ListLines returns the cart's items joined with product data, oldest first
	ListLines(ctx context.Context, cartID uuid.UUID) ([]CartLine, error)

	// UpsertItem adds item.Quantity to the line for (item.CartID, item.ProductID),
	// creating it when absent, in a single statement. With enforceStock the
	// increment is refused with shared.ErrInsufficientStock if the resulting
	// quantity would exceed the product stock.
	UpsertItem(ctx context.Context, item *CartItem, enforceStock bool) (*UpsertResult, error)

	// FindLine returns one expanded line of the cart or shared.ErrNotFound
	FindLine(ctx context.Context, cartID, itemID uuid.UUID) (*CartLine, error)

	// SetItemQuantity overwrites the quantity of an item of the cart
	SetItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) (*CartItem, error)

	// DeleteItem removes an item of the cart or returns shared.ErrNotFound
	DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error

	// ClearItems removes every item of the cart and returns how many were removed
	ClearItems(ctx context.Context, cartID uuid.UUID) (int64, error)
}
