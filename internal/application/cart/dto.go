package cart

import (
	"github.com/google/uuid"
	"github.com/lojinha/backend/internal/domain/cart"
	"github.com/lojinha/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// AddItemRequest represents a request to put a product in the cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,gt=0"`
}

// UpdateItemRequest represents a request to overwrite a line quantity.
// Zero removes the line.
type UpdateItemRequest struct {
	Quantity *int `json:"quantity" binding:"required,gte=0"`
}

// GuestItem is one entry of a guest cart as sent by the client
type GuestItem struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity"`
}

// MergeRequest carries the guest cart accumulated before login. Its size is
// capped by MergeService, not by binding.
type MergeRequest struct {
	Items []GuestItem `json:"items" binding:"dive"`
}

// ToGuestCart converts the request into the domain value object
func (r MergeRequest) ToGuestCart() cart.GuestCart {
	entries := make([]cart.GuestCartEntry, len(r.Items))
	for i, item := range r.Items {
		entries[i] = cart.GuestCartEntry{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return cart.NewGuestCart(entries)
}

// CartItemResponse represents a cart line in API responses
type CartItemResponse struct {
	ID          uuid.UUID         `json:"id"`
	ProductID   uuid.UUID         `json:"product_id"`
	ProductName string            `json:"product_name"`
	ProductSlug string            `json:"product_slug"`
	ImageURL    string            `json:"image_url,omitempty"`
	UnitPrice   decimal.Decimal   `json:"unit_price"`
	Stock       int               `json:"stock"`
	Quantity    int               `json:"quantity"`
	LineTotal   valueobject.Money `json:"line_total"`
}

// CartResponse represents a cart in API responses
type CartResponse struct {
	ID        uuid.UUID          `json:"id"`
	UserID    uuid.UUID          `json:"user_id"`
	Items     []CartItemResponse `json:"items"`
	ItemCount int                `json:"item_count"`
	Subtotal  valueobject.Money  `json:"subtotal"`
}

// AddItemResult is the outcome of AddItem. Created distinguishes a new
// line from an incremented one.
type AddItemResult struct {
	Item    CartItemResponse `json:"item"`
	Created bool             `json:"created"`
}

// UpdateItemResult is the outcome of UpdateItemQuantity. Item is nil when
// the line was removed.
type UpdateItemResult struct {
	Item    *CartItemResponse `json:"item,omitempty"`
	Removed bool              `json:"removed"`
}

// MergeFailure describes the guest entry that stopped a merge
type MergeFailure struct {
	Index     int       `json:"index"`
	ProductID uuid.UUID `json:"product_id"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
}

// MergeResult reports how far a guest merge got
type MergeResult struct {
	Total   int  `json:"total"`
	Applied int  `json:"applied"`
	Skipped int  `json:"skipped"`
	Cleared bool `json:"cleared"`
	// Failure is set when the merge halted before the last entry
	Failure *MergeFailure `json:"failure,omitempty"`
	// Remaining holds the entries the client must keep, failed one first
	Remaining []GuestItem `json:"remaining"`
}

// Complete reports whether every entry is now in the cart
func (r *MergeResult) Complete() bool {
	return r.Failure == nil
}

// ToCartItemResponse converts a cart line
func ToCartItemResponse(line cart.CartLine) CartItemResponse {
	return CartItemResponse{
		ID:          line.ItemID,
		ProductID:   line.ProductID,
		ProductName: line.ProductName,
		ProductSlug: line.ProductSlug,
		ImageURL:    line.ImageURL,
		UnitPrice:   line.UnitPrice,
		Stock:       line.Stock,
		Quantity:    line.Quantity,
		LineTotal:   line.LineTotal(),
	}
}

// ToCartResponse converts a cart view
func ToCartResponse(view cart.CartView) CartResponse {
	items := make([]CartItemResponse, len(view.Lines))
	for i, line := range view.Lines {
		items[i] = ToCartItemResponse(line)
	}
	return CartResponse{
		ID:        view.Cart.ID,
		UserID:    view.Cart.UserID,
		Items:     items,
		ItemCount: view.ItemCount(),
		Subtotal:  view.Subtotal(),
	}
}

func toGuestItems(entries []cart.GuestCartEntry) []GuestItem {
	items := make([]GuestItem, len(entries))
	for i, e := range entries {
		items[i] = GuestItem{ProductID: e.ProductID, Quantity: e.Quantity}
	}
	return items
}
