package cart

import (
	"github.com/google/uuid"
	"github.com/lojinha/backend/internal/domain/shared"
)

// Event type constants
const (
	EventTypeCartItemAdded           = "CartItemAdded"
	EventTypeCartItemQuantityChanged = "CartItemQuantityChanged"
	EventTypeCartItemRemoved         = "CartItemRemoved"
	EventTypeCartCleared             = "CartCleared"
	EventTypeGuestCartMerged         = "GuestCartMerged"
)

// CartItemAddedEvent is published after an add, whether it created or incremented the line
type CartItemAddedEvent struct {
	shared.BaseDomainEvent
	UserID    uuid.UUID `json:"user_id"`
	ItemID    uuid.UUID `json:"item_id"`
	ProductID uuid.UUID `json:"product_id"`
	Added     int       `json:"added"`
	Quantity  int       `json:"quantity"`
	Created   bool      `json:"created"`
}

// NewCartItemAddedEvent creates a new CartItemAddedEvent
func NewCartItemAddedEvent(c *Cart, item *CartItem, added int, created bool) *CartItemAddedEvent {
	return &CartItemAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCartItemAdded, AggregateTypeCart, c.ID),
		UserID:          c.UserID,
		ItemID:          item.ID,
		ProductID:       item.ProductID,
		Added:           added,
		Quantity:        item.Quantity,
		Created:         created,
	}
}

// CartItemQuantityChangedEvent is published when a line quantity is overwritten
type CartItemQuantityChangedEvent struct {
	shared.BaseDomainEvent
	UserID   uuid.UUID `json:"user_id"`
	ItemID   uuid.UUID `json:"item_id"`
	Quantity int       `json:"quantity"`
}

// NewCartItemQuantityChangedEvent creates a new CartItemQuantityChangedEvent
func NewCartItemQuantityChangedEvent(c *Cart, item *CartItem) *CartItemQuantityChangedEvent {
	return &CartItemQuantityChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCartItemQuantityChanged, AggregateTypeCart, c.ID),
		UserID:          c.UserID,
		ItemID:          item.ID,
		Quantity:        item.Quantity,
	}
}

// CartItemRemovedEvent is published when a line is deleted
type CartItemRemovedEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID `json:"user_id"`
	ItemID uuid.UUID `json:"item_id"`
}

// NewCartItemRemovedEvent creates a new CartItemRemovedEvent
func NewCartItemRemovedEvent(c *Cart, itemID uuid.UUID) *CartItemRemovedEvent {
	return &CartItemRemovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCartItemRemoved, AggregateTypeCart, c.ID),
		UserID:          c.UserID,
		ItemID:          itemID,
	}
}

// CartClearedEvent is published when all lines are deleted
type CartClearedEvent struct {
	shared.BaseDomainEvent
	UserID  uuid.UUID `json:"user_id"`
	Removed int64     `json:"removed"`
}

// NewCartClearedEvent creates a new CartClearedEvent
func NewCartClearedEvent(c *Cart, removed int64) *CartClearedEvent {
	return &CartClearedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCartCleared, AggregateTypeCart, c.ID),
		UserID:          c.UserID,
		Removed:         removed,
	}
}

// GuestCartMergedEvent is published at the end of a merge, complete or not
type GuestCartMergedEvent struct {
	shared.BaseDomainEvent
	UserID   uuid.UUID `json:"user_id"`
	Entries  int       `json:"entries"`
	Applied  int       `json:"applied"`
	Complete bool      `json:"complete"`
}

// NewGuestCartMergedEvent creates a new GuestCartMergedEvent
func NewGuestCartMergedEvent(c *Cart, entries, applied int, complete bool) *GuestCartMergedEvent {
	return &GuestCartMergedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGuestCartMerged, AggregateTypeCart, c.ID),
		UserID:          c.UserID,
		Entries:         entries,
		Applied:         applied,
		Complete:        complete,
	}
}
