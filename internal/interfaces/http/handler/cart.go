package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	cartapp "github.com/lojinha/backend/internal/application/cart"
	"github.com/lojinha/backend/internal/domain/cart"
	"github.com/lojinha/backend/internal/interfaces/http/dto"
	"github.com/lojinha/backend/internal/interfaces/http/middleware"
)

// CartService is the per-user cart surface the handler needs
type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*cartapp.CartResponse, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*cartapp.AddItemResult, error)
	UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*cartapp.UpdateItemResult, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

// GuestCartMerger folds a pre-login cart into the user's cart
type GuestCartMerger interface {
	Merge(ctx context.Context, userID uuid.UUID, guest cart.GuestCart, mergeKey string) (*cartapp.MergeResult, error)
}

// CartHandler serves the authenticated user's cart
type CartHandler struct {
	BaseHandler
	carts  CartService
	merger GuestCartMerger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(carts CartService, merger GuestCartMerger) *CartHandler {
	return &CartHandler{carts: carts, merger: merger}
}

// Get returns the cart with expanded items and subtotal
func (h *CartHandler) Get(c *gin.Context) {
	resp, err := h.carts.GetCart(c.Request.Context(), userID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddItem answers 201 when a line was created and 200 when an existing
// line was incremented
func (h *CartHandler) AddItem(c *gin.Context) {
	var req cartapp.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.carts.AddItem(c.Request.Context(), userID(c), req.ProductID, req.Quantity)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	if result.Created {
		h.Created(c, result.Item)
		return
	}
	h.Success(c, result.Item)
}

// UpdateItem overwrites a line quantity. Zero removes the line and answers 204.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	itemID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req cartapp.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.carts.UpdateItemQuantity(c.Request.Context(), userID(c), itemID, *req.Quantity)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	if result.Removed {
		h.NoContent(c)
		return
	}
	h.Success(c, result.Item)
}

// RemoveItem deletes one line
func (h *CartHandler) RemoveItem(c *gin.Context) {
	itemID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.carts.RemoveItem(c.Request.Context(), userID(c), itemID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// Clear empties the cart. Clearing an empty cart succeeds.
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.carts.ClearCart(c.Request.Context(), userID(c)); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// Merge replays a guest cart. A complete merge answers 200; a merge that
// stopped early answers 207 with the entries the client must keep. Sending
// the same Idempotency-Key on retry skips entries already applied.
func (h *CartHandler) Merge(c *gin.Context) {
	var req cartapp.MergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.merger.Merge(c.Request.Context(), userID(c), req.ToGuestCart(), c.GetHeader(middleware.IdempotencyKeyHeader))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	if !result.Complete() {
		c.JSON(http.StatusMultiStatus, dto.NewSuccessResponse(result))
		return
	}
	h.Success(c, result)
}
