package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lojinha/backend/internal/domain/cart"
	"github.com/lojinha/backend/internal/domain/catalog"
	"github.com/lojinha/backend/internal/domain/shared"
	"github.com/lojinha/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// ProductLookup loads catalog products for cart validation
type ProductLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error)
}

// ImageURLResolver turns a stored image reference into a URL a browser can fetch
type ImageURLResolver interface {
	ResolveImageURL(ctx context.Context, ref string) string
}

var errItemNotFound = shared.NewNotFoundError("Cart item not found")

// CartService manages the one cart each user owns
type CartService struct {
	cartRepo       cart.CartRepository
	products       ProductLookup
	enforceStock   bool
	images         ImageURLResolver
	eventPublisher shared.EventPublisher
}

// NewCartService creates a new CartService. Stock enforcement is on by default.
func NewCartService(cartRepo cart.CartRepository, products ProductLookup) *CartService {
	return &CartService{
		cartRepo:     cartRepo,
		products:     products,
		enforceStock: true,
	}
}

// SetStockEnforcement toggles the stock bound applied by AddItem
func (s *CartService) SetStockEnforcement(enabled bool) {
	s.enforceStock = enabled
}

// SetEventPublisher sets the event publisher
func (s *CartService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetImageResolver sets the resolver applied to product images in responses
func (s *CartService) SetImageResolver(resolver ImageURLResolver) {
	s.images = resolver
}

// GetCart returns the user's cart, creating an empty one on first access
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	c, err := s.ensureCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines, err := s.cartRepo.ListLines(ctx, c.ID)
	if err != nil {
		return nil, shared.NewRetrievalFailure("Failed to load cart items", err)
	}

	response := ToCartResponse(cart.CartView{Cart: *c, Lines: lines})
	for i := range response.Items {
		response.Items[i].ImageURL = s.resolveImage(ctx, response.Items[i].ImageURL)
	}
	return &response, nil
}

// AddItem increments the line for productID, creating it when absent
func (s *CartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (_ *AddItemResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "cart", "add_item",
		attribute.String(telemetry.SpanAttrProductID, productID.String()),
		attribute.Int(telemetry.SpanAttrQuantity, quantity),
	)
	defer telemetry.End(span, &err)

	if userID == uuid.Nil {
		return nil, shared.ErrMissingIdentity
	}
	if err = cart.ValidateAddQuantity(quantity); err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Product not found")
		}
		return nil, shared.NewRetrievalFailure("Failed to load product", err)
	}
	if s.enforceStock && !product.HasStockFor(quantity) {
		return nil, insufficientStock(product)
	}

	c, err := s.ensureCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := cart.NewCartItem(c.ID, product.ID, quantity)
	if err != nil {
		return nil, err
	}

	result, err := s.cartRepo.UpsertItem(ctx, item, s.enforceStock)
	if err != nil {
		if errors.Is(err, shared.ErrInsufficientStock) {
			return nil, insufficientStock(product)
		}
		if errors.Is(err, shared.ErrNotFound) {
			// product deleted between lookup and write
			return nil, shared.NewNotFoundError("Product not found")
		}
		return nil, shared.NewRetrievalFailure("Failed to add item to cart", err)
	}

	line, err := s.cartRepo.FindLine(ctx, c.ID, result.Item.ID)
	if err != nil {
		return nil, shared.NewRetrievalFailure("Failed to load cart item", err)
	}

	s.publish(ctx, cart.NewCartItemAddedEvent(c, result.Item, quantity, result.Created))

	return &AddItemResult{Item: s.toItemResponse(ctx, *line), Created: result.Created}, nil
}

// UpdateItemQuantity overwrites the quantity of one of the user's lines.
// Zero deletes the line.
func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*UpdateItemResult, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrMissingIdentity
	}
	if err := cart.ValidateSetQuantity(quantity); err != nil {
		return nil, err
	}

	c, err := s.findCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if quantity == 0 {
		if err := s.deleteItem(ctx, c, itemID); err != nil {
			return nil, err
		}
		return &UpdateItemResult{Removed: true}, nil
	}

	item, err := s.cartRepo.SetItemQuantity(ctx, c.ID, itemID, quantity)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errItemNotFound
		}
		return nil, shared.NewRetrievalFailure("Failed to update cart item", err)
	}

	line, err := s.cartRepo.FindLine(ctx, c.ID, item.ID)
	if err != nil {
		return nil, shared.NewRetrievalFailure("Failed to load cart item", err)
	}

	s.publish(ctx, cart.NewCartItemQuantityChangedEvent(c, item))

	response := s.toItemResponse(ctx, *line)
	return &UpdateItemResult{Item: &response}, nil
}

// RemoveItem deletes one of the user's lines
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	if userID == uuid.Nil {
		return shared.ErrMissingIdentity
	}
	c, err := s.findCart(ctx, userID)
	if err != nil {
		return err
	}
	return s.deleteItem(ctx, c, itemID)
}

// ClearCart deletes every line of the user's cart. Clearing an empty or
// never-created cart succeeds.
func (s *CartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return shared.ErrMissingIdentity
	}

	c, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return shared.NewRetrievalFailure("Failed to load cart", err)
	}

	removed, err := s.cartRepo.ClearItems(ctx, c.ID)
	if err != nil {
		return shared.NewRetrievalFailure("Failed to clear cart", err)
	}

	if removed > 0 {
		s.publish(ctx, cart.NewCartClearedEvent(c, removed))
	}
	return nil
}

func (s *CartService) ensureCart(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrMissingIdentity
	}
	c, err := s.cartRepo.EnsureForUser(ctx, userID)
	if err != nil {
		return nil, shared.NewRetrievalFailure("Failed to load cart", err)
	}
	return c, nil
}

// findCart loads the cart for item operations. A user without a cart owns
// no items, so the miss surfaces as a missing item.
func (s *CartService) findCart(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	c, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errItemNotFound
		}
		return nil, shared.NewRetrievalFailure("Failed to load cart", err)
	}
	return c, nil
}

func (s *CartService) deleteItem(ctx context.Context, c *cart.Cart, itemID uuid.UUID) error {
	if err := s.cartRepo.DeleteItem(ctx, c.ID, itemID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return errItemNotFound
		}
		return shared.NewRetrievalFailure("Failed to remove cart item", err)
	}
	s.publish(ctx, cart.NewCartItemRemovedEvent(c, itemID))
	return nil
}

func (s *CartService) publish(ctx context.Context, event shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	// Publish errors are logged by the event bus, not propagated
	_ = s.eventPublisher.Publish(ctx, event)
}

func (s *CartService) toItemResponse(ctx context.Context, line cart.CartLine) CartItemResponse {
	response := ToCartItemResponse(line)
	response.ImageURL = s.resolveImage(ctx, response.ImageURL)
	return response
}

func (s *CartService) resolveImage(ctx context.Context, ref string) string {
	if s.images == nil || ref == "" {
		return ref
	}
	return s.images.ResolveImageURL(ctx, ref)
}

func insufficientStock(product *catalog.Product) *shared.DomainError {
	return shared.NewDomainError(shared.CodeInsufficientStock,
		fmt.Sprintf("Only %d unit(s) of %s available", product.Stock, product.Name))
}
