package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lojinha/backend/internal/domain/cart"
	"github.com/lojinha/backend/internal/domain/catalog"
	"github.com/lojinha/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// memoryCartRepository is an in-memory cart.CartRepository backed by a product map
type memoryCartRepository struct {
	mu       sync.Mutex
	products map[uuid.UUID]*catalog.Product
	carts    map[uuid.UUID]*cart.Cart // by user
	items    []*cart.CartItem
}

func newMemoryCartRepository(products ...*catalog.Product) *memoryCartRepository {
	r := &memoryCartRepository{
		products: make(map[uuid.UUID]*catalog.Product),
		carts:    make(map[uuid.UUID]*cart.Cart),
	}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *memoryCartRepository) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *memoryCartRepository) EnsureForUser(_ context.Context, userID uuid.UUID) (*cart.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.carts[userID]; ok {
		return c, nil
	}
	c, err := cart.NewCart(userID)
	if err != nil {
		return nil, err
	}
	r.carts[userID] = c
	return c, nil
}

func (r *memoryCartRepository) FindByUser(_ context.Context, userID uuid.UUID) (*cart.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.carts[userID]; ok {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memoryCartRepository) line(item *cart.CartItem) cart.CartLine {
	p := r.products[item.ProductID]
	return cart.CartLine{
		ItemID:      item.ID,
		ProductID:   item.ProductID,
		ProductName: p.Name,
		ProductSlug: p.Slug,
		ImageURL:    p.ImageURL,
		UnitPrice:   p.Price,
		Stock:       p.Stock,
		Quantity:    item.Quantity,
	}
}

func (r *memoryCartRepository) ListLines(_ context.Context, cartID uuid.UUID) ([]cart.CartLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lines := []cart.CartLine{}
	for _, item := range r.items {
		if item.CartID == cartID {
			lines = append(lines, r.line(item))
		}
	}
	return lines, nil
}

func (r *memoryCartRepository) UpsertItem(_ context.Context, item *cart.CartItem, enforceStock bool) (*cart.UpsertResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[item.ProductID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	for _, existing := range r.items {
		if existing.CartID == item.CartID && existing.ProductID == item.ProductID {
			if enforceStock && existing.Quantity+item.Quantity > p.Stock {
				return nil, shared.ErrInsufficientStock
			}
			existing.Quantity += item.Quantity
			existing.UpdatedAt = time.Now()
			copied := *existing
			return &cart.UpsertResult{Item: &copied}, nil
		}
	}
	stored := *item
	r.items = append(r.items, &stored)
	copied := stored
	return &cart.UpsertResult{Item: &copied, Created: true}, nil
}

func (r *memoryCartRepository) FindLine(_ context.Context, cartID, itemID uuid.UUID) (*cart.CartLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.ID == itemID && item.CartID == cartID {
			line := r.line(item)
			return &line, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryCartRepository) SetItemQuantity(_ context.Context, cartID, itemID uuid.UUID, quantity int) (*cart.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.ID == itemID && item.CartID == cartID {
			item.Quantity = quantity
			copied := *item
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryCartRepository) DeleteItem(_ context.Context, cartID, itemID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, item := range r.items {
		if item.ID == itemID && item.CartID == cartID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

func (r *memoryCartRepository) ClearItems(_ context.Context, cartID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.items[:0]
	var removed int64
	for _, item := range r.items {
		if item.CartID == cartID {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	r.items = kept
	return removed, nil
}

// MockCartRepository is a mock implementation of cart.CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) EnsureForUser(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) ListLines(ctx context.Context, cartID uuid.UUID) ([]cart.CartLine, error) {
	args := m.Called(ctx, cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cart.CartLine), args.Error(1)
}

func (m *MockCartRepository) UpsertItem(ctx context.Context, item *cart.CartItem, enforceStock bool) (*cart.UpsertResult, error) {
	args := m.Called(ctx, item, enforceStock)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.UpsertResult), args.Error(1)
}

func (m *MockCartRepository) FindLine(ctx context.Context, cartID, itemID uuid.UUID) (*cart.CartLine, error) {
	args := m.Called(ctx, cartID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartLine), args.Error(1)
}

func (m *MockCartRepository) SetItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) (*cart.CartItem, error) {
	args := m.Called(ctx, cartID, itemID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartItem), args.Error(1)
}

func (m *MockCartRepository) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	args := m.Called(ctx, cartID, itemID)
	return args.Error(0)
}

func (m *MockCartRepository) ClearItems(ctx context.Context, cartID uuid.UUID) (int64, error) {
	args := m.Called(ctx, cartID)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// memoryIdempotencyStore is a map-backed shared.IdempotencyStore
type memoryIdempotencyStore struct {
	mu      sync.Mutex
	keys    map[string]bool
	failErr error
}

func newMemoryIdempotencyStore() *memoryIdempotencyStore {
	return &memoryIdempotencyStore{keys: make(map[string]bool)}
}

func (s *memoryIdempotencyStore) MarkProcessed(_ context.Context, key string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return false, s.failErr
	}
	if s.keys[key] {
		return false, nil
	}
	s.keys[key] = true
	return true, nil
}

func (s *memoryIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return false, s.failErr
	}
	return s.keys[key], nil
}

func (s *memoryIdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
	return nil
}

func (s *memoryIdempotencyStore) Close() error { return nil }

// rendezvousStore holds every MarkProcessed caller until all expected callers
// have arrived, so concurrent merges reach the claim at the same time
type rendezvousStore struct {
	*memoryIdempotencyStore
	arrived sync.WaitGroup
}

func newRendezvousStore(callers int) *rendezvousStore {
	s := &rendezvousStore{memoryIdempotencyStore: newMemoryIdempotencyStore()}
	s.arrived.Add(callers)
	return s
}

func (s *rendezvousStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	s.arrived.Done()
	s.arrived.Wait()
	return s.memoryIdempotencyStore.MarkProcessed(ctx, key, ttl)
}

var errStorage = errors.New("storage unavailable")
