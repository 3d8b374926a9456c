package telemetry

import (
	"context"

	"github.com/lojinha/backend/internal/domain/cart"
	"github.com/lojinha/backend/internal/domain/catalog"
	"github.com/lojinha/backend/internal/domain/shared"
	"go.opentelemetry.io/otel/metric"
)

// CartMetrics turns cart and catalog domain events into counters. It is
// subscribed to the event bus rather than called from services.
type CartMetrics struct {
	itemsAdded      *Counter
	unitsAdded      *Counter
	quantityChanges *Counter
	itemsRemoved    *Counter
	cartsCleared    *Counter
	merges          *Counter
	mergeEntries    *Counter
	productsCreated *Counter
	productsUpdated *Counter
}

var _ shared.EventHandler = (*CartMetrics)(nil)

func NewCartMetrics(meter metric.Meter) (*CartMetrics, error) {
	m := &CartMetrics{}
	specs := []struct {
		dst        **Counter
		name, desc string
		unit       string
	}{
		{&m.itemsAdded, "cart_item_adds_total", "Add-to-cart operations by whether a new line was created", "{operation}"},
		{&m.unitsAdded, "cart_units_added_total", "Units added to carts", "{unit}"},
		{&m.quantityChanges, "cart_item_quantity_changes_total", "Cart line quantity overwrites", "{operation}"},
		{&m.itemsRemoved, "cart_items_removed_total", "Cart lines removed", "{item}"},
		{&m.cartsCleared, "carts_cleared_total", "Clear-cart operations", "{operation}"},
		{&m.merges, "guest_cart_merges_total", "Guest cart merges by completion", "{merge}"},
		{&m.mergeEntries, "guest_cart_merge_entries_applied_total", "Guest cart entries applied", "{entry}"},
		{&m.productsCreated, "catalog_products_created_total", "Products created", "{product}"},
		{&m.productsUpdated, "catalog_products_updated_total", "Products updated", "{product}"},
	}
	for _, s := range specs {
		c, err := NewCounter(meter, s.name, s.desc, s.unit)
		if err != nil {
			return nil, err
		}
		*s.dst = c
	}
	return m, nil
}

func (m *CartMetrics) EventTypes() []string {
	return []string{
		cart.EventTypeCartItemAdded,
		cart.EventTypeCartItemQuantityChanged,
		cart.EventTypeCartItemRemoved,
		cart.EventTypeCartCleared,
		cart.EventTypeGuestCartMerged,
		catalog.EventTypeProductCreated,
		catalog.EventTypeProductUpdated,
	}
}

func (m *CartMetrics) Handle(ctx context.Context, ev shared.DomainEvent) error {
	switch e := ev.(type) {
	case *cart.CartItemAddedEvent:
		m.itemsAdded.Inc(ctx, AttrCreated.Bool(e.Created))
		m.unitsAdded.Add(ctx, int64(e.Added))
	case *cart.CartItemQuantityChangedEvent:
		m.quantityChanges.Inc(ctx)
	case *cart.CartItemRemovedEvent:
		m.itemsRemoved.Inc(ctx)
	case *cart.CartClearedEvent:
		m.cartsCleared.Inc(ctx)
		m.itemsRemoved.Add(ctx, e.Removed)
	case *cart.GuestCartMergedEvent:
		m.merges.Inc(ctx, AttrComplete.Bool(e.Complete))
		m.mergeEntries.Add(ctx, int64(e.Applied))
	case *catalog.ProductCreatedEvent:
		m.productsCreated.Inc(ctx)
	case *catalog.ProductUpdatedEvent:
		m.productsUpdated.Inc(ctx)
	}
	return nil
}
