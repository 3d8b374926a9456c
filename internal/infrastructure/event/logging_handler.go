package event

import (
	"context"

	"github.com/lojinha/backend/internal/domain/cart"
	"github.com/lojinha/backend/internal/domain/catalog"
	"github.com/lojinha/backend/internal/domain/shared"
	"github.com/lojinha/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// LoggingHandler writes an audit line for every cart and catalog event.
type LoggingHandler struct {
	logger *zap.Logger
}

var _ shared.EventHandler = (*LoggingHandler)(nil)

func NewLoggingHandler(log *zap.Logger) *LoggingHandler {
	return &LoggingHandler{logger: log.Named("audit")}
}

func (h *LoggingHandler) EventTypes() []string {
	return nil
}

func (h *LoggingHandler) Handle(ctx context.Context, ev shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_type", ev.EventType()),
		zap.String("aggregate_type", ev.AggregateType()),
		zap.String("aggregate_id", ev.AggregateID().String()),
	}

	switch e := ev.(type) {
	case *cart.CartItemAddedEvent:
		fields = append(fields,
			zap.String("user_id", e.UserID.String()),
			zap.String("product_id", e.ProductID.String()),
			zap.Int("added", e.Added),
			zap.Int("quantity", e.Quantity),
			zap.Bool("created", e.Created))
	case *cart.CartItemQuantityChangedEvent:
		fields = append(fields,
			zap.String("user_id", e.UserID.String()),
			zap.String("item_id", e.ItemID.String()),
			zap.Int("quantity", e.Quantity))
	case *cart.CartItemRemovedEvent:
		fields = append(fields,
			zap.String("user_id", e.UserID.String()),
			zap.String("item_id", e.ItemID.String()))
	case *cart.CartClearedEvent:
		fields = append(fields,
			zap.String("user_id", e.UserID.String()),
			zap.Int64("removed", e.Removed))
	case *cart.GuestCartMergedEvent:
		fields = append(fields,
			zap.String("user_id", e.UserID.String()),
			zap.Int("entries", e.Entries),
			zap.Int("applied", e.Applied),
			zap.Bool("complete", e.Complete))
	case *catalog.ProductCreatedEvent:
		fields = append(fields, zap.String("slug", e.Slug), zap.String("price", e.Price.StringFixed(2)))
	case *catalog.ProductUpdatedEvent:
		fields = append(fields, zap.String("slug", e.Slug))
	}

	logger.WithTraceContext(ctx, h.logger).Info("domain event", fields...)
	return nil
}
