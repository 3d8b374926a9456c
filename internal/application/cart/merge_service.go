package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lojinha/backend/internal/domain/cart"
	"github.com/lojinha/backend/internal/domain/shared"
	"github.com/lojinha/backend/internal/infrastructure/logger"
	"github.com/lojinha/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// MergeService folds a guest cart into the user's cart after login
type MergeService struct {
	carts          *CartService
	idempotency    shared.IdempotencyStore
	ttl            time.Duration
	maxItems       int
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewMergeService creates a new MergeService. store may be nil, in which
// case a retried merge adds the already-applied entries again.
func NewMergeService(carts *CartService, store shared.IdempotencyStore, ttl time.Duration, log *zap.Logger) *MergeService {
	if log == nil {
		log = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = shared.DefaultIdempotencyConfig().TTL
	}
	return &MergeService{
		carts:       carts,
		idempotency: store,
		ttl:         ttl,
		logger:      log,
	}
}

// SetMaxItems caps how many guest entries one merge accepts. Zero means no cap.
func (s *MergeService) SetMaxItems(n int) {
	s.maxItems = n
}

// SetEventPublisher sets the event publisher
func (s *MergeService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Merge replays each guest entry through AddItem in order and stops at the
// first failure. Entries applied before the failure stay applied. When
// mergeKey is set, each entry is claimed in the idempotency store before it
// is applied, so a retry or a concurrent merge of the same list with the same
// key skips entries already claimed. A claim is released when its add fails.
//
// The returned error is non-nil only when the merge could not start; entry
// failures are reported in the result.
func (s *MergeService) Merge(ctx context.Context, userID uuid.UUID, guest cart.GuestCart, mergeKey string) (*MergeResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "cart", "merge_guest_cart",
		attribute.Int(telemetry.SpanAttrEntries, guest.Len()))
	defer span.End()

	if s.maxItems > 0 && guest.Len() > s.maxItems {
		err := shared.NewValidationError(fmt.Sprintf("Guest cart has %d items, at most %d can be merged", guest.Len(), s.maxItems))
		telemetry.RecordError(span, err)
		return nil, err
	}

	c, err := s.carts.ensureCart(ctx, userID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	log := logger.WithTraceContext(ctx, s.logger).With(
		zap.String("user_id", userID.String()),
		zap.Int("entries", guest.Len()),
	)

	result := &MergeResult{Total: guest.Len()}
	for i, entry := range guest.Entries() {
		key := s.entryKey(userID, mergeKey, i)

		if key != "" {
			claimed, err := s.idempotency.MarkProcessed(ctx, key, s.ttl)
			if err != nil {
				s.halt(result, guest, i, entry, shared.NewRetrievalFailure("Failed to record merge progress", err))
				break
			}
			if !claimed {
				result.Applied++
				result.Skipped++
				continue
			}
		}

		if _, err := s.carts.AddItem(ctx, userID, entry.ProductID, entry.Quantity); err != nil {
			if key != "" {
				// the entry was not applied, so a retry must be able to claim it again
				if relErr := s.idempotency.Release(context.WithoutCancel(ctx), key); relErr != nil {
					log.Warn("failed to release guest entry key",
						zap.Int("index", i),
						zap.Error(relErr),
					)
				}
			}
			s.halt(result, guest, i, entry, err)
			log.Warn("guest cart merge halted",
				zap.Int("index", i),
				zap.String("product_id", entry.ProductID.String()),
				zap.Error(err),
			)
			break
		}
		result.Applied++
	}

	if result.Complete() {
		result.Cleared = true
		result.Remaining = []GuestItem{}
	}

	span.SetAttributes(
		attribute.Int("cart.merge.applied", result.Applied),
		attribute.Bool("cart.merge.complete", result.Complete()),
	)
	log.Info("guest cart merged",
		zap.Int("applied", result.Applied),
		zap.Int("skipped", result.Skipped),
		zap.Bool("complete", result.Complete()),
	)

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, cart.NewGuestCartMergedEvent(c, result.Total, result.Applied, result.Complete()))
	}

	return result, nil
}

func (s *MergeService) entryKey(userID uuid.UUID, mergeKey string, index int) string {
	if s.idempotency == nil || mergeKey == "" {
		return ""
	}
	return fmt.Sprintf("cart:merge:%s:%s:%d", userID, mergeKey, index)
}

func (s *MergeService) halt(result *MergeResult, guest cart.GuestCart, index int, entry cart.GuestCartEntry, err error) {
	failure := &MergeFailure{
		Index:     index,
		ProductID: entry.ProductID,
		Code:      "INTERNAL_ERROR",
		Message:   "An unexpected error occurred",
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		failure.Code = domainErr.Code
		failure.Message = domainErr.Message
	}
	result.Failure = failure
	result.Remaining = toGuestItems(guest.From(index))
}
