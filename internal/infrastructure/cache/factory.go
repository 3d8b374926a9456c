package cache

import (
	"context"
	"fmt"

	"github.com/lojinha/backend/internal/domain/shared"
	"github.com/lojinha/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// FactoryOption configures NewIdempotencyStore.
type FactoryOption func(*factoryOptions)

type factoryOptions struct {
	logger        *zap.Logger
	allowFallback bool
}

// WithLogger sets the logger used to report the selected backend.
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(o *factoryOptions) { o.logger = logger }
}

// WithInMemoryFallback lets the redis backend degrade to the in-memory store
// when Redis cannot be reached at startup.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(o *factoryOptions) { o.allowFallback = allow }
}

// NewIdempotencyStore builds the store selected by cart.idempotency_backend.
func NewIdempotencyStore(ctx context.Context, cartCfg config.CartConfig, redisCfg config.RedisConfig, opts ...FactoryOption) (shared.IdempotencyStore, error) {
	o := factoryOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	switch cartCfg.IdempotencyBackend {
	case "", config.IdempotencyBackendMemory:
		o.logger.Info("using in-memory idempotency store")
		return NewInMemoryIdempotencyStore(0), nil
	case config.IdempotencyBackendRedis:
		store, err := NewRedisIdempotencyStore(ctx, redisCfg)
		if err == nil {
			o.logger.Info("using redis idempotency store", zap.String("addr", redisCfg.Addr()))
			return store, nil
		}
		if !o.allowFallback {
			return nil, fmt.Errorf("redis idempotency store unavailable: %w", err)
		}
		o.logger.Warn("redis unavailable, falling back to in-memory idempotency store; keys will not be shared between replicas",
			zap.Error(err))
		return NewInMemoryIdempotencyStore(0), nil
	default:
		return nil, fmt.Errorf("unknown idempotency backend %q", cartCfg.IdempotencyBackend)
	}
}
