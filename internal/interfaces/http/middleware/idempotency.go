package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lojinha/backend/internal/domain/shared"
	"github.com/lojinha/backend/internal/infrastructure/logger"
	"github.com/lojinha/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader lets clients retry a mutation without applying it twice
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 128

// Idempotency rejects a repeated Idempotency-Key for the same user and route
// with 409. Failed requests (status >= 400) release their key so the client
// can retry. Requests without the header pass through. Store errors are
// logged and the request proceeds.
func Idempotency(store shared.IdempotencyStore, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			abortWithError(c, dto.ErrCodeBadRequest, "Idempotency-Key is too long")
			return
		}

		ctx := c.Request.Context()
		storeKey := "http:" + c.GetString(UserIDKey) + ":" + c.Request.Method + ":" + routePattern(c) + ":" + key

		fresh, err := store.MarkProcessed(ctx, storeKey, ttl)
		if err != nil {
			logger.L(ctx).Warn("idempotency store unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !fresh {
			abortWithError(c, dto.ErrCodeDuplicateRequest, "This request was already processed")
			return
		}

		c.Next()

		if c.Writer.Status() >= 400 {
			// the request context may already be past its deadline
			if err := store.Release(context.WithoutCancel(ctx), storeKey); err != nil {
				logger.L(ctx).Warn("failed to release idempotency key", zap.Error(err))
			}
		}
	}
}
