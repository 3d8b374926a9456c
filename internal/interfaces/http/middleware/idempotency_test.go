package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lojinha/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{}

func (failingStore) MarkProcessed(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("redis down")
}
func (failingStore) IsProcessed(context.Context, string) (bool, error) { return false, nil }
func (failingStore) Release(context.Context, string) error             { return nil }
func (failingStore) Close() error                                      { return nil }

func newIdempotentRouter(t *testing.T, status *int) (*gin.Engine, *cache.InMemoryIdempotencyStore) {
	t.Helper()
	store := cache.NewInMemoryIdempotencyStore(time.Minute)
	t.Cleanup(func() { _ = store.Close() })

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(UserIDKey, c.GetHeader("X-Test-User"))
		c.Next()
	})
	router.POST("/cart/items", Idempotency(store, time.Hour), func(c *gin.Context) {
		c.Status(*status)
	})
	return router, store
}

func postWithKey(router http.Handler, user, key string) int {
	req := httptest.NewRequest(http.MethodPost, "/cart/items", nil)
	req.Header.Set("X-Test-User", user)
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Code
}

func TestIdempotency_RejectsReplay(t *testing.T) {
	status := http.StatusCreated
	router, _ := newIdempotentRouter(t, &status)

	assert.Equal(t, http.StatusCreated, postWithKey(router, "u1", "k1"))
	assert.Equal(t, http.StatusConflict, postWithKey(router, "u1", "k1"))

	// keys are scoped per user
	assert.Equal(t, http.StatusCreated, postWithKey(router, "u2", "k1"))
}

func TestIdempotency_NoHeaderPassesThrough(t *testing.T) {
	status := http.StatusCreated
	router, store := newIdempotentRouter(t, &status)

	assert.Equal(t, http.StatusCreated, postWithKey(router, "u1", ""))
	assert.Equal(t, http.StatusCreated, postWithKey(router, "u1", ""))
	assert.Zero(t, store.Len())
}

func TestIdempotency_FailureReleasesKey(t *testing.T) {
	status := http.StatusUnprocessableEntity
	router, store := newIdempotentRouter(t, &status)

	assert.Equal(t, http.StatusUnprocessableEntity, postWithKey(router, "u1", "k1"))
	assert.Zero(t, store.Len())

	status = http.StatusOK
	assert.Equal(t, http.StatusOK, postWithKey(router, "u1", "k1"))
	assert.Equal(t, 1, store.Len())
}

func TestIdempotency_KeyTooLong(t *testing.T) {
	status := http.StatusCreated
	router, _ := newIdempotentRouter(t, &status)

	assert.Equal(t, http.StatusBadRequest, postWithKey(router, "u1", strings.Repeat("k", 200)))
}

func TestIdempotency_StoreErrorFailsOpen(t *testing.T) {
	router := gin.New()
	router.POST("/cart/items", Idempotency(failingStore{}, time.Hour), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	code := postWithKey(router, "u1", "k1")
	require.Equal(t, http.StatusCreated, code)
}
