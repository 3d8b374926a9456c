package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	cartapp "github.com/lojinha/backend/internal/application/cart"
	catalogapp "github.com/lojinha/backend/internal/application/catalog"
	"github.com/lojinha/backend/internal/domain/cart"
	"github.com/lojinha/backend/internal/domain/catalog"
	"github.com/lojinha/backend/internal/interfaces/http/handler"
	"github.com/stretchr/testify/assert"
)

type fakeProducts struct{}

func (fakeProducts) List(context.Context, catalog.ListingInput) (*catalogapp.ProductListResponse, error) {
	return &catalogapp.ProductListResponse{Page: 1, PerPage: 10, Items: []catalogapp.ProductResponse{}}, nil
}
func (fakeProducts) GetByID(_ context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error) {
	return &catalogapp.ProductResponse{ID: id}, nil
}
func (fakeProducts) GetBySlug(_ context.Context, slug string) (*catalogapp.ProductResponse, error) {
	return &catalogapp.ProductResponse{Slug: slug}, nil
}
func (fakeProducts) Create(context.Context, catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error) {
	return &catalogapp.ProductResponse{}, nil
}
func (fakeProducts) Update(_ context.Context, id uuid.UUID, _ catalogapp.UpdateProductRequest) (*catalogapp.ProductResponse, error) {
	return &catalogapp.ProductResponse{ID: id}, nil
}

type fakeCarts struct{}

func (fakeCarts) GetCart(_ context.Context, userID uuid.UUID) (*cartapp.CartResponse, error) {
	return &cartapp.CartResponse{UserID: userID}, nil
}
func (fakeCarts) AddItem(context.Context, uuid.UUID, uuid.UUID, int) (*cartapp.AddItemResult, error) {
	return &cartapp.AddItemResult{Created: true}, nil
}
func (fakeCarts) UpdateItemQuantity(context.Context, uuid.UUID, uuid.UUID, int) (*cartapp.UpdateItemResult, error) {
	return &cartapp.UpdateItemResult{Removed: true}, nil
}
func (fakeCarts) RemoveItem(context.Context, uuid.UUID, uuid.UUID) error { return nil }
func (fakeCarts) ClearCart(context.Context, uuid.UUID) error             { return nil }

type fakeMerger struct{}

func (fakeMerger) Merge(context.Context, uuid.UUID, cart.GuestCart, string) (*cartapp.MergeResult, error) {
	return &cartapp.MergeResult{Cleared: true}, nil
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

// testGuards authenticate any request carrying X-User and mark idempotent routes
func testGuards() Guards {
	return Guards{
		Authenticate: func(c *gin.Context) {
			if c.GetHeader("X-User") == "" {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			c.Next()
		},
		RequireAdmin: func(c *gin.Context) {
			if c.GetHeader("X-User") != "admin" {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
			c.Next()
		},
		Idempotency: func(c *gin.Context) {
			c.Header("X-Idempotency-Checked", "1")
			c.Next()
		},
	}
}

func newMountedEngine() *gin.Engine {
	engine := gin.New()
	Mount(engine, Handlers{
		System:   handler.NewSystemHandler(okPinger{}, "lojinha", "test"),
		Products: handler.NewProductHandler(fakeProducts{}),
		Carts:    handler.NewCartHandler(fakeCarts{}, fakeMerger{}),
	}, testGuards())
	return engine
}

func call(engine http.Handler, method, path, user, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-User", user)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestMount_PublicRoutes(t *testing.T) {
	engine := newMountedEngine()
	id := uuid.NewString()

	for _, path := range []string{
		"/health",
		"/api/v1/system/info",
		"/api/v1/catalog/products",
		"/api/v1/catalog/products/" + id,
		"/api/v1/catalog/products/slug/caneca-azul",
	} {
		w := call(engine, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestMount_AdminRoutes(t *testing.T) {
	engine := newMountedEngine()
	body := `{"name":"Caneca","price":"10.00"}`

	assert.Equal(t, http.StatusUnauthorized, call(engine, http.MethodPost, "/api/v1/catalog/products", "", body).Code)
	assert.Equal(t, http.StatusForbidden, call(engine, http.MethodPost, "/api/v1/catalog/products", "customer", body).Code)
	assert.Equal(t, http.StatusCreated, call(engine, http.MethodPost, "/api/v1/catalog/products", "admin", body).Code)
	assert.Equal(t, http.StatusOK, call(engine, http.MethodPut, "/api/v1/catalog/products/"+uuid.NewString(), "admin", `{"stock":2}`).Code)
}

func TestMount_CartRoutes(t *testing.T) {
	engine := newMountedEngine()
	item := uuid.NewString()
	add := `{"product_id":"` + uuid.NewString() + `","quantity":1}`

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/api/v1/cart", "", http.StatusOK},
		{http.MethodDelete, "/api/v1/cart", "", http.StatusNoContent},
		{http.MethodPost, "/api/v1/cart/items", add, http.StatusCreated},
		{http.MethodPut, "/api/v1/cart/items/" + item, `{"quantity":0}`, http.StatusNoContent},
		{http.MethodDelete, "/api/v1/cart/items/" + item, "", http.StatusNoContent},
		{http.MethodPost, "/api/v1/cart/merge", `{"items":[]}`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, call(engine, tt.method, tt.path, "", tt.body).Code)

			w := call(engine, tt.method, tt.path, "customer", tt.body)
			assert.Equal(t, tt.status, w.Code)

			onlyAdd := tt.method == http.MethodPost && tt.path == "/api/v1/cart/items"
			assert.Equal(t, onlyAdd, w.Header().Get("X-Idempotency-Checked") == "1")
		})
	}
}
