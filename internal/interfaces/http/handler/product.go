package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/lojinha/backend/internal/application/catalog"
	"github.com/lojinha/backend/internal/domain/catalog"
	"github.com/lojinha/backend/internal/interfaces/http/dto"
	"github.com/lojinha/backend/internal/interfaces/http/middleware"
)

// ProductService is the catalog surface the handler needs
type ProductService interface {
	List(ctx context.Context, in catalog.ListingInput) (*catalogapp.ProductListResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error)
	GetBySlug(ctx context.Context, slug string) (*catalogapp.ProductResponse, error)
	Create(ctx context.Context, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req catalogapp.UpdateProductRequest) (*catalogapp.ProductResponse, error)
}

// ProductHandler serves the public catalog and its admin endpoints
type ProductHandler struct {
	BaseHandler
	products ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// List returns one page of products.
// Query: search, category, category_id, sort, page, per_page. Unusable paging
// values fall back to defaults. A storage failure still answers with an empty
// page so list views keep their shape.
func (h *ProductHandler) List(c *gin.Context) {
	in := catalog.ListingInput{
		Search:     c.Query("search"),
		Category:   c.Query("category"),
		CategoryID: c.Query("category_id"),
		Sort:       c.Query("sort"),
		Page:       c.Query("page"),
		PerPage:    c.Query("per_page"),
	}

	page, err := h.products.List(c.Request.Context(), in)
	if err != nil {
		code, message := h.classify(err)
		_ = c.Error(err)
		q := catalog.NormalizeListing(in)
		c.JSON(dto.GetHTTPStatus(code), dto.NewFailedPageResponse(code, message, middleware.GetRequestID(c), q.Page, q.PerPage))
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PerPage)
}

// GetByID returns a product by its UUID
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	product, err := h.products.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, product)
}

// GetBySlug returns a product by its URL slug
func (h *ProductHandler) GetBySlug(c *gin.Context) {
	product, err := h.products.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, product)
}

// Create adds a product. Admin only.
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	product, err := h.products.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, product)
}

// Update changes a product. Renaming regenerates its slug. Admin only.
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	product, err := h.products.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, product)
}
