package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lojinha/backend/internal/domain/catalog"
	"github.com/lojinha/backend/internal/domain/shared"
	"github.com/lojinha/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// ImageURLResolver turns a stored image reference into a URL a browser can fetch
type ImageURLResolver interface {
	ResolveImageURL(ctx context.Context, ref string) string
}

// ProductService handles catalog reads and product administration
type ProductService struct {
	productRepo    catalog.ProductRepository
	categoryRepo   catalog.CategoryRepository
	categories     *CategoryResolver
	pager          *Pager
	images         ImageURLResolver
	eventPublisher shared.EventPublisher
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, categoryRepo catalog.CategoryRepository) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		categories:   NewCategoryResolver(categoryRepo),
		pager:        NewPager(productRepo),
	}
}

// SetEventPublisher sets the event publisher
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetImageResolver sets the resolver applied to image references in responses
func (s *ProductService) SetImageResolver(resolver ImageURLResolver) {
	s.images = resolver
}

// List returns one page of products for raw listing parameters
func (s *ProductService) List(ctx context.Context, in catalog.ListingInput) (*ProductListResponse, error) {
	q := catalog.NormalizeListing(in)

	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "list_products",
		attribute.String(telemetry.SpanAttrSort, string(q.Sort)),
		attribute.Int(telemetry.SpanAttrPage, q.Page),
	)
	defer span.End()

	page, err := s.pager.Page(ctx, q)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, shared.NewRetrievalFailure("Failed to list products", err)
	}

	items := ToProductResponses(page.Items)
	for i := range items {
		items[i].ImageURL = s.resolveImage(ctx, items[i].ImageURL)
	}

	return &ProductListResponse{
		Page:    q.Page,
		PerPage: q.PerPage,
		Total:   page.Total,
		Items:   items,
	}, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translateLookupError(err)
	}
	return s.toResponse(ctx, product), nil
}

// GetBySlug retrieves a product by slug
func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, translateLookupError(err)
	}
	return s.toResponse(ctx, product), nil
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(req.Name, req.Price, req.Stock)
	if err != nil {
		return nil, err
	}
	product.SetDetails(req.Description, req.ImageURL)
	if err := product.SetTag(catalog.ProductTag(req.Tag)); err != nil {
		return nil, err
	}

	categoryID, err := s.resolveCategory(ctx, req.CategoryID, req.Category)
	if err != nil {
		return nil, err
	}
	product.SetCategory(categoryID)

	if err := s.ensureSlugAvailable(ctx, product.Slug, uuid.Nil); err != nil {
		return nil, err
	}

	if err := s.save(ctx, product); err != nil {
		return nil, err
	}

	return s.toResponse(ctx, product), nil
}

// Update applies a partial update to a product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translateLookupError(err)
	}

	if req.Name != nil && *req.Name != product.Name {
		if err := product.Rename(*req.Name); err != nil {
			return nil, err
		}
		if err := s.ensureSlugAvailable(ctx, product.Slug, product.ID); err != nil {
			return nil, err
		}
	}

	description, imageURL := product.Description, product.ImageURL
	if req.Description != nil {
		description = *req.Description
	}
	if req.ImageURL != nil {
		imageURL = *req.ImageURL
	}
	product.SetDetails(description, imageURL)

	if req.Price != nil {
		if err := product.SetPrice(*req.Price); err != nil {
			return nil, err
		}
	}
	if req.Stock != nil {
		if err := product.SetStock(*req.Stock); err != nil {
			return nil, err
		}
	}
	if req.Tag != nil {
		tag := catalog.ProductTag(*req.Tag)
		if tag == "none" {
			tag = catalog.ProductTagNone
		}
		if err := product.SetTag(tag); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil || req.Category != nil {
		var name string
		if req.Category != nil {
			name = *req.Category
		}
		categoryID, err := s.resolveCategory(ctx, req.CategoryID, name)
		if err != nil {
			return nil, err
		}
		product.SetCategory(categoryID)
	}

	if err := s.save(ctx, product); err != nil {
		return nil, err
	}

	return s.toResponse(ctx, product), nil
}

// resolveCategory prefers an explicit ID and falls back to the free-text name.
// Both empty clears the category.
func (s *ProductService) resolveCategory(ctx context.Context, id *uuid.UUID, name string) (*uuid.UUID, error) {
	if id != nil && *id != uuid.Nil {
		category, err := s.categoryRepo.FindByID(ctx, *id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewValidationError("Category not found")
			}
			return nil, shared.NewRetrievalFailure("Failed to load category", err)
		}
		return &category.ID, nil
	}
	if name == "" {
		return nil, nil
	}
	category, err := s.categories.Resolve(ctx, name)
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, shared.NewRetrievalFailure("Failed to resolve category", err)
	}
	return &category.ID, nil
}

func (s *ProductService) ensureSlugAvailable(ctx context.Context, slug string, excludeID uuid.UUID) error {
	exists, err := s.productRepo.ExistsBySlug(ctx, slug, excludeID)
	if err != nil {
		return shared.NewRetrievalFailure("Failed to check product slug", err)
	}
	if exists {
		return shared.NewConflictError("A product with this name already exists")
	}
	return nil
}

func (s *ProductService) save(ctx context.Context, product *catalog.Product) error {
	if err := s.productRepo.Save(ctx, product); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return shared.NewConflictError("A product with this name already exists")
		}
		return shared.NewRetrievalFailure("Failed to save product", err)
	}
	s.publishDomainEvents(ctx, product)
	return nil
}

// publishDomainEvents publishes all pending events of the product
func (s *ProductService) publishDomainEvents(ctx context.Context, product *catalog.Product) {
	if s.eventPublisher == nil {
		return
	}
	events := product.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	// Publish errors are logged by the event bus, not propagated
	_ = s.eventPublisher.Publish(ctx, events...)
	product.ClearDomainEvents()
}

func (s *ProductService) toResponse(ctx context.Context, product *catalog.Product) *ProductResponse {
	response := ToProductResponse(product)
	response.ImageURL = s.resolveImage(ctx, response.ImageURL)
	return &response
}

func (s *ProductService) resolveImage(ctx context.Context, ref string) string {
	if s.images == nil || ref == "" {
		return ref
	}
	return s.images.ResolveImageURL(ctx, ref)
}

func translateLookupError(err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError("Product not found")
	}
	return shared.NewRetrievalFailure("Failed to load product", err)
}
