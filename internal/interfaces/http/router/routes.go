package router

import (
	"github.com/gin-gonic/gin"
	"github.com/lojinha/backend/internal/interfaces/http/handler"
)

// Handlers are the endpoint groups the service exposes
type Handlers struct {
	System   *handler.SystemHandler
	Products *handler.ProductHandler
	Carts    *handler.CartHandler
}

// Guards are the per-route middleware. Authenticate verifies the bearer
// token, RequireAdmin checks its role and Idempotency deduplicates adds.
type Guards struct {
	Authenticate gin.HandlerFunc
	RequireAdmin gin.HandlerFunc
	Idempotency  gin.HandlerFunc
}

// CatalogRoutes builds the public catalog group and its admin mutations
func CatalogRoutes(h *handler.ProductHandler, g Guards) *DomainGroup {
	catalog := NewDomainGroup("catalog", "/catalog")
	catalog.GET("/products", h.List).
		GET("/products/:id", h.GetByID).
		GET("/products/slug/:slug", h.GetBySlug)

	admin := catalog.Group("catalog-admin", "").Use(g.Authenticate, g.RequireAdmin)
	admin.POST("/products", h.Create).
		PUT("/products/:id", h.Update)

	return catalog
}

// CartRoutes builds the authenticated cart group
func CartRoutes(h *handler.CartHandler, g Guards) *DomainGroup {
	carts := NewDomainGroup("cart", "/cart").Use(g.Authenticate)
	carts.GET("", h.Get).
		DELETE("", h.Clear).
		POST("/items", g.Idempotency, h.AddItem).
		PUT("/items/:id", h.UpdateItem).
		DELETE("/items/:id", h.RemoveItem).
		POST("/merge", h.Merge)
	return carts
}

// Mount registers every route on engine. /health stays outside the
// versioned API so load balancer health checks never depend on it.
func Mount(engine *gin.Engine, h Handlers, g Guards) {
	engine.GET("/health", h.System.Health)

	r := NewRouter(engine)
	r.Register(NewDomainGroup("system", "/system").GET("/info", h.System.Info))
	r.Register(CatalogRoutes(h.Products, g))
	r.Register(CartRoutes(h.Carts, g))
	r.Setup()
}
