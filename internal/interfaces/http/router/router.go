package router

import (
	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers bundles every HTTP handler the router mounts
type Handlers struct {
	System    *handler.SystemHandler
	Attribute *handler.AttributeHandler
	Category  *handler.CategoryHandler
	Product   *handler.ProductHandler
	Variant   *handler.VariantHandler
	Cart      *handler.CartHandler
	Order     *handler.OrderHandler
	Payment   *handler.PaymentHandler
	Wishlist  *handler.WishlistHandler
}

// New builds the gin engine with all middleware and routes mounted
func New(cfg *config.Config, log *zap.Logger, jwtService *auth.JWTService, h Handlers) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORS(cfg.HTTP.CORSAllowOrigins),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)
	if len(cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	}

	engine.GET("/health", h.System.Health)

	api := engine.Group("/api/v1")
	api.GET("/system/ping", h.System.Ping)

	// Public catalog reads
	api.GET("/attributes", h.Attribute.List)
	api.GET("/attributes/:id", h.Attribute.Get)
	api.GET("/attribute-values", h.Attribute.ListValues)
	api.GET("/categories/tree", h.Category.Tree)
	api.GET("/categories/roots", h.Category.Roots)
	api.GET("/categories/:slug", h.Category.GetBySlug)
	// As on variant routes, :slug carries the category ID here.
	api.GET("/categories/:slug/children", h.Category.Children("slug"))
	api.GET("/products", h.Product.List)
	api.GET("/products/search", h.Product.Search)
	api.GET("/products/:slug", h.Product.GetBySlug)
	// The :slug segment carries the product ID on variant routes; gin
	// allows only one wildcard name per tree position.
	api.GET("/products/:slug/variants", h.Variant.ListByProduct("slug"))
	api.GET("/products/:slug/variants/filter", h.Variant.Filter("slug"))

	// Payment provider callback; authenticated by signature, not JWT
	api.POST("/webhooks/payment", h.Payment.Webhook)

	// Authenticated shopper routes
	authed := api.Group("")
	authed.Use(middleware.JWTAuth(jwtService))
	{
		authed.GET("/cart", h.Cart.Get)
		authed.DELETE("/cart", h.Cart.Clear)
		authed.POST("/cart/items", h.Cart.AddItem)
		authed.PUT("/cart/items/:variantId", h.Cart.UpdateItem)
		authed.DELETE("/cart/items/:variantId", h.Cart.RemoveItem)
		authed.POST("/cart/sync", h.Cart.Sync)

		authed.POST("/checkout", h.Order.Checkout)
		authed.GET("/orders", h.Order.ListMine)
		authed.GET("/orders/:id", h.Order.GetMine)
		authed.POST("/orders/:id/cancel", h.Order.Cancel)

		authed.POST("/payments/success", h.Payment.RecordSuccess)
		authed.POST("/payments/failure", h.Payment.RecordFailure)

		authed.GET("/wishlist", h.Wishlist.Get)
		authed.POST("/wishlist/items", h.Wishlist.Add)
		authed.DELETE("/wishlist/items/:productId", h.Wishlist.Remove)
	}

	// Admin routes
	admin := api.Group("/admin")
	admin.Use(middleware.JWTAuth(jwtService), middleware.AdminOnly())
	{
		admin.POST("/attributes", h.Attribute.Create)
		admin.PUT("/attributes/:id", h.Attribute.Update)
		admin.DELETE("/attributes/:id", h.Attribute.Delete)
		admin.POST("/attributes/:id/values", h.Attribute.AddValue)
		admin.PUT("/attribute-values/:valueId", h.Attribute.UpdateValue)
		admin.DELETE("/attribute-values/:valueId", h.Attribute.DeleteValue)

		admin.POST("/categories", h.Category.Create)
		admin.PUT("/categories/:id", h.Category.Update)
		admin.POST("/categories/:id/move", h.Category.Move)
		admin.DELETE("/categories/:id", h.Category.Delete)

		admin.POST("/products", h.Product.Create)
		admin.PUT("/products/:id", h.Product.Update)
		admin.PUT("/products/:id/published", h.Product.SetPublished)
		admin.DELETE("/products/:id", h.Product.Delete)
		admin.POST("/products/:id/variants", h.Variant.CreateSet("id"))
		admin.PUT("/variants/:id", h.Variant.Update)
		admin.DELETE("/variants/:id", h.Variant.Delete)

		admin.GET("/orders", h.Order.ListAll)
		admin.GET("/orders/:id", h.Order.GetByID)
		admin.PUT("/orders/:id/status", h.Order.UpdateStatus)
		admin.POST("/orders/:id/cancel", h.Order.CancelByAdmin)

		admin.POST("/payments/refund", h.Payment.Refund)
	}

	return engine
}
