package routes

import (
	"github.com/gin-gonic/gin"

	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/models"
)

// Handlers bundles everything RegisterRoutes wires up.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Products  *handlers.ProductHandler
	Cart      *handlers.CartHandler
	Orders    *handlers.OrderHandler
	Upload    *handlers.UploadHandler
	Dashboard *handlers.DashboardHandler
}

// RegisterRoutes attaches the API surface. The product CRUD routes carry no
// role guard at the API layer; the admin UI is their only caller by
// convention.
func RegisterRoutes(router *gin.Engine, h Handlers) {
	api := router.Group("/api")
	{
		api.POST("/auth/register", h.Auth.Register)

		api.GET("/products", h.Products.List)
		api.POST("/products", h.Products.Create)
		api.GET("/products/:id", h.Products.Get)
		api.PUT("/products/:id", h.Products.Update)
		api.DELETE("/products/:id", h.Products.Delete)

		shopper := api.Group("/cart", middleware.RequireRole(models.RoleShopper))
		{
			shopper.GET("", h.Cart.Get)
			shopper.POST("", h.Cart.Add)
			shopper.PUT("/:itemId", h.Cart.Update)
			shopper.DELETE("/:itemId", h.Cart.Remove)
		}

		api.GET("/orders", middleware.RequireSession(), h.Orders.List)
		api.POST("/orders", middleware.RequireRole(models.RoleShopper), h.Orders.Create)

		api.POST("/upload", h.Upload.Upload)

		api.GET("/dashboard/summary", middleware.RequireRole(models.RoleAdmin), h.Dashboard.Summary)
	}
}
