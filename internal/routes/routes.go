package routes

import (
	"github.com/gin-gonic/gin"

	"eshop_back_end/internal/handlers"
	"eshop_back_end/internal/middleware"
)

// Handlers regroupe tous les handlers injectés depuis main.
type Handlers struct {
	Orders     *handlers.OrderHandler
	Products   *handlers.ProductHandler
	Categories *handlers.CategoryHandler
	Users      *handlers.UserHandler
	Auth       *handlers.AuthHandler
	Payments   *handlers.PaymentHandler
	Health     *handlers.HealthHandler
}

func RegisterRoutes(r *gin.Engine, h Handlers, jwtSecret []byte, blacklist middleware.TokenChecker) {
	auth := middleware.AuthRequired(jwtSecret, blacklist)
	admin := middleware.RequireAdmin()

	r.GET("/health", h.Health.Check)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/logout", h.Auth.Logout)
	}

	orders := r.Group("/orders", auth)
	{
		orders.POST("", h.Orders.CreateOrder)
		orders.GET("", h.Orders.GetOrders)
		orders.GET("/total-sales", h.Orders.GetTotalSales)
		orders.GET("/:id", h.Orders.GetOrder)
		orders.PUT("/:id", h.Orders.UpdateOrder)
		orders.DELETE("/:id", h.Orders.DeleteOrder)
	}

	products := r.Group("/products")
	{
		products.GET("", h.Products.GetProducts)
		products.GET("/count", h.Products.CountProducts)
		products.GET("/featured", h.Products.GetFeaturedProducts)
		products.GET("/search", h.Products.SearchProducts)
		products.GET("/:id", auth, h.Products.GetProduct)
		products.POST("", auth, admin, h.Products.CreateProduct)
		products.PUT("/:id", auth, admin, h.Products.UpdateProduct)
		products.DELETE("/:id", auth, admin, h.Products.DeleteProduct)
		products.POST("/:id/image", auth, admin, h.Products.UploadImage)
		products.PUT("/:id/gallery-images", auth, admin, h.Products.UploadGallery)
	}

	categories := r.Group("/categories")
	{
		categories.GET("", h.Categories.GetCategories)
		categories.GET("/:id", h.Categories.GetCategory)
		categories.POST("", auth, admin, h.Categories.CreateCategory)
		categories.PUT("/:id", auth, admin, h.Categories.UpdateCategory)
		categories.DELETE("/:id", auth, admin, h.Categories.DeleteCategory)
	}

	users := r.Group("/users")
	{
		users.POST("", h.Users.CreateUser)
		users.GET("", auth, h.Users.GetUsers)
		users.GET("/count", auth, admin, h.Users.CountUsers)
		users.GET("/:id", auth, h.Users.GetUser)
		users.PUT("/:id", auth, admin, h.Users.UpdateUser)
		users.DELETE("/:id", auth, admin, h.Users.DeleteUser)
	}

	payments := r.Group("/payments", auth)
	{
		payments.POST("/create-payment-intent", h.Payments.CreatePaymentIntent)
	}
}
