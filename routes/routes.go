package routes

import (
	"net/http"

	"food-ordering-api/handlers"
	"food-ordering-api/middleware"
	"food-ordering-api/models"

	"github.com/gin-gonic/gin"
)

// CORS allows browser clients from any origin.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, X-JWT, X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func SetupRoutes(r *gin.Engine, h *handlers.Handler, id *middleware.Identity) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Food Ordering API",
		})
	})

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/auth/register", h.Register)
		public.POST("/auth/login", h.Login)

		public.GET("/restaurants", h.ListRestaurants)
		public.GET("/restaurants/:id", h.GetRestaurant)
		public.GET("/restaurants/:id/menu", h.GetMenu)

		public.GET("/state-machine", h.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(id.AuthRequired())
	{
		auth.GET("/profile", h.GetProfile)

		// Visibility is decided per order by the service
		auth.GET("/orders", h.GetOrders)
		auth.GET("/orders/:id", h.GetOrder)
		auth.PUT("/orders/:id/status", h.EditOrder)
		auth.GET("/subscriptions/orders/:id", h.OrderUpdates)
	}

	// ── Client routes ──────────────────────────────────────────────
	client := r.Group("/api")
	client.Use(id.AuthRequired(), middleware.RoleRequired(models.RoleClient))
	{
		client.POST("/orders", h.CreateOrder)
	}

	// ── Restaurant owner routes ────────────────────────────────────
	owner := r.Group("/api")
	owner.Use(id.AuthRequired(), middleware.RoleRequired(models.RoleOwner))
	{
		owner.POST("/restaurants", h.CreateRestaurant)
		owner.POST("/restaurants/:id/dishes", h.AddDish)
		owner.GET("/subscriptions/pending-orders", h.PendingOrders)
	}

	// ── Driver routes ──────────────────────────────────────────────
	driver := r.Group("/api")
	driver.Use(id.AuthRequired(), middleware.RoleRequired(models.RoleDelivery))
	{
		driver.PUT("/orders/:id/take", h.TakeOrder)
		driver.GET("/subscriptions/cooked-orders", h.CookedOrders)
	}
}
