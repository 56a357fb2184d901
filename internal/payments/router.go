package payments

import (
	"github.com/harshnandal981/Advermo-sub000/internal/shared/config"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/middleware"
	"github.com/harshnandal981/Advermo-sub000/internal/users"

	"github.com/gin-gonic/gin"
)

// SetupPaymentRoutes configures payment order and webhook routes
func SetupPaymentRoutes(rg *gin.RouterGroup, controller *Controller, webhook *WebhookHandler, cfg *config.Config) {
	bookings := rg.Group("/bookings")
	bookings.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireRoles(users.RoleBrand, users.RoleAdmin))
	{
		bookings.POST("/:id/payments", controller.CreatePayment) // POST /api/v1/bookings/:id/payments
	}

	// Authenticated by signature, not by JWT
	webhooks := rg.Group("/webhooks")
	{
		webhooks.POST("/payments", webhook.HandleWebhook) // POST /api/v1/webhooks/payments
	}
}
