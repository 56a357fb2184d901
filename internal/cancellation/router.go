package cancellation

import (
	"github.com/harshnandal981/Advermo-sub000/internal/shared/config"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/middleware"
	"github.com/harshnandal981/Advermo-sub000/internal/users"

	"github.com/gin-gonic/gin"
)

func SetupCancellationRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	// Booking cancellation routes (brands and admins)
	bookings := rg.Group("/bookings")
	bookings.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireRoles(users.RoleBrand, users.RoleAdmin))
	{
		bookings.POST("/:id/cancel", controller.CancelBooking)        // POST /api/v1/bookings/:id/cancel
		bookings.GET("/:id/refund-quote", controller.QuoteRefund)     // GET /api/v1/bookings/:id/refund-quote
		bookings.GET("/:id/cancellation", controller.GetCancellation) // GET /api/v1/bookings/:id/cancellation
	}

	cancellations := rg.Group("/cancellations")
	cancellations.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireRoles(users.RoleBrand, users.RoleAdmin))
	{
		cancellations.GET("", controller.GetUserCancellations) // GET /api/v1/cancellations
	}
}
