package bookings

import (
	"github.com/harshnandal981/Advermo-sub000/internal/shared/config"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/middleware"
	"github.com/harshnandal981/Advermo-sub000/internal/users"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures all booking-related routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	bookings := rg.Group("/bookings")
	bookings.Use(middleware.JWTAuthWithConfig(cfg))
	{
		bookings.POST("", middleware.RequireRoles(users.RoleBrand), controller.CreateBooking) // POST /api/v1/bookings
		bookings.GET("", controller.ListBookings)                                             // GET /api/v1/bookings
		bookings.GET("/:id", controller.GetBooking)                                           // GET /api/v1/bookings/:id

		owner := middleware.RequireRoles(users.RoleVenueOwner, users.RoleAdmin)
		bookings.POST("/:id/confirm", owner, controller.ConfirmBooking) // POST /api/v1/bookings/:id/confirm
		bookings.POST("/:id/reject", owner, controller.RejectBooking)   // POST /api/v1/bookings/:id/reject
	}

	// Public availability hint; the authoritative check happens on confirm
	rg.GET("/spaces/:id/availability", controller.CheckAvailability)
}

// Route definitions for reference:
//
// BOOKING REQUEST
// POST   /api/v1/bookings                              - Brand requests a space for a date range
// Request body: { "space_id": "...", "start_date": "2025-01-01", "end_date": "2025-01-08", ... }
//
// BOOKING RETRIEVAL
// GET    /api/v1/bookings?status=&space_id=&from=&to=&page=&limit=
// GET    /api/v1/bookings/:id
//
// OWNER DECISIONS
// POST   /api/v1/bookings/:id/confirm
// POST   /api/v1/bookings/:id/reject                   - Request body: { "reason": "..." }
//
// Cancellation, refund quotes and payment orders are served by the cancellation and payments routers.
