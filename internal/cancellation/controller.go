package cancellation

import (
	"errors"
	"io"
	"net/http"

	"github.com/harshnandal981/Advermo-sub000/internal/shared/apperrors"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/middleware"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CancellationRequest represents a request to cancel a booking
type CancellationRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// Controller handles HTTP requests for booking cancellations
type Controller struct {
	service Service
}

// NewController creates a new cancellation controller
func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel
func (c *Controller) CancelBooking(ctx *gin.Context) {
	actor, err := middleware.CurrentActor(ctx)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	bookingID, err := parseBookingID(ctx)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	// The body is optional
	var req CancellationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.RespondError(ctx, apperrors.Validation("invalid request body: %v", err))
		return
	}

	record, err := c.service.CancelBooking(ctx.Request.Context(), actor, bookingID, req.Reason)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking cancelled successfully", record, nil)
}

// QuoteRefund handles GET /api/v1/bookings/:id/refund-quote
func (c *Controller) QuoteRefund(ctx *gin.Context) {
	actor, err := middleware.CurrentActor(ctx)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	bookingID, err := parseBookingID(ctx)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	quote, err := c.service.QuoteRefund(ctx.Request.Context(), actor, bookingID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Refund quote calculated successfully", quote, nil)
}

// GetCancellation handles GET /api/v1/bookings/:id/cancellation
func (c *Controller) GetCancellation(ctx *gin.Context) {
	actor, err := middleware.CurrentActor(ctx)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	bookingID, err := parseBookingID(ctx)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	record, err := c.service.GetCancellation(ctx.Request.Context(), actor, bookingID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Cancellation retrieved successfully", record, nil)
}

// GetUserCancellations handles GET /api/v1/cancellations
func (c *Controller) GetUserCancellations(ctx *gin.Context) {
	actor, err := middleware.CurrentActor(ctx)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	records, err := c.service.ListMine(ctx.Request.Context(), actor)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Cancellations retrieved successfully", gin.H{
		"cancellations": records,
		"count":         len(records),
	}, nil)
}

func parseBookingID(ctx *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return uuid.Nil, apperrors.Validation("invalid booking id")
	}
	return id, nil
}
