package bookings

import (
	"net/http"

	"github.com/harshnandal981/Advermo-sub000/internal/shared/apperrors"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/middleware"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateBooking handles POST /api/v1/bookings
func (c *Controller) CreateBooking(ctx *gin.Context) {
	actor, err := middleware.CurrentActor(ctx)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, gin.H{
			"code":    apperrors.KindValidation,
			"details": err.Error(),
		})
		return
	}

	input, err := req.ToInput()
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	booking, err := c.service.Create(ctx.Request.Context(), actor, input)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Booking requested successfully", c.toResponse(booking), nil)
}

// GetBooking handles GET /api/v1/bookings/:id
func (c *Controller) GetBooking(ctx *gin.Context) {
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

	booking, err := c.service.Get(ctx.Request.Context(), actor, bookingID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking retrieved successfully", c.toResponse(booking), nil)
}

// ListBookings handles GET /api/v1/bookings
func (c *Controller) ListBookings(ctx *gin.Context) {
	actor, err := middleware.CurrentActor(ctx)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	var query ListBookingsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondError(ctx, apperrors.Validation("invalid query parameters: %v", err))
		return
	}
	filter, err := query.ToFilter()
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 10
	}

	bookings, total, err := c.service.List(ctx.Request.Context(), actor, filter)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	items := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		items = append(items, c.toResponse(&bookings[i]))
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully", BookingListResponse{
		Bookings:   items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: CalculateTotalPages(total, filter.Limit),
	}, nil)
}

// ConfirmBooking handles POST /api/v1/bookings/:id/confirm
func (c *Controller) ConfirmBooking(ctx *gin.Context) {
	c.apply(ctx, Confirm{}, "Booking confirmed successfully")
}

// RejectBooking handles POST /api/v1/bookings/:id/reject
func (c *Controller) RejectBooking(ctx *gin.Context) {
	var req RejectBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondError(ctx, apperrors.Validation("a rejection reason is required"))
		return
	}
	c.apply(ctx, Reject{Reason: req.Reason}, "Booking rejected successfully")
}

// CheckAvailability handles GET /api/v1/spaces/:id/availability
func (c *Controller) CheckAvailability(ctx *gin.Context) {
	var query AvailabilityQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondError(ctx, apperrors.Validation("start and end query parameters are required"))
		return
	}
	start, err := ParseDate("start", query.Start)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	end, err := ParseDate("end", query.End)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	spaceID := ctx.Param("id")
	conflict, err := c.service.HasConflict(ctx.Request.Context(), spaceID, start, end, nil)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Availability retrieved successfully", AvailabilityResponse{
		SpaceID:   spaceID,
		StartDate: start.Format(DateLayout),
		EndDate:   end.Format(DateLayout),
		Available: !conflict,
	}, nil)
}

func (c *Controller) apply(ctx *gin.Context, cmd Command, message string) {
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

	booking, err := c.service.Apply(ctx.Request.Context(), bookingID, actor, cmd)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, message, c.toResponse(booking), nil)
}

func (c *Controller) toResponse(b *Booking) BookingResponse {
	return BookingResponse{Booking: b, PriceBreakdown: c.service.Breakdown(b)}
}

func parseBookingID(ctx *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return uuid.Nil, apperrors.Validation("invalid booking id")
	}
	return id, nil
}
