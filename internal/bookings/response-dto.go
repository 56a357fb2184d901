package bookings

type BookingResponse struct {
	*Booking
	PriceBreakdown Breakdown `json:"price_breakdown"`
}

type BookingListResponse struct {
	Bookings   []BookingResponse `json:"bookings"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

type AvailabilityResponse struct {
	SpaceID   string `json:"space_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Available bool   `json:"available"`
}
