package bookings

import (
	"strings"
	"time"

	"github.com/harshnandal981/Advermo-sub000/internal/shared/apperrors"
)

// DateLayout is the wire format of booking dates.
const DateLayout = "2006-01-02"

type CreateBookingRequest struct {
	SpaceID        string   `json:"space_id" binding:"required"`
	StartDate      string   `json:"start_date" binding:"required"`
	EndDate        string   `json:"end_date" binding:"required"`
	Budget         *float64 `json:"budget"`
	Objective      string   `json:"objective" binding:"required"`
	TargetAudience string   `json:"target_audience" binding:"required"`
	Notes          string   `json:"notes"`
}

// ToInput parses the request dates; everything else is validated by the service.
func (r CreateBookingRequest) ToInput() (CreateInput, error) {
	start, err := ParseDate("start_date", r.StartDate)
	if err != nil {
		return CreateInput{}, err
	}
	end, err := ParseDate("end_date", r.EndDate)
	if err != nil {
		return CreateInput{}, err
	}
	return CreateInput{
		SpaceID:        r.SpaceID,
		StartDate:      start,
		EndDate:        end,
		Budget:         r.Budget,
		Objective:      r.Objective,
		TargetAudience: r.TargetAudience,
		Notes:          r.Notes,
	}, nil
}

type RejectBookingRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type ListBookingsQuery struct {
	Status  string `form:"status"`
	SpaceID string `form:"space_id"`
	From    string `form:"from"`
	To      string `form:"to"`
	Page    int    `form:"page"`
	Limit   int    `form:"limit"`
}

func (q ListBookingsQuery) ToFilter() (ListFilter, error) {
	filter := ListFilter{
		SpaceID: strings.TrimSpace(q.SpaceID),
		Status:  Status(strings.ToLower(strings.TrimSpace(q.Status))),
		Page:    q.Page,
		Limit:   q.Limit,
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if q.From != "" {
		from, err := ParseDate("from", q.From)
		if err != nil {
			return ListFilter{}, err
		}
		filter.DateFrom = &from
	}
	if q.To != "" {
		to, err := ParseDate("to", q.To)
		if err != nil {
			return ListFilter{}, err
		}
		filter.DateTo = &to
	}
	return filter, nil
}

type AvailabilityQuery struct {
	Start string `form:"start" binding:"required"`
	End   string `form:"end" binding:"required"`
}

func ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, apperrors.Validation("%s must be a date in YYYY-MM-DD format", field)
	}
	return t, nil
}
