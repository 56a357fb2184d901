package bookings

import (
	"context"
	"time"

	"github.com/harshnandal981/Advermo-sub000/internal/users"
	"github.com/harshnandal981/Advermo-sub000/pkg/logger"

	"github.com/google/uuid"
)

// BookingTransitioned is emitted after a status change has been committed.
// From is empty for a newly created booking.
type BookingTransitioned struct {
	BookingID  uuid.UUID  `json:"booking_id"`
	SpaceID    string     `json:"space_id"`
	BrandID    uuid.UUID  `json:"brand_id"`
	BrandEmail string     `json:"brand_email"`
	OwnerID    uuid.UUID  `json:"owner_id"`
	OwnerEmail string     `json:"owner_email"`
	From       Status     `json:"from_status,omitempty"`
	To         Status     `json:"to_status"`
	ActorID    uuid.UUID  `json:"actor_id"`
	ActorRole  users.Role `json:"actor_role"`
	Reason     string     `json:"reason,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// EventPublisher hands transition events to the notification dispatcher.
type EventPublisher interface {
	PublishTransition(ctx context.Context, event BookingTransitioned) error
}

type logPublisher struct {
	log *logger.Logger
}

// NewLogPublisher is used when no broker is configured.
func NewLogPublisher(l *logger.Logger) EventPublisher {
	if l == nil {
		l = logger.GetDefault()
	}
	return &logPublisher{log: l}
}

func (p *logPublisher) PublishTransition(ctx context.Context, event BookingTransitioned) error {
	p.log.LogBookingTransition(ctx, event.BookingID.String(), string(event.From), string(event.To), event.ActorID.String())
	return nil
}
