package payments

import (
	"context"
	"time"

	"github.com/harshnandal981/Advermo-sub000/internal/bookings"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/apperrors"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/clock"
	"github.com/harshnandal981/Advermo-sub000/internal/users"
	"github.com/harshnandal981/Advermo-sub000/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Service raises gateway orders for bookings.
type Service interface {
	CreateOrder(ctx context.Context, actor users.Actor, bookingID uuid.UUID) (*OrderResponse, error)
}

type service struct {
	repo     Repository
	bookings bookings.Service
	gateway  Gateway
	currency string
	clock    clock.Clock
	log      *logger.Logger
}

func NewService(repo Repository, bookingSvc bookings.Service, gateway Gateway, currency string, clk clock.Clock, storeTimeout time.Duration) Service {
	if clk == nil {
		clk = clock.NewSystem()
	}
	if currency == "" {
		currency = "INR"
	}
	return &service{
		repo:     WithStoreTimeout(repo, storeTimeout),
		bookings: bookingSvc,
		gateway:  gateway,
		currency: currency,
		clock:    clk,
		log:      logger.GetDefault(),
	}
}

func (s *service) CreateOrder(ctx context.Context, actor users.Actor, bookingID uuid.UUID) (*OrderResponse, error) {
	booking, err := s.bookings.Get(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && actor.ID != booking.BrandID {
		return nil, apperrors.Forbidden("only the brand that made this booking can pay for it")
	}
	if booking.Status != bookings.StatusPending && booking.Status != bookings.StatusConfirmed {
		return nil, apperrors.Precondition("booking %s is %s and can no longer be paid", booking.ID, booking.Status)
	}
	if booking.IsPaid || booking.PaymentStatus != bookings.PaymentPending {
		return nil, apperrors.Conflict("booking %s is already paid", booking.ID)
	}
	if booking.NeedsReconciliation {
		return nil, apperrors.Conflict("booking %s is awaiting manual reconciliation", booking.ID)
	}

	order, err := s.gateway.CreateOrder(ctx, booking.ID, booking.TotalPrice, s.currency)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create payment order")
	}

	now := s.clock.Now()
	payment := &Payment{
		ID:        uuid.New(),
		BookingID: booking.ID,
		OrderRef:  order.Ref,
		Amount:    booking.TotalPrice,
		Currency:  s.currency,
		Status:    StatusCreated,
		Notes:     datatypes.JSONMap{"created_by": actor.ID.String()},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if order.PaymentURL != "" {
		payment.setNote("payment_url", order.PaymentURL)
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, err
	}

	s.log.InfoWithContext(ctx, "Payment order created", map[string]interface{}{
		"booking_id": booking.ID.String(),
		"payment_id": payment.ID.String(),
		"order_ref":  order.Ref,
		"amount":     payment.Amount,
	})

	return &OrderResponse{
		PaymentID:  payment.ID,
		BookingID:  booking.ID,
		OrderRef:   order.Ref,
		PaymentURL: order.PaymentURL,
		Amount:     payment.Amount,
		Currency:   payment.Currency,
		CreatedAt:  now.Format(time.RFC3339),
	}, nil
}

type OrderResponse struct {
	PaymentID  uuid.UUID `json:"payment_id"`
	BookingID  uuid.UUID `json:"booking_id"`
	OrderRef   string    `json:"order_ref"`
	PaymentURL string    `json:"payment_url,omitempty"`
	Amount     float64   `json:"amount"`
	Currency   string    `json:"currency"`
	CreatedAt  string    `json:"created_at"`
}
