package cancellation

import (
	"context"
	"strings"
	"time"

	"github.com/harshnandal981/Advermo-sub000/internal/bookings"
	"github.com/harshnandal981/Advermo-sub000/internal/payments"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/apperrors"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/clock"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/dbtx"
	"github.com/harshnandal981/Advermo-sub000/internal/users"
	"github.com/harshnandal981/Advermo-sub000/pkg/logger"

	"github.com/google/uuid"
)

// Service interface defines the contract for cancellation business logic
type Service interface {
	CancelBooking(ctx context.Context, actor users.Actor, bookingID uuid.UUID, reason string) (*Cancellation, error)
	QuoteRefund(ctx context.Context, actor users.Actor, bookingID uuid.UUID) (*RefundQuote, error)
	GetCancellation(ctx context.Context, actor users.Actor, bookingID uuid.UUID) (*Cancellation, error)
	ListMine(ctx context.Context, actor users.Actor) ([]Cancellation, error)
}

// PaymentFinder locates the captured payment of a booking.
type PaymentFinder interface {
	FindSuccessful(ctx context.Context, bookingID uuid.UUID) (*payments.Payment, error)
}

// Refunder asks the gateway to return money on a captured charge.
type Refunder interface {
	Refund(ctx context.Context, chargeRef string, amount float64) (*payments.Refund, error)
}

type RefundQuote struct {
	BookingID       uuid.UUID `json:"booking_id"`
	TotalPrice      float64   `json:"total_price"`
	IsPaid          bool      `json:"is_paid"`
	DaysBeforeStart int       `json:"days_before_start"`
	RefundPercent   int       `json:"refund_percent"`
	RefundAmount    float64   `json:"refund_amount"`
}

type service struct {
	repo     Repository
	bookings bookings.Service
	payments PaymentFinder
	refunder Refunder
	clock    clock.Clock
	timeout  time.Duration
	log      *logger.Logger
}

// NewService creates a new cancellation service instance. storeTimeout bounds
// each cancellation and payment lookup.
func NewService(repo Repository, bookingSvc bookings.Service, paymentFinder PaymentFinder, refunder Refunder, clk clock.Clock, storeTimeout time.Duration) Service {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &service{
		repo:     repo,
		bookings: bookingSvc,
		payments: paymentFinder,
		refunder: refunder,
		clock:    clk,
		timeout:  storeTimeout,
		log:      logger.GetDefault(),
	}
}

// CancelBooking moves the booking to cancelled through the state machine, then
// requests the refund owed under the policy. The cancellation is stored before
// the gateway call and updated with its outcome; a failed request is recorded,
// not retried. Once the booking is cancelled, store failures are logged only.
func (s *service) CancelBooking(ctx context.Context, actor users.Actor, bookingID uuid.UUID, reason string) (*Cancellation, error) {
	reason = strings.TrimSpace(reason)

	booking, err := s.bookings.Apply(ctx, bookingID, actor, bookings.Cancel{Reason: reason})
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	record := &Cancellation{
		ID:              uuid.New(),
		BookingID:       booking.ID,
		RequestedBy:     actor.ID,
		Reason:          reason,
		DaysBeforeStart: DaysBeforeStart(booking.StartDate, now),
		Status:          StatusNoRefund,
		RequestedAt:     now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if booking.PaymentStatus == bookings.PaymentPaid {
		record.RefundAmount, record.RefundPercent = RefundAmount(booking.TotalPrice, booking.StartDate, now)
	}
	if record.RefundAmount > 0 {
		record.Status = StatusRefundPending
	}

	persisted := s.save(ctx, record, s.repo.Create)
	if record.RefundAmount > 0 {
		s.requestRefund(ctx, record)
		record.UpdatedAt = s.clock.Now()
		if persisted {
			s.save(ctx, record, s.repo.Update)
		}
	}

	s.log.InfoWithContext(ctx, "Booking cancelled", map[string]interface{}{
		"booking_id":     booking.ID.String(),
		"refund_percent": record.RefundPercent,
		"refund_amount":  record.RefundAmount,
		"status":         string(record.Status),
	})
	return record, nil
}

// save runs one bounded store write and logs a failure.
func (s *service) save(ctx context.Context, record *Cancellation, write func(context.Context, *Cancellation) error) bool {
	ctx, cancel := dbtx.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := write(ctx, record); err != nil {
		s.log.ErrorWithContext(ctx, "Failed to store cancellation", err, map[string]interface{}{
			"booking_id":    record.BookingID.String(),
			"status":        string(record.Status),
			"refund_amount": record.RefundAmount,
			"refund_ref":    record.RefundRef,
		})
		return false
	}
	return true
}

func (s *service) requestRefund(ctx context.Context, record *Cancellation) {
	fail := func(err error) {
		record.Status = StatusRefundFailed
		record.FailureReason = apperrors.Message(err)
		s.log.ErrorWithContext(ctx, "Refund request failed", err, map[string]interface{}{
			"booking_id": record.BookingID.String(),
			"amount":     record.RefundAmount,
		})
	}

	lookupCtx, cancel := dbtx.WithTimeout(ctx, s.timeout)
	payment, err := s.payments.FindSuccessful(lookupCtx, record.BookingID)
	cancel()
	if err != nil {
		fail(err)
		return
	}
	if payment.ChargeRef == nil {
		fail(apperrors.Precondition("payment %s has no charge reference", payment.ID))
		return
	}

	refund, err := s.refunder.Refund(ctx, *payment.ChargeRef, record.RefundAmount)
	if err != nil {
		fail(err)
		return
	}
	record.Status = StatusRefundRequested
	record.RefundRef = refund.Ref
}

func (s *service) QuoteRefund(ctx context.Context, actor users.Actor, bookingID uuid.UUID) (*RefundQuote, error) {
	booking, err := s.bookings.Get(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.Status.CanTransitionTo(bookings.StatusCancelled) {
		return nil, apperrors.InvalidTransition(string(booking.Status), string(bookings.StatusCancelled))
	}

	now := s.clock.Now()
	quote := &RefundQuote{
		BookingID:       booking.ID,
		TotalPrice:      booking.TotalPrice,
		IsPaid:          booking.IsPaid,
		DaysBeforeStart: DaysBeforeStart(booking.StartDate, now),
	}
	if booking.IsPaid {
		quote.RefundAmount, quote.RefundPercent = RefundAmount(booking.TotalPrice, booking.StartDate, now)
	}
	return quote, nil
}

func (s *service) GetCancellation(ctx context.Context, actor users.Actor, bookingID uuid.UUID) (*Cancellation, error) {
	if _, err := s.bookings.Get(ctx, actor, bookingID); err != nil {
		return nil, err
	}

	ctx, cancel := dbtx.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.repo.GetByBookingID(ctx, bookingID)
}

func (s *service) ListMine(ctx context.Context, actor users.Actor) ([]Cancellation, error) {
	ctx, cancel := dbtx.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.repo.ListByRequester(ctx, actor.ID)
}
