package payments

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/harshnandal981/Advermo-sub000/internal/bookings"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/apperrors"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/clock"
	"github.com/harshnandal981/Advermo-sub000/internal/users"
	"github.com/harshnandal981/Advermo-sub000/pkg/logger"
)

// Webhook event names understood by the reconciler.
const (
	EventPaymentCaptured = "payment.captured"
	EventPaymentFailed   = "payment.failed"
	EventRefundProcessed = "refund.processed"
)

// Reconciler folds gateway notifications into payments and bookings. Every
// handler is safe to run again with the same input: a target state that is
// already reached counts as success.
type Reconciler struct {
	repo     Repository
	bookings bookings.Service
	clock    clock.Clock
	log      *logger.Logger
}

// NewReconciler bounds every payment store call by storeTimeout; booking
// transitions carry the booking service's own timeout.
func NewReconciler(repo Repository, bookingSvc bookings.Service, clk clock.Clock, storeTimeout time.Duration) *Reconciler {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &Reconciler{
		repo:     WithStoreTimeout(repo, storeTimeout),
		bookings: bookingSvc,
		clock:    clk,
		log:      logger.GetDefault(),
	}
}

// HandleCaptured marks the payment successful and the booking paid. When the
// process dies between the two writes, a redelivery repairs the booking.
func (r *Reconciler) HandleCaptured(ctx context.Context, orderRef, chargeRef, method string) error {
	if orderRef == "" || chargeRef == "" {
		return apperrors.Validation("captured event needs order and charge references")
	}

	payment, err := r.repo.GetByOrderRef(ctx, orderRef)
	if err != nil {
		return err
	}

	switch payment.Status {
	case StatusRefunded:
		return nil
	case StatusSuccess:
	default:
		now := r.clock.Now()
		next := payment.clone()
		next.Status = StatusSuccess
		next.ChargeRef = &chargeRef
		next.Method = method
		next.CompletedAt = &now
		next.UpdatedAt = now
		if err := r.repo.UpdateIfStatus(ctx, next, payment.Status); err != nil {
			if !errors.Is(err, ErrStalePayment) {
				return err
			}
			// Lost the race to a concurrent delivery; continue only if it recorded the capture.
			current, reloadErr := r.repo.GetByOrderRef(ctx, orderRef)
			if reloadErr != nil {
				return reloadErr
			}
			if current.Status != StatusSuccess {
				return err
			}
			next = current
		}
		payment = next
	}

	paidAt := r.clock.Now()
	if payment.CompletedAt != nil {
		paidAt = *payment.CompletedAt
	}
	_, err = r.bookings.Apply(ctx, payment.BookingID, users.System, bookings.MarkPaid{
		PaymentID: payment.ID,
		PaidAt:    paidAt,
	})
	return err
}

// HandleFailed records the failure. Successful and refunded payments are never downgraded.
func (r *Reconciler) HandleFailed(ctx context.Context, orderRef, reason string) error {
	payment, err := r.repo.GetByOrderRef(ctx, orderRef)
	if err != nil {
		return err
	}
	if payment.Status != StatusCreated {
		return nil
	}

	now := r.clock.Now()
	next := payment.clone()
	next.Status = StatusFailed
	next.setNote("failure_reason", strings.TrimSpace(reason))
	next.setNote("failed_at", now.Format(time.RFC3339))
	next.UpdatedAt = now

	err = r.repo.UpdateIfStatus(ctx, next, payment.Status)
	if errors.Is(err, ErrStalePayment) {
		return nil
	}
	return err
}

// HandleRefund marks the payment refunded and records it on the booking.
func (r *Reconciler) HandleRefund(ctx context.Context, chargeRef, refundRef string, amount float64) error {
	payment, err := r.repo.GetByChargeRef(ctx, chargeRef)
	if err != nil {
		return err
	}

	switch payment.Status {
	case StatusRefunded:
	case StatusSuccess:
		now := r.clock.Now()
		next := payment.clone()
		next.Status = StatusRefunded
		next.RefundRef = refundRef
		next.RefundedAt = &now
		next.setNote("refund_amount", amount)
		next.setNote("refunded_at", now.Format(time.RFC3339))
		next.UpdatedAt = now
		if err := r.repo.UpdateIfStatus(ctx, next, payment.Status); err != nil && !errors.Is(err, ErrStalePayment) {
			return err
		}
	default:
		return apperrors.Precondition("payment %s was never captured", payment.ID)
	}

	// Idempotent on the booking side, so a redelivery repairs a missed update.
	_, err = r.bookings.Apply(ctx, payment.BookingID, users.System, bookings.MarkRefunded{PaymentID: payment.ID})
	return err
}
