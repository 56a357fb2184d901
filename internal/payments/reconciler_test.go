package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/harshnandal981/Advermo-sub000/internal/bookings"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleCapturedMarksBookingPaid(t *testing.T) {
	e := newEnv(t)
	b := e.newBooking(t, 10, 17)
	p := e.newOrder(t, b)

	require.NoError(t, e.reconciler.HandleCaptured(context.Background(), p.OrderRef, "chrg_1", "card"))

	stored := e.repo.get(p.ID)
	assert.Equal(t, StatusSuccess, stored.Status)
	require.NotNil(t, stored.ChargeRef)
	assert.Equal(t, "chrg_1", *stored.ChargeRef)
	assert.Equal(t, "card", stored.Method)

	booking := e.booking(t, b.ID)
	assert.Equal(t, bookings.StatusConfirmed, booking.Status)
	assert.True(t, booking.IsPaid)
	assert.True(t, booking.HasPayment(p.ID))
}

func TestHandleCapturedIsIdempotent(t *testing.T) {
	e := newEnv(t)
	b := e.newBooking(t, 10, 17)
	p := e.newOrder(t, b)
	ctx := context.Background()

	require.NoError(t, e.reconciler.HandleCaptured(ctx, p.OrderRef, "chrg_1", "card"))
	paymentWrites, bookingWrites := e.repo.writes, e.bookingRepo.Writes

	for i := 0; i < 3; i++ {
		require.NoError(t, e.reconciler.HandleCaptured(ctx, p.OrderRef, "chrg_1", "card"))
	}

	assert.Equal(t, paymentWrites, e.repo.writes)
	assert.Equal(t, bookingWrites, e.bookingRepo.Writes)
}

func TestHandleCapturedRepairsBookingAfterCrash(t *testing.T) {
	e := newEnv(t)
	b := e.newBooking(t, 10, 17)
	p := e.newOrder(t, b)

	// Payment recorded, booking update lost.
	next := p.clone()
	next.Status = StatusSuccess
	charge := "chrg_1"
	next.ChargeRef = &charge
	require.NoError(t, e.repo.UpdateIfStatus(context.Background(), next, StatusCreated))
	assert.False(t, e.booking(t, b.ID).IsPaid)

	require.NoError(t, e.reconciler.HandleCaptured(context.Background(), p.OrderRef, "chrg_1", "card"))
	assert.True(t, e.booking(t, b.ID).IsPaid)
}

func TestHandleCapturedUnknownOrder(t *testing.T) {
	e := newEnv(t)

	err := e.reconciler.HandleCaptured(context.Background(), "link_missing", "chrg_1", "card")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestHandleFailedNeverDowngrades(t *testing.T) {
	e := newEnv(t)
	b := e.newBooking(t, 10, 17)
	p := e.newOrder(t, b)
	ctx := context.Background()

	require.NoError(t, e.reconciler.HandleCaptured(ctx, p.OrderRef, "chrg_1", "card"))
	require.NoError(t, e.reconciler.HandleFailed(ctx, p.OrderRef, "insufficient_funds"))

	assert.Equal(t, StatusSuccess, e.repo.get(p.ID).Status)
	assert.True(t, e.booking(t, b.ID).IsPaid)
}

func TestHandleFailedRecordsReason(t *testing.T) {
	e := newEnv(t)
	b := e.newBooking(t, 10, 17)
	p := e.newOrder(t, b)

	require.NoError(t, e.reconciler.HandleFailed(context.Background(), p.OrderRef, "card_declined"))

	stored := e.repo.get(p.ID)
	assert.Equal(t, StatusFailed, stored.Status)
	assert.Equal(t, "card_declined", stored.Notes["failure_reason"])
	assert.Equal(t, bookings.StatusPending, e.booking(t, b.ID).Status)
}

func TestCaptureAfterFailureSucceeds(t *testing.T) {
	e := newEnv(t)
	b := e.newBooking(t, 10, 17)
	p := e.newOrder(t, b)
	ctx := context.Background()

	require.NoError(t, e.reconciler.HandleFailed(ctx, p.OrderRef, "timeout"))
	require.NoError(t, e.reconciler.HandleCaptured(ctx, p.OrderRef, "chrg_2", "upi"))

	assert.Equal(t, StatusSuccess, e.repo.get(p.ID).Status)
	assert.True(t, e.booking(t, b.ID).IsPaid)
}

func TestHandleRefund(t *testing.T) {
	e := newEnv(t)
	b := e.newBooking(t, 10, 17)
	p := e.newOrder(t, b)
	ctx := context.Background()
	require.NoError(t, e.reconciler.HandleCaptured(ctx, p.OrderRef, "chrg_1", "card"))

	require.NoError(t, e.reconciler.HandleRefund(ctx, "chrg_1", "rfnd_1", 700))

	stored := e.repo.get(p.ID)
	assert.Equal(t, StatusRefunded, stored.Status)
	assert.Equal(t, "rfnd_1", stored.RefundRef)
	assert.Equal(t, bookings.PaymentRefunded, e.booking(t, b.ID).PaymentStatus)

	writes := e.repo.writes
	require.NoError(t, e.reconciler.HandleRefund(ctx, "chrg_1", "rfnd_1", 700))
	assert.Equal(t, writes, e.repo.writes)

	// A late capture for a refunded payment changes nothing.
	require.NoError(t, e.reconciler.HandleCaptured(ctx, p.OrderRef, "chrg_1", "card"))
	assert.Equal(t, StatusRefunded, e.repo.get(p.ID).Status)
}

func TestHandleRefundForUncapturedPayment(t *testing.T) {
	e := newEnv(t)
	b := e.newBooking(t, 10, 17)
	p := e.newOrder(t, b)
	next := p.clone()
	charge := "chrg_9"
	next.ChargeRef = &charge
	next.Status = StatusFailed
	require.NoError(t, e.repo.UpdateIfStatus(context.Background(), next, StatusCreated))

	err := e.reconciler.HandleRefund(context.Background(), "chrg_9", "rfnd_9", 10)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))
}

func TestStoreCallsCarryDeadline(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	paid := e.newOrder(t, e.newBooking(t, 10, 17))
	failed := e.newOrder(t, e.newBooking(t, 20, 27))

	require.NoError(t, e.reconciler.HandleCaptured(ctx, paid.OrderRef, "chrg_1", "card"))
	require.NoError(t, e.reconciler.HandleFailed(ctx, failed.OrderRef, "card declined"))
	require.NoError(t, e.reconciler.HandleRefund(ctx, "chrg_1", "rfnd_1", paid.Amount))

	assert.Zero(t, e.repo.unbounded)
}

// stalledRepo never answers before the caller's deadline.
type stalledRepo struct {
	Repository
}

func (stalledRepo) GetByOrderRef(ctx context.Context, orderRef string) (*Payment, error) {
	<-ctx.Done()
	return nil, apperrors.Wrap(ctx.Err(), "failed to load payment")
}

func TestStalledStoreIsRetryable(t *testing.T) {
	e := newEnv(t)
	reconciler := NewReconciler(stalledRepo{}, e.bookings, e.clk, 20*time.Millisecond)

	err := reconciler.HandleCaptured(context.Background(), "link_1", "chrg_1", "card")

	require.Error(t, err)
	assert.True(t, apperrors.Retryable(err))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
