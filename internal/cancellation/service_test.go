package cancellation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/harshnandal981/Advermo-sub000/internal/bookings"
	"github.com/harshnandal981/Advermo-sub000/internal/bookings/bookingstest"
	"github.com/harshnandal981/Advermo-sub000/internal/payments"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/apperrors"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/clock"
	"github.com/harshnandal981/Advermo-sub000/internal/spaces"
	"github.com/harshnandal981/Advermo-sub000/internal/users"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	records   map[uuid.UUID]Cancellation
	createErr error
	// calls made without a deadline on the context
	unbounded int
}

func (r *memoryRepo) observe(ctx context.Context) {
	if _, ok := ctx.Deadline(); !ok {
		r.unbounded++
	}
}

func (r *memoryRepo) Create(ctx context.Context, c *Cancellation) error {
	r.observe(ctx)
	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.records[c.BookingID]; ok {
		return apperrors.Conflict("booking %s already has a cancellation record", c.BookingID)
	}
	r.records[c.BookingID] = *c
	return nil
}

func (r *memoryRepo) Update(ctx context.Context, c *Cancellation) error {
	r.observe(ctx)
	stored, ok := r.records[c.BookingID]
	if !ok || stored.ID != c.ID {
		return apperrors.NotFound("cancellation %s not found", c.ID)
	}
	r.records[c.BookingID] = *c
	return nil
}

func (r *memoryRepo) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*Cancellation, error) {
	r.observe(ctx)
	c, ok := r.records[bookingID]
	if !ok {
		return nil, apperrors.NotFound("no cancellation recorded for booking %s", bookingID)
	}
	return &c, nil
}

func (r *memoryRepo) ListByRequester(ctx context.Context, userID uuid.UUID) ([]Cancellation, error) {
	r.observe(ctx)
	var out []Cancellation
	for _, c := range r.records {
		if c.RequestedBy == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakePayments struct {
	byBooking map[uuid.UUID]*payments.Payment
	unbounded int
}

func (f *fakePayments) FindSuccessful(ctx context.Context, bookingID uuid.UUID) (*payments.Payment, error) {
	if _, ok := ctx.Deadline(); !ok {
		f.unbounded++
	}
	p, ok := f.byBooking[bookingID]
	if !ok {
		return nil, apperrors.NotFound("payment not found")
	}
	return p, nil
}

type fakeRefunder struct {
	err    error
	calls  []float64
	before func()
}

func (f *fakeRefunder) Refund(ctx context.Context, chargeRef string, amount float64) (*payments.Refund, error) {
	if f.before != nil {
		f.before()
	}
	if f.err != nil {
		return nil, f.err
	}
	f.calls = append(f.calls, amount)
	return &payments.Refund{Ref: "rfnd_" + chargeRef, Amount: amount}, nil
}

var (
	ownerActor = users.Actor{ID: uuid.New(), Role: users.RoleVenueOwner}
	brandActor = users.Actor{ID: uuid.New(), Role: users.RoleBrand}
)

type env struct {
	bookings bookings.Service
	repo     *memoryRepo
	payments *fakePayments
	refunder *fakeRefunder
	clk      *clock.Mock
	svc      Service
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		repo:     &memoryRepo{records: map[uuid.UUID]Cancellation{}},
		payments: &fakePayments{byBooking: map[uuid.UUID]*payments.Payment{}},
		refunder: &fakeRefunder{},
		clk:      clock.NewMock(time.Date(2025, time.April, 1, 9, 0, 0, 0, time.UTC)),
	}
	catalog := bookingstest.NewStaticCatalog(spaces.SpaceInfo{
		ID:              "spc-1",
		OwnerID:         ownerActor.ID,
		DailyReach:      10000,
		RatePerThousand: 100,
	})
	e.bookings = bookings.NewService(bookingstest.NewMemoryRepository(), catalog, nil, e.clk, bookings.DefaultOptions())
	e.svc = NewService(e.repo, e.bookings, e.payments, e.refunder, e.clk, time.Second)
	return e
}

// booking creates a booking starting on the given April day; paid bookings get a captured payment.
func (e *env) booking(t *testing.T, startDay int, paid bool) *bookings.Booking {
	t.Helper()
	ctx := context.Background()
	b, err := e.bookings.Create(ctx, brandActor, bookings.CreateInput{
		SpaceID:        "spc-1",
		StartDate:      time.Date(2025, time.April, startDay, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2025, time.April, startDay+10, 0, 0, 0, 0, time.UTC),
		Objective:      bookings.ObjectiveEventPromotion,
		TargetAudience: "Concert goers aged 18 to 30",
	})
	require.NoError(t, err)
	if paid {
		paymentID := uuid.New()
		charge := "chrg_" + b.ID.String()[:6]
		e.payments.byBooking[b.ID] = &payments.Payment{ID: paymentID, BookingID: b.ID, ChargeRef: &charge, Status: payments.StatusSuccess}
		b, err = e.bookings.Apply(ctx, b.ID, users.System, bookings.MarkPaid{PaymentID: paymentID, PaidAt: e.clk.Now()})
		require.NoError(t, err)
	}
	return b
}

func TestCancelPaidBookingEarlyRefundsInFull(t *testing.T) {
	e := newEnv(t)
	b := e.booking(t, 15, true)

	record, err := e.svc.CancelBooking(context.Background(), brandActor, b.ID, " plans changed ")
	require.NoError(t, err)

	assert.Equal(t, StatusRefundRequested, record.Status)
	assert.Equal(t, 100, record.RefundPercent)
	assert.Equal(t, b.TotalPrice, record.RefundAmount)
	assert.Equal(t, "plans changed", record.Reason)
	assert.Equal(t, []float64{b.TotalPrice}, e.refunder.calls)
	assert.NotEmpty(t, record.RefundRef)

	cancelled, err := e.bookings.Get(context.Background(), brandActor, b.ID)
	require.NoError(t, err)
	assert.Equal(t, bookings.StatusCancelled, cancelled.Status)
	assert.False(t, cancelled.IsPaid)
}

func TestCancelPaidBookingLateRefundsHalf(t *testing.T) {
	e := newEnv(t)
	b := e.booking(t, 6, true)

	record, err := e.svc.CancelBooking(context.Background(), brandActor, b.ID, "")
	require.NoError(t, err)

	assert.Equal(t, 4, record.DaysBeforeStart)
	assert.Equal(t, 50, record.RefundPercent)
	assert.Equal(t, b.TotalPrice/2, record.RefundAmount)
}

func TestCancelUnpaidBookingNeedsNoRefund(t *testing.T) {
	e := newEnv(t)
	b := e.booking(t, 15, false)

	record, err := e.svc.CancelBooking(context.Background(), brandActor, b.ID, "")
	require.NoError(t, err)

	assert.Equal(t, StatusNoRefund, record.Status)
	assert.Zero(t, record.RefundAmount)
	assert.Empty(t, e.refunder.calls)
}

func TestCancelRecordsRefundFailure(t *testing.T) {
	e := newEnv(t)
	b := e.booking(t, 15, true)
	e.refunder.err = apperrors.External(errors.New("timeout"), "payment gateway refused the refund")

	record, err := e.svc.CancelBooking(context.Background(), brandActor, b.ID, "")
	require.NoError(t, err)

	assert.Equal(t, StatusRefundFailed, record.Status)
	assert.Equal(t, "payment gateway refused the refund", record.FailureReason)
	stored, err := e.repo.GetByBookingID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRefundFailed, stored.Status)
}

func TestCancelStoresRecordBeforeRefund(t *testing.T) {
	e := newEnv(t)
	b := e.booking(t, 15, true)

	var statusAtRefund Status
	e.refunder.before = func() {
		stored, err := e.repo.GetByBookingID(context.Background(), b.ID)
		require.NoError(t, err)
		statusAtRefund = stored.Status
	}

	record, err := e.svc.CancelBooking(context.Background(), brandActor, b.ID, "")
	require.NoError(t, err)

	assert.Equal(t, StatusRefundPending, statusAtRefund)
	stored, err := e.repo.GetByBookingID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRefundRequested, stored.Status)
	assert.Equal(t, record.RefundRef, stored.RefundRef)
}

func TestCancelSurvivesRecordStoreFailure(t *testing.T) {
	e := newEnv(t)
	b := e.booking(t, 15, true)
	e.repo.createErr = apperrors.External(errors.New("connection reset"), "failed to create cancellation")

	record, err := e.svc.CancelBooking(context.Background(), brandActor, b.ID, "")
	require.NoError(t, err, "the booking is already cancelled")

	assert.Equal(t, StatusRefundRequested, record.Status)
	assert.NotEmpty(t, record.RefundRef)
	assert.Equal(t, []float64{b.TotalPrice}, e.refunder.calls)

	cancelled, err := e.bookings.Get(context.Background(), brandActor, b.ID)
	require.NoError(t, err)
	assert.Equal(t, bookings.StatusCancelled, cancelled.Status)
}

func TestCancellationStoreCallsCarryDeadline(t *testing.T) {
	e := newEnv(t)
	b := e.booking(t, 15, true)
	ctx := context.Background()

	_, err := e.svc.CancelBooking(ctx, brandActor, b.ID, "")
	require.NoError(t, err)
	_, err = e.svc.GetCancellation(ctx, brandActor, b.ID)
	require.NoError(t, err)
	_, err = e.svc.ListMine(ctx, brandActor)
	require.NoError(t, err)

	assert.Zero(t, e.repo.unbounded)
	assert.Zero(t, e.payments.unbounded)
}

func TestCancelByStrangerIsForbidden(t *testing.T) {
	e := newEnv(t)
	b := e.booking(t, 15, true)
	stranger := users.Actor{ID: uuid.New(), Role: users.RoleBrand}

	_, err := e.svc.CancelBooking(context.Background(), stranger, b.ID, "")
	assert.True(t, errors.Is(err, apperrors.ErrForbidden))
	assert.Empty(t, e.repo.records)
	assert.Empty(t, e.refunder.calls)
}

func TestCancelTwiceIsInvalid(t *testing.T) {
	e := newEnv(t)
	b := e.booking(t, 15, false)
	_, err := e.svc.CancelBooking(context.Background(), brandActor, b.ID, "")
	require.NoError(t, err)

	_, err = e.svc.CancelBooking(context.Background(), brandActor, b.ID, "")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))
}

func TestQuoteRefund(t *testing.T) {
	e := newEnv(t)
	b := e.booking(t, 3, true)

	quote, err := e.svc.QuoteRefund(context.Background(), brandActor, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, quote.DaysBeforeStart)
	assert.Zero(t, quote.RefundPercent)
	assert.True(t, quote.IsPaid)

	_, err = e.svc.CancelBooking(context.Background(), brandActor, b.ID, "")
	require.NoError(t, err)
	_, err = e.svc.QuoteRefund(context.Background(), brandActor, b.ID)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))
}
