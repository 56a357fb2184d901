package payments

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/harshnandal981/Advermo-sub000/internal/bookings"
	"github.com/harshnandal981/Advermo-sub000/internal/bookings/bookingstest"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/apperrors"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/clock"
	"github.com/harshnandal981/Advermo-sub000/internal/spaces"
	"github.com/harshnandal981/Advermo-sub000/internal/users"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	mu       sync.Mutex
	payments map[uuid.UUID]*Payment
	writes   int
	// calls made without a deadline on the context
	unbounded int
}

func (r *memoryRepo) observe(ctx context.Context) {
	if _, ok := ctx.Deadline(); !ok {
		r.unbounded++
	}
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{payments: make(map[uuid.UUID]*Payment)}
}

func (r *memoryRepo) Create(ctx context.Context, p *Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observe(ctx)
	for _, existing := range r.payments {
		if existing.OrderRef == p.OrderRef {
			return apperrors.Conflict("payment order %s already recorded", p.OrderRef)
		}
	}
	r.payments[p.ID] = p.clone()
	return nil
}

func (r *memoryRepo) find(ctx context.Context, match func(*Payment) bool) (*Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observe(ctx)
	for _, p := range r.payments {
		if match(p) {
			return p.clone(), nil
		}
	}
	return nil, apperrors.NotFound("payment not found")
}

func (r *memoryRepo) GetByOrderRef(ctx context.Context, orderRef string) (*Payment, error) {
	return r.find(ctx, func(p *Payment) bool { return p.OrderRef == orderRef })
}

func (r *memoryRepo) GetByChargeRef(ctx context.Context, chargeRef string) (*Payment, error) {
	return r.find(ctx, func(p *Payment) bool { return p.ChargeRef != nil && *p.ChargeRef == chargeRef })
}

func (r *memoryRepo) FindSuccessful(ctx context.Context, bookingID uuid.UUID) (*Payment, error) {
	return r.find(ctx, func(p *Payment) bool { return p.BookingID == bookingID && p.Status == StatusSuccess })
}

func (r *memoryRepo) UpdateIfStatus(ctx context.Context, p *Payment, expected Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observe(ctx)
	stored, ok := r.payments[p.ID]
	if !ok || stored.Status != expected {
		return ErrStalePayment
	}
	r.payments[p.ID] = p.clone()
	r.writes++
	return nil
}

func (r *memoryRepo) get(id uuid.UUID) *Payment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.payments[id].clone()
}

type fakeGateway struct {
	secret    []byte
	orderErr  error
	refundErr error
	orders    int
	refunds   []string
}

func (g *fakeGateway) CreateOrder(ctx context.Context, bookingID uuid.UUID, amount float64, currency string) (*Order, error) {
	if g.orderErr != nil {
		return nil, g.orderErr
	}
	g.orders++
	return &Order{Ref: "link_" + bookingID.String()[:8], PaymentURL: "https://pay.test/l", Amount: amount, Currency: currency}, nil
}

func (g *fakeGateway) VerifyWebhookSignature(body []byte, signature string) bool {
	return VerifySignature(g.secret, body, signature)
}

func (g *fakeGateway) Refund(ctx context.Context, chargeRef string, amount float64) (*Refund, error) {
	if g.refundErr != nil {
		return nil, g.refundErr
	}
	g.refunds = append(g.refunds, chargeRef)
	return &Refund{Ref: "rfnd_" + chargeRef, Amount: amount}, nil
}

var (
	testOwner = users.Actor{ID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), Role: users.RoleVenueOwner}
	testBrand = users.Actor{ID: uuid.MustParse("22222222-2222-2222-2222-222222222222"), Role: users.RoleBrand, Email: "brand@acme.test"}
)

type env struct {
	bookingRepo *bookingstest.MemoryRepository
	bookings    bookings.Service
	repo        *memoryRepo
	gateway     *fakeGateway
	clk         *clock.Mock
	reconciler  *Reconciler
	service     Service
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		bookingRepo: bookingstest.NewMemoryRepository(),
		repo:        newMemoryRepo(),
		gateway:     &fakeGateway{secret: []byte("whsec")},
		clk:         clock.NewMock(time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)),
	}
	catalog := bookingstest.NewStaticCatalog(spaces.SpaceInfo{
		ID:              "spc-1",
		Name:            "Food court banner",
		OwnerID:         testOwner.ID,
		DailyReach:      2000,
		RatePerThousand: 50,
	})
	e.bookings = bookings.NewService(e.bookingRepo, catalog, &bookingstest.RecordingPublisher{}, e.clk, bookings.DefaultOptions())
	e.reconciler = NewReconciler(e.repo, e.bookings, e.clk, time.Second)
	e.service = NewService(e.repo, e.bookings, e.gateway, "INR", e.clk, time.Second)
	return e
}

func (e *env) newBooking(t *testing.T, startDay, endDay int) *bookings.Booking {
	t.Helper()
	b, err := e.bookings.Create(context.Background(), testBrand, bookings.CreateInput{
		SpaceID:        "spc-1",
		StartDate:      time.Date(2025, time.March, startDay, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2025, time.March, endDay, 0, 0, 0, 0, time.UTC),
		Objective:      bookings.ObjectiveSalesPromotion,
		TargetAudience: "Families shopping on weekends",
	})
	require.NoError(t, err)
	return b
}

// newOrder raises an order for b and returns the stored payment.
func (e *env) newOrder(t *testing.T, b *bookings.Booking) *Payment {
	t.Helper()
	order, err := e.service.CreateOrder(context.Background(), testBrand, b.ID)
	require.NoError(t, err)
	return e.repo.get(order.PaymentID)
}

func (e *env) booking(t *testing.T, id uuid.UUID) bookings.Booking {
	t.Helper()
	b, ok := e.bookingRepo.Get(id)
	require.True(t, ok)
	return b
}

var errGatewayDown = errors.New("gateway down")
