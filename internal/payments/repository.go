package payments

import (
	"context"
	"errors"
	"time"

	"github.com/harshnandal981/Advermo-sub000/internal/shared/apperrors"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/dbtx"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, payment *Payment) error
	GetByOrderRef(ctx context.Context, orderRef string) (*Payment, error)
	GetByChargeRef(ctx context.Context, chargeRef string) (*Payment, error)
	// UpdateIfStatus writes p only while the stored row still has expected status.
	UpdateIfStatus(ctx context.Context, p *Payment, expected Status) error
	FindSuccessful(ctx context.Context, bookingID uuid.UUID) (*Payment, error)
}

// ErrStalePayment is returned when a concurrent webhook moved the payment first.
var ErrStalePayment = apperrors.External(nil, "payment was modified concurrently, retry")

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, payment *Payment) error {
	if err := dbtx.Conn(ctx, r.db).Create(payment).Error; err != nil {
		if dbtx.IsUniqueViolation(err) {
			return apperrors.Conflict("payment order %s already recorded", payment.OrderRef)
		}
		return apperrors.Wrap(err, "failed to create payment")
	}
	return nil
}

func (r *repository) GetByOrderRef(ctx context.Context, orderRef string) (*Payment, error) {
	return r.first(ctx, "order_ref = ?", orderRef)
}

func (r *repository) GetByChargeRef(ctx context.Context, chargeRef string) (*Payment, error) {
	return r.first(ctx, "charge_ref = ?", chargeRef)
}

func (r *repository) FindSuccessful(ctx context.Context, bookingID uuid.UUID) (*Payment, error) {
	return r.first(ctx, "booking_id = ? AND status = ?", bookingID, StatusSuccess)
}

func (r *repository) first(ctx context.Context, query string, args ...interface{}) (*Payment, error) {
	var payment Payment
	err := dbtx.Conn(ctx, r.db).Where(query, args...).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("payment not found")
		}
		return nil, apperrors.Wrap(err, "failed to load payment")
	}
	return &payment, nil
}

func (r *repository) UpdateIfStatus(ctx context.Context, p *Payment, expected Status) error {
	result := dbtx.Conn(ctx, r.db).
		Model(p).
		Where("status = ?", expected).
		Select(mutableColumns).
		Updates(p)
	if result.Error != nil {
		if dbtx.IsUniqueViolation(result.Error) {
			return apperrors.Conflict("charge is already recorded on another payment")
		}
		return apperrors.Wrap(result.Error, "failed to update payment")
	}
	if result.RowsAffected == 0 {
		return ErrStalePayment
	}
	return nil
}

type boundedRepository struct {
	next    Repository
	timeout time.Duration
}

// WithStoreTimeout bounds every call on repo by timeout. A timed out call
// surfaces as a retryable external error.
func WithStoreTimeout(repo Repository, timeout time.Duration) Repository {
	if bounded, ok := repo.(*boundedRepository); ok {
		repo = bounded.next
	}
	return &boundedRepository{next: repo, timeout: timeout}
}

func (r *boundedRepository) Create(ctx context.Context, payment *Payment) error {
	ctx, cancel := dbtx.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.next.Create(ctx, payment)
}

func (r *boundedRepository) GetByOrderRef(ctx context.Context, orderRef string) (*Payment, error) {
	ctx, cancel := dbtx.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.next.GetByOrderRef(ctx, orderRef)
}

func (r *boundedRepository) GetByChargeRef(ctx context.Context, chargeRef string) (*Payment, error) {
	ctx, cancel := dbtx.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.next.GetByChargeRef(ctx, chargeRef)
}

func (r *boundedRepository) UpdateIfStatus(ctx context.Context, p *Payment, expected Status) error {
	ctx, cancel := dbtx.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.next.UpdateIfStatus(ctx, p, expected)
}

func (r *boundedRepository) FindSuccessful(ctx context.Context, bookingID uuid.UUID) (*Payment, error) {
	ctx, cancel := dbtx.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.next.FindSuccessful(ctx, bookingID)
}
