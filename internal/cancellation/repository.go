package cancellation

import (
	"context"
	"errors"

	"github.com/harshnandal981/Advermo-sub000/internal/shared/apperrors"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/dbtx"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository interface defines the contract for cancellation data operations
type Repository interface {
	Create(ctx context.Context, cancellation *Cancellation) error
	// Update writes the refund outcome of an existing record.
	Update(ctx context.Context, cancellation *Cancellation) error
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*Cancellation, error)
	ListByRequester(ctx context.Context, userID uuid.UUID) ([]Cancellation, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new cancellation repository instance
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, cancellation *Cancellation) error {
	err := dbtx.Conn(ctx, r.db).Create(cancellation).Error
	if err != nil {
		if dbtx.IsUniqueViolation(err) {
			return apperrors.Conflict("booking %s already has a cancellation record", cancellation.BookingID)
		}
		return apperrors.Wrap(err, "failed to create cancellation")
	}
	return nil
}

func (r *repository) Update(ctx context.Context, cancellation *Cancellation) error {
	result := dbtx.Conn(ctx, r.db).
		Model(cancellation).
		Select("status", "refund_ref", "failure_reason", "updated_at").
		Updates(cancellation)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "failed to update cancellation")
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("cancellation %s not found", cancellation.ID)
	}
	return nil
}

func (r *repository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*Cancellation, error) {
	var cancellation Cancellation
	err := dbtx.Conn(ctx, r.db).First(&cancellation, "booking_id = ?", bookingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("no cancellation recorded for booking %s", bookingID)
		}
		return nil, apperrors.Wrap(err, "failed to get cancellation")
	}
	return &cancellation, nil
}

func (r *repository) ListByRequester(ctx context.Context, userID uuid.UUID) ([]Cancellation, error) {
	var cancellations []Cancellation
	err := dbtx.Conn(ctx, r.db).
		Where("requested_by = ?", userID).
		Order("created_at DESC").
		Find(&cancellations).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list cancellations")
	}
	return cancellations, nil
}
