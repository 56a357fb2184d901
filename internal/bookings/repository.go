package bookings

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/harshnandal981/Advermo-sub000/internal/shared/apperrors"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/dbtx"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is the reservation store. Methods called with a context returned
// by WithTx run inside that transaction.
type Repository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	// GetForUpdate must be called inside WithTx; it holds the row lock until commit.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*Booking, error)
	// LockSpace serializes confirm-type transitions of one space until commit.
	LockSpace(ctx context.Context, spaceID string) error
	HasOverlap(ctx context.Context, spaceID string, start, end time.Time, excludeID *uuid.UUID) (bool, error)
	// UpdateIfStatus writes b only if the stored row still has expectedStatus and expectedVersion.
	UpdateIfStatus(ctx context.Context, b *Booking, expectedStatus Status, expectedVersion int) error

	List(ctx context.Context, filter ListFilter) ([]Booking, int64, error)

	// Sweep selectors
	FindStartingBetween(ctx context.Context, from, to time.Time) ([]Booking, error)
	FindEndingBetween(ctx context.Context, from, to time.Time) ([]Booking, error)
	FindUnpaidConfirmedBefore(ctx context.Context, cutoff time.Time) ([]Booking, error)
}

// ErrStaleBooking is returned by UpdateIfStatus when the row changed underneath.
var ErrStaleBooking = apperrors.External(nil, "booking was modified concurrently, retry")

// ListFilter narrows booking listings. Zero values mean "any".
type ListFilter struct {
	BrandID  *uuid.UUID
	OwnerID  *uuid.UUID
	SpaceID  string
	Status   Status
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	Limit    int
}

type RepositoryOptions struct {
	ReadRetries      int
	ReadRetryBackoff time.Duration
}

type repository struct {
	db   *gorm.DB
	opts RepositoryOptions
}

func NewRepository(db *gorm.DB, opts RepositoryOptions) Repository {
	if opts.ReadRetryBackoff <= 0 {
		opts.ReadRetryBackoff = 50 * time.Millisecond
	}
	return &repository{db: db, opts: opts}
}

func (r *repository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return dbtx.WithTx(ctx, r.db, fn)
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return dbtx.Conn(ctx, r.db)
}

func (r *repository) Create(ctx context.Context, booking *Booking) error {
	if err := r.conn(ctx).Create(booking).Error; err != nil {
		return mapError(err, "failed to create booking")
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.withReadRetry(ctx, func() error {
		return r.conn(ctx).Where("id = ?", id).First(&booking).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("booking %s not found", id)
		}
		return nil, mapError(err, "failed to load booking")
	}
	return &booking, nil
}

func (r *repository) GetForUpdate(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("booking %s not found", id)
		}
		return nil, mapError(err, "failed to lock booking")
	}
	return &booking, nil
}

func (r *repository) LockSpace(ctx context.Context, spaceID string) error {
	err := r.conn(ctx).Exec("SELECT pg_advisory_xact_lock(hashtext(?))", spaceID).Error
	if err != nil {
		return mapError(err, "failed to lock space")
	}
	return nil
}

func (r *repository) HasOverlap(ctx context.Context, spaceID string, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	query := r.conn(ctx).
		Model(&Booking{}).
		Where("space_id = ?", spaceID).
		Where("status IN ?", []Status{StatusConfirmed, StatusActive}).
		Where("start_date <= ? AND end_date >= ?", end, start)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, mapError(err, "failed to check conflicts")
	}
	return count > 0, nil
}

func (r *repository) UpdateIfStatus(ctx context.Context, b *Booking, expectedStatus Status, expectedVersion int) error {
	result := r.conn(ctx).
		Model(b).
		Where("status = ? AND version = ?", expectedStatus, expectedVersion).
		Select(mutableColumns).
		Updates(b)
	if result.Error != nil {
		return mapError(result.Error, "failed to update booking")
	}
	if result.RowsAffected == 0 {
		return ErrStaleBooking
	}
	return nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Booking, int64, error) {
	var bookings []Booking
	var totalCount int64

	// Set defaults
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 10
	}

	baseQuery := r.applyFilters(r.conn(ctx).Model(&Booking{}), filter)

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, mapError(err, "failed to count bookings")
	}

	offset := (filter.Page - 1) * filter.Limit
	err := baseQuery.
		Order("created_at DESC").
		Offset(offset).
		Limit(filter.Limit).
		Find(&bookings).Error
	if err != nil {
		return nil, 0, mapError(err, "failed to list bookings")
	}

	return bookings, totalCount, nil
}

func (r *repository) FindStartingBetween(ctx context.Context, from, to time.Time) ([]Booking, error) {
	var bookings []Booking
	err := r.conn(ctx).
		Where("status = ?", StatusConfirmed).
		Where("start_date >= ? AND start_date < ?", from, to).
		Order("start_date ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, mapError(err, "failed to select bookings to activate")
	}
	return bookings, nil
}

func (r *repository) FindEndingBetween(ctx context.Context, from, to time.Time) ([]Booking, error) {
	var bookings []Booking
	err := r.conn(ctx).
		Where("status = ?", StatusActive).
		Where("end_date >= ? AND end_date < ?", from, to).
		Order("end_date ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, mapError(err, "failed to select bookings to complete")
	}
	return bookings, nil
}

func (r *repository) FindUnpaidConfirmedBefore(ctx context.Context, cutoff time.Time) ([]Booking, error) {
	var bookings []Booking
	err := r.conn(ctx).
		Where("status = ? AND payment_status = ?", StatusConfirmed, PaymentPending).
		Where("confirmed_at < ?", cutoff).
		Order("confirmed_at ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, mapError(err, "failed to select unpaid bookings")
	}
	return bookings, nil
}

// applyFilters applies query filters to the GORM query
func (r *repository) applyFilters(query *gorm.DB, filter ListFilter) *gorm.DB {
	if filter.BrandID != nil {
		query = query.Where("brand_id = ?", *filter.BrandID)
	}
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.SpaceID != "" {
		query = query.Where("space_id = ?", filter.SpaceID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	// Date range matches bookings running on any day of the range
	if filter.DateFrom != nil {
		query = query.Where("end_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("start_date <= ?", *filter.DateTo)
	}

	return query
}

// withReadRetry retries idempotent reads on transient failures with exponential backoff.
func (r *repository) withReadRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt <= r.opts.ReadRetries; attempt++ {
		err = fn()
		if err == nil || !isTransient(err) || dbtx.FromContext(ctx) != nil {
			return err
		}
		if attempt == r.opts.ReadRetries {
			break
		}

		backoff := r.opts.ReadRetryBackoff * time.Duration(1<<attempt)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return err
}

func isTransient(err error) bool {
	if errors.Is(err, gorm.ErrRecordNotFound) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

// mapError translates store failures into the shared error taxonomy.
func mapError(err error, msg string) error {
	switch {
	case dbtx.IsExclusionViolation(err):
		return apperrors.Conflict("space is already booked for an overlapping period")
	case dbtx.IsSerializationFailure(err):
		return apperrors.External(err, "%s", msg)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return apperrors.External(err, "%s: store timeout", msg)
	default:
		return apperrors.Wrap(err, "%s", msg)
	}
}

// CalculateTotalPages returns the page count for a listing
func CalculateTotalPages(totalCount int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(totalCount) / float64(limit)))
}
