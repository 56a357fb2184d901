// Package bookingstest provides in-memory doubles of the booking engine's
// collaborators for use in tests.
package bookingstest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/harshnandal981/Advermo-sub000/internal/bookings"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/apperrors"
	"github.com/harshnandal981/Advermo-sub000/internal/spaces"

	"github.com/google/uuid"
)

type txKey struct{}

// MemoryRepository is a bookings.Repository kept in a map. Transactions are
// fully serialized and rolled back on error, which is stricter than Postgres
// but preserves every guarantee the engine relies on.
type MemoryRepository struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]bookings.Booking

	// Writes counts successful UpdateIfStatus calls.
	Writes int
	// UpdateErr, when set, is returned by the next UpdateIfStatus call.
	UpdateErr error
}

var _ bookings.Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{bookings: make(map[uuid.UUID]bookings.Booking)}
}

func inTx(ctx context.Context) bool {
	return ctx.Value(txKey{}) != nil
}

// run executes fn under the repository lock unless ctx already holds it.
func (r *MemoryRepository) run(ctx context.Context, fn func() error) error {
	if inTx(ctx) {
		return fn()
	}
	if err := ctx.Err(); err != nil {
		return apperrors.External(err, "store unavailable")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn()
}

func (r *MemoryRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := make(map[uuid.UUID]bookings.Booking, len(r.bookings))
	for id, b := range r.bookings {
		snapshot[id] = b
	}
	writes := r.Writes

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		r.bookings = snapshot
		r.Writes = writes
		return err
	}
	return nil
}

// Put stores b as is, bypassing every check.
func (r *MemoryRepository) Put(b bookings.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[b.ID] = b
}

// Get returns a copy of the stored booking.
func (r *MemoryRepository) Get(id uuid.UUID) (bookings.Booking, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	return b, ok
}

func (r *MemoryRepository) Create(ctx context.Context, booking *bookings.Booking) error {
	return r.run(ctx, func() error {
		if booking.ID == uuid.Nil {
			booking.ID = uuid.New()
		}
		if _, exists := r.bookings[booking.ID]; exists {
			return apperrors.Conflict("booking %s already exists", booking.ID)
		}
		r.bookings[booking.ID] = *booking
		return nil
	})
}

func (r *MemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*bookings.Booking, error) {
	var out *bookings.Booking
	err := r.run(ctx, func() error {
		b, ok := r.bookings[id]
		if !ok {
			return apperrors.NotFound("booking %s not found", id)
		}
		out = &b
		return nil
	})
	return out, err
}

func (r *MemoryRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*bookings.Booking, error) {
	return r.GetByID(ctx, id)
}

func (r *MemoryRepository) LockSpace(ctx context.Context, spaceID string) error {
	return nil
}

func (r *MemoryRepository) HasOverlap(ctx context.Context, spaceID string, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	var found bool
	err := r.run(ctx, func() error {
		found = r.overlapLocked(spaceID, start, end, excludeID)
		return nil
	})
	return found, err
}

func (r *MemoryRepository) overlapLocked(spaceID string, start, end time.Time, excludeID *uuid.UUID) bool {
	for _, b := range r.bookings {
		if b.SpaceID != spaceID || !b.Status.HoldsSpace() {
			continue
		}
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if b.Overlaps(start, end) {
			return true
		}
	}
	return false
}

func (r *MemoryRepository) UpdateIfStatus(ctx context.Context, b *bookings.Booking, expectedStatus bookings.Status, expectedVersion int) error {
	return r.run(ctx, func() error {
		if r.UpdateErr != nil {
			err := r.UpdateErr
			r.UpdateErr = nil
			return err
		}
		stored, ok := r.bookings[b.ID]
		if !ok || stored.Status != expectedStatus || stored.Version != expectedVersion {
			return bookings.ErrStaleBooking
		}
		// Same backstop as the exclusion constraint in Postgres.
		if b.Status.HoldsSpace() && r.overlapLocked(b.SpaceID, b.StartDate, b.EndDate, &b.ID) {
			return apperrors.Conflict("space is already booked for an overlapping period")
		}
		r.bookings[b.ID] = *b
		r.Writes++
		return nil
	})
}

func (r *MemoryRepository) List(ctx context.Context, filter bookings.ListFilter) ([]bookings.Booking, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 10
	}

	var matched []bookings.Booking
	err := r.run(ctx, func() error {
		matched = r.selectLocked(func(b bookings.Booking) bool {
			switch {
			case filter.BrandID != nil && b.BrandID != *filter.BrandID:
				return false
			case filter.OwnerID != nil && b.OwnerID != *filter.OwnerID:
				return false
			case filter.SpaceID != "" && b.SpaceID != filter.SpaceID:
				return false
			case filter.Status != "" && b.Status != filter.Status:
				return false
			case filter.DateFrom != nil && b.EndDate.Before(*filter.DateFrom):
				return false
			case filter.DateTo != nil && b.StartDate.After(*filter.DateTo):
				return false
			}
			return true
		})
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	total := int64(len(matched))
	offset := (filter.Page - 1) * filter.Limit
	if offset >= len(matched) {
		return []bookings.Booking{}, total, nil
	}
	end := offset + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *MemoryRepository) FindStartingBetween(ctx context.Context, from, to time.Time) ([]bookings.Booking, error) {
	return r.find(ctx, func(b bookings.Booking) bool {
		return b.Status == bookings.StatusConfirmed && !b.StartDate.Before(from) && b.StartDate.Before(to)
	})
}

func (r *MemoryRepository) FindEndingBetween(ctx context.Context, from, to time.Time) ([]bookings.Booking, error) {
	return r.find(ctx, func(b bookings.Booking) bool {
		return b.Status == bookings.StatusActive && !b.EndDate.Before(from) && b.EndDate.Before(to)
	})
}

func (r *MemoryRepository) FindUnpaidConfirmedBefore(ctx context.Context, cutoff time.Time) ([]bookings.Booking, error) {
	return r.find(ctx, func(b bookings.Booking) bool {
		return b.Status == bookings.StatusConfirmed &&
			b.PaymentStatus == bookings.PaymentPending &&
			b.ConfirmedAt != nil && b.ConfirmedAt.Before(cutoff)
	})
}

func (r *MemoryRepository) find(ctx context.Context, match func(bookings.Booking) bool) ([]bookings.Booking, error) {
	var out []bookings.Booking
	err := r.run(ctx, func() error {
		out = r.selectLocked(match)
		return nil
	})
	return out, err
}

func (r *MemoryRepository) selectLocked(match func(bookings.Booking) bool) []bookings.Booking {
	out := make([]bookings.Booking, 0)
	for _, b := range r.bookings {
		if match(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out
}

// StaticCatalog serves a fixed set of spaces.
type StaticCatalog struct {
	Spaces map[string]spaces.SpaceInfo
}

func NewStaticCatalog(infos ...spaces.SpaceInfo) *StaticCatalog {
	c := &StaticCatalog{Spaces: make(map[string]spaces.SpaceInfo, len(infos))}
	for _, info := range infos {
		c.Spaces[info.ID] = info
	}
	return c
}

func (c *StaticCatalog) GetSpace(ctx context.Context, id string) (*spaces.SpaceInfo, error) {
	info, ok := c.Spaces[id]
	if !ok {
		return nil, apperrors.NotFound("space %s not found", id)
	}
	return &info, nil
}

// RecordingPublisher keeps every published event in order.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []bookings.BookingTransitioned
	Err    error
}

func (p *RecordingPublisher) PublishTransition(ctx context.Context, event bookings.BookingTransitioned) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.Err
}

func (p *RecordingPublisher) Events() []bookings.BookingTransitioned {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]bookings.BookingTransitioned, len(p.events))
	copy(out, p.events)
	return out
}

// Transitions returns "from->to" pairs for the given booking.
func (p *RecordingPublisher) Transitions(id uuid.UUID) []string {
	var out []string
	for _, e := range p.Events() {
		if e.BookingID == id {
			out = append(out, string(e.From)+"->"+string(e.To))
		}
	}
	return out
}
