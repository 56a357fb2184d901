package bookings

import (
	"context"
	"time"

	"github.com/harshnandal981/Advermo-sub000/internal/shared/apperrors"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/clock"

	"github.com/google/uuid"
)

// ConflictChecker answers whether a closed date range collides with a booking
// that already holds the space (confirmed or active).
type ConflictChecker struct {
	repo Repository
}

func NewConflictChecker(repo Repository) *ConflictChecker {
	return &ConflictChecker{repo: repo}
}

// HasConflict is exact only while the caller holds the space lock; outside a
// transition it is an availability hint.
func (c *ConflictChecker) HasConflict(ctx context.Context, spaceID string, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	if spaceID == "" {
		return false, apperrors.Validation("space id is required")
	}
	start, end = clock.StartOfDay(start), clock.StartOfDay(end)
	if end.Before(start) {
		return false, apperrors.Validation("end date must not be before start date")
	}
	return c.repo.HasOverlap(ctx, spaceID, start, end, excludeID)
}
