package bookings

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/harshnandal981/Advermo-sub000/internal/shared/apperrors"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/clock"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/config"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/dbtx"
	"github.com/harshnandal981/Advermo-sub000/internal/spaces"
	"github.com/harshnandal981/Advermo-sub000/internal/users"
	"github.com/harshnandal981/Advermo-sub000/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const defaultExpiryReason = "payment not received within the payment deadline"

// Service is the booking lifecycle state machine. Every status change of a
// booking goes through Apply.
type Service interface {
	Create(ctx context.Context, actor users.Actor, in CreateInput) (*Booking, error)
	Get(ctx context.Context, actor users.Actor, id uuid.UUID) (*Booking, error)
	GetInternal(ctx context.Context, id uuid.UUID) (*Booking, error)
	List(ctx context.Context, actor users.Actor, filter ListFilter) ([]Booking, int64, error)
	Apply(ctx context.Context, id uuid.UUID, actor users.Actor, cmd Command) (*Booking, error)
	HasConflict(ctx context.Context, spaceID string, start, end time.Time, excludeID *uuid.UUID) (bool, error)
	Breakdown(b *Booking) Breakdown
}

// Options are the tunable lifecycle rules.
type Options struct {
	MinDurationDays   int
	MaxDurationDays   int
	PaymentDeadline   time.Duration
	StoreTimeout      time.Duration
	CommissionPercent float64
	GSTPercent        float64
}

func OptionsFromConfig(cfg config.BookingConfig) Options {
	return Options{
		MinDurationDays:   cfg.MinDurationDays,
		MaxDurationDays:   cfg.MaxDurationDays,
		PaymentDeadline:   cfg.PaymentDeadline,
		StoreTimeout:      cfg.StoreTimeout,
		CommissionPercent: cfg.CommissionPercent,
		GSTPercent:        cfg.GSTPercent,
	}
}

func DefaultOptions() Options {
	return Options{
		MinDurationDays:   7,
		MaxDurationDays:   365,
		PaymentDeadline:   24 * time.Hour,
		StoreTimeout:      5 * time.Second,
		CommissionPercent: 10,
		GSTPercent:        18,
	}
}

// Catalog is the read-only space lookup the engine prices against.
type Catalog interface {
	GetSpace(ctx context.Context, id string) (*spaces.SpaceInfo, error)
}

type service struct {
	repo      Repository
	conflicts *ConflictChecker
	catalog   Catalog
	publisher EventPublisher
	clock     clock.Clock
	validate  *validator.Validate
	opts      Options
	log       *logger.Logger
}

// NewService creates a new booking service instance
func NewService(repo Repository, catalog Catalog, publisher EventPublisher, clk clock.Clock, opts Options) Service {
	if clk == nil {
		clk = clock.NewSystem()
	}
	if publisher == nil {
		publisher = NewLogPublisher(nil)
	}
	return &service{
		repo:      repo,
		conflicts: NewConflictChecker(repo),
		catalog:   catalog,
		publisher: publisher,
		clock:     clk,
		validate:  newValidator(),
		opts:      opts,
		log:       logger.GetDefault(),
	}
}

// Create validates the request, prices it from the catalog and stores a pending booking.
// No overlap check happens here; overlapping requests may coexist until one is confirmed.
func (s *service) Create(ctx context.Context, actor users.Actor, in CreateInput) (*Booking, error) {
	if actor.Role != users.RoleBrand {
		return nil, apperrors.Forbidden("only brands can request bookings")
	}

	in.SpaceID = strings.TrimSpace(in.SpaceID)
	in.Objective = strings.TrimSpace(in.Objective)
	in.TargetAudience = strings.TrimSpace(in.TargetAudience)
	in.Notes = strings.TrimSpace(in.Notes)
	if err := validateInput(s.validate, in); err != nil {
		return nil, err
	}

	start, end := clock.StartOfDay(in.StartDate), clock.StartOfDay(in.EndDate)
	duration, err := s.durationDays(start, end)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if start.Before(clock.StartOfDay(now)) {
		return nil, apperrors.Validation("start date cannot be in the past")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	space, err := s.catalog.GetSpace(ctx, in.SpaceID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to look up space %s", in.SpaceID)
	}

	total, err := Price(space.DailyReach, duration, space.RatePerThousand)
	if err != nil {
		return nil, err
	}

	booking := &Booking{
		ID:             uuid.New(),
		SpaceID:        space.ID,
		SpaceName:      space.Name,
		BrandID:        actor.ID,
		BrandName:      actor.Name,
		BrandEmail:     actor.Email,
		OwnerID:        space.OwnerID,
		OwnerEmail:     space.OwnerEmail,
		StartDate:      start,
		EndDate:        end,
		Duration:       duration,
		TotalPrice:     total,
		Budget:         in.Budget,
		Objective:      in.Objective,
		TargetAudience: in.TargetAudience,
		Notes:          in.Notes,
		Status:         StatusPending,
		PaymentStatus:  PaymentPending,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.log.LogBookingCreated(ctx, booking.ID.String(), booking.SpaceID, actor.ID.String())
	s.publish(ctx, booking, "", actor, "")
	return booking, nil
}

// durationDays counts whole days between the two dates and enforces the allowed range.
func (s *service) durationDays(start, end time.Time) (int, error) {
	if !end.After(start) {
		return 0, apperrors.Validation("end date must be after start date")
	}
	days := int(math.Ceil(end.Sub(start).Hours() / 24))
	if days < s.opts.MinDurationDays {
		return 0, apperrors.Validation("booking must last at least %d days", s.opts.MinDurationDays)
	}
	if days > s.opts.MaxDurationDays {
		return 0, apperrors.Validation("booking cannot last more than %d days", s.opts.MaxDurationDays)
	}
	return days, nil
}

func (s *service) Get(ctx context.Context, actor users.Actor, id uuid.UUID) (*Booking, error) {
	booking, err := s.GetInternal(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, booking) {
		return nil, apperrors.Forbidden("access denied")
	}
	return booking, nil
}

func (s *service) GetInternal(ctx context.Context, id uuid.UUID) (*Booking, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, actor users.Actor, filter ListFilter) ([]Booking, int64, error) {
	switch actor.Role {
	case users.RoleBrand:
		filter.BrandID = &actor.ID
		filter.OwnerID = nil
	case users.RoleVenueOwner:
		filter.OwnerID = &actor.ID
		filter.BrandID = nil
	case users.RoleAdmin, users.RoleSystem:
	default:
		return nil, 0, apperrors.Forbidden("access denied")
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, 0, apperrors.Validation("unknown booking status %q", filter.Status)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.repo.List(ctx, filter)
}

func (s *service) HasConflict(ctx context.Context, spaceID string, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.conflicts.HasConflict(ctx, spaceID, start, end, excludeID)
}

func (s *service) Breakdown(b *Booking) Breakdown {
	return NewBreakdown(b.TotalPrice, s.opts.CommissionPercent, s.opts.GSTPercent)
}

// Apply runs cmd against the booking in a single store transaction: optional
// space lock, row lock, precondition checks, then a version-checked write.
// A command whose effect is already in place succeeds without writing.
func (s *service) Apply(ctx context.Context, id uuid.UUID, actor users.Actor, cmd Command) (*Booking, error) {
	if cmd == nil {
		return nil, apperrors.Validation("command is required")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		before  *Booking
		updated *Booking
	)
	err := s.repo.WithTx(ctx, func(ctx context.Context) error {
		if locksSpace(cmd) {
			snapshot, err := s.repo.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if err := s.repo.LockSpace(ctx, snapshot.SpaceID); err != nil {
				return err
			}
		}

		current, err := s.repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		next := *current
		changed, err := s.decide(ctx, &next, actor, cmd)
		if err != nil {
			return err
		}
		before = current
		if !changed {
			updated = current
			return nil
		}

		next.Version = current.Version + 1
		next.UpdatedAt = s.clock.Now()
		if err := s.repo.UpdateIfStatus(ctx, &next, current.Status, current.Version); err != nil {
			return err
		}
		updated = &next
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to %s booking %s", cmd.Name(), id)
	}

	if updated.NeedsReconciliation && updated.ReconciliationNote != before.ReconciliationNote {
		paymentID := ""
		if updated.PaymentID != nil {
			paymentID = updated.PaymentID.String()
		}
		s.log.LogReconciliationFlagged(ctx, updated.ID.String(), paymentID, updated.ReconciliationNote)
	}
	if updated.Status != before.Status {
		s.publish(ctx, updated, before.Status, actor, reasonOf(cmd, updated))
	}
	return updated, nil
}

// decide mutates b according to cmd. It reports false when nothing needs to be written.
func (s *service) decide(ctx context.Context, b *Booking, actor users.Actor, cmd Command) (bool, error) {
	now := s.clock.Now()
	today := clock.StartOfDay(now)

	switch c := cmd.(type) {
	case Confirm:
		if !isSpaceOwner(actor, b) {
			return false, apperrors.Forbidden("only the space owner can confirm this booking")
		}
		if err := checkTransition(b.Status, StatusConfirmed); err != nil {
			return false, err
		}
		if err := s.ensureNoConflict(ctx, b); err != nil {
			return false, err
		}
		b.Status = StatusConfirmed
		b.ConfirmedAt = &now
		return true, nil

	case Reject:
		if !isSpaceOwner(actor, b) {
			return false, apperrors.Forbidden("only the space owner can reject this booking")
		}
		if err := checkTransition(b.Status, StatusRejected); err != nil {
			return false, err
		}
		reason := strings.TrimSpace(c.Reason)
		if reason == "" {
			return false, apperrors.Validation("a rejection reason is required")
		}
		b.Status = StatusRejected
		b.RejectionReason = reason
		return true, nil

	case Cancel:
		if !isBookingBrand(actor, b) {
			return false, apperrors.Forbidden("only the brand that made this booking can cancel it")
		}
		if err := checkTransition(b.Status, StatusCancelled); err != nil {
			return false, err
		}
		b.Status = StatusCancelled
		b.CancelledAt = &now
		b.CancellationReason = strings.TrimSpace(c.Reason)
		// A cancelled booking no longer counts as paid; payment_status keeps the money trail.
		b.IsPaid = false
		return true, nil

	case Activate:
		if err := requireSystem(actor, cmd); err != nil {
			return false, err
		}
		if err := checkTransition(b.Status, StatusActive); err != nil {
			return false, err
		}
		if b.StartDate.After(today) {
			return false, apperrors.Precondition("booking %s starts on %s", b.ID, b.StartDate.Format(time.DateOnly))
		}
		b.Status = StatusActive
		return true, nil

	case Complete:
		if err := requireSystem(actor, cmd); err != nil {
			return false, err
		}
		if err := checkTransition(b.Status, StatusCompleted); err != nil {
			return false, err
		}
		if !b.EndDate.Before(today) {
			return false, apperrors.Precondition("booking %s runs until %s", b.ID, b.EndDate.Format(time.DateOnly))
		}
		b.Status = StatusCompleted
		return true, nil

	case ExpireUnpaid:
		if err := requireSystem(actor, cmd); err != nil {
			return false, err
		}
		if b.Status != StatusConfirmed {
			return false, apperrors.InvalidTransition(string(b.Status), string(StatusCancelled))
		}
		if b.IsPaid || b.PaymentStatus != PaymentPending {
			return false, apperrors.Precondition("booking %s is already paid", b.ID)
		}
		if b.ConfirmedAt == nil || now.Before(b.ConfirmedAt.Add(s.opts.PaymentDeadline)) {
			return false, apperrors.Precondition("payment deadline of booking %s has not passed", b.ID)
		}
		reason := strings.TrimSpace(c.Reason)
		if reason == "" {
			reason = defaultExpiryReason
		}
		b.Status = StatusCancelled
		b.CancelledAt = &now
		b.CancellationReason = reason
		b.appendNote(fmt.Sprintf("[%s] auto-cancelled: %s", now.Format(time.RFC3339), reason))
		return true, nil

	case MarkPaid:
		if err := requireSystem(actor, cmd); err != nil {
			return false, err
		}
		return s.applyPayment(ctx, b, c, now)

	case MarkRefunded:
		if err := requireSystem(actor, cmd); err != nil {
			return false, err
		}
		if b.PaymentStatus == PaymentRefunded {
			return false, nil
		}
		if !b.HasPayment(c.PaymentID) {
			note := fmt.Sprintf("refund received for payment %s which is not linked to this booking", c.PaymentID)
			if b.NeedsReconciliation && b.ReconciliationNote == note {
				return false, nil
			}
			flag(b, note)
			return true, nil
		}
		b.PaymentStatus = PaymentRefunded
		return true, nil
	}

	return false, apperrors.Validation("unsupported command %s", cmd.Name())
}

// applyPayment folds a captured payment into the booking. A pending booking is
// auto-confirmed unless another booking took the space meanwhile, in which case
// it is flagged for manual reconciliation and left unpaid.
func (s *service) applyPayment(ctx context.Context, b *Booking, c MarkPaid, now time.Time) (bool, error) {
	if b.HasPayment(c.PaymentID) && (b.IsPaid || b.NeedsReconciliation) {
		return false, nil
	}
	if b.IsPaid {
		flag(b, fmt.Sprintf("second captured payment %s for a booking that is already paid", c.PaymentID))
		return true, nil
	}

	paidAt := c.PaidAt
	if paidAt.IsZero() {
		paidAt = now
	}

	switch b.Status {
	case StatusPending:
		conflict, err := s.conflicts.HasConflict(ctx, b.SpaceID, b.StartDate, b.EndDate, &b.ID)
		if err != nil {
			return false, err
		}
		if conflict {
			b.PaymentID = &c.PaymentID
			flag(b, "payment captured but the space is already booked for these dates")
			return true, nil
		}
		b.Status = StatusConfirmed
		b.ConfirmedAt = &now
		markPaid(b, c.PaymentID, paidAt)

	case StatusConfirmed, StatusActive, StatusCompleted:
		markPaid(b, c.PaymentID, paidAt)

	default:
		b.PaymentID = &c.PaymentID
		flag(b, fmt.Sprintf("payment captured after the booking was %s", b.Status))
	}
	return true, nil
}

func (s *service) ensureNoConflict(ctx context.Context, b *Booking) error {
	conflict, err := s.conflicts.HasConflict(ctx, b.SpaceID, b.StartDate, b.EndDate, &b.ID)
	if err != nil {
		return err
	}
	if conflict {
		return apperrors.Conflict("space %s is already booked between %s and %s",
			b.SpaceID, b.StartDate.Format(time.DateOnly), b.EndDate.Format(time.DateOnly))
	}
	return nil
}

func (s *service) publish(ctx context.Context, b *Booking, from Status, actor users.Actor, reason string) {
	event := BookingTransitioned{
		BookingID:  b.ID,
		SpaceID:    b.SpaceID,
		BrandID:    b.BrandID,
		BrandEmail: b.BrandEmail,
		OwnerID:    b.OwnerID,
		OwnerEmail: b.OwnerEmail,
		From:       from,
		To:         b.Status,
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Reason:     reason,
		OccurredAt: s.clock.Now(),
	}
	if err := s.publisher.PublishTransition(ctx, event); err != nil {
		s.log.ErrorWithContext(ctx, "Failed to publish booking transition", err, map[string]interface{}{
			"booking_id": b.ID.String(),
			"to":         string(b.Status),
		})
	}
}

func (s *service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return dbtx.WithTimeout(ctx, s.opts.StoreTimeout)
}

func checkTransition(from, to Status) error {
	if !from.CanTransitionTo(to) {
		return apperrors.InvalidTransition(string(from), string(to))
	}
	return nil
}

func requireSystem(actor users.Actor, cmd Command) error {
	if !actor.IsSystem() {
		return apperrors.Forbidden("%s can only be issued by the system", cmd.Name())
	}
	return nil
}

func isSpaceOwner(actor users.Actor, b *Booking) bool {
	return actor.IsAdmin() || (actor.Role == users.RoleVenueOwner && actor.ID == b.OwnerID)
}

func isBookingBrand(actor users.Actor, b *Booking) bool {
	return actor.IsAdmin() || (actor.Role == users.RoleBrand && actor.ID == b.BrandID)
}

func canView(actor users.Actor, b *Booking) bool {
	return actor.IsAdmin() || actor.IsSystem() || actor.ID == b.BrandID || actor.ID == b.OwnerID
}

func markPaid(b *Booking, paymentID uuid.UUID, paidAt time.Time) {
	b.IsPaid = true
	b.PaidAt = &paidAt
	b.PaymentStatus = PaymentPaid
	b.PaymentID = &paymentID
}

func flag(b *Booking, note string) {
	b.NeedsReconciliation = true
	b.ReconciliationNote = note
}

func reasonOf(cmd Command, b *Booking) string {
	switch cmd.(type) {
	case Reject:
		return b.RejectionReason
	case Cancel, ExpireUnpaid:
		return b.CancellationReason
	}
	return ""
}
