// Package sweeper drives the time-based booking transitions: activation on the
// first day, completion after the last day and expiry of unpaid confirmations.
package sweeper

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/harshnandal981/Advermo-sub000/internal/bookings"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/apperrors"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/clock"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/dbtx"
	"github.com/harshnandal981/Advermo-sub000/internal/users"
	"github.com/harshnandal981/Advermo-sub000/pkg/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Selector finds the bookings each sweep step should visit.
type Selector interface {
	FindStartingBetween(ctx context.Context, from, to time.Time) ([]bookings.Booking, error)
	FindEndingBetween(ctx context.Context, from, to time.Time) ([]bookings.Booking, error)
	FindUnpaidConfirmedBefore(ctx context.Context, cutoff time.Time) ([]bookings.Booking, error)
}

// Transitioner applies a lifecycle command to one booking.
type Transitioner interface {
	Apply(ctx context.Context, id uuid.UUID, actor users.Actor, cmd bookings.Command) (*bookings.Booking, error)
}

type Options struct {
	Workers         int
	PaymentDeadline time.Duration
	StoreTimeout    time.Duration // bounds each selection query
}

// Result summarises one sweep. Errors holds one message per failed booking or selection.
type Result struct {
	Activated int           `json:"activated"`
	Completed int           `json:"completed"`
	Expired   int           `json:"expired"`
	Skipped   int           `json:"skipped"`
	Errors    []string      `json:"errors"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

type Sweeper struct {
	selector     Selector
	transitioner Transitioner
	clock        clock.Clock
	opts         Options
	log          *logger.Logger
}

func New(selector Selector, transitioner Transitioner, clk clock.Clock, opts Options) *Sweeper {
	if clk == nil {
		clk = clock.NewSystem()
	}
	if opts.Workers <= 0 {
		opts.Workers = 8
	}
	if opts.PaymentDeadline <= 0 {
		opts.PaymentDeadline = 24 * time.Hour
	}
	return &Sweeper{
		selector:     selector,
		transitioner: transitioner,
		clock:        clk,
		opts:         opts,
		log:          logger.GetDefault(),
	}
}

// Run activates, completes and expires, in that order.
func (s *Sweeper) Run(ctx context.Context) Result {
	now := s.clock.Now()
	res := &Result{StartedAt: now, Errors: []string{}}
	today := clock.StartOfDay(now)

	s.step(ctx, res, "activate", &res.Activated, bookings.Activate{}, func(ctx context.Context) ([]bookings.Booking, error) {
		return s.selector.FindStartingBetween(ctx, today, today.AddDate(0, 0, 1))
	})
	s.step(ctx, res, "complete", &res.Completed, bookings.Complete{}, func(ctx context.Context) ([]bookings.Booking, error) {
		return s.selector.FindEndingBetween(ctx, today.AddDate(0, 0, -1), today)
	})
	s.expire(ctx, res, now)

	return s.finish(ctx, res)
}

// RunExpiry only cancels confirmed bookings whose payment deadline has passed.
func (s *Sweeper) RunExpiry(ctx context.Context) Result {
	now := s.clock.Now()
	res := &Result{StartedAt: now, Errors: []string{}}
	s.expire(ctx, res, now)
	return s.finish(ctx, res)
}

func (s *Sweeper) expire(ctx context.Context, res *Result, now time.Time) {
	cutoff := now.Add(-s.opts.PaymentDeadline)
	s.step(ctx, res, "expire", &res.Expired, bookings.ExpireUnpaid{}, func(ctx context.Context) ([]bookings.Booking, error) {
		return s.selector.FindUnpaidConfirmedBefore(ctx, cutoff)
	})
}

func (s *Sweeper) finish(ctx context.Context, res *Result) Result {
	res.Duration = s.clock.Now().Sub(res.StartedAt)
	s.log.LogSweepResult(ctx, res.Activated, res.Completed, res.Expired, res.Skipped, len(res.Errors), res.Duration)
	return *res
}

// step applies cmd to every selected booking on a bounded pool. One failure never stops the others.
// Transitions are bounded by the booking service itself.
func (s *Sweeper) step(ctx context.Context, res *Result, name string, counter *int, cmd bookings.Command, selectFn func(ctx context.Context) ([]bookings.Booking, error)) {
	selectCtx, cancel := dbtx.WithTimeout(ctx, s.opts.StoreTimeout)
	candidates, err := selectFn(selectCtx)
	cancel()
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("%s: selection failed: %s", name, apperrors.Message(err)))
		s.log.ErrorWithContext(ctx, "Sweep selection failed", err, map[string]interface{}{"step": name})
		return
	}
	if len(candidates) == 0 {
		return
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(s.opts.Workers)

	for i := range candidates {
		id := candidates[i].ID
		g.Go(func() error {
			_, err := s.transitioner.Apply(ctx, id, users.System, cmd)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				*counter++
			case errors.Is(err, apperrors.ErrInvalidTransition):
				// Moved on since selection
				res.Skipped++
			default:
				res.Errors = append(res.Errors, fmt.Sprintf("%s %s: %s", name, id, apperrors.Message(err)))
				s.log.ErrorWithContext(ctx, "Sweep transition failed", err, map[string]interface{}{
					"step":       name,
					"booking_id": id.String(),
				})
			}
			return nil
		})
	}
	_ = g.Wait()
}
