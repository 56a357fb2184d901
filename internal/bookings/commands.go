package bookings

import (
	"time"

	"github.com/google/uuid"
)

// Command is a request to move a booking through its lifecycle. The set of
// commands is closed; Service.Apply is the only place that interprets them.
type Command interface {
	// Name identifies the command in logs and errors.
	Name() string
	command()
}

// Confirm is issued by the space owner to accept a pending booking.
type Confirm struct{}

// Reject is issued by the space owner to decline a pending booking.
type Reject struct {
	Reason string
}

// Cancel is issued by the brand that made the booking.
type Cancel struct {
	Reason string
}

// Activate starts a confirmed booking on its first day.
type Activate struct{}

// Complete closes an active booking after its last day.
type Complete struct{}

// ExpireUnpaid cancels a confirmed booking whose payment deadline passed.
type ExpireUnpaid struct {
	Reason string
}

// MarkPaid records a captured payment against the booking.
type MarkPaid struct {
	PaymentID uuid.UUID
	PaidAt    time.Time
}

// MarkRefunded records that the captured payment was refunded.
type MarkRefunded struct {
	PaymentID uuid.UUID
}

func (Confirm) Name() string      { return "confirm" }
func (Reject) Name() string       { return "reject" }
func (Cancel) Name() string       { return "cancel" }
func (Activate) Name() string     { return "activate" }
func (Complete) Name() string     { return "complete" }
func (ExpireUnpaid) Name() string { return "expire_unpaid" }
func (MarkPaid) Name() string     { return "mark_paid" }
func (MarkRefunded) Name() string { return "mark_refunded" }

func (Confirm) command()      {}
func (Reject) command()       {}
func (Cancel) command()       {}
func (Activate) command()     {}
func (Complete) command()     {}
func (ExpireUnpaid) command() {}
func (MarkPaid) command()     {}
func (MarkRefunded) command() {}

// locksSpace reports commands that can move a booking into confirmed and so
// must hold the per-space lock while re-checking conflicts.
func locksSpace(cmd Command) bool {
	switch cmd.(type) {
	case Confirm, MarkPaid:
		return true
	}
	return false
}
