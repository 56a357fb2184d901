package bookings

import (
	"time"

	"github.com/google/uuid"
)

// Booking defines the reservation of one space for a closed range of days
type Booking struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SpaceID   string    `gorm:"type:varchar(64);index:idx_bookings_space_status;not null" json:"space_id"`
	SpaceName string    `gorm:"not null" json:"space_name"`

	BrandID    uuid.UUID `gorm:"type:uuid;index;not null" json:"brand_id"`
	BrandName  string    `json:"brand_name"`
	BrandEmail string    `json:"brand_email"`
	OwnerID    uuid.UUID `gorm:"type:uuid;index;not null" json:"owner_id"`
	OwnerEmail string    `json:"owner_email"`

	// Whole days, stored as dates; both ends are booked.
	StartDate time.Time `gorm:"type:date;index:idx_bookings_status_start;not null" json:"start_date"`
	EndDate   time.Time `gorm:"type:date;index:idx_bookings_status_end;not null" json:"end_date"`
	Duration  int       `gorm:"not null;check:duration BETWEEN 1 AND 365" json:"duration"`

	TotalPrice     float64  `gorm:"type:numeric(14,2);not null" json:"total_price"`
	Budget         *float64 `gorm:"type:numeric(14,2)" json:"budget,omitempty"`
	Objective      string   `gorm:"type:varchar(32);not null" json:"objective"`
	TargetAudience string   `gorm:"type:text;not null" json:"target_audience"`
	Notes          string   `gorm:"type:text" json:"notes,omitempty"`

	Status          Status `gorm:"type:varchar(16);index:idx_bookings_space_status;index:idx_bookings_status_start;index:idx_bookings_status_end;not null;default:'pending'" json:"status"`
	RejectionReason string `gorm:"type:text" json:"rejection_reason,omitempty"`

	PaymentStatus PaymentStatus `gorm:"type:varchar(16);not null;default:'pending'" json:"payment_status"`
	IsPaid        bool          `gorm:"not null;default:false" json:"is_paid"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
	PaymentID     *uuid.UUID    `gorm:"type:uuid" json:"payment_id,omitempty"`

	ConfirmedAt        *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason string     `gorm:"type:text" json:"cancellation_reason,omitempty"`

	// Set when a captured payment could not be applied automatically.
	NeedsReconciliation bool   `gorm:"not null;default:false" json:"needs_reconciliation"`
	ReconciliationNote  string `gorm:"type:text" json:"reconciliation_note,omitempty"`

	Version   int       `gorm:"not null;default:1" json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// mutableColumns are the columns a transition may write.
var mutableColumns = []string{
	"status",
	"rejection_reason",
	"payment_status",
	"is_paid",
	"paid_at",
	"payment_id",
	"confirmed_at",
	"cancelled_at",
	"cancellation_reason",
	"notes",
	"needs_reconciliation",
	"reconciliation_note",
	"version",
	"updated_at",
}

// Overlaps reports whether b shares at least one day with [start, end].
func (b *Booking) Overlaps(start, end time.Time) bool {
	return !b.StartDate.After(end) && !b.EndDate.Before(start)
}

func (b *Booking) HasPayment(paymentID uuid.UUID) bool {
	return b.PaymentID != nil && *b.PaymentID == paymentID
}

func (b *Booking) appendNote(note string) {
	if b.Notes == "" {
		b.Notes = note
		return
	}
	b.Notes = b.Notes + "\n" + note
}
