package cancellation

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusNoRefund        Status = "NO_REFUND"
	StatusRefundPending   Status = "REFUND_PENDING"
	StatusRefundRequested Status = "REFUND_REQUESTED"
	StatusRefundFailed    Status = "REFUND_FAILED"
)

// Cancellation records a brand cancellation and the refund it triggered
type Cancellation struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BookingID       uuid.UUID `gorm:"type:uuid;unique;not null" json:"booking_id"`
	RequestedBy     uuid.UUID `gorm:"type:uuid;index;not null" json:"requested_by"`
	Reason          string    `gorm:"type:text" json:"reason"`
	DaysBeforeStart int       `json:"days_before_start"`
	RefundPercent   int       `gorm:"not null;default:0" json:"refund_percent"`
	RefundAmount    float64   `gorm:"type:numeric(14,2);not null;default:0" json:"refund_amount"`
	Status          Status    `gorm:"type:varchar(20);check:status IN ('NO_REFUND', 'REFUND_PENDING', 'REFUND_REQUESTED', 'REFUND_FAILED');not null" json:"status"`
	RefundRef       string    `gorm:"type:varchar(128)" json:"refund_ref,omitempty"`
	FailureReason   string    `gorm:"type:text" json:"failure_reason,omitempty"`
	RequestedAt     time.Time `json:"requested_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName sets the table name for Cancellation
func (Cancellation) TableName() string {
	return "cancellations"
}
