package payments

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Status string

const (
	StatusCreated  Status = "created"
	StatusSuccess  Status = "success"
	StatusFailed   Status = "failed"
	StatusRefunded Status = "refunded"
)

// Payment is one gateway order raised for a booking. A booking may collect
// several orders but at most one reaches success.
type Payment struct {
	ID          uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BookingID   uuid.UUID         `gorm:"type:uuid;index;not null" json:"booking_id"`
	OrderRef    string            `gorm:"type:varchar(128);uniqueIndex;not null" json:"order_ref"`
	ChargeRef   *string           `gorm:"type:varchar(128);uniqueIndex" json:"charge_ref,omitempty"`
	RefundRef   string            `gorm:"type:varchar(128)" json:"refund_ref,omitempty"`
	Amount      float64           `gorm:"type:numeric(14,2);not null" json:"amount"`
	Currency    string            `gorm:"type:varchar(8);not null;default:'INR'" json:"currency"`
	Status      Status            `gorm:"type:varchar(16);not null;default:'created'" json:"status"`
	Method      string            `gorm:"type:varchar(32)" json:"method,omitempty"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	RefundedAt  *time.Time        `json:"refunded_at,omitempty"`
	Notes       datatypes.JSONMap `gorm:"type:jsonb" json:"notes,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// TableName sets the table name for Payment
func (Payment) TableName() string {
	return "payments"
}

var mutableColumns = []string{
	"charge_ref",
	"refund_ref",
	"status",
	"method",
	"completed_at",
	"refunded_at",
	"notes",
	"updated_at",
}

func (p *Payment) setNote(key string, value interface{}) {
	if p.Notes == nil {
		p.Notes = datatypes.JSONMap{}
	}
	p.Notes[key] = value
}

// clone copies p including its notes map.
func (p *Payment) clone() *Payment {
	out := *p
	if p.Notes != nil {
		out.Notes = make(datatypes.JSONMap, len(p.Notes))
		for k, v := range p.Notes {
			out.Notes[k] = v
		}
	}
	return &out
}
