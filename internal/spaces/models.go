package spaces

import (
	"time"

	"github.com/google/uuid"
)

// Space is an advertising placement at a venue. The catalog is owned by the
// listings service; the booking engine only reads it.
type Space struct {
	ID                 string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	Name               string    `gorm:"not null" json:"name"`
	VenueName          string    `gorm:"not null" json:"venue_name"`
	OwnerID            uuid.UUID `gorm:"type:uuid;index;not null" json:"owner_id"`
	OwnerEmail         string    `gorm:"not null" json:"owner_email"`
	DailyFootfall      int64     `gorm:"not null;check:daily_footfall >= 0" json:"daily_footfall"`
	MonthlyImpressions int64     `gorm:"not null;check:monthly_impressions >= 0" json:"monthly_impressions"`
	MonthlyPrice       float64   `gorm:"not null;check:monthly_price >= 0" json:"monthly_price"`
	IsActive           bool      `gorm:"default:true" json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TableName sets the table name for Space
func (Space) TableName() string {
	return "spaces"
}

// SpaceInfo is the catalog view the booking engine prices against.
type SpaceInfo struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	VenueName          string    `json:"venue_name"`
	OwnerID            uuid.UUID `json:"owner_id"`
	OwnerEmail         string    `json:"owner_email"`
	DailyReach         int64     `json:"daily_reach"`
	MonthlyImpressions int64     `json:"monthly_impressions"`
	MonthlyPrice       float64   `json:"monthly_price"`
	RatePerThousand    float64   `json:"rate_per_thousand"`
}
