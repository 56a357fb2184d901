package database

import (
	"github.com/harshnandal981/Advermo-sub000/internal/bookings"
	"github.com/harshnandal981/Advermo-sub000/internal/cancellation"
	"github.com/harshnandal981/Advermo-sub000/internal/payments"
	"github.com/harshnandal981/Advermo-sub000/internal/spaces"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&spaces.Space{},
		&bookings.Booking{},
		&payments.Payment{},
		&cancellation.Cancellation{},
	)
}
