package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds the database constraints the booking engine relies on for concurrency control
func MigrateConstraints(db *gorm.DB) error {
	// Exclusion constraints on ranges need btree_gist for the equality part
	err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist;`).Error
	if err != nil {
		return err
	}

	// Two confirmed or active bookings of one space may never share a day
	err = db.Exec(`
		DO $$
		BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'bookings_no_overlap') THEN
				ALTER TABLE bookings
				ADD CONSTRAINT bookings_no_overlap
				EXCLUDE USING gist (
					space_id WITH =,
					daterange(start_date, end_date, '[]') WITH &&
				) WHERE (status IN ('confirmed', 'active'));
			END IF;
		END
		$$;
	`).Error
	if err != nil {
		return err
	}

	// Index for the unpaid expiry sweep
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_unpaid_confirmed
		ON bookings (confirmed_at)
		WHERE status = 'confirmed' AND payment_status = 'pending';
	`).Error
	if err != nil {
		return err
	}

	return nil
}
