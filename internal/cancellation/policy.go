package cancellation

import (
	"math"
	"time"
)

// Refund tiers by whole days left before the booking starts.
const (
	FullRefundDays    = 7
	PartialRefundDays = 3

	FullRefundPercent    = 100
	PartialRefundPercent = 50
)

// DaysBeforeStart counts whole days from cancelAt to start, rounding down.
func DaysBeforeStart(start, cancelAt time.Time) int {
	return int(math.Floor(start.Sub(cancelAt).Hours() / 24))
}

// RefundAmount returns the refund owed for cancelling at cancelAt and the tier applied.
func RefundAmount(totalPrice float64, start, cancelAt time.Time) (float64, int) {
	percent := refundPercent(DaysBeforeStart(start, cancelAt))
	return roundCents(totalPrice * float64(percent) / 100), percent
}

func refundPercent(days int) int {
	switch {
	case days >= FullRefundDays:
		return FullRefundPercent
	case days >= PartialRefundDays:
		return PartialRefundPercent
	default:
		return 0
	}
}

// roundCents rounds half away from zero, absorbing binary representation error.
func roundCents(v float64) float64 {
	return math.Round(v*100+math.Copysign(1e-9, v)) / 100
}
