package bookings

import (
	"math"

	"github.com/harshnandal981/Advermo-sub000/internal/shared/apperrors"
)

// Price returns dailyReach × durationDays / 1000 × ratePerThousand rounded half-up to 2 decimals.
func Price(dailyReach int64, durationDays int, ratePerThousand float64) (float64, error) {
	if dailyReach < 0 {
		return 0, apperrors.Validation("daily reach must not be negative")
	}
	if durationDays <= 0 {
		return 0, apperrors.Validation("duration must be positive")
	}
	if ratePerThousand < 0 || math.IsNaN(ratePerThousand) || math.IsInf(ratePerThousand, 0) {
		return 0, apperrors.Validation("rate per thousand must be a non-negative number")
	}

	impressions := float64(dailyReach) * float64(durationDays)
	return round2(impressions / 1000 * ratePerThousand), nil
}

// Breakdown splits a booking total into the platform's share and the owner payout.
type Breakdown struct {
	Total          float64 `json:"total"`
	Commission     float64 `json:"commission"`
	CommissionGST  float64 `json:"commission_gst"`
	OwnerPayout    float64 `json:"owner_payout"`
	CommissionRate float64 `json:"commission_rate"`
	GSTRate        float64 `json:"gst_rate"`
}

// NewBreakdown is a derived view only; nothing is posted to a ledger.
func NewBreakdown(total, commissionPct, gstPct float64) Breakdown {
	commission := round2(total * commissionPct / 100)
	gst := round2(commission * gstPct / 100)
	return Breakdown{
		Total:          total,
		Commission:     commission,
		CommissionGST:  gst,
		OwnerPayout:    round2(total - commission - gst),
		CommissionRate: commissionPct,
		GSTRate:        gstPct,
	}
}

// round2 rounds half away from zero. The small epsilon absorbs binary
// representation error such as 1.005 being stored as 1.00499999.
func round2(v float64) float64 {
	return math.Round(v*100+math.Copysign(1e-9, v)) / 100
}
