package cancellation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRefundAmountTiers(t *testing.T) {
	start := time.Date(2025, time.April, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		cancelAt    time.Time
		wantAmount  float64
		wantPercent int
	}{
		{name: "seven days", cancelAt: start.AddDate(0, 0, -7), wantAmount: 10000, wantPercent: 100},
		{name: "six days", cancelAt: start.AddDate(0, 0, -6), wantAmount: 5000, wantPercent: 50},
		{name: "three days", cancelAt: start.AddDate(0, 0, -3), wantAmount: 5000, wantPercent: 50},
		{name: "two days", cancelAt: start.AddDate(0, 0, -2), wantAmount: 0, wantPercent: 0},
		{name: "just under seven days", cancelAt: start.AddDate(0, 0, -7).Add(time.Minute), wantAmount: 5000, wantPercent: 50},
		{name: "after start", cancelAt: start.Add(36 * time.Hour), wantAmount: 0, wantPercent: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, percent := RefundAmount(10000, start, tt.cancelAt)
			assert.Equal(t, tt.wantAmount, amount)
			assert.Equal(t, tt.wantPercent, percent)
		})
	}
}

func TestRefundAmountRoundsToCents(t *testing.T) {
	start := time.Date(2025, time.April, 20, 0, 0, 0, 0, time.UTC)

	amount, percent := RefundAmount(1234.57, start, start.AddDate(0, 0, -4))
	assert.Equal(t, 50, percent)
	assert.Equal(t, 617.29, amount)
}

func TestDaysBeforeStart(t *testing.T) {
	start := time.Date(2025, time.April, 20, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 6, DaysBeforeStart(start, time.Date(2025, time.April, 13, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, -1, DaysBeforeStart(start, start.Add(time.Hour)))
}
