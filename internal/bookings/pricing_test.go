package bookings

import (
	"errors"
	"math"
	"testing"

	"github.com/harshnandal981/Advermo-sub000/internal/shared/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrice(t *testing.T) {
	tests := []struct {
		name  string
		reach int64
		days  int
		rate  float64
		want  float64
	}{
		{name: "whole numbers", reach: 5000, days: 30, rate: 25, want: 3750},
		{name: "rounds to cents", reach: 1234, days: 7, rate: 12.345, want: 106.64},
		{name: "half rounds up", reach: 1, days: 1, rate: 5, want: 0.01},
		{name: "zero reach is free", reach: 0, days: 10, rate: 40, want: 0},
		{name: "zero rate is free", reach: 900, days: 10, rate: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Price(tt.reach, tt.days, tt.rate)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestPriceRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		reach int64
		days  int
		rate  float64
	}{
		{name: "negative reach", reach: -1, days: 7, rate: 10},
		{name: "zero duration", reach: 100, days: 0, rate: 10},
		{name: "negative rate", reach: 100, days: 7, rate: -0.5},
		{name: "nan rate", reach: 100, days: 7, rate: math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Price(tt.reach, tt.days, tt.rate)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrValidation))
		})
	}
}

func TestNewBreakdown(t *testing.T) {
	b := NewBreakdown(10000, 10, 18)

	assert.Equal(t, 10000.0, b.Total)
	assert.Equal(t, 1000.0, b.Commission)
	assert.Equal(t, 180.0, b.CommissionGST)
	assert.Equal(t, 8820.0, b.OwnerPayout)
}

func TestBreakdownAddsUp(t *testing.T) {
	b := NewBreakdown(1234.57, 10, 18)

	assert.InDelta(t, b.Total, b.Commission+b.CommissionGST+b.OwnerPayout, 0.0001)
}
