package bookings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo(t *testing.T) {
	allowed := map[Status][]Status{
		StatusPending:   {StatusConfirmed, StatusRejected, StatusCancelled},
		StatusConfirmed: {StatusActive, StatusCancelled},
		StatusActive:    {StatusCompleted},
	}
	all := []Status{StatusPending, StatusConfirmed, StatusRejected, StatusActive, StatusCompleted, StatusCancelled}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, s := range allowed[from] {
				if s == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestTerminalStatusesHaveNoExits(t *testing.T) {
	for _, s := range []Status{StatusRejected, StatusCompleted, StatusCancelled} {
		assert.True(t, s.IsTerminal())
		assert.Empty(t, transitions[s])
	}
	assert.False(t, StatusActive.IsTerminal())
}

func TestStatusIsValid(t *testing.T) {
	assert.True(t, StatusActive.IsValid())
	assert.False(t, Status("held").IsValid())
}

func TestOverlapsIsInclusive(t *testing.T) {
	b := Booking{StartDate: day(10), EndDate: day(20)}

	assert.True(t, b.Overlaps(day(20), day(25)))
	assert.True(t, b.Overlaps(day(1), day(10)))
	assert.True(t, b.Overlaps(day(12), day(14)))
	assert.False(t, b.Overlaps(day(21), day(30)))
	assert.False(t, b.Overlaps(day(1), day(9)))
}

func day(n int) time.Time {
	return time.Date(2025, time.March, n, 0, 0, 0, 0, time.UTC)
}
