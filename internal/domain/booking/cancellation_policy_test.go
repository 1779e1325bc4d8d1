package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRefundPercentageTiers(t *testing.T) {
	policy := DefaultRefundPolicy()
	checkIn := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"well before check-in", checkIn.Add(-10 * 24 * time.Hour), 90},
		{"just over three days", checkIn.Add(-3*24*time.Hour - time.Minute), 90},
		{"exactly three days", checkIn.Add(-3 * 24 * time.Hour), 50},
		{"two days out", checkIn.Add(-2 * 24 * time.Hour), 50},
		{"exactly one day", checkIn.Add(-24 * time.Hour), 50},
		{"just under one day", checkIn.Add(-24*time.Hour + time.Minute), 0},
		{"six hours out", checkIn.Add(-6 * time.Hour), 0},
		{"after check-in", checkIn.Add(2 * time.Hour), 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, policy.RefundPercentage(checkIn, tc.now))
		})
	}
}

func TestRefundPercentageFractionalDays(t *testing.T) {
	policy := DefaultRefundPolicy()
	checkIn := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)

	// 3.5 days, not three calendar dates, decides the tier.
	now := checkIn.Add(-84 * time.Hour)
	assert.Equal(t, 90, policy.RefundPercentage(checkIn, now))

	now = checkIn.Add(-36 * time.Hour)
	assert.Equal(t, 50, policy.RefundPercentage(checkIn, now))
}
