package booking

import "time"

// RefundPolicy maps time-until-check-in onto a refund percentage tier.
// Thresholds are measured in real-valued days so the boundary cases land on
// the inclusive side: exactly 3.0 days out is still the late tier, exactly
// 1.0 day out still refunds.
type RefundPolicy struct {
	EarlyThresholdDays float64
	LateThresholdDays  float64
	EarlyPercent       int
	LatePercent        int
}

// DefaultRefundPolicy is the platform policy: more than 3 days out refunds
// 90%, between 1 and 3 days 50%, inside 24 hours (or past check-in) nothing.
func DefaultRefundPolicy() RefundPolicy {
	return RefundPolicy{
		EarlyThresholdDays: 3,
		LateThresholdDays:  1,
		EarlyPercent:       90,
		LatePercent:        50,
	}
}

// RefundPercentage evaluates the tier for a cancellation at the given moment.
// The caller supplies now so the function stays pure and tests can pin time.
func (p RefundPolicy) RefundPercentage(checkIn, now time.Time) int {
	days := checkIn.Sub(now).Hours() / 24
	switch {
	case days > p.EarlyThresholdDays:
		return p.EarlyPercent
	case days >= p.LateThresholdDays:
		return p.LatePercent
	default:
		return 0
	}
}
