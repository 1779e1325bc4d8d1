package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staynest/internal/domain/pricing"
	"staynest/internal/domain/shared/daterange"
	"staynest/internal/domain/shared/money"
)

func pendingBooking(t *testing.T, checkIn time.Time) *Booking {
	t.Helper()
	dr, err := daterange.New(checkIn, checkIn.Add(3*24*time.Hour))
	require.NoError(t, err)
	b, err := NewBooking(CreateParams{
		ID:            "bk-1",
		PropertyID:    "prop-1",
		RoomID:        "room-1",
		GuestID:       "guest-1",
		Range:         dr,
		Guests:        GuestCount{Adults: 2},
		Price:         pricing.Breakdown{Total: money.Must(3304, "USD")},
		PaymentMethod: "card",
		CreatedAt:     checkIn.Add(-30 * 24 * time.Hour),
	})
	require.NoError(t, err)
	return b
}

func TestNewBookingStartsPending(t *testing.T) {
	b := pendingBooking(t, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, StatePending, b.State)
	assert.Equal(t, PaymentPending, b.Payment.Status)
	assert.Equal(t, int64(3304), b.Payment.PendingAmount.Amount)
	require.Len(t, b.PendingEvents(), 1)
	assert.Equal(t, "booking.requested", b.PendingEvents()[0].EventName())
}

func TestLifecycleHappyPath(t *testing.T) {
	checkIn := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	b := pendingBooking(t, checkIn)
	now := checkIn.Add(-5 * 24 * time.Hour)

	require.NoError(t, b.Confirm(now))
	assert.Equal(t, StateConfirmed, b.State)
	assert.Equal(t, PaymentCompleted, b.Payment.Status)
	assert.Equal(t, int64(3304), b.Payment.PaidAmount.Amount)
	assert.True(t, b.Payment.PendingAmount.IsZero())

	require.NoError(t, b.CheckIn(checkIn))
	assert.Equal(t, StateCheckedIn, b.State)

	require.NoError(t, b.CheckOut(checkIn.Add(3*24*time.Hour)))
	assert.Equal(t, StateCheckedOut, b.State)
}

func TestInvalidTransitionsRejected(t *testing.T) {
	checkIn := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	now := checkIn.Add(-5 * 24 * time.Hour)

	b := pendingBooking(t, checkIn)
	assert.ErrorIs(t, b.CheckIn(now), ErrInvalidState, "pending cannot check in")
	assert.ErrorIs(t, b.CheckOut(now), ErrInvalidState, "pending cannot check out")

	require.NoError(t, b.Confirm(now))
	assert.ErrorIs(t, b.Confirm(now), ErrInvalidState, "confirm is not idempotent")
	assert.ErrorIs(t, b.CheckOut(now), ErrInvalidState, "confirmed cannot skip check-in")
}

func TestCancelComputesRefund(t *testing.T) {
	checkIn := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	b := pendingBooking(t, checkIn)
	require.NoError(t, b.Confirm(checkIn.Add(-10*24*time.Hour)))

	record, err := b.Cancel(DefaultRefundPolicy(), "change of plans", checkIn.Add(-5*24*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, StateCancelled, b.State)
	assert.Equal(t, 90, record.RefundPercentage)
	assert.Equal(t, int64(2974), record.RefundAmount.Amount)
	assert.Equal(t, PaymentRefunded, b.Payment.Status)
	require.NotNil(t, b.Cancellation)
	assert.Equal(t, "change of plans", b.Cancellation.Reason)
}

func TestCancelInsideOneDayRefundsNothing(t *testing.T) {
	checkIn := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	b := pendingBooking(t, checkIn)

	record, err := b.Cancel(DefaultRefundPolicy(), "", checkIn.Add(-6*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, record.RefundPercentage)
	assert.True(t, record.RefundAmount.IsZero())
	assert.Equal(t, PaymentPending, b.Payment.Status, "nothing was paid, nothing to refund")
}

func TestCancelReachableFromCheckedIn(t *testing.T) {
	checkIn := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	b := pendingBooking(t, checkIn)
	require.NoError(t, b.Confirm(checkIn.Add(-5*24*time.Hour)))
	require.NoError(t, b.CheckIn(checkIn))

	_, err := b.Cancel(DefaultRefundPolicy(), "emergency", checkIn.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, StateCancelled, b.State)
}

func TestTerminalStatesStayTerminal(t *testing.T) {
	checkIn := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	now := checkIn.Add(-5 * 24 * time.Hour)

	cancelled := pendingBooking(t, checkIn)
	_, err := cancelled.Cancel(DefaultRefundPolicy(), "", now)
	require.NoError(t, err)
	assert.ErrorIs(t, cancelled.Confirm(now), ErrInvalidState)
	_, err = cancelled.Cancel(DefaultRefundPolicy(), "", now)
	assert.ErrorIs(t, err, ErrInvalidState)

	done := pendingBooking(t, checkIn)
	require.NoError(t, done.Confirm(now))
	require.NoError(t, done.CheckIn(checkIn))
	require.NoError(t, done.CheckOut(checkIn.Add(24*time.Hour)))
	_, err = done.Cancel(DefaultRefundPolicy(), "", now)
	assert.ErrorIs(t, err, ErrInvalidState, "checked-out is terminal")
}
