package booking

import (
	"context"
	"fmt"
	"time"

	"staynest/internal/domain/pricing"
	"staynest/internal/domain/property"
	"staynest/internal/domain/shared/daterange"
	"staynest/internal/domain/shared/events"
	"staynest/internal/domain/shared/fault"
	"staynest/internal/domain/shared/money"
)

var (
	ErrInvalidState = fmt.Errorf("booking: %w", fault.ErrInvalidStateTransition)
	ErrNotFound     = fmt.Errorf("booking: %w", fault.ErrNotFound)
)

type BookingID string

type BookingState string

const (
	StatePending    BookingState = "PENDING"
	StateConfirmed  BookingState = "CONFIRMED"
	StateCheckedIn  BookingState = "CHECKED_IN"
	StateCheckedOut BookingState = "CHECKED_OUT"
	StateCancelled  BookingState = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

// GuestCount is the party size of a stay.
type GuestCount struct {
	Adults   int
	Children int
}

// Payment mirrors what the external payment processor reports. Only status
// transitions cross the boundary; the processor itself is out of scope.
type Payment struct {
	Status        PaymentStatus
	Method        string
	PaidAmount    money.Money
	PendingAmount money.Money
}

// CancellationRecord is written once when a booking is cancelled.
type CancellationRecord struct {
	Reason           string
	RefundPercentage int
	RefundAmount     money.Money
	CancelledAt      time.Time
}

// Booking is one stay request against one room of one property.
type Booking struct {
	ID           BookingID
	PropertyID   property.PropertyID
	RoomID       property.RoomID
	GuestID      string
	Range        daterange.DateRange
	Guests       GuestCount
	Price        pricing.Breakdown
	Payment      Payment
	State        BookingState
	Cancellation *CancellationRecord
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Version      int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Save(ctx context.Context, b *Booking) error
	// CommittedRanges returns the stay ranges of every non-cancelled booking
	// for the room; the availability checker subtracts them from capacity.
	CommittedRanges(ctx context.Context, roomID property.RoomID) ([]daterange.DateRange, error)
	ListByGuest(ctx context.Context, guestID string) ([]*Booking, error)
}

type CreateParams struct {
	ID            BookingID
	PropertyID    property.PropertyID
	RoomID        property.RoomID
	GuestID       string
	Range         daterange.DateRange
	Guests        GuestCount
	Price         pricing.Breakdown
	PaymentMethod string
	CreatedAt     time.Time
}

func NewBooking(params CreateParams) (*Booking, error) {
	if params.GuestID == "" {
		return nil, fault.Invalid("guest id is required", nil)
	}
	if err := params.Range.Validate(); err != nil {
		return nil, fault.Invalid("checkout must be after checkin", params.Range.CheckOut)
	}
	if params.Guests.Adults < 1 {
		return nil, fault.Invalid("at least one adult is required", params.Guests.Adults)
	}
	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:         params.ID,
		PropertyID: params.PropertyID,
		RoomID:     params.RoomID,
		GuestID:    params.GuestID,
		Range:      params.Range,
		Guests:     params.Guests,
		Price:      params.Price,
		Payment: Payment{
			Status:        PaymentPending,
			Method:        params.PaymentMethod,
			PendingAmount: params.Price.Total,
			PaidAmount:    money.Money{Currency: params.Price.Total.Currency},
		},
		State:     StatePending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	b.Record(BookingRequested{BookingID: b.ID, PropertyID: b.PropertyID, RoomID: b.RoomID, GuestID: b.GuestID, Range: b.Range, Guests: b.Guests, QuotedTotal: b.Price.Total, At: now})
	return b, nil
}

// Confirm advances a pending booking once the payment processor reports the
// payment completed. The quoted price is never recomputed here.
func (b *Booking) Confirm(now time.Time) error {
	if b.State != StatePending {
		return ErrInvalidState
	}
	b.State = StateConfirmed
	b.Payment.Status = PaymentCompleted
	b.Payment.PaidAmount = b.Price.Total
	b.Payment.PendingAmount = money.Money{Currency: b.Price.Total.Currency}
	b.UpdatedAt = now.UTC()
	b.Record(BookingConfirmed{BookingID: b.ID, PropertyID: b.PropertyID, Total: b.Price.Total, At: b.UpdatedAt})
	return nil
}

func (b *Booking) CheckIn(now time.Time) error {
	if b.State != StateConfirmed {
		return ErrInvalidState
	}
	b.State = StateCheckedIn
	b.UpdatedAt = now.UTC()
	b.Record(CheckInCompleted{BookingID: b.ID, At: b.UpdatedAt})
	return nil
}

func (b *Booking) CheckOut(now time.Time) error {
	if b.State != StateCheckedIn {
		return ErrInvalidState
	}
	b.State = StateCheckedOut
	b.UpdatedAt = now.UTC()
	b.Record(CheckOutCompleted{BookingID: b.ID, At: b.UpdatedAt})
	return nil
}

// Cancel is reachable from any non-terminal state and is irreversible. The
// refund is computed from the policy tiers against the time of cancellation
// and recorded on the booking.
func (b *Booking) Cancel(policy RefundPolicy, reason string, now time.Time) (CancellationRecord, error) {
	switch b.State {
	case StatePending, StateConfirmed, StateCheckedIn:
	default:
		return CancellationRecord{}, ErrInvalidState
	}
	percent := policy.RefundPercentage(b.Range.CheckIn, now)
	record := CancellationRecord{
		Reason:           reason,
		RefundPercentage: percent,
		RefundAmount:     b.Price.Total.PercentBasisPoints(int64(percent) * 100),
		CancelledAt:      now.UTC(),
	}
	b.State = StateCancelled
	b.Cancellation = &record
	if b.Payment.Status == PaymentCompleted && record.RefundAmount.Amount > 0 {
		b.Payment.Status = PaymentRefunded
	}
	b.UpdatedAt = now.UTC()
	b.Record(BookingCancelled{BookingID: b.ID, Reason: reason, RefundPercentage: percent, RefundAmount: record.RefundAmount, At: b.UpdatedAt})
	return record, nil
}
