package dto

import (
	"time"

	"staynest/internal/domain/booking"
	"staynest/internal/domain/pricing"
)

type PriceBreakdown struct {
	Nights           int    `json:"nights"`
	ExtraAdults      int    `json:"extra_adults"`
	BaseCharge       int64  `json:"base_charge"`
	ExtraAdultCharge int64  `json:"extra_adult_charge"`
	ChildCharge      int64  `json:"child_charge"`
	Subtotal         int64  `json:"subtotal"`
	ServiceCharge    int64  `json:"service_charge"`
	Taxes            int64  `json:"taxes"`
	Total            int64  `json:"total"`
	Currency         string `json:"currency"`
}

func NewPriceBreakdown(b pricing.Breakdown) PriceBreakdown {
	return PriceBreakdown{
		Nights:           b.Nights,
		ExtraAdults:      b.ExtraAdults,
		BaseCharge:       b.BaseCharge.Amount,
		ExtraAdultCharge: b.ExtraAdultCharge.Amount,
		ChildCharge:      b.ChildCharge.Amount,
		Subtotal:         b.Subtotal.Amount,
		ServiceCharge:    b.ServiceCharge.Amount,
		Taxes:            b.Taxes.Amount,
		Total:            b.Total.Amount,
		Currency:         b.Total.Currency,
	}
}

type Booking struct {
	ID            string         `json:"id"`
	PropertyID    string         `json:"property_id"`
	RoomID        string         `json:"room_id"`
	Status        string         `json:"status"`
	CheckIn       time.Time      `json:"check_in"`
	CheckOut      time.Time      `json:"check_out"`
	Adults        int            `json:"adults"`
	Children      int            `json:"children"`
	Price         PriceBreakdown `json:"price"`
	PaymentStatus string         `json:"payment_status"`
	PaymentMethod string         `json:"payment_method"`
	Cancellation  *Cancellation  `json:"cancellation,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

type Cancellation struct {
	Reason           string    `json:"reason"`
	RefundPercentage int       `json:"refund_percentage"`
	RefundAmount     int64     `json:"refund_amount"`
	CancelledAt      time.Time `json:"cancelled_at"`
}

func NewBooking(b *booking.Booking) Booking {
	out := Booking{
		ID:            string(b.ID),
		PropertyID:    string(b.PropertyID),
		RoomID:        string(b.RoomID),
		Status:        string(b.State),
		CheckIn:       b.Range.CheckIn,
		CheckOut:      b.Range.CheckOut,
		Adults:        b.Guests.Adults,
		Children:      b.Guests.Children,
		Price:         NewPriceBreakdown(b.Price),
		PaymentStatus: string(b.Payment.Status),
		PaymentMethod: b.Payment.Method,
		CreatedAt:     b.CreatedAt,
	}
	if b.Cancellation != nil {
		out.Cancellation = &Cancellation{
			Reason:           b.Cancellation.Reason,
			RefundPercentage: b.Cancellation.RefundPercentage,
			RefundAmount:     b.Cancellation.RefundAmount.Amount,
			CancelledAt:      b.Cancellation.CancelledAt,
		}
	}
	return out
}
