package booking

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"staynest/internal/app/commands"
	"staynest/internal/app/outbox"
	"staynest/internal/app/uow"
	domainbooking "staynest/internal/domain/booking"
	"staynest/internal/domain/shared/fault"
)

const (
	confirmBookingKey  = "booking.confirm"
	checkInBookingKey  = "booking.checkin"
	checkOutBookingKey = "booking.checkout"
)

type BookingActionResult struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
}

// ConfirmBookingCommand is driven by the payment collaborator reporting a
// completed payment for the booking.
type ConfirmBookingCommand struct {
	BookingID string
}

func (c ConfirmBookingCommand) Key() string { return confirmBookingKey }

type ConfirmBookingHandler struct {
	Logger  *slog.Logger
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Now     func() time.Time
}

func (h *ConfirmBookingHandler) Handle(ctx context.Context, cmd ConfirmBookingCommand) (*BookingActionResult, error) {
	return transition(ctx, cmd.BookingID, h.Outbox, h.Encoder, h.Logger, "booking confirmed", func(b *domainbooking.Booking) error {
		return b.Confirm(nowOrDefault(h.Now))
	})
}

// CheckInBookingCommand and CheckOutBookingCommand are host actions.
type CheckInBookingCommand struct {
	BookingID string
}

func (c CheckInBookingCommand) Key() string { return checkInBookingKey }

type CheckOutBookingCommand struct {
	BookingID string
}

func (c CheckOutBookingCommand) Key() string { return checkOutBookingKey }

type CheckInBookingHandler struct {
	Logger  *slog.Logger
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Now     func() time.Time
}

func (h *CheckInBookingHandler) Handle(ctx context.Context, cmd CheckInBookingCommand) (*BookingActionResult, error) {
	return transition(ctx, cmd.BookingID, h.Outbox, h.Encoder, h.Logger, "booking checked in", func(b *domainbooking.Booking) error {
		return b.CheckIn(nowOrDefault(h.Now))
	})
}

type CheckOutBookingHandler struct {
	Logger  *slog.Logger
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Now     func() time.Time
}

func (h *CheckOutBookingHandler) Handle(ctx context.Context, cmd CheckOutBookingCommand) (*BookingActionResult, error) {
	return transition(ctx, cmd.BookingID, h.Outbox, h.Encoder, h.Logger, "booking checked out", func(b *domainbooking.Booking) error {
		return b.CheckOut(nowOrDefault(h.Now))
	})
}

func transition(ctx context.Context, bookingID string, box outbox.Outbox, enc outbox.EventEncoder, logger *slog.Logger, msg string, apply func(*domainbooking.Booking) error) (*BookingActionResult, error) {
	id := strings.TrimSpace(bookingID)
	if id == "" {
		return nil, fault.Invalid("booking id is required", nil)
	}
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}

	b, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(id))
	if err != nil {
		return nil, err
	}
	if err := apply(b); err != nil {
		return nil, err
	}
	if err := unit.Bookings().Save(ctx, b); err != nil {
		return nil, err
	}

	pending := b.PendingEvents()
	b.ClearEvents()
	if enc == nil {
		enc = outbox.JSONEventEncoder{}
	}
	if err := outbox.RecordDomainEvents(ctx, box, enc, pending); err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Info(msg, "booking_id", b.ID, "status", b.State)
	}
	return &BookingActionResult{BookingID: string(b.ID), Status: string(b.State)}, nil
}

func nowOrDefault(now func() time.Time) time.Time {
	if now != nil {
		return now().UTC()
	}
	return time.Now().UTC()
}

var _ commands.Handler[ConfirmBookingCommand, *BookingActionResult] = (*ConfirmBookingHandler)(nil)
var _ commands.Handler[CheckInBookingCommand, *BookingActionResult] = (*CheckInBookingHandler)(nil)
var _ commands.Handler[CheckOutBookingCommand, *BookingActionResult] = (*CheckOutBookingHandler)(nil)
