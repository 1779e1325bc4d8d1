package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"staynest/internal/app/commands"
	"staynest/internal/app/middleware"
	"staynest/internal/app/outbox"
	"staynest/internal/app/uow"
	domainavailability "staynest/internal/domain/availability"
	domainbooking "staynest/internal/domain/booking"
	domainpricing "staynest/internal/domain/pricing"
	domainproperty "staynest/internal/domain/property"
	domainrange "staynest/internal/domain/shared/daterange"
	"staynest/internal/domain/shared/fault"
)

const requestBookingKey = "booking.request"

var (
	ErrUnitOfWorkRequired = errors.New("booking: unit of work required")
	ErrNoCapacity         = fmt.Errorf("booking: %w", fault.ErrUnavailable)
	ErrNotBookable        = fmt.Errorf("booking: property is not published: %w", fault.ErrValidation)
	ErrCheckInInPast      = fmt.Errorf("booking: check-in date is in the past: %w", fault.ErrValidation)
)

type RequestBookingCommand struct {
	CommandID       string
	PropertyID      string
	RoomID          string
	GuestID         string
	CheckIn         time.Time
	CheckOut        time.Time
	Adults          int
	Children        int
	PaymentMethod   string
	IdempotencyKeyV string
}

func (c RequestBookingCommand) Key() string { return requestBookingKey }

// Validate covers the shallow field checks; everything date- and
// capacity-related belongs to the handler and the aggregates.
func (c RequestBookingCommand) Validate() error {
	if c.PropertyID == "" {
		return fault.Invalid("property id is required", nil)
	}
	if c.RoomID == "" {
		return fault.Invalid("room id is required", nil)
	}
	if c.GuestID == "" {
		return fault.Invalid("guest id is required", nil)
	}
	if c.Adults < 1 {
		return fault.Invalid("at least one adult is required", c.Adults)
	}
	return nil
}

func (c RequestBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c RequestBookingCommand) ResultPrototype() any { return &RequestBookingResult{} }

type RequestBookingResult struct {
	BookingID string `json:"booking_id"`
}

type RequestBookingHandler struct {
	UoWFactory uow.UoWFactory
	Pricing    domainpricing.Calculator
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

// Handle creates a booking in PENDING state. The availability check and the
// insert run inside one unit of work so two racing requests cannot both take
// the last unit; when this handler owns the transaction it retries a lost
// race exactly once before surfacing the conflict.
func (h *RequestBookingHandler) Handle(ctx context.Context, cmd RequestBookingCommand) (*RequestBookingResult, error) {
	if unit, ok := uow.FromContext(ctx); ok {
		return h.attempt(ctx, unit, cmd)
	}
	if h.UoWFactory == nil {
		return nil, ErrUnitOfWorkRequired
	}

	var lastErr error
	for tries := 0; tries < 2; tries++ {
		result, err := h.attemptManaged(ctx, cmd)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, fault.ErrConcurrencyConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (h *RequestBookingHandler) attemptManaged(ctx context.Context, cmd RequestBookingCommand) (*RequestBookingResult, error) {
	unit, err := h.UoWFactory.Begin(ctx, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	ctx = uow.ContextWithUnitOfWork(ctx, unit)
	committed := false
	defer func() {
		if !committed {
			_ = unit.Rollback(ctx)
		}
	}()

	result, err := h.attempt(ctx, unit, cmd)
	if err != nil {
		return nil, err
	}
	if err := unit.Commit(ctx); err != nil {
		return nil, err
	}
	committed = true
	return result, nil
}

func (h *RequestBookingHandler) attempt(ctx context.Context, unit uow.UnitOfWork, cmd RequestBookingCommand) (*RequestBookingResult, error) {
	dr, err := domainrange.New(cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return nil, fault.Invalid("checkout must be after checkin", cmd.CheckOut)
	}
	now := h.now()
	if domainrange.Day(dr.CheckIn).Before(domainrange.Day(now)) {
		return nil, ErrCheckInInPast
	}

	prop, err := unit.Properties().ByID(ctx, domainproperty.PropertyID(cmd.PropertyID))
	if err != nil {
		return nil, err
	}
	if !prop.Bookable() {
		return nil, ErrNotBookable
	}
	room, err := prop.Room(domainproperty.RoomID(cmd.RoomID))
	if err != nil {
		return nil, err
	}
	if err := room.CheckGuests(cmd.Adults, cmd.Children); err != nil {
		return nil, err
	}

	committed, err := unit.Bookings().CommittedRanges(ctx, room.ID)
	if err != nil {
		return nil, err
	}
	result, err := domainavailability.Check(room, dr, 1, committed)
	if err != nil {
		return nil, err
	}
	if !result.Available {
		return nil, ErrNoCapacity
	}

	price, err := h.Pricing.Quote(room, cmd.Adults, cmd.Children, dr.Nights())
	if err != nil {
		return nil, err
	}

	created, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:            domainbooking.BookingID(cmd.CommandID),
		PropertyID:    prop.ID,
		RoomID:        room.ID,
		GuestID:       cmd.GuestID,
		Range:         dr,
		Guests:        domainbooking.GuestCount{Adults: cmd.Adults, Children: cmd.Children},
		Price:         price,
		PaymentMethod: cmd.PaymentMethod,
		CreatedAt:     now,
	})
	if err != nil {
		return nil, err
	}

	if err := unit.Bookings().Save(ctx, created); err != nil {
		return nil, err
	}

	pending := created.PendingEvents()
	created.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), pending); err != nil {
		return nil, err
	}

	return &RequestBookingResult{BookingID: string(created.ID)}, nil
}

func (h *RequestBookingHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

func (h *RequestBookingHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

var _ commands.Handler[RequestBookingCommand, *RequestBookingResult] = (*RequestBookingHandler)(nil)
var _ middleware.IdempotentCommand = (*RequestBookingCommand)(nil)
