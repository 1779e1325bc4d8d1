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

const cancelBookingKey = "booking.cancel"

type CancelBookingCommand struct {
	BookingID string
	Reason    string
}

func (c CancelBookingCommand) Key() string { return cancelBookingKey }

type CancelBookingResult struct {
	BookingID        string `json:"booking_id"`
	Status           string `json:"status"`
	RefundPercentage int    `json:"refund_percentage"`
	RefundAmount     int64  `json:"refund_amount"`
	Currency         string `json:"currency"`
}

type CancelBookingHandler struct {
	Policy  domainbooking.RefundPolicy
	Logger  *slog.Logger
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Now     func() time.Time
}

// Handle cancels a booking and computes the refund from the policy tiers.
// Cancellation is terminal; the domain rejects any later transition.
func (h *CancelBookingHandler) Handle(ctx context.Context, cmd CancelBookingCommand) (*CancelBookingResult, error) {
	id := strings.TrimSpace(cmd.BookingID)
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

	record, err := b.Cancel(h.Policy, strings.TrimSpace(cmd.Reason), nowOrDefault(h.Now))
	if err != nil {
		return nil, err
	}
	if err := unit.Bookings().Save(ctx, b); err != nil {
		return nil, err
	}

	pending := b.PendingEvents()
	b.ClearEvents()
	enc := h.Encoder
	if enc == nil {
		enc = outbox.JSONEventEncoder{}
	}
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, enc, pending); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("booking cancelled", "booking_id", b.ID, "refund_percentage", record.RefundPercentage, "refund_amount", record.RefundAmount.Amount)
	}

	return &CancelBookingResult{
		BookingID:        string(b.ID),
		Status:           string(b.State),
		RefundPercentage: record.RefundPercentage,
		RefundAmount:     record.RefundAmount.Amount,
		Currency:         record.RefundAmount.Currency,
	}, nil
}

var _ commands.Handler[CancelBookingCommand, *CancelBookingResult] = (*CancelBookingHandler)(nil)
