package booking

import (
	"context"
	"sort"
	"strings"

	"staynest/internal/app/dto"
	handlersupport "staynest/internal/app/handlers/support"
	"staynest/internal/app/queries"
	"staynest/internal/app/uow"
	"staynest/internal/domain/shared/fault"
)

const listGuestBookingsKey = "guest.bookings.list"

type ListGuestBookingsQuery struct {
	GuestID string
}

func (q ListGuestBookingsQuery) Key() string { return listGuestBookingsKey }

type GuestBookingCollection struct {
	Items []dto.Booking `json:"items"`
}

type ListGuestBookingsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListGuestBookingsHandler) Handle(ctx context.Context, q ListGuestBookingsQuery) (GuestBookingCollection, error) {
	guestID := strings.TrimSpace(q.GuestID)
	if guestID == "" {
		return GuestBookingCollection{}, fault.Invalid("guest id is required", nil)
	}
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return GuestBookingCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	items, err := unit.Bookings().ListByGuest(execCtx, guestID)
	if err != nil {
		return GuestBookingCollection{}, err
	}

	out := GuestBookingCollection{Items: make([]dto.Booking, 0, len(items))}
	for _, b := range items {
		out.Items = append(out.Items, dto.NewBooking(b))
	}
	sort.Slice(out.Items, func(i, j int) bool {
		return out.Items[i].CreatedAt.After(out.Items[j].CreatedAt)
	})
	return out, nil
}

var _ queries.Handler[ListGuestBookingsQuery, GuestBookingCollection] = (*ListGuestBookingsHandler)(nil)
