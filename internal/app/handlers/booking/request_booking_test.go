package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appoutbox "staynest/internal/app/outbox"
	"staynest/internal/app/uow"
	domainbooking "staynest/internal/domain/booking"
	domainpricing "staynest/internal/domain/pricing"
	domainproperty "staynest/internal/domain/property"
	"staynest/internal/domain/shared/fault"
	"staynest/internal/domain/shared/money"
	"staynest/internal/infra/storage/memory"
)

var handlerNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return handlerNow }

func testCalculator() domainpricing.Calculator {
	return domainpricing.Calculator{
		ServiceCharge:      money.Must(50, "USD"),
		TaxRateBasisPoints: 1200,
	}
}

// seedProperty commits a published single-room listing with the given unit
// count into the store.
func seedProperty(t *testing.T, store *memory.Store, units int) *domainproperty.Property {
	t.Helper()
	prop, err := domainproperty.New(domainproperty.CreateParams{
		ID:    "prop-1",
		Host:  "host-1",
		Title: "Harbour House",
		Address: domainproperty.Address{
			Line1:   "1 Quay Street",
			City:    "Auckland",
			Country: "NZ",
		},
		Now: handlerNow,
	})
	require.NoError(t, err)
	room := domainproperty.Room{
		ID:   "room-1",
		Name: "Studio",
		Occupancy: domainproperty.Occupancy{
			BaseAdults:       2,
			MaximumAdults:    3,
			MaximumChildren:  1,
			MaximumOccupancy: 4,
		},
		Rates: domainproperty.RateCard{
			BaseAdultsCharge:  money.Must(1000, "USD"),
			ExtraAdultsCharge: money.Must(300, "USD"),
			ChildCharge:       money.Must(150, "USD"),
		},
		Availability: []domainproperty.AvailabilityPeriod{
			{Start: handlerNow, End: handlerNow.AddDate(0, 3, 0), Units: units},
		},
	}
	require.NoError(t, prop.AddRoom(room, handlerNow))
	prop.State = domainproperty.PropertyPublished
	prop.ClearEvents()

	commitProperty(t, store, prop)
	return prop
}

func commitProperty(t *testing.T, store *memory.Store, prop *domainproperty.Property) {
	t.Helper()
	factory := memory.Factory{Store: store}
	unit, err := factory.Begin(context.Background(), uow.TxOptions{})
	require.NoError(t, err)
	require.NoError(t, unit.Properties().Save(context.Background(), prop))
	require.NoError(t, unit.Commit(context.Background()))
}

func bookingCommand(commandID string) RequestBookingCommand {
	return RequestBookingCommand{
		CommandID:     commandID,
		PropertyID:    "prop-1",
		RoomID:        "room-1",
		GuestID:       "guest-1",
		CheckIn:       time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
		CheckOut:      time.Date(2026, time.March, 12, 0, 0, 0, 0, time.UTC),
		Adults:        2,
		Children:      0,
		PaymentMethod: "card",
	}
}

func TestRequestBookingCreatesPendingBooking(t *testing.T) {
	store := memory.NewStore()
	seedProperty(t, store, 2)

	var flushed []appoutbox.EventRecord
	box := memory.NewOutbox()
	box.Sink = func(ctx context.Context, records []appoutbox.EventRecord) error {
		flushed = append(flushed, records...)
		return nil
	}

	handler := &RequestBookingHandler{
		UoWFactory: memory.Factory{Store: store},
		Pricing:    testCalculator(),
		Outbox:     box,
		Now:        fixedNow,
	}

	result, err := handler.Handle(context.Background(), bookingCommand("cmd-1"))
	require.NoError(t, err)
	assert.Equal(t, "cmd-1", result.BookingID)

	unit, err := memory.Factory{Store: store}.Begin(context.Background(), uow.TxOptions{ReadOnly: true})
	require.NoError(t, err)
	defer unit.Rollback(context.Background())

	created, err := unit.Bookings().ByID(context.Background(), "cmd-1")
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatePending, created.State)
	assert.Equal(t, "guest-1", created.GuestID)
	assert.Equal(t, int64(2296), created.Price.Total.Amount, "2 adults, 2 nights, 50 service, 12 percent tax")

	require.NoError(t, box.Flush(context.Background()))
	require.Len(t, flushed, 1)
	assert.Equal(t, "booking.requested", flushed[0].Name)
}

func TestRequestBookingRejectsFullRoom(t *testing.T) {
	store := memory.NewStore()
	seedProperty(t, store, 1)
	handler := &RequestBookingHandler{
		UoWFactory: memory.Factory{Store: store},
		Pricing:    testCalculator(),
		Now:        fixedNow,
	}

	_, err := handler.Handle(context.Background(), bookingCommand("cmd-1"))
	require.NoError(t, err)

	second := bookingCommand("cmd-2")
	second.GuestID = "guest-2"
	_, err = handler.Handle(context.Background(), second)
	assert.ErrorIs(t, err, fault.ErrUnavailable)
}

func TestRequestBookingIgnoresCancelledStays(t *testing.T) {
	store := memory.NewStore()
	seedProperty(t, store, 1)
	handler := &RequestBookingHandler{
		UoWFactory: memory.Factory{Store: store},
		Pricing:    testCalculator(),
		Now:        fixedNow,
	}

	_, err := handler.Handle(context.Background(), bookingCommand("cmd-1"))
	require.NoError(t, err)

	cancel := &CancelBookingHandler{
		Policy: domainbooking.DefaultRefundPolicy(),
		Now:    fixedNow,
	}
	unit, err := memory.Factory{Store: store}.Begin(context.Background(), uow.TxOptions{})
	require.NoError(t, err)
	ctx := uow.ContextWithUnitOfWork(context.Background(), unit)
	_, err = cancel.Handle(ctx, CancelBookingCommand{BookingID: "cmd-1", Reason: "changed plans"})
	require.NoError(t, err)
	require.NoError(t, unit.Commit(ctx))

	second := bookingCommand("cmd-2")
	second.GuestID = "guest-2"
	result, err := handler.Handle(context.Background(), second)
	require.NoError(t, err, "cancelled stay releases the unit")
	assert.Equal(t, "cmd-2", result.BookingID)
}

func TestRequestBookingRejectsUnpublishedProperty(t *testing.T) {
	store := memory.NewStore()
	prop := seedProperty(t, store, 1)
	prop.State = domainproperty.PropertyDraft
	commitProperty(t, store, prop)

	handler := &RequestBookingHandler{
		UoWFactory: memory.Factory{Store: store},
		Pricing:    testCalculator(),
		Now:        fixedNow,
	}

	_, err := handler.Handle(context.Background(), bookingCommand("cmd-1"))
	assert.ErrorIs(t, err, fault.ErrValidation)
}

func TestRequestBookingRejectsPastCheckIn(t *testing.T) {
	store := memory.NewStore()
	seedProperty(t, store, 1)
	handler := &RequestBookingHandler{
		UoWFactory: memory.Factory{Store: store},
		Pricing:    testCalculator(),
		Now:        fixedNow,
	}

	cmd := bookingCommand("cmd-1")
	cmd.CheckIn = handlerNow.AddDate(0, 0, -2)
	cmd.CheckOut = handlerNow.AddDate(0, 0, 2)
	_, err := handler.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, fault.ErrValidation)
}

func TestRequestBookingUnknownPropertyAndRoom(t *testing.T) {
	store := memory.NewStore()
	seedProperty(t, store, 1)
	handler := &RequestBookingHandler{
		UoWFactory: memory.Factory{Store: store},
		Pricing:    testCalculator(),
		Now:        fixedNow,
	}

	cmd := bookingCommand("cmd-1")
	cmd.PropertyID = "prop-9"
	_, err := handler.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, fault.ErrNotFound)

	cmd = bookingCommand("cmd-2")
	cmd.RoomID = "room-9"
	_, err = handler.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, fault.ErrNotFound)
}

// Two requests racing for the last unit must never both succeed: the loser
// either sees the winner's stay or loses the version race and surfaces a
// conflict after its retry.
func TestRequestBookingConcurrentLastUnit(t *testing.T) {
	store := memory.NewStore()
	seedProperty(t, store, 1)
	handler := &RequestBookingHandler{
		UoWFactory: memory.Factory{Store: store},
		Pricing:    testCalculator(),
		Now:        fixedNow,
	}

	type outcome struct {
		result *RequestBookingResult
		err    error
	}
	outcomes := make([]outcome, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cmd := bookingCommand("cmd-" + string(rune('1'+i)))
			cmd.GuestID = "guest-" + string(rune('1'+i))
			res, err := handler.Handle(context.Background(), cmd)
			outcomes[i] = outcome{result: res, err: err}
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, out := range outcomes {
		if out.err == nil {
			wins++
			require.NotNil(t, out.result)
			continue
		}
		lost := errors.Is(out.err, fault.ErrUnavailable) || errors.Is(out.err, fault.ErrConcurrencyConflict)
		assert.True(t, lost, "loser must surface unavailable or conflict, got %v", out.err)
	}
	require.Equal(t, 1, wins, "exactly one request takes the last unit")

	unit, err := memory.Factory{Store: store}.Begin(context.Background(), uow.TxOptions{ReadOnly: true})
	require.NoError(t, err)
	defer unit.Rollback(context.Background())
	ranges, err := unit.Bookings().CommittedRanges(context.Background(), "room-1")
	require.NoError(t, err)
	assert.Len(t, ranges, 1)
}
