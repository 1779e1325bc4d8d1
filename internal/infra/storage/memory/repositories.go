package memory

import (
	"context"
	"sort"
	"strings"

	domainbooking "staynest/internal/domain/booking"
	domainproperty "staynest/internal/domain/property"
	"staynest/internal/domain/shared/daterange"
	"staynest/internal/domain/shared/fault"
)

type propertyRepo struct {
	unit *Unit
}

func (r *propertyRepo) ByID(ctx context.Context, id domainproperty.PropertyID) (*domainproperty.Property, error) {
	if r.unit.finished {
		return nil, ErrUnitClosed
	}
	if staged, ok := r.unit.stagedProperties[id]; ok {
		return staged, nil
	}
	r.unit.store.mu.RLock()
	defer r.unit.store.mu.RUnlock()
	p, ok := r.unit.store.properties[id]
	if !ok {
		return nil, domainproperty.ErrNotFound
	}
	return cloneProperty(p), nil
}

func (r *propertyRepo) Save(ctx context.Context, p *domainproperty.Property) error {
	if r.unit.finished {
		return ErrUnitClosed
	}
	if r.unit.readOnly {
		return ErrReadOnlyUnit
	}
	if r.unit.stagedProperties == nil {
		r.unit.stagedProperties = make(map[domainproperty.PropertyID]*domainproperty.Property)
	}
	r.unit.stagedProperties[p.ID] = p
	return nil
}

type bookingRepo struct {
	unit *Unit
}

func (r *bookingRepo) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	if r.unit.finished {
		return nil, ErrUnitClosed
	}
	if staged, ok := r.unit.stagedBookings[id]; ok {
		return staged, nil
	}
	r.unit.store.mu.RLock()
	defer r.unit.store.mu.RUnlock()
	b, ok := r.unit.store.bookings[id]
	if !ok {
		return nil, domainbooking.ErrNotFound
	}
	return cloneBooking(b), nil
}

func (r *bookingRepo) Save(ctx context.Context, b *domainbooking.Booking) error {
	if r.unit.finished {
		return ErrUnitClosed
	}
	if r.unit.readOnly {
		return ErrReadOnlyUnit
	}
	if r.unit.stagedBookings == nil {
		r.unit.stagedBookings = make(map[domainbooking.BookingID]*domainbooking.Booking)
	}
	r.unit.stagedBookings[b.ID] = b
	return nil
}

// CommittedRanges merges the committed store view with this unit's staged
// writes so a booking saved earlier in the same transaction already counts
// against capacity.
func (r *bookingRepo) CommittedRanges(ctx context.Context, roomID domainproperty.RoomID) ([]daterange.DateRange, error) {
	if r.unit.finished {
		return nil, ErrUnitClosed
	}
	var ranges []daterange.DateRange
	r.unit.store.mu.RLock()
	for id, b := range r.unit.store.bookings {
		if _, staged := r.unit.stagedBookings[id]; staged {
			continue
		}
		if b.RoomID == roomID && b.State != domainbooking.StateCancelled {
			ranges = append(ranges, b.Range)
		}
	}
	r.unit.store.mu.RUnlock()
	for _, b := range r.unit.stagedBookings {
		if b.RoomID == roomID && b.State != domainbooking.StateCancelled {
			ranges = append(ranges, b.Range)
		}
	}
	return ranges, nil
}

func (r *bookingRepo) ListByGuest(ctx context.Context, guestID string) ([]*domainbooking.Booking, error) {
	if r.unit.finished {
		return nil, ErrUnitClosed
	}
	id := strings.TrimSpace(guestID)
	if id == "" {
		return nil, fault.Invalid("guest id is required", nil)
	}
	r.unit.store.mu.RLock()
	defer r.unit.store.mu.RUnlock()
	var matches []*domainbooking.Booking
	for _, b := range r.unit.store.bookings {
		if b.GuestID == id {
			matches = append(matches, cloneBooking(b))
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches, nil
}

var _ domainproperty.Repository = (*propertyRepo)(nil)
var _ domainbooking.Repository = (*bookingRepo)(nil)
