package memory

import (
	"sync"

	domainbooking "staynest/internal/domain/booking"
	domainproperty "staynest/internal/domain/property"
)

// Store is the shared in-memory dataset behind every unit of work. Aggregates
// are cloned on the way out so uncommitted mutation never leaks into the
// store; committed state changes only through Unit.Commit.
type Store struct {
	mu         sync.RWMutex
	writerGate sync.Mutex
	properties map[domainproperty.PropertyID]*domainproperty.Property
	bookings   map[domainbooking.BookingID]*domainbooking.Booking
}

func NewStore() *Store {
	return &Store{
		properties: make(map[domainproperty.PropertyID]*domainproperty.Property),
		bookings:   make(map[domainbooking.BookingID]*domainbooking.Booking),
	}
}

func cloneProperty(p *domainproperty.Property) *domainproperty.Property {
	out := *p
	out.ClearEvents()
	out.Rooms = make([]domainproperty.Room, len(p.Rooms))
	for i := range p.Rooms {
		out.Rooms[i] = cloneRoom(p.Rooms[i])
	}
	out.Images = cloneCollection(p.Images)
	out.Videos = cloneCollection(p.Videos)
	return &out
}

func cloneRoom(r domainproperty.Room) domainproperty.Room {
	out := r
	out.Beds = append([]domainproperty.Bed(nil), r.Beds...)
	out.Availability = append([]domainproperty.AvailabilityPeriod(nil), r.Availability...)
	out.Images = cloneCollection(r.Images)
	out.Videos = cloneCollection(r.Videos)
	return out
}

func cloneCollection(c domainproperty.MediaCollection) domainproperty.MediaCollection {
	out := domainproperty.MediaCollection{}
	out.Items = make([]domainproperty.MediaItem, len(c.Items))
	for i, item := range c.Items {
		item.Tags = append([]string(nil), item.Tags...)
		out.Items[i] = item
	}
	return out
}

func cloneBooking(b *domainbooking.Booking) *domainbooking.Booking {
	out := *b
	out.ClearEvents()
	if b.Cancellation != nil {
		record := *b.Cancellation
		out.Cancellation = &record
	}
	return &out
}
