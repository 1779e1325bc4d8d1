package memory

import (
	"context"
	"errors"
	"fmt"

	"staynest/internal/app/uow"
	domainbooking "staynest/internal/domain/booking"
	domainproperty "staynest/internal/domain/property"
	"staynest/internal/domain/shared/fault"
)

var (
	ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")
	ErrReadOnlyUnit         = errors.New("memory: write attempted on read-only unit")
	ErrUnitClosed           = errors.New("memory: unit of work already finished")
	ErrConcurrentUpdate     = fmt.Errorf("memory: aggregate modified concurrently: %w", fault.ErrConcurrencyConflict)
)

// Factory hands out units of work over one shared Store. Write units hold the
// store's writer gate from Begin until Commit or Rollback, so write
// transactions are serialized the way a single-writer database would.
type Factory struct {
	Store *Store
}

func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.Store == nil {
		return nil, ErrFactoryMisconfigured
	}
	if !opts.ReadOnly {
		f.Store.writerGate.Lock()
	}
	return &Unit{
		store:    f.Store,
		readOnly: opts.ReadOnly,
	}, nil
}

// Unit stages writes locally and applies them on Commit under a version check.
// Rollback simply drops the staged aggregates.
type Unit struct {
	store    *Store
	readOnly bool
	finished bool

	stagedProperties map[domainproperty.PropertyID]*domainproperty.Property
	stagedBookings   map[domainbooking.BookingID]*domainbooking.Booking
}

func (u *Unit) Properties() domainproperty.Repository { return &propertyRepo{unit: u} }

func (u *Unit) Bookings() domainbooking.Repository { return &bookingRepo{unit: u} }

func (u *Unit) Commit(ctx context.Context) error {
	if u.finished {
		return ErrUnitClosed
	}
	u.finished = true
	if u.readOnly {
		return nil
	}
	defer u.store.writerGate.Unlock()

	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	for id, staged := range u.stagedProperties {
		current, exists := u.store.properties[id]
		if err := checkVersion(exists, versionOf(exists, current), staged.Version); err != nil {
			return err
		}
		staged.Version++
		u.store.properties[id] = staged
	}
	for id, staged := range u.stagedBookings {
		current, exists := u.store.bookings[id]
		if err := checkVersion(exists, bookingVersionOf(exists, current), staged.Version); err != nil {
			return err
		}
		staged.Version++
		u.store.bookings[id] = staged
	}
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	if u.finished {
		return nil
	}
	u.finished = true
	u.stagedProperties = nil
	u.stagedBookings = nil
	if !u.readOnly {
		u.store.writerGate.Unlock()
	}
	return nil
}

func checkVersion(exists bool, current, staged int64) error {
	if exists && current != staged {
		return ErrConcurrentUpdate
	}
	if !exists && staged != 0 {
		return ErrConcurrentUpdate
	}
	return nil
}

func versionOf(exists bool, p *domainproperty.Property) int64 {
	if !exists {
		return 0
	}
	return p.Version
}

func bookingVersionOf(exists bool, b *domainbooking.Booking) int64 {
	if !exists {
		return 0
	}
	return b.Version
}

var _ uow.UoWFactory = Factory{}
var _ uow.UnitOfWork = (*Unit)(nil)
