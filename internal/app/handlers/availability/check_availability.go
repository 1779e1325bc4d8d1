package availability

import (
	"context"
	"time"

	"staynest/internal/app/dto"
	handlersupport "staynest/internal/app/handlers/support"
	"staynest/internal/app/queries"
	"staynest/internal/app/uow"
	domainavailability "staynest/internal/domain/availability"
	domainproperty "staynest/internal/domain/property"
	domainrange "staynest/internal/domain/shared/daterange"
	"staynest/internal/domain/shared/fault"
)

const checkAvailabilityKey = "availability.check"

type CheckAvailabilityQuery struct {
	PropertyID string
	RoomID     string
	Start      time.Time
	End        time.Time
	Units      int
}

func (q CheckAvailabilityQuery) Key() string { return checkAvailabilityKey }

type CheckAvailabilityHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *CheckAvailabilityHandler) Handle(ctx context.Context, q CheckAvailabilityQuery) (dto.Availability, error) {
	dr, err := domainrange.New(q.Start, q.End)
	if err != nil {
		return dto.Availability{}, fault.Invalid("end must be after start", q.End)
	}
	units := q.Units
	if units == 0 {
		units = 1
	}

	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Availability{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	prop, err := unit.Properties().ByID(execCtx, domainproperty.PropertyID(q.PropertyID))
	if err != nil {
		return dto.Availability{}, err
	}
	room, err := prop.Room(domainproperty.RoomID(q.RoomID))
	if err != nil {
		return dto.Availability{}, err
	}

	committed, err := unit.Bookings().CommittedRanges(execCtx, room.ID)
	if err != nil {
		return dto.Availability{}, err
	}
	result, err := domainavailability.Check(room, dr, units, committed)
	if err != nil {
		return dto.Availability{}, err
	}
	return dto.NewAvailability(result), nil
}

var _ queries.Handler[CheckAvailabilityQuery, dto.Availability] = (*CheckAvailabilityHandler)(nil)
