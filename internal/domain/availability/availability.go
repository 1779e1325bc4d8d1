package availability

import (
	"time"

	"staynest/internal/domain/property"
	"staynest/internal/domain/shared/daterange"
	"staynest/internal/domain/shared/fault"
)

// DayUnits is the remaining capacity of one calendar day.
type DayUnits struct {
	Date      time.Time
	Remaining int
}

// Result reports whether a range can host the requested units, with the
// per-day remainder so callers can show what ran out.
type Result struct {
	Available bool
	ByDate    []DayUnits
}

// Check walks every day in [start, end) of the requested range. The capacity
// for a day is the room's configured unit count (minimum across covering
// periods, zero when unconfigured) minus the committed stays overlapping that
// day. One day short of requestedUnits makes the whole range unavailable.
//
// committed must hold the date ranges of every non-cancelled booking for the
// room; each stay occupies exactly one unit.
func Check(room *property.Room, dr daterange.DateRange, requestedUnits int, committed []daterange.DateRange) (Result, error) {
	if room == nil {
		return Result{}, fault.Invalid("room is required", nil)
	}
	if err := dr.Validate(); err != nil {
		return Result{}, fault.Invalid("checkout must be after checkin", dr.CheckOut)
	}
	if requestedUnits < 1 {
		return Result{}, fault.Invalid("requested units must be at least 1", requestedUnits)
	}

	result := Result{Available: true}
	for _, day := range dr.Days() {
		remaining := room.CapacityOn(day) - occupiedOn(day, committed)
		if remaining < 0 {
			remaining = 0
		}
		if remaining < requestedUnits {
			result.Available = false
		}
		result.ByDate = append(result.ByDate, DayUnits{Date: day, Remaining: remaining})
	}
	return result, nil
}

// occupiedOn counts stays whose [checkIn, checkOut) covers the day. Stays are
// compared at day granularity so an afternoon check-in still claims the night.
func occupiedOn(day time.Time, committed []daterange.DateRange) int {
	count := 0
	for _, stay := range committed {
		if !day.Before(daterange.Day(stay.CheckIn)) && day.Before(daterange.Day(stay.CheckOut)) {
			count++
		}
	}
	return count
}
