package property

import (
	"time"

	"staynest/internal/domain/shared/daterange"
	"staynest/internal/domain/shared/fault"
	"staynest/internal/domain/shared/money"
)

// Bed describes one configured bed type inside a room.
type Bed struct {
	Kind         string
	Count        int
	Accommodates int
}

// Occupancy carries the guest limits of a room type. MaximumOccupancy must
// equal the summed sleeping capacity of the configured beds.
type Occupancy struct {
	BaseAdults       int
	MaximumAdults    int
	MaximumChildren  int
	MaximumOccupancy int
}

// RateCard is the per-night price configuration of a room type.
type RateCard struct {
	BaseAdultsCharge  money.Money
	ExtraAdultsCharge money.Money
	ChildCharge       money.Money
}

// AvailabilityPeriod declares bookable units for [Start, End). Periods may
// overlap; capacity reconciliation happens by date, not by period identity.
type AvailabilityPeriod struct {
	Start time.Time
	End   time.Time
	Units int
}

func (ap AvailabilityPeriod) Validate() error {
	if !ap.End.After(ap.Start) {
		return fault.Invalid("availability period end must be after start", ap.End)
	}
	if ap.Units < 1 {
		return fault.Invalid("availability period must offer at least one unit", ap.Units)
	}
	return nil
}

// Covers reports whether the period includes the given UTC calendar day.
// Period bounds are compared at day granularity.
func (ap AvailabilityPeriod) Covers(day time.Time) bool {
	return !day.Before(daterange.Day(ap.Start)) && day.Before(daterange.Day(ap.End))
}

// Room is one bookable room type, owned by exactly one Property.
type Room struct {
	ID           RoomID
	Name         string
	Beds         []Bed
	Occupancy    Occupancy
	Rates        RateCard
	Availability []AvailabilityPeriod
	Images       MediaCollection
	Videos       MediaCollection
}

func (r *Room) Validate() error {
	if r.ID == "" {
		return fault.Invalid("room id is required", nil)
	}
	if r.Occupancy.BaseAdults < 1 {
		return fault.Invalid("base adults must be at least 1", r.Occupancy.BaseAdults)
	}
	if r.Occupancy.BaseAdults > r.Occupancy.MaximumAdults {
		return fault.Invalid("base adults must not exceed maximum adults", r.Occupancy.BaseAdults)
	}
	if r.Occupancy.MaximumChildren < 0 {
		return fault.Invalid("maximum children must be non-negative", r.Occupancy.MaximumChildren)
	}
	if total := r.bedCapacity(); len(r.Beds) > 0 && r.Occupancy.MaximumOccupancy != total {
		return fault.Invalid("maximum occupancy must match total bed capacity", r.Occupancy.MaximumOccupancy)
	}
	if r.Rates.BaseAdultsCharge.Amount < 0 || r.Rates.ExtraAdultsCharge.Amount < 0 || r.Rates.ChildCharge.Amount < 0 {
		return fault.Invalid("room charges must be non-negative", nil)
	}
	for _, period := range r.Availability {
		if err := period.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// CheckGuests verifies a requested party against the occupancy limits.
func (r *Room) CheckGuests(adults, children int) error {
	if adults < 1 {
		return fault.Invalid("at least one adult is required", adults)
	}
	if children < 0 {
		return fault.Invalid("children must be non-negative", children)
	}
	if adults > r.Occupancy.MaximumAdults {
		return fault.Invalid("adults exceed room maximum", adults)
	}
	if children > r.Occupancy.MaximumChildren {
		return fault.Invalid("children exceed room maximum", children)
	}
	if adults+children > r.Occupancy.MaximumOccupancy {
		return fault.Invalid("party exceeds maximum occupancy", adults+children)
	}
	return nil
}

// CapacityOn returns the configured unit count for a UTC day: the minimum
// units across all covering periods, or zero when no period covers the day.
// Minimum wins on overlap so overlapping declarations can never oversell.
func (r *Room) CapacityOn(day time.Time) int {
	capacity := 0
	covered := false
	for _, period := range r.Availability {
		if !period.Covers(day) {
			continue
		}
		if !covered || period.Units < capacity {
			capacity = period.Units
		}
		covered = true
	}
	if !covered {
		return 0
	}
	return capacity
}

func (r *Room) bedCapacity() int {
	total := 0
	for _, bed := range r.Beds {
		total += bed.Count * bed.Accommodates
	}
	return total
}
