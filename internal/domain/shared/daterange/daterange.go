package daterange

import (
	"fmt"
	"time"

	"staynest/internal/domain/shared/fault"
)

var ErrInvalidRange = fmt.Errorf("daterange: checkout must be after checkin: %w", fault.ErrValidation)

const dateLayout = "2006-01-02"

// DateRange represents a half-open interval [checkIn, checkOut)
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

func New(checkIn, checkOut time.Time) (DateRange, error) {
	dr := DateRange{CheckIn: checkIn.UTC(), CheckOut: checkOut.UTC()}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

// Parse builds a range from two ISO calendar dates (2006-01-02).
func Parse(checkIn, checkOut string) (DateRange, error) {
	start, err := time.Parse(dateLayout, checkIn)
	if err != nil {
		return DateRange{}, fault.Invalid("checkin must be a 2006-01-02 date", checkIn)
	}
	end, err := time.Parse(dateLayout, checkOut)
	if err != nil {
		return DateRange{}, fault.Invalid("checkout must be a 2006-01-02 date", checkOut)
	}
	return New(start, end)
}

func (dr DateRange) Validate() error {
	if dr.CheckOut.IsZero() || dr.CheckIn.IsZero() {
		return ErrInvalidRange
	}
	if !dr.CheckOut.After(dr.CheckIn) {
		return ErrInvalidRange
	}
	return nil
}

func (dr DateRange) Nights() int {
	return int(dr.CheckOut.Sub(dr.CheckIn).Hours() / 24)
}

func (dr DateRange) Overlaps(other DateRange) bool {
	return dr.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(dr.CheckOut)
}

func (dr DateRange) ContainsDate(t time.Time) bool {
	t = t.UTC()
	return (t.Equal(dr.CheckIn) || t.After(dr.CheckIn)) && t.Before(dr.CheckOut)
}

// Days enumerates the calendar days covered by the range, truncated to UTC
// midnight. The checkout day itself is excluded.
func (dr DateRange) Days() []time.Time {
	start := Day(dr.CheckIn)
	end := Day(dr.CheckOut)
	var days []time.Time
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Day truncates a timestamp to its UTC calendar day.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
