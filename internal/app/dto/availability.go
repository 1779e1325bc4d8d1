package dto

import (
	"time"

	"staynest/internal/domain/availability"
)

type DayUnits struct {
	Date      time.Time `json:"date"`
	Remaining int       `json:"remaining"`
}

type Availability struct {
	Available bool       `json:"available"`
	ByDate    []DayUnits `json:"remaining_units_by_date"`
}

func NewAvailability(result availability.Result) Availability {
	out := Availability{Available: result.Available, ByDate: make([]DayUnits, 0, len(result.ByDate))}
	for _, day := range result.ByDate {
		out.ByDate = append(out.ByDate, DayUnits{Date: day.Date, Remaining: day.Remaining})
	}
	return out
}
