package pricing

import (
	"staynest/internal/domain/property"
	"staynest/internal/domain/shared/fault"
	"staynest/internal/domain/shared/money"
)

// Breakdown itemizes a quoted stay. Subtotal always equals the sum of the
// three charge lines and Total always equals subtotal + service + taxes; the
// calculator recomputes everything from inputs and never clamps.
type Breakdown struct {
	Nights           int         `json:"nights" bson:"nights"`
	ExtraAdults      int         `json:"extra_adults" bson:"extra_adults"`
	BaseCharge       money.Money `json:"base_charge" bson:"base_charge"`
	ExtraAdultCharge money.Money `json:"extra_adult_charge" bson:"extra_adult_charge"`
	ChildCharge      money.Money `json:"child_charge" bson:"child_charge"`
	Subtotal         money.Money `json:"subtotal" bson:"subtotal"`
	ServiceCharge    money.Money `json:"service_charge" bson:"service_charge"`
	Taxes            money.Money `json:"taxes" bson:"taxes"`
	Total            money.Money `json:"total" bson:"total"`
}

// Calculator turns a room's rate card and a party into a price breakdown.
// ServiceCharge is the flat platform fee and TaxRateBasisPoints the tax rate
// (1200 = 12%); both come from configuration.
type Calculator struct {
	ServiceCharge      money.Money
	TaxRateBasisPoints int64
}

// Quote computes the itemized price for a stay. It is pure: identical inputs
// always produce identical output.
func (c Calculator) Quote(room *property.Room, adults, children, nights int) (Breakdown, error) {
	if room == nil {
		return Breakdown{}, fault.Invalid("room is required", nil)
	}
	if nights <= 0 {
		return Breakdown{}, fault.Invalid("nights must be positive", nights)
	}
	if err := room.CheckGuests(adults, children); err != nil {
		return Breakdown{}, err
	}

	extraAdults := adults - room.Occupancy.BaseAdults
	if extraAdults < 0 {
		extraAdults = 0
	}

	rates := room.Rates
	breakdown := Breakdown{
		Nights:           nights,
		ExtraAdults:      extraAdults,
		BaseCharge:       rates.BaseAdultsCharge.Multiply(int64(nights)),
		ExtraAdultCharge: rates.ExtraAdultsCharge.Multiply(int64(extraAdults)).Multiply(int64(nights)),
		ChildCharge:      rates.ChildCharge.Multiply(int64(children)).Multiply(int64(nights)),
	}

	subtotal, err := breakdown.BaseCharge.Add(breakdown.ExtraAdultCharge)
	if err != nil {
		return Breakdown{}, err
	}
	subtotal, err = subtotal.Add(breakdown.ChildCharge)
	if err != nil {
		return Breakdown{}, err
	}
	breakdown.Subtotal = subtotal

	service := c.ServiceCharge
	if service.Currency == "" {
		service = money.Money{Amount: c.ServiceCharge.Amount, Currency: subtotal.Currency}
	}
	breakdown.ServiceCharge = service

	taxable, err := subtotal.Add(service)
	if err != nil {
		return Breakdown{}, err
	}
	breakdown.Taxes = taxable.PercentBasisPoints(c.TaxRateBasisPoints)

	total, err := taxable.Add(breakdown.Taxes)
	if err != nil {
		return Breakdown{}, err
	}
	breakdown.Total = total
	return breakdown, nil
}
