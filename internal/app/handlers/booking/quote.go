package booking

import (
	"context"

	"staynest/internal/app/dto"
	"staynest/internal/app/handlers/support"
	"staynest/internal/app/queries"
	"staynest/internal/app/uow"
	"staynest/internal/domain/pricing"
	domainproperty "staynest/internal/domain/property"
	"staynest/internal/domain/shared/daterange"
)

const quotePriceKey = "booking.quote"

type QuotePriceQuery struct {
	PropertyID string
	RoomID     string
	CheckIn    string
	CheckOut   string
	Adults     int
	Children   int
}

func (q QuotePriceQuery) Key() string { return quotePriceKey }

type QuotePriceHandler struct {
	UoWFactory uow.UoWFactory
	Pricing    pricing.Calculator
}

// Handle prices a prospective stay without reserving anything. The same
// calculator runs again at booking time, so a quote never drifts from the
// amount actually charged.
func (h *QuotePriceHandler) Handle(ctx context.Context, query QuotePriceQuery) (*dto.PriceBreakdown, error) {
	dr, err := daterange.Parse(query.CheckIn, query.CheckOut)
	if err != nil {
		return nil, err
	}
	unit, ctx, done, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer done()

	prop, err := unit.Properties().ByID(ctx, domainproperty.PropertyID(query.PropertyID))
	if err != nil {
		return nil, err
	}
	room, err := prop.Room(domainproperty.RoomID(query.RoomID))
	if err != nil {
		return nil, err
	}
	breakdown, err := h.Pricing.Quote(room, query.Adults, query.Children, dr.Nights())
	if err != nil {
		return nil, err
	}
	out := dto.NewPriceBreakdown(breakdown)
	return &out, nil
}

var _ queries.Handler[QuotePriceQuery, *dto.PriceBreakdown] = (*QuotePriceHandler)(nil)
