package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staynest/internal/domain/property"
	"staynest/internal/domain/shared/money"
)

func testRoom() *property.Room {
	return &property.Room{
		ID:   "room-1",
		Name: "Garden Suite",
		Occupancy: property.Occupancy{
			BaseAdults:       2,
			MaximumAdults:    4,
			MaximumChildren:  2,
			MaximumOccupancy: 6,
		},
		Rates: property.RateCard{
			BaseAdultsCharge:  money.Must(1000, "USD"),
			ExtraAdultsCharge: money.Must(300, "USD"),
			ChildCharge:       money.Must(150, "USD"),
		},
		Availability: []property.AvailabilityPeriod{{
			Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			Units: 2,
		}},
	}
}

func TestQuoteItemizedBreakdown(t *testing.T) {
	calc := Calculator{ServiceCharge: money.Must(50, "USD"), TaxRateBasisPoints: 1200}

	b, err := calc.Quote(testRoom(), 3, 1, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, b.Nights)
	assert.Equal(t, 1, b.ExtraAdults)
	assert.Equal(t, int64(2000), b.BaseCharge.Amount)
	assert.Equal(t, int64(600), b.ExtraAdultCharge.Amount)
	assert.Equal(t, int64(300), b.ChildCharge.Amount)
	assert.Equal(t, int64(2900), b.Subtotal.Amount)
	assert.Equal(t, int64(50), b.ServiceCharge.Amount)
	assert.Equal(t, int64(354), b.Taxes.Amount, "12 percent of subtotal plus service")
	assert.Equal(t, int64(3304), b.Total.Amount)
	assert.Equal(t, "USD", b.Total.Currency)
}

func TestQuoteDecomposition(t *testing.T) {
	calc := Calculator{ServiceCharge: money.Must(50, "USD"), TaxRateBasisPoints: 1200}

	b, err := calc.Quote(testRoom(), 4, 2, 3)
	require.NoError(t, err)

	subtotal := b.BaseCharge.Amount + b.ExtraAdultCharge.Amount + b.ChildCharge.Amount
	assert.Equal(t, subtotal, b.Subtotal.Amount)
	assert.Equal(t, b.Subtotal.Amount+b.ServiceCharge.Amount+b.Taxes.Amount, b.Total.Amount)
}

func TestQuoteDeterministic(t *testing.T) {
	calc := Calculator{ServiceCharge: money.Must(50, "USD"), TaxRateBasisPoints: 1200}

	first, err := calc.Quote(testRoom(), 3, 1, 2)
	require.NoError(t, err)
	second, err := calc.Quote(testRoom(), 3, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestQuoteNoExtraAdultsWithinBase(t *testing.T) {
	calc := Calculator{TaxRateBasisPoints: 1200}

	b, err := calc.Quote(testRoom(), 2, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, b.ExtraAdults)
	assert.True(t, b.ExtraAdultCharge.IsZero())
	assert.True(t, b.ChildCharge.IsZero())
	assert.Equal(t, int64(1000), b.Subtotal.Amount)
}

func TestQuoteRejectsInvalidStays(t *testing.T) {
	calc := Calculator{ServiceCharge: money.Must(50, "USD"), TaxRateBasisPoints: 1200}

	_, err := calc.Quote(testRoom(), 3, 1, 0)
	assert.Error(t, err, "zero nights")

	_, err = calc.Quote(testRoom(), 5, 0, 2)
	assert.Error(t, err, "adults above maximum")

	_, err = calc.Quote(testRoom(), 0, 1, 2)
	assert.Error(t, err, "no adults")

	_, err = calc.Quote(nil, 1, 0, 1)
	assert.Error(t, err, "nil room")
}

func TestQuoteZeroServiceCharge(t *testing.T) {
	calc := Calculator{TaxRateBasisPoints: 1200}

	b, err := calc.Quote(testRoom(), 2, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), b.ServiceCharge.Amount)
	assert.Equal(t, int64(240), b.Taxes.Amount)
	assert.Equal(t, int64(2240), b.Total.Amount)
}
