package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddRejectsCurrencyMismatch(t *testing.T) {
	usd := Money{Amount: 100, Currency: "USD"}
	eur := Money{Amount: 100, Currency: "EUR"}

	_, err := usd.Add(eur)
	assert.Error(t, err)

	sum, err := usd.Add(Money{Amount: 50, Currency: "USD"})
	require.NoError(t, err)
	assert.Equal(t, int64(150), sum.Amount)
}

func TestPercentBasisPoints(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		bp     int64
		want   int64
	}{
		{"twelve percent", 2950, 1200, 354},
		{"rounds half away from zero", 125, 1000, 13},
		{"zero rate", 1000, 0, 0},
		{"full rate", 1000, 10000, 1000},
		{"ninety percent refund", 3304, 9000, 2974},
		{"fifty percent refund", 3304, 5000, 1652},
		{"negative amount rounds away from zero", -125, 1000, -13},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Money{Amount: tc.amount, Currency: "USD"}.PercentBasisPoints(tc.bp)
			assert.Equal(t, tc.want, got.Amount)
			assert.Equal(t, "USD", got.Currency)
		})
	}
}

func TestMultiply(t *testing.T) {
	m := Money{Amount: 300, Currency: "USD"}
	assert.Equal(t, int64(900), m.Multiply(3).Amount)
	assert.Equal(t, int64(0), m.Multiply(0).Amount)
}
