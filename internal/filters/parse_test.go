package filters

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilterSet(t *testing.T) {
	raw := []RawFilter{
		{
			FilterType: "PRICE_FILTER",
			MinPrice:   "0.01000000",
			MaxPrice:   "1000000.00000000",
			TickSize:   "0.01000000",
		},
		{
			FilterType: "LOT_SIZE",
			MinQty:     "0.00001000",
			MaxQty:     "9000.00000000",
			StepSize:   "0.00001000",
		},
		{
			FilterType:  "NOTIONAL",
			MinNotional: "10.00000000",
		},
		{
			// Unrecognized kinds are ignored
			FilterType: "ICEBERG_PARTS",
		},
	}

	set, err := ParseFilterSet(raw)
	require.NoError(t, err)

	require.NotNil(t, set.LotSize)
	assert.True(t, set.LotSize.MinQty.Equal(decimal.RequireFromString("0.00001")))
	assert.True(t, set.LotSize.MaxQty.Equal(decimal.RequireFromString("9000")))
	assert.True(t, set.LotSize.StepSize.Equal(decimal.RequireFromString("0.00001")))

	require.NotNil(t, set.Price)
	assert.True(t, set.Price.MinPrice.Equal(decimal.RequireFromString("0.01")))
	assert.True(t, set.Price.TickSize.Equal(decimal.RequireFromString("0.01")))

	require.NotNil(t, set.MinNotional)
	assert.True(t, set.MinNotional.MinNotional.Equal(decimal.RequireFromString("10")))
}

func TestParseFilterSet_Empty(t *testing.T) {
	set, err := ParseFilterSet(nil)
	require.NoError(t, err)

	// Absence of a filter kind means no constraint of that kind
	assert.Nil(t, set.LotSize)
	assert.Nil(t, set.Price)
	assert.Nil(t, set.MinNotional)
}

func TestParseFilterSet_Malformed(t *testing.T) {
	testCases := []struct {
		name string
		raw  RawFilter
	}{
		{
			name: "missing required field",
			raw:  RawFilter{FilterType: "LOT_SIZE", MinQty: "0.001", MaxQty: "100"},
		},
		{
			name: "unparsable decimal",
			raw:  RawFilter{FilterType: "LOT_SIZE", MinQty: "abc", MaxQty: "100", StepSize: "0.001"},
		},
		{
			name: "negative value",
			raw:  RawFilter{FilterType: "PRICE_FILTER", MinPrice: "-0.01", MaxPrice: "100", TickSize: "0.01"},
		},
		{
			name: "missing notional",
			raw:  RawFilter{FilterType: "MIN_NOTIONAL"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseFilterSet([]RawFilter{tc.raw})
			assert.ErrorIs(t, err, ErrMalformedFilter)
		})
	}
}

func TestParseFilterSet_FirstOfKindWins(t *testing.T) {
	raw := []RawFilter{
		{FilterType: "LOT_SIZE", MinQty: "0.01", MaxQty: "100", StepSize: "0.01"},
		{FilterType: "LOT_SIZE", MinQty: "0.5", MaxQty: "200", StepSize: "0.5"},
	}

	set, err := ParseFilterSet(raw)
	require.NoError(t, err)
	assert.True(t, set.LotSize.MinQty.Equal(decimal.RequireFromString("0.01")))
}
