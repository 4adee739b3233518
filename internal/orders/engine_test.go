package orders

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spotgateway/internal/filters"
)

type stubSymbols struct {
	info *filters.SymbolInfo
	err  error
}

func (s *stubSymbols) SymbolInfo(ctx context.Context, symbol string) (*filters.SymbolInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.info, nil
}

func btcSymbolInfo() *filters.SymbolInfo {
	return &filters.SymbolInfo{
		Symbol:     "BTCUSDT",
		BaseAsset:  "BTC",
		QuoteAsset: "USDT",
		Filters: filters.FilterSet{
			LotSize: &filters.LotSizeFilter{
				MinQty:   d("0.00001"),
				MaxQty:   d("9000"),
				StepSize: d("0.00001"),
			},
			Price: &filters.PriceFilter{
				MinPrice: d("0.01"),
				MaxPrice: d("1000000"),
				TickSize: d("0.01"),
			},
			MinNotional: &filters.MinNotionalFilter{
				MinNotional: d("10"),
			},
		},
	}
}

func newTestEngine(symbols SymbolSource, prices PriceSource) *Engine {
	return NewEngine(symbols, NewBuilder(prices), zerolog.Nop())
}

func TestBuildAndValidate_AcceptsWellFormedLimit(t *testing.T) {
	engine := newTestEngine(&stubSymbols{info: btcSymbolInfo()}, &stubPrices{price: d("50000")})

	order, err := engine.BuildAndValidate(context.Background(), OrderRequest{
		Symbol:   "BTCUSDT",
		Side:     SideBuy,
		Type:     TypeLimit,
		Quantity: d("0.001"),
		Price:    d("50000.00"),
	})
	require.NoError(t, err)

	assert.Equal(t, TypeLimit, order.Type)
	assert.True(t, order.Price.Equal(d("50000")))
	assert.True(t, order.Quantity.Equal(d("0.001")))
	assert.Equal(t, TimeInForceGTC, order.TimeInForce)
}

func TestBuildAndValidate_SymbolNotFound(t *testing.T) {
	engine := newTestEngine(
		&stubSymbols{err: fmt.Errorf("%w: NOSUCH", ErrSymbolNotFound)},
		&stubPrices{},
	)

	_, err := engine.BuildAndValidate(context.Background(), OrderRequest{
		Symbol:   "NOSUCH",
		Side:     SideBuy,
		Type:     TypeMarket,
		Quantity: d("1"),
	})
	assert.ErrorIs(t, err, ErrSymbolNotFound)
}

func TestBuildAndValidate_NilSymbolInfoIsNotFound(t *testing.T) {
	// A source may report an absent symbol as (nil, nil) rather than
	// through the sentinel; that must not reach the validators.
	engine := newTestEngine(&stubSymbols{}, &stubPrices{})

	_, err := engine.BuildAndValidate(context.Background(), OrderRequest{
		Symbol:   "NOSUCH",
		Side:     SideSell,
		Type:     TypeMarket,
		Quantity: d("1"),
	})
	assert.ErrorIs(t, err, ErrSymbolNotFound)
}

func TestBuildAndValidate_SymbolFetchFailure(t *testing.T) {
	engine := newTestEngine(&stubSymbols{err: errors.New("exchange unreachable")}, &stubPrices{})

	_, err := engine.BuildAndValidate(context.Background(), OrderRequest{
		Symbol:   "BTCUSDT",
		Side:     SideBuy,
		Type:     TypeMarket,
		Quantity: d("1"),
	})

	var fe *FetchError
	assert.ErrorAs(t, err, &fe)
}

func TestBuildAndValidate_RejectsStepMisalignedQuantity(t *testing.T) {
	engine := newTestEngine(&stubSymbols{info: btcSymbolInfo()}, &stubPrices{})

	_, err := engine.BuildAndValidate(context.Background(), OrderRequest{
		Symbol:   "BTCUSDT",
		Side:     SideSell,
		Type:     TypeMarket,
		Quantity: d("0.000015"),
	})

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, filters.RejectQuantityStepMisaligned, ve.Kind)
	assert.Contains(t, ve.Reason, "0.00001")
	assert.True(t, ve.Suggested.Equal(d("0.00001")), "suggested %s", ve.Suggested)
}

func TestBuildAndValidate_AcceptsExactMinimumQuantity(t *testing.T) {
	engine := newTestEngine(&stubSymbols{info: btcSymbolInfo()}, &stubPrices{})

	order, err := engine.BuildAndValidate(context.Background(), OrderRequest{
		Symbol:   "BTCUSDT",
		Side:     SideSell,
		Type:     TypeMarket,
		Quantity: d("0.00001"),
	})
	require.NoError(t, err)
	assert.True(t, order.Quantity.Equal(d("0.00001")))
}

func TestBuildAndValidate_RejectsBelowMinimumQuantity(t *testing.T) {
	engine := newTestEngine(&stubSymbols{info: btcSymbolInfo()}, &stubPrices{})

	_, err := engine.BuildAndValidate(context.Background(), OrderRequest{
		Symbol:   "BTCUSDT",
		Side:     SideSell,
		Type:     TypeMarket,
		Quantity: d("0.000001"),
	})

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, filters.RejectQuantityOutOfRange, ve.Kind)
	assert.True(t, ve.Suggested.Equal(d("0.00001")))
}

func TestBuildAndValidate_QuantityRejectionShortCircuitsPrice(t *testing.T) {
	engine := newTestEngine(&stubSymbols{info: btcSymbolInfo()}, &stubPrices{})

	// Both quantity and price are invalid; the quantity rejection wins
	_, err := engine.BuildAndValidate(context.Background(), OrderRequest{
		Symbol:   "BTCUSDT",
		Side:     SideBuy,
		Type:     TypeLimit,
		Quantity: d("0.000015"),
		Price:    d("50000.123"),
	})

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, filters.RejectQuantityStepMisaligned, ve.Kind)
}

func TestBuildAndValidate_RejectsTickMisalignedPrice(t *testing.T) {
	engine := newTestEngine(&stubSymbols{info: btcSymbolInfo()}, &stubPrices{})

	_, err := engine.BuildAndValidate(context.Background(), OrderRequest{
		Symbol:   "BTCUSDT",
		Side:     SideBuy,
		Type:     TypeLimit,
		Quantity: d("0.001"),
		Price:    d("50000.123"),
	})

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, filters.RejectPriceTickMisaligned, ve.Kind)
	assert.True(t, ve.Suggested.Equal(d("50000.12")), "suggested %s", ve.Suggested)
}

func TestBuildAndValidate_MarketOrderSkipsPriceFilter(t *testing.T) {
	engine := newTestEngine(&stubSymbols{info: btcSymbolInfo()}, &stubPrices{})

	order, err := engine.BuildAndValidate(context.Background(), OrderRequest{
		Symbol:   "BTCUSDT",
		Side:     SideSell,
		Type:     TypeMarket,
		Quantity: d("0.5"),
	})
	require.NoError(t, err)
	assert.True(t, order.Price.IsZero())
}

func TestBuildAndValidate_QuoteMarketBuySkipsLotSize(t *testing.T) {
	engine := newTestEngine(&stubSymbols{info: btcSymbolInfo()}, &stubPrices{})

	order, err := engine.BuildAndValidate(context.Background(), OrderRequest{
		Symbol:        "BTCUSDT",
		Side:          SideBuy,
		Type:          TypeMarket,
		QuoteOrderQty: d("100"),
	})
	require.NoError(t, err)
	assert.True(t, order.QuoteOrderQty.Equal(d("100")))
}

func TestBuildAndValidate_RejectsBelowMinNotional(t *testing.T) {
	engine := newTestEngine(&stubSymbols{info: btcSymbolInfo()}, &stubPrices{})

	_, err := engine.BuildAndValidate(context.Background(), OrderRequest{
		Symbol:   "BTCUSDT",
		Side:     SideBuy,
		Type:     TypeLimit,
		Quantity: d("0.0001"),
		Price:    d("50000.00"),
	})

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, filters.RejectNotionalBelowMinimum, ve.Kind)
}

func TestBuildAndValidate_SuggestedQuantityResubmits(t *testing.T) {
	engine := newTestEngine(&stubSymbols{info: btcSymbolInfo()}, &stubPrices{})

	req := OrderRequest{
		Symbol:   "BTCUSDT",
		Side:     SideSell,
		Type:     TypeMarket,
		Quantity: d("1.000014"),
	}

	_, err := engine.BuildAndValidate(context.Background(), req)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	req.Quantity = ve.Suggested
	order, err := engine.BuildAndValidate(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, order.Quantity.Equal(d("1.00001")))
}

func TestBuildAndValidate_NoFiltersAlwaysValid(t *testing.T) {
	info := &filters.SymbolInfo{Symbol: "NEWUSDT", Filters: filters.FilterSet{}}
	engine := newTestEngine(&stubSymbols{info: info}, &stubPrices{price: d("1")})

	order, err := engine.BuildAndValidate(context.Background(), OrderRequest{
		Symbol:   "NEWUSDT",
		Side:     SideBuy,
		Type:     TypeLimit,
		Quantity: d("123.456789"),
	})
	require.NoError(t, err)
	assert.True(t, order.Price.Equal(d("0.99")))
}
