package filters

import (
	"github.com/shopspring/decimal"
)

// RawFilter is the wire representation of a single exchange filter.
// Numeric fields arrive as exact decimal strings and are only parsed
// when the filter kind is recognized.
type RawFilter struct {
	FilterType  string `json:"filterType"`
	MinPrice    string `json:"minPrice,omitempty"`
	MaxPrice    string `json:"maxPrice,omitempty"`
	TickSize    string `json:"tickSize,omitempty"`
	MinQty      string `json:"minQty,omitempty"`
	MaxQty      string `json:"maxQty,omitempty"`
	StepSize    string `json:"stepSize,omitempty"`
	MinNotional string `json:"minNotional,omitempty"`
}

// LotSizeFilter constrains order quantity
type LotSizeFilter struct {
	MinQty   decimal.Decimal
	MaxQty   decimal.Decimal
	StepSize decimal.Decimal
}

// PriceFilter constrains order price
type PriceFilter struct {
	MinPrice decimal.Decimal
	MaxPrice decimal.Decimal
	TickSize decimal.Decimal
}

// MinNotionalFilter constrains the minimum order value (price * quantity)
type MinNotionalFilter struct {
	MinNotional decimal.Decimal
}

// FilterSet holds at most one filter of each recognized kind for a symbol.
// A nil entry means the exchange imposes no constraint of that kind.
type FilterSet struct {
	LotSize     *LotSizeFilter
	Price       *PriceFilter
	MinNotional *MinNotionalFilter
}

// SymbolInfo is an immutable snapshot of a symbol's trading rules,
// fetched fresh per validation call.
type SymbolInfo struct {
	Symbol              string
	BaseAsset           string
	QuoteAsset          string
	BaseAssetPrecision  int
	QuoteAssetPrecision int
	Filters             FilterSet
}

// Filter type discriminators used by the exchange
const (
	FilterTypeLotSize     = "LOT_SIZE"
	FilterTypePriceFilter = "PRICE_FILTER"
	FilterTypeMinNotional = "MIN_NOTIONAL"
	FilterTypeNotional    = "NOTIONAL"
)
