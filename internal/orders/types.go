package orders

import (
	"context"

	"github.com/shopspring/decimal"

	"spotgateway/internal/filters"
)

// Side is the order direction
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// OrderType is the execution type of an order
type OrderType string

const (
	TypeLimit  OrderType = "LIMIT"
	TypeMarket OrderType = "MARKET"
)

// Time-in-force policies
const (
	TimeInForceGTC = "GTC"
	TimeInForceIOC = "IOC"
	TimeInForceFOK = "FOK"
)

// OrderRequest is a partial order as submitted by the caller. Quantity,
// QuoteOrderQty and Price are optional depending on side and type; a zero
// value means the field was not supplied.
type OrderRequest struct {
	Symbol        string
	Side          Side
	Type          OrderType
	Quantity      decimal.Decimal
	QuoteOrderQty decimal.Decimal
	Price         decimal.Decimal
	TimeInForce   string
}

// ResolvedOrder is a fully specified order ready for submission.
// A LIMIT order always carries both price and quantity and a time in
// force; a MARKET order never carries a price.
type ResolvedOrder struct {
	Symbol        string
	Side          Side
	Type          OrderType
	Quantity      decimal.Decimal
	QuoteOrderQty decimal.Decimal
	Price         decimal.Decimal
	TimeInForce   string
}

// PriceSource supplies the current market price for a symbol
type PriceSource interface {
	CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// SymbolSource supplies a fresh trading-rule snapshot for a symbol
type SymbolSource interface {
	SymbolInfo(ctx context.Context, symbol string) (*filters.SymbolInfo, error)
}
