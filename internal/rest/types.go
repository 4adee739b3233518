package rest

import (
	"github.com/shopspring/decimal"

	"spotgateway/internal/filters"
)

// NewOrderRequest carries a resolved order to POST /api/v3/order.
// Zero-valued optional fields are omitted from the query string.
type NewOrderRequest struct {
	Symbol           string
	Side             string
	Type             string
	Quantity         decimal.Decimal
	QuoteOrderQty    decimal.Decimal
	Price            decimal.Decimal
	TimeInForce      string
	NewClientOrderID string
}

// OrderResponse is the exchange receipt for a placed order
type OrderResponse struct {
	Symbol              string          `json:"symbol"`
	OrderID             int64           `json:"orderId"`
	ClientOrderID       string          `json:"clientOrderId"`
	TransactTime        int64           `json:"transactTime"`
	Price               decimal.Decimal `json:"price"`
	OrigQty             decimal.Decimal `json:"origQty"`
	ExecutedQty         decimal.Decimal `json:"executedQty"`
	CummulativeQuoteQty decimal.Decimal `json:"cummulativeQuoteQty"`
	Status              string          `json:"status"`
	TimeInForce         string          `json:"timeInForce"`
	Type                string          `json:"type"`
	Side                string          `json:"side"`
	Fills               []Fill          `json:"fills"`
}

// Fill is a single trade execution within an order receipt
type Fill struct {
	Price           decimal.Decimal `json:"price"`
	Qty             decimal.Decimal `json:"qty"`
	Commission      decimal.Decimal `json:"commission"`
	CommissionAsset string          `json:"commissionAsset"`
	TradeID         int64           `json:"tradeId"`
}

// CancelResponse is the exchange receipt for a canceled order
type CancelResponse struct {
	Symbol        string          `json:"symbol"`
	OrderID       int64           `json:"orderId"`
	ClientOrderID string          `json:"origClientOrderId"`
	Price         decimal.Decimal `json:"price"`
	OrigQty       decimal.Decimal `json:"origQty"`
	ExecutedQty   decimal.Decimal `json:"executedQty"`
	Status        string          `json:"status"`
	Side          string          `json:"side"`
	Type          string          `json:"type"`
}

// TickerPrice is the current price for one symbol
type TickerPrice struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
}

// ExchangeInfo is the trading-rules response, reduced to the fields this
// gateway consumes
type ExchangeInfo struct {
	Timezone   string   `json:"timezone"`
	ServerTime int64    `json:"serverTime"`
	Symbols    []Symbol `json:"symbols"`
}

// Symbol is one symbol's entry in the exchange info
type Symbol struct {
	Symbol              string              `json:"symbol"`
	Status              string              `json:"status"`
	BaseAsset           string              `json:"baseAsset"`
	BaseAssetPrecision  int                 `json:"baseAssetPrecision"`
	QuoteAsset          string              `json:"quoteAsset"`
	QuoteAssetPrecision int                 `json:"quoteAssetPrecision"`
	OrderTypes          []string            `json:"orderTypes"`
	Filters             []filters.RawFilter `json:"filters"`
}

// AccountResponse is the account information snapshot
type AccountResponse struct {
	MakerCommission int64     `json:"makerCommission"`
	TakerCommission int64     `json:"takerCommission"`
	CanTrade        bool      `json:"canTrade"`
	CanWithdraw     bool      `json:"canWithdraw"`
	CanDeposit      bool      `json:"canDeposit"`
	UpdateTime      int64     `json:"updateTime"`
	AccountType     string    `json:"accountType"`
	Balances        []Balance `json:"balances"`
}

// Balance is a single asset balance
type Balance struct {
	Asset  string          `json:"asset"`
	Free   decimal.Decimal `json:"free"`
	Locked decimal.Decimal `json:"locked"`
}
