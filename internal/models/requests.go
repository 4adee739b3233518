package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"spotgateway/internal/orders"
)

// credentialLength is the exact length of exchange API keys and secrets
const credentialLength = 64

// Credentials are the caller's exchange API credentials, supplied per
// request and never persisted.
type Credentials struct {
	APIKey    string `json:"apiKey" binding:"required"`
	APISecret string `json:"apiSecret" binding:"required"`
}

// Validate checks the credential shape without calling the exchange
func (c *Credentials) Validate() error {
	if c.APIKey == "" || c.APISecret == "" {
		return fmt.Errorf("apiKey and apiSecret are required")
	}
	if len(c.APIKey) != credentialLength || len(c.APISecret) != credentialLength {
		return fmt.Errorf("apiKey and apiSecret must be %d characters long", credentialLength)
	}
	return nil
}

// BaseRequest is the envelope shared by credential-only endpoints
type BaseRequest struct {
	Credentials Credentials `json:"credentials" binding:"required"`
}

// OrderSpec is the caller's partial order. Numeric fields are decimal
// strings; accepting them as strings keeps the exchange's exact
// precision out of binary floats end to end.
type OrderSpec struct {
	Symbol        string `json:"symbol" binding:"required"`
	Side          string `json:"side" binding:"required,oneof=BUY SELL"`
	Type          string `json:"type" binding:"required,oneof=LIMIT MARKET"`
	Quantity      string `json:"quantity,omitempty"`
	QuoteOrderQty string `json:"quoteOrderQty,omitempty"`
	Price         string `json:"price,omitempty"`
	TimeInForce   string `json:"timeInForce,omitempty" binding:"omitempty,oneof=GTC IOC FOK"`
}

// CreateOrderRequest is the body of POST /orders/create
type CreateOrderRequest struct {
	Credentials Credentials `json:"credentials" binding:"required"`
	Order       OrderSpec   `json:"order" binding:"required"`
}

// CancelOrderRequest is the body of DELETE /orders/cancel
type CancelOrderRequest struct {
	Credentials Credentials `json:"credentials" binding:"required"`
	Symbol      string      `json:"symbol" binding:"required"`
	OrderID     int64       `json:"orderId" binding:"required"`
}

// Normalize upper-cases the symbol in place
func (o *OrderSpec) Normalize() {
	o.Symbol = strings.ToUpper(o.Symbol)
}

// Validate checks the shape rules that binding tags cannot express:
// which quantity-like fields a given order type requires.
func (o *OrderSpec) Validate() error {
	switch o.Type {
	case "MARKET":
		if o.Quantity == "" && o.QuoteOrderQty == "" {
			return fmt.Errorf("MARKET orders need quantity or quoteOrderQty")
		}
	case "LIMIT":
		if o.Quantity == "" && o.QuoteOrderQty == "" {
			return fmt.Errorf("LIMIT orders need quantity or quoteOrderQty")
		}
	}
	return nil
}

// ToOrderRequest parses the decimal strings into a typed order request
func (o *OrderSpec) ToOrderRequest() (orders.OrderRequest, error) {
	req := orders.OrderRequest{
		Symbol:      o.Symbol,
		Side:        orders.Side(o.Side),
		Type:        orders.OrderType(o.Type),
		TimeInForce: o.TimeInForce,
	}

	var err error
	if req.Quantity, err = parseOptionalDecimal("quantity", o.Quantity); err != nil {
		return orders.OrderRequest{}, err
	}
	if req.QuoteOrderQty, err = parseOptionalDecimal("quoteOrderQty", o.QuoteOrderQty); err != nil {
		return orders.OrderRequest{}, err
	}
	if req.Price, err = parseOptionalDecimal("price", o.Price); err != nil {
		return orders.OrderRequest{}, err
	}

	return req, nil
}

// parseOptionalDecimal parses a possibly-empty decimal string. Supplied
// values must be positive; zero quantities and prices are meaningless on
// a spot order.
func parseOptionalDecimal(field, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Decimal{}, nil
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid %s: %q", field, value)
	}
	if !d.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("%s must be positive, got %q", field, value)
	}

	return d, nil
}
