package orders

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultLimitPriceOffset places a derived limit price 1% away from the
// current market price so the order rests instead of crossing the spread.
var DefaultLimitPriceOffset = decimal.RequireFromString("0.01")

// Builder derives a fully specified order from a partial request,
// fetching the current market price when a limit order omits one.
type Builder struct {
	prices PriceSource
	offset decimal.Decimal
}

// BuilderOption configures a Builder
type BuilderOption func(*Builder)

// WithLimitPriceOffset overrides the passive limit-price offset.
// An offset of 0.01 means 1% below market for buys, 1% above for sells.
func WithLimitPriceOffset(offset decimal.Decimal) BuilderOption {
	return func(b *Builder) {
		b.offset = offset
	}
}

// NewBuilder creates an order builder backed by the given price source
func NewBuilder(prices PriceSource, opts ...BuilderOption) *Builder {
	b := &Builder{
		prices: prices,
		offset: DefaultLimitPriceOffset,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Build resolves a partial order request into a submittable order
func (b *Builder) Build(ctx context.Context, req OrderRequest) (ResolvedOrder, error) {
	order := ResolvedOrder{
		Symbol: req.Symbol,
		Side:   req.Side,
		Type:   req.Type,
	}

	switch req.Type {
	case TypeMarket:
		if err := b.buildMarket(&order, req); err != nil {
			return ResolvedOrder{}, err
		}
	case TypeLimit:
		if err := b.buildLimit(ctx, &order, req); err != nil {
			return ResolvedOrder{}, err
		}
	default:
		return ResolvedOrder{}, fmt.Errorf("%w: %s", ErrUnsupportedOrderType, req.Type)
	}

	return order, nil
}

// buildMarket fills the quantity fields of a market order. Buys may spend
// a quote-denominated amount; sells size in the base asset only, so a
// quoteOrderQty on a sell is ignored.
func (b *Builder) buildMarket(order *ResolvedOrder, req OrderRequest) error {
	if req.Side == SideBuy {
		switch {
		case req.QuoteOrderQty.IsPositive():
			order.QuoteOrderQty = req.QuoteOrderQty
		case req.Quantity.IsPositive():
			order.Quantity = req.Quantity
		default:
			return fmt.Errorf("%w: market buy needs quantity or quoteOrderQty", ErrMissingQuantity)
		}
		return nil
	}

	if !req.Quantity.IsPositive() {
		return fmt.Errorf("%w: market sell needs quantity", ErrMissingQuantity)
	}
	order.Quantity = req.Quantity

	return nil
}

// buildLimit fills price, quantity and time in force of a limit order
func (b *Builder) buildLimit(ctx context.Context, order *ResolvedOrder, req OrderRequest) error {
	if req.Price.IsPositive() {
		order.Price = req.Price
	} else {
		price, err := b.passivePrice(ctx, req.Symbol, req.Side)
		if err != nil {
			return err
		}
		order.Price = price
	}

	switch {
	case req.Quantity.IsPositive():
		order.Quantity = req.Quantity
	case req.QuoteOrderQty.IsPositive():
		if !order.Price.IsPositive() {
			return fmt.Errorf("%w: cannot derive quantity at price %s", ErrInvalidPrice, order.Price)
		}
		order.Quantity = req.QuoteOrderQty.Div(order.Price)
	default:
		return fmt.Errorf("%w: limit order needs quantity or quoteOrderQty", ErrMissingQuantity)
	}

	// Caller-supplied time in force wins; default is GTC
	order.TimeInForce = req.TimeInForce
	if order.TimeInForce == "" {
		order.TimeInForce = TimeInForceGTC
	}

	return nil
}

// passivePrice derives a resting limit price from the current market
// price: below market for buys, above market for sells.
func (b *Builder) passivePrice(ctx context.Context, symbol string, side Side) (decimal.Decimal, error) {
	current, err := b.prices.CurrentPrice(ctx, symbol)
	if err != nil {
		return decimal.Zero, &FetchError{Op: "current price", Err: err}
	}
	if !current.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: current price %s", ErrInvalidPrice, current)
	}

	one := decimal.New(1, 0)
	if side == SideBuy {
		return current.Mul(one.Sub(b.offset)), nil
	}
	return current.Mul(one.Add(b.offset)), nil
}
