package binance

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"spotgateway/internal/orders"
	"spotgateway/internal/rest"
)

// priceCache is the read surface of the live ticker stream
type priceCache interface {
	Price(symbol string) (decimal.Decimal, time.Time, bool)
}

// PriceService resolves the current market price for a symbol. A fresh
// streamed price is preferred; the REST ticker endpoint is the fallback,
// so a dead stream degrades latency but never availability.
type PriceService struct {
	client *rest.Client
	cache  priceCache
	maxAge time.Duration
	logger zerolog.Logger
}

// NewPriceService creates a price service. The cache may be nil, in
// which case every lookup goes to REST.
func NewPriceService(client *rest.Client, cache priceCache, maxAge time.Duration, logger zerolog.Logger) *PriceService {
	return &PriceService{
		client: client,
		cache:  cache,
		maxAge: maxAge,
		logger: logger,
	}
}

// CurrentPrice implements orders.PriceSource
func (p *PriceService) CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if p.cache != nil {
		if price, at, ok := p.cache.Price(symbol); ok && time.Since(at) <= p.maxAge {
			return price, nil
		}
	}

	price, err := p.client.GetTickerPrice(ctx, symbol)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: %v", orders.ErrPriceUnavailable, symbol, err)
	}

	return price, nil
}
