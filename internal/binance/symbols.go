package binance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"spotgateway/internal/filters"
	"spotgateway/internal/orders"
	"spotgateway/internal/rest"
)

// SymbolService fetches per-symbol trading rules from the exchange.
// Each lookup is a fresh fetch; snapshots are never cached or mutated.
type SymbolService struct {
	client *rest.Client
	logger zerolog.Logger
}

// NewSymbolService creates a symbol service backed by the given client
func NewSymbolService(client *rest.Client, logger zerolog.Logger) *SymbolService {
	return &SymbolService{
		client: client,
		logger: logger,
	}
}

// SymbolInfo fetches and parses the trading rules for one symbol.
// Implements orders.SymbolSource.
func (s *SymbolService) SymbolInfo(ctx context.Context, symbol string) (*filters.SymbolInfo, error) {
	symbol = strings.ToUpper(symbol)

	info, err := s.client.GetExchangeInfo(ctx, symbol)
	if err != nil {
		var apiErr *rest.APIError
		if errors.As(err, &apiErr) && apiErr.IsUnknownSymbol() {
			return nil, fmt.Errorf("%w: %s", orders.ErrSymbolNotFound, symbol)
		}
		return nil, err
	}

	for _, sym := range info.Symbols {
		if sym.Symbol != symbol {
			continue
		}

		set, err := filters.ParseFilterSet(sym.Filters)
		if err != nil {
			s.logger.Warn().
				Str("symbol", symbol).
				Err(err).
				Msg("Exchange returned malformed filters")
			return nil, err
		}

		return &filters.SymbolInfo{
			Symbol:              sym.Symbol,
			BaseAsset:           sym.BaseAsset,
			QuoteAsset:          sym.QuoteAsset,
			BaseAssetPrecision:  sym.BaseAssetPrecision,
			QuoteAssetPrecision: sym.QuoteAssetPrecision,
			Filters:             set,
		}, nil
	}

	return nil, fmt.Errorf("%w: %s", orders.ErrSymbolNotFound, symbol)
}
