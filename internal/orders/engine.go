package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"spotgateway/internal/filters"
)

// Engine sequences order building and trading-rule validation for the
// create-order use case. Each call is an independent unit of work: the
// symbol snapshot is fetched fresh and nothing is shared between calls.
type Engine struct {
	symbols SymbolSource
	builder *Builder
	logger  zerolog.Logger
}

// NewEngine creates a validation engine
func NewEngine(symbols SymbolSource, builder *Builder, logger zerolog.Logger) *Engine {
	return &Engine{
		symbols: symbols,
		builder: builder,
		logger:  logger,
	}
}

// BuildAndValidate resolves a partial order request and checks it against
// the symbol's exchange filters. On rejection it returns a
// *ValidationError carrying the reason and the nearest acceptable value;
// the order is never auto-corrected or submitted on that call.
func (e *Engine) BuildAndValidate(ctx context.Context, req OrderRequest) (ResolvedOrder, error) {
	// A limit order with a caller-supplied price still needs the symbol
	// snapshot for validation, so the fetch always runs first.
	info, err := e.symbols.SymbolInfo(ctx, req.Symbol)
	if err != nil {
		if errors.Is(err, ErrSymbolNotFound) {
			return ResolvedOrder{}, err
		}
		return ResolvedOrder{}, &FetchError{Op: "symbol info", Err: err}
	}
	if info == nil {
		return ResolvedOrder{}, fmt.Errorf("%w: %s", ErrSymbolNotFound, req.Symbol)
	}

	order, err := e.builder.Build(ctx, req)
	if err != nil {
		return ResolvedOrder{}, err
	}

	// Quote-denominated market orders carry no base quantity; the
	// exchange sizes the fill, so there is nothing to check against the
	// lot grid.
	if order.Quantity.IsPositive() {
		if out := filters.ValidateQuantity(order.Quantity, info.Filters.LotSize); !out.Valid {
			e.logger.Debug().
				Str("symbol", order.Symbol).
				Str("quantity", order.Quantity.String()).
				Str("reason", out.Reason).
				Msg("Order quantity rejected")
			return ResolvedOrder{}, newValidationError(out)
		}
	}

	if order.Type == TypeLimit {
		if out := filters.ValidatePrice(order.Price, info.Filters.Price); !out.Valid {
			e.logger.Debug().
				Str("symbol", order.Symbol).
				Str("price", order.Price.String()).
				Str("reason", out.Reason).
				Msg("Order price rejected")
			return ResolvedOrder{}, newValidationError(out)
		}

		if out := filters.ValidateNotional(order.Price, order.Quantity, info.Filters.MinNotional); !out.Valid {
			return ResolvedOrder{}, newValidationError(out)
		}
	}

	return order, nil
}
