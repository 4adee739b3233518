package orders

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"spotgateway/internal/filters"
)

// Request-shape and dependency errors. All of them are returned as
// structured results; nothing is logged-and-swallowed inside this package.
var (
	// ErrSymbolNotFound means the requested symbol is unknown to the exchange
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrMissingQuantity means neither quantity nor quoteOrderQty is
	// resolvable for the requested side and type
	ErrMissingQuantity = errors.New("missing quantity specification")

	// ErrUnsupportedOrderType means the type is outside {LIMIT, MARKET}
	ErrUnsupportedOrderType = errors.New("unsupported order type")

	// ErrInvalidPrice means a resolved price is zero or negative
	ErrInvalidPrice = errors.New("invalid price")

	// ErrPriceUnavailable means the current market price could not be
	// obtained for the symbol
	ErrPriceUnavailable = errors.New("price unavailable")
)

// FetchError wraps a failure of an external read dependency. It is
// surfaced to the caller without retry; retries belong to the exchange
// client.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ValidationError is a business-rule rejection. It always carries a
// human-readable reason and, where applicable, the nearest acceptable
// value so the caller can correct and resubmit.
type ValidationError struct {
	Kind      filters.RejectionKind
	Reason    string
	Suggested decimal.Decimal
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// HasSuggestion reports whether a corrected value accompanies the rejection
func (e *ValidationError) HasSuggestion() bool {
	return !e.Suggested.IsZero() || e.Kind == filters.RejectQuantityStepMisaligned ||
		e.Kind == filters.RejectPriceTickMisaligned
}

// newValidationError converts a validator outcome into a rejection
func newValidationError(out filters.Outcome) *ValidationError {
	return &ValidationError{
		Kind:      out.Kind,
		Reason:    out.Reason,
		Suggested: out.Suggested,
	}
}
