package filters

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RejectionKind classifies a trading-rule rejection
type RejectionKind string

const (
	RejectQuantityOutOfRange     RejectionKind = "QUANTITY_OUT_OF_RANGE"
	RejectQuantityStepMisaligned RejectionKind = "QUANTITY_STEP_MISALIGNED"
	RejectPriceOutOfRange        RejectionKind = "PRICE_OUT_OF_RANGE"
	RejectPriceTickMisaligned    RejectionKind = "PRICE_TICK_MISALIGNED"
	RejectNotionalBelowMinimum   RejectionKind = "NOTIONAL_BELOW_MINIMUM"
)

// Outcome is the result of validating one field against a filter.
// When the value is rejected, Suggested carries the nearest acceptable
// value. The suggestion is advisory only; values are never auto-corrected.
type Outcome struct {
	Valid     bool
	Kind      RejectionKind
	Reason    string
	Suggested decimal.Decimal
}

// valid is the singleton accepted outcome
var valid = Outcome{Valid: true}

// ValidateQuantity checks an order quantity against a lot-size filter.
// A nil filter means the symbol carries no quantity constraint.
func ValidateQuantity(quantity decimal.Decimal, f *LotSizeFilter) Outcome {
	if f == nil {
		return valid
	}

	if quantity.LessThan(f.MinQty) {
		return Outcome{
			Kind:      RejectQuantityOutOfRange,
			Reason:    fmt.Sprintf("quantity %s below minimum %s", quantity.String(), f.MinQty.String()),
			Suggested: f.MinQty,
		}
	}

	if quantity.GreaterThan(f.MaxQty) {
		return Outcome{
			Kind:      RejectQuantityOutOfRange,
			Reason:    fmt.Sprintf("quantity %s above maximum %s", quantity.String(), f.MaxQty.String()),
			Suggested: f.MaxQty,
		}
	}

	// Zero step size means no step constraint
	if f.StepSize.IsZero() {
		return valid
	}

	offset := quantity.Sub(f.MinQty)
	remainder := offset.Mod(f.StepSize)
	if !remainder.IsZero() {
		// Round down to the nearest valid step so the adjusted amount
		// never exceeds the requested quantity
		steps := offset.Div(f.StepSize).Floor()
		suggested := f.MinQty.Add(steps.Mul(f.StepSize))
		return Outcome{
			Kind: RejectQuantityStepMisaligned,
			Reason: fmt.Sprintf("quantity %s does not align with step size %s",
				quantity.String(), f.StepSize.String()),
			Suggested: suggested,
		}
	}

	return valid
}

// ValidatePrice checks a limit-order price against a price filter.
// Market orders have no fixed price and must not be passed here.
// A nil filter means the symbol carries no price constraint.
func ValidatePrice(price decimal.Decimal, f *PriceFilter) Outcome {
	if f == nil {
		return valid
	}

	if price.LessThan(f.MinPrice) {
		return Outcome{
			Kind:      RejectPriceOutOfRange,
			Reason:    fmt.Sprintf("price %s below minimum %s", price.String(), f.MinPrice.String()),
			Suggested: f.MinPrice,
		}
	}

	if price.GreaterThan(f.MaxPrice) {
		return Outcome{
			Kind:      RejectPriceOutOfRange,
			Reason:    fmt.Sprintf("price %s above maximum %s", price.String(), f.MaxPrice.String()),
			Suggested: f.MaxPrice,
		}
	}

	if f.TickSize.IsZero() {
		return valid
	}

	offset := price.Sub(f.MinPrice)
	remainder := offset.Mod(f.TickSize)
	if !remainder.IsZero() {
		ticks := offset.Div(f.TickSize).Floor()
		suggested := f.MinPrice.Add(ticks.Mul(f.TickSize))
		return Outcome{
			Kind: RejectPriceTickMisaligned,
			Reason: fmt.Sprintf("price %s does not align with tick size %s",
				price.String(), f.TickSize.String()),
			Suggested: suggested,
		}
	}

	return valid
}

// ValidateNotional checks the order value (price * quantity) against a
// min-notional filter. The suggested value is the smallest quantity that
// meets the minimum at the given price, not step-aligned; callers decide
// how to round it.
func ValidateNotional(price, quantity decimal.Decimal, f *MinNotionalFilter) Outcome {
	if f == nil || f.MinNotional.IsZero() {
		return valid
	}

	notional := price.Mul(quantity)
	if notional.LessThan(f.MinNotional) {
		out := Outcome{
			Kind: RejectNotionalBelowMinimum,
			Reason: fmt.Sprintf("order value %s below minimum notional %s",
				notional.String(), f.MinNotional.String()),
		}
		if price.IsPositive() {
			// Non-terminating quotients round toward zero, which would
			// leave the suggestion still below the minimum; bump one unit
			// in the last place so suggested*price >= minNotional holds.
			suggested := f.MinNotional.Div(price)
			if suggested.Mul(price).LessThan(f.MinNotional) {
				suggested = suggested.Add(decimal.New(1, -int32(decimal.DivisionPrecision)))
			}
			out.Suggested = suggested
		}
		return out
	}

	return valid
}
