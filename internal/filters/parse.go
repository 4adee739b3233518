package filters

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrMalformedFilter indicates exchange filter metadata that cannot be
// parsed. Fatal for the symbol, never retried.
var ErrMalformedFilter = errors.New("malformed filter")

// ParseFilterSet extracts the recognized filters from the raw filter list.
// Unrecognized filter kinds are passed over; a missing kind means no
// constraint of that kind. The first filter of each kind wins.
func ParseFilterSet(raw []RawFilter) (FilterSet, error) {
	var set FilterSet

	for _, rf := range raw {
		switch rf.FilterType {
		case FilterTypeLotSize:
			if set.LotSize != nil {
				continue
			}
			minQty, err := parseField(rf.FilterType, "minQty", rf.MinQty)
			if err != nil {
				return FilterSet{}, err
			}
			maxQty, err := parseField(rf.FilterType, "maxQty", rf.MaxQty)
			if err != nil {
				return FilterSet{}, err
			}
			stepSize, err := parseField(rf.FilterType, "stepSize", rf.StepSize)
			if err != nil {
				return FilterSet{}, err
			}
			set.LotSize = &LotSizeFilter{MinQty: minQty, MaxQty: maxQty, StepSize: stepSize}

		case FilterTypePriceFilter:
			if set.Price != nil {
				continue
			}
			minPrice, err := parseField(rf.FilterType, "minPrice", rf.MinPrice)
			if err != nil {
				return FilterSet{}, err
			}
			maxPrice, err := parseField(rf.FilterType, "maxPrice", rf.MaxPrice)
			if err != nil {
				return FilterSet{}, err
			}
			tickSize, err := parseField(rf.FilterType, "tickSize", rf.TickSize)
			if err != nil {
				return FilterSet{}, err
			}
			set.Price = &PriceFilter{MinPrice: minPrice, MaxPrice: maxPrice, TickSize: tickSize}

		case FilterTypeMinNotional, FilterTypeNotional:
			if set.MinNotional != nil {
				continue
			}
			minNotional, err := parseField(rf.FilterType, "minNotional", rf.MinNotional)
			if err != nil {
				return FilterSet{}, err
			}
			set.MinNotional = &MinNotionalFilter{MinNotional: minNotional}
		}
	}

	return set, nil
}

// parseField parses a required decimal field of a recognized filter.
// Missing, unparsable, or negative values are malformed.
func parseField(filterType, field, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, fmt.Errorf("%w: %s missing %s", ErrMalformedFilter, filterType, field)
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s field %s: %v", ErrMalformedFilter, filterType, field, err)
	}

	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s field %s is negative: %s", ErrMalformedFilter, filterType, field, value)
	}

	return d, nil
}
