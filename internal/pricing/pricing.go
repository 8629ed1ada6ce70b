// Package pricing computes reservation totals from a room snapshot.
// All arithmetic runs on decimals so that rounding is exact; totals are
// rounded to 2 decimal places, half-up, to match currency display.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrInvalidInput = errors.New("invalid pricing input")

var hundred = decimal.NewFromInt(100)

// ComputeTotal returns nightlyPrice * nights * (1 - discountPercent/100),
// rounded half-up to 2 decimal places.
func ComputeTotal(nightlyPrice, discountPercent float64, nights int) (float64, error) {
	if nightlyPrice < 0 {
		return 0, fmt.Errorf("%w: nightly price must be non-negative, got %v", ErrInvalidInput, nightlyPrice)
	}
	if discountPercent < 0 || discountPercent > 100 {
		return 0, fmt.Errorf("%w: discount must be within [0,100], got %v", ErrInvalidInput, discountPercent)
	}
	if nights < 1 {
		return 0, fmt.Errorf("%w: at least one night required, got %d", ErrInvalidInput, nights)
	}

	rate := hundred.Sub(decimal.NewFromFloat(discountPercent)).Div(hundred)
	total := decimal.NewFromFloat(nightlyPrice).
		Mul(decimal.NewFromInt(int64(nights))).
		Mul(rate).
		Round(2) // Round is half away from zero, i.e. half-up for non-negative totals

	f, _ := total.Float64()
	return f, nil
}
