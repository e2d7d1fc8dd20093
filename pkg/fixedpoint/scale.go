// Package fixedpoint converts between display decimals and the scaled
// integers the matching engine works with. One Scale value is configured per
// process and handed to every encoder and decoder.
package fixedpoint

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// DefaultScale gives four decimal places: 100.25 is stored as 1002500.
const DefaultScale Scale = 10000

// ErrOutOfRange is returned when a scaled value overflows int64.
var ErrOutOfRange = errors.New("fixedpoint: value out of range")

var (
	maxValue = decimal.NewFromInt(math.MaxInt64)
	minValue = decimal.NewFromInt(math.MinInt64)
)

// Scale is the multiplier between a decimal value and its integer representation.
type Scale int64

// Validate reports whether the scale can be used.
func (s Scale) Validate() error {
	if s <= 0 {
		return fmt.Errorf("fixedpoint: scale must be positive, got %d", int64(s))
	}
	return nil
}

// FloorFromFloat scales f and rounds toward negative infinity.
func (s Scale) FloorFromFloat(f float64) int64 {
	return int64(math.Floor(f * float64(s)))
}

// Rescale takes an already scaled wire value, descales it and scales it
// back, truncating toward zero. The float round trip can land one unit low
// (3 becomes 2 at the default scale); orders are booked at that value.
func (s Scale) Rescale(wire float64) int64 {
	return int64(wire / float64(s) * float64(s))
}

// Decimal descales v exactly.
func (s Scale) Decimal(v int64) decimal.Decimal {
	return decimal.NewFromInt(v).Div(decimal.NewFromInt(int64(s)))
}

// Format renders v as a plain decimal string without trailing zeros.
func (s Scale) Format(v int64) string {
	return s.Decimal(v).String()
}

// Parse reads a decimal string and scales it, rounding down to the nearest unit.
func (s Scale) Parse(str string) (int64, error) {
	d, err := decimal.NewFromString(str)
	if err != nil {
		return 0, fmt.Errorf("fixedpoint: %w", err)
	}
	return s.FloorDecimal(d)
}

// FloorDecimal scales d, rounding down to the nearest unit. It fails with
// ErrOutOfRange when the result does not fit in an int64.
func (s Scale) FloorDecimal(d decimal.Decimal) (int64, error) {
	scaled := d.Mul(decimal.NewFromInt(int64(s))).Floor()
	if scaled.GreaterThan(maxValue) || scaled.LessThan(minValue) {
		return 0, fmt.Errorf("%w: %s", ErrOutOfRange, d.String())
	}
	return scaled.IntPart(), nil
}
