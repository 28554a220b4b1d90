package tally

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/tally/pkg/types"
)

// maxExponent is the widest decimal exponent accepted. Anything beyond it
// lies outside the float64 range and counts as not finite.
const maxExponent = 324

var maxAmount = decimal.NewFromInt(types.MaxAmount)

// ParseAmount parses a user-entered amount. Surrounding whitespace is
// ignored; decimal and exponent notation are accepted. Anything that is not
// a finite number greater than zero returns ErrInvalidAmount, and a value
// above types.MaxAmount returns ErrAmountTooLarge.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, types.ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, types.ErrInvalidAmount
	}
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
		return decimal.Zero, types.ErrInvalidAmount
	}
	if d.Sign() <= 0 {
		return decimal.Zero, types.ErrInvalidAmount
	}
	if d.GreaterThan(maxAmount) {
		return decimal.Zero, types.ErrAmountTooLarge
	}
	return d, nil
}

// withinLimit reports whether a category total can be planned without
// overflowing the recommended counts.
func withinLimit(total decimal.Decimal) bool {
	return !total.GreaterThan(maxAmount)
}
