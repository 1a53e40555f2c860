// Package money represents ledger amounts as exact minor units (cents).
// Decimal strings on the wire are parsed through big.Rat so that balance
// arithmetic never goes through floating point.
package money

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrTooPrecise is returned for amounts with sub-cent precision.
	ErrTooPrecise = errors.New("amount has more than two decimal places")
)

var hundred = big.NewRat(100, 1)

// Parse converts a decimal string ("100", "99.90") to minor units.
func Parse(raw string) (int64, error) {
	rat, ok := new(big.Rat).SetString(raw)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	cents := new(big.Rat).Mul(rat, hundred)
	if !cents.IsInt() {
		return 0, fmt.Errorf("%w: %q", ErrTooPrecise, raw)
	}
	if !cents.Num().IsInt64() {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidAmount, raw)
	}
	return cents.Num().Int64(), nil
}

// Format renders minor units as a decimal string with two places.
func Format(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
