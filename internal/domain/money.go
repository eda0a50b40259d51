package domain

import (
	"github.com/shopspring/decimal"
)

// Every monetary field in the system holds exactly two fractional digits.
// Amounts are normalized once at each boundary crossing and summed or
// compared as integer cents, never as raw decimals.
const MoneyScale = 2

// Normalize rounds d to two fractional digits using round-half-to-even.
func Normalize(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(MoneyScale)
}

// NormalizeOrZero treats an absent amount as zero.
func NormalizeOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero.RoundBank(MoneyScale)
	}
	return Normalize(*d)
}

// ToCents converts d to an exact integer number of cents. Values that do
// not fit in an int64 return ErrAmountOverflow.
func ToCents(d decimal.Decimal) (int64, error) {
	cents := Normalize(d).Shift(MoneyScale).BigInt()
	if !cents.IsInt64() {
		return 0, ErrAmountOverflow
	}
	return cents.Int64(), nil
}

// FromCents converts integer cents back to a scale-2 decimal.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -MoneyScale)
}

// EqualCents compares two amounts at cent precision via ToCents.
// Amounts that overflow int64 cents are never considered equal.
func EqualCents(a, b decimal.Decimal) bool {
	ac, aErr := ToCents(a)
	bc, bErr := ToCents(b)
	if aErr != nil || bErr != nil {
		return false
	}
	return ac == bc
}
