package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// Currency identifies the unit a Money value is denominated in.
type Currency string

// USD is the only currency the ledger currently supports.
const USD Currency = "USD"

// minorUnitsPerUnit is the number of minor units (cents) in one major unit.
const minorUnitsPerUnit = 100

// precisionTolerance bounds the rounding error accepted when converting a
// decimal amount to minor units. Anything larger means the caller supplied
// more than two fractional digits.
var precisionTolerance = decimal.New(1, -9)

// Money is an exact fixed-point monetary value stored as integer minor units.
// The zero value is zero USD. Money values are never mutated; arithmetic
// returns new values.
type Money struct {
	minorUnits int64
	currency   Currency
}

// NewFromDecimal builds a Money from a decimal amount, rounding to the
// nearest minor unit. Amounts with more than two fractional digits are
// rejected with ErrPrecisionExceeded.
func NewFromDecimal(amount decimal.Decimal, currency Currency) (Money, error) {
	rounded := amount.Round(2)
	if amount.Sub(rounded).Abs().GreaterThan(precisionTolerance) {
		return Money{}, ErrPrecisionExceeded
	}

	return Money{
		minorUnits: rounded.Mul(decimal.NewFromInt(minorUnitsPerUnit)).IntPart(),
		currency:   currency,
	}, nil
}

// NewFromFloat builds a Money from a floating-point amount. Non-finite
// amounts are rejected with ErrInvalidAmount; amounts that do not survive a
// round trip through minor units within 1e-9 are rejected with
// ErrPrecisionExceeded.
func NewFromFloat(amount float64, currency Currency) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Money{}, ErrInvalidAmount
	}

	minor := math.Round(amount * minorUnitsPerUnit)
	if math.Abs(minor/minorUnitsPerUnit-amount) > 1e-9 {
		return Money{}, ErrPrecisionExceeded
	}

	return Money{minorUnits: int64(minor), currency: currency}, nil
}

// FromMinorUnits builds a Money directly from integer minor units.
func FromMinorUnits(minorUnits int64, currency Currency) Money {
	return Money{minorUnits: minorUnits, currency: currency}
}

// Zero returns a zero-valued Money in the given currency.
func Zero(currency Currency) Money {
	return Money{currency: currency}
}

// MinorUnits returns the amount in integer minor units.
func (m Money) MinorUnits() int64 {
	return m.minorUnits
}

// Currency returns the currency tag.
func (m Money) Currency() Currency {
	return m.currency
}

// Decimal returns the amount as a decimal in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.minorUnits, -2)
}

// Plus returns the sum of m and other.
func (m Money) Plus(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, ErrCurrencyMismatch
	}

	return Money{minorUnits: m.minorUnits + other.minorUnits, currency: m.currency}, nil
}

// Minus returns the difference of m and other.
func (m Money) Minus(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, ErrCurrencyMismatch
	}

	return Money{minorUnits: m.minorUnits - other.minorUnits, currency: m.currency}, nil
}

// Equals reports whether both currency and minor units match.
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.minorUnits == other.minorUnits
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.minorUnits < 0
}
