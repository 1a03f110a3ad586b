// Package core defines the domain model shared by the aggregation,
// recommendation, storage and transport layers.
//
// Money is stored as integer cents to keep arithmetic exact; decimal
// conversion happens only at the JSON boundary and in percentage math.
package core

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Money is a non-negative monetary amount in cents.
type Money struct {
	Cents int64
}

// NewMoney builds a Money from a decimal value, rounding half-up to cents.
func NewMoney(d decimal.Decimal) Money {
	return Money{Cents: d.Shift(2).Round(0).IntPart()}
}

// MoneyFromFloat converts a float amount (e.g. 12.345) to Money with
// half-up rounding on the third decimal place.
func MoneyFromFloat(v float64) Money {
	return NewMoney(decimal.NewFromFloat(v))
}

// ParseMoney parses a decimal string such as "12.34" into Money.
// Negative amounts are rejected.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if d.IsNegative() {
		return Money{}, ErrInvalidAmount
	}
	return NewMoney(d), nil
}

// Validate rejects negative amounts. Zero is a valid amount.
func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Decimal returns the amount as a decimal value in currency units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// Float returns the amount in currency units for display purposes.
// Use cents for calculations to avoid floating-point drift.
func (m Money) Float() float64 {
	f, _ := m.Decimal().Float64()
	return f
}

// String formats the amount with two decimal places, e.g. "1234.50".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// Sub returns the difference of two amounts. The result may be negative;
// callers that need a non-negative amount must validate it.
func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents}
}

// GTE reports whether m is greater than or equal to other.
func (m Money) GTE(other Money) bool {
	return m.Cents >= other.Cents
}

// MarshalJSON encodes the amount as a plain JSON number in currency units.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal().StringFixed(2)), nil
}

// UnmarshalJSON accepts a JSON number or numeric string.
func (m *Money) UnmarshalJSON(data []byte) error {
	var raw json.Number
	if err := json.Unmarshal(data, &raw); err != nil {
		// Fall back to quoted numeric strings ("12.34").
		var s string
		if serr := json.Unmarshal(data, &s); serr != nil {
			return ErrInvalidAmount
		}
		raw = json.Number(s)
	}
	d, err := decimal.NewFromString(raw.String())
	if err != nil {
		return ErrInvalidAmount
	}
	if d.IsNegative() {
		return ErrInvalidAmount
	}
	*m = NewMoney(d)
	return nil
}
