// Package core provides the domain types of the finance tracker: money,
// calendar dates, periods, transactions and category inference.
//
// This file contains the Money value type and its parsing and formatting
// helpers. Amounts are stored as integer cents; decimal arithmetic goes
// through shopspring/decimal to avoid float drift.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a positive monetary amount in cents.
type Money struct {
	Cents int64
}

var hundred = decimal.NewFromInt(100)

// NewMoneyFromFloat converts a float amount (as delivered by JSON tool
// arguments) to cents with half-up rounding on the third decimal place.
//
// Examples:
//
//	NewMoneyFromFloat(12.34)  -> Money{1234}, nil
//	NewMoneyFromFloat(12.345) -> Money{1235}, nil (rounds up)
//	NewMoneyFromFloat(0)      -> ErrInvalidAmount
//	NewMoneyFromFloat(-3)     -> ErrInvalidAmount
func NewMoneyFromFloat(v float64) (Money, error) {
	d := decimal.NewFromFloat(v)
	if d.Sign() <= 0 {
		return Money{}, ErrInvalidAmount
	}
	cents := d.Mul(hundred).Round(0)
	if !cents.IsInteger() || cents.Sign() <= 0 {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents.IntPart()}, nil
}

// ParseMoney parses a decimal string into cents. It accepts both dot
// (12.34) and comma (12,34) separators. Signs are rejected; only strictly
// positive amounts are valid.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if d.Sign() <= 0 {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: d.Mul(hundred).Round(0).IntPart()}, nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }

// Decimal returns the amount as a two-place decimal value.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// Float returns the amount as a float64 for display purposes only.
// Use cents for calculations.
func (m Money) Float() float64 {
	f, _ := m.Decimal().Float64()
	return f
}

// BRL formats the amount in Brazilian currency style: R$ 1.234,56.
// Negative cents render with a leading minus (balances may be negative).
func (m Money) BRL() string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	d := decimal.New(cents, -2)
	// StringFixed gives 1234.56; swap separators to the Brazilian convention.
	s := d.StringFixed(2)
	parts := strings.SplitN(s, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return "R$ " + sign + b.String() + "," + fracPart
}
