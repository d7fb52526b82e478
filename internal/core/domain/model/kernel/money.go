package kernel

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"

	"freight/internal/pkg/errs"
)

// MoneyScale is the number of fraction digits kept for every amount.
const MoneyScale = 2

var errTooPrecise = errors.New("more than two fraction digits")

// DefaultCurrency is applied to loads that do not specify one.
const DefaultCurrency = "USD"

// Money is a fixed-point amount rounded half-up to two decimals. It wraps
// shopspring/decimal so additions never pick up binary floating-point noise.
//
// Money marshals to JSON as a string ("1050.00") and accepts either a string or a
// number when unmarshalling. It implements driver.Valuer and sql.Scanner so GORM
// stores it as NUMERIC.
//
// Example:
//
//	rate, _ := kernel.NewMoneyFromString("1000.00")
//	fuel, _ := kernel.NewMoneyFromString("50")
//	total := rate.Add(fuel) // 1050.00
type Money struct {
	decimal.Decimal
}

// ZeroMoney returns 0.00.
func ZeroMoney() Money {
	return Money{Decimal: decimal.Zero}
}

// NewMoneyFromDecimal rounds amount to MoneyScale.
func NewMoneyFromDecimal(amount decimal.Decimal) Money {
	return Money{Decimal: amount.Round(MoneyScale)}
}

// NewMoneyFromString parses a decimal literal such as "1050.5". Trailing zeros
// are fine, but a literal needing more than MoneyScale fraction digits is
// rejected rather than rounded.
//
// Returns:
//   - the amount
//   - a ValueIsInvalidError when s is not a decimal number or is too precise
func NewMoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	if !d.Equal(d.Round(MoneyScale)) {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", errTooPrecise)
	}
	return NewMoneyFromDecimal(d), nil
}

// MustMoney is NewMoneyFromString for literals in tests and fixtures.
func MustMoney(s string) Money {
	m, err := NewMoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Add returns m + other, rounded to MoneyScale.
func (m Money) Add(other Money) Money {
	return NewMoneyFromDecimal(m.Decimal.Add(other.Decimal))
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.Decimal.IsNegative()
}

// Equal compares the rounded amounts.
func (m Money) Equal(other Money) bool {
	return m.Decimal.Round(MoneyScale).Equal(other.Decimal.Round(MoneyScale))
}

// MarshalJSON renders the amount as a fixed two-decimal string.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts "12.34" or 12.34 under the NewMoneyFromString rules.
func (m *Money) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	literal := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &literal); err != nil {
			return err
		}
	}
	parsed, err := NewMoneyFromString(literal)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value implements driver.Valuer.
func (m Money) Value() (driver.Value, error) {
	return m.Decimal.Round(MoneyScale).Value()
}

// Scan implements sql.Scanner.
func (m *Money) Scan(value any) error {
	if err := m.Decimal.Scan(value); err != nil {
		return err
	}
	m.Decimal = m.Decimal.Round(MoneyScale)
	return nil
}

// String returns the amount with exactly two decimals.
func (m Money) String() string {
	return m.Decimal.Round(MoneyScale).StringFixed(MoneyScale)
}
