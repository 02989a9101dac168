// Package types provides common types used across the funds engine.
package types

import (
	"encoding/json"
	"fmt"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents an exact fixed-point monetary value.
// All arithmetic is performed through decimal.Decimal — never binary
// floating point — so cent-level amounts stay exact:
// 500000.75 minus 125000.50 is exactly 375000.25.
//
// The zero value is a currency-less zero amount; it adopts the currency
// of the first non-empty operand it is combined with.
type Money struct {
	value    decimal.Decimal
	currency string // ISO 4217 lowercase: "cop", "usd"
}

// DefaultCurrency is the currency assumed by the engine when none is given.
const DefaultCurrency = "cop"

// New creates a Money value from a decimal amount and a currency code.
func New(value decimal.Decimal, currency string) Money {
	return Money{value: value, currency: strings.ToLower(currency)}
}

// COP creates a Money value in Colombian Pesos from whole-peso units.
func COP(units int64) Money {
	return Money{value: decimal.NewFromInt(units), currency: DefaultCurrency}
}

// Zero returns a zero Money value in the specified currency.
func Zero(currency string) Money {
	return Money{currency: strings.ToLower(currency)}
}

// Parse parses a decimal amount string ("125000.50") into a Money value.
func Parse(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("money: parse %q: %w", amount, err)
	}
	return New(d, currency), nil
}

// MustParse is like Parse but panics on error. Use for hardcoded amounts.
func MustParse(amount, currency string) Money {
	m, err := Parse(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// Amount returns the underlying decimal value.
func (m Money) Amount() decimal.Decimal { return m.value }

// Currency returns the lowercase ISO 4217 currency code.
func (m Money) Currency() string { return m.currency }

// Arithmetic operations

// Add adds two Money values. Panics if non-empty currencies differ.
func (m Money) Add(other Money) Money {
	return Money{value: m.value.Add(other.value), currency: mergeCurrency(m, other)}
}

// Subtract subtracts another Money value. Panics if non-empty currencies differ.
func (m Money) Subtract(other Money) Money {
	return Money{value: m.value.Sub(other.value), currency: mergeCurrency(m, other)}
}

// Negate returns the negative of the Money value.
func (m Money) Negate() Money {
	return Money{value: m.value.Neg(), currency: m.currency}
}

// Comparison methods

// IsZero returns true if the amount is zero.
func (m Money) IsZero() bool { return m.value.IsZero() }

// IsPositive returns true if the amount is greater than zero.
func (m Money) IsPositive() bool { return m.value.IsPositive() }

// IsNegative returns true if the amount is less than zero.
func (m Money) IsNegative() bool { return m.value.IsNegative() }

// Equal returns true if both amount and currency match.
func (m Money) Equal(other Money) bool {
	return m.value.Equal(other.value) && m.currency == other.currency
}

// LessThan returns true if this amount is less than other.
func (m Money) LessThan(other Money) bool {
	mergeCurrency(m, other)
	return m.value.LessThan(other.value)
}

// GreaterThanOrEqual returns true if this amount is at least other.
func (m Money) GreaterThanOrEqual(other Money) bool {
	mergeCurrency(m, other)
	return m.value.GreaterThanOrEqual(other.value)
}

// Formatting methods

// StringAmount returns the plain decimal amount, e.g. "375000.25".
func (m Money) StringAmount() string { return m.value.String() }

// String returns a human-readable amount formatted with the currency's
// symbol and grouping rules, e.g. "$125,000.00" for COP.
func (m Money) String() string {
	cur := *gomoney.New(0, strings.ToUpper(m.resolvedCurrency())).Currency()
	shifted := m.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(shifted.IntPart())
}

// Display returns the amount prefixed with the uppercase currency code,
// e.g. "COP $125,000.00".
func (m Money) Display() string {
	return strings.ToUpper(m.resolvedCurrency()) + " " + m.String()
}

// MarshalJSON implements json.Marshaler. The amount is serialized as a
// string to preserve exactness across transport.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   string `json:"amount"`
		Currency string `json:"currency"`
		Display  string `json:"display"`
	}{
		Amount:   m.value.String(),
		Currency: m.resolvedCurrency(),
		Display:  m.Display(),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Money) UnmarshalJSON(data []byte) error {
	var raw struct {
		Amount   string `json:"amount"`
		Currency string `json:"currency"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("money: unmarshal: %w", err)
	}
	parsed, err := Parse(raw.Amount, raw.Currency)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Helper functions

func (m Money) resolvedCurrency() string {
	if m.currency == "" {
		return DefaultCurrency
	}
	return m.currency
}

// mergeCurrency resolves the currency for a binary operation. An empty
// currency is weak and adopts the other side; two different non-empty
// currencies are a programming error.
func mergeCurrency(a, b Money) string {
	switch {
	case a.currency == "":
		return b.currency
	case b.currency == "" || a.currency == b.currency:
		return a.currency
	default:
		panic(fmt.Sprintf("money: currency mismatch: %s != %s", a.currency, b.currency))
	}
}

// Sum calculates the sum of multiple Money values.
func Sum(values ...Money) Money {
	var result Money
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}
