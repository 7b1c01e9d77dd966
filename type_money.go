package lotbook

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money is an amount ready for display.
//
// The ledger computes in float64, Money is only built at presentation time,
// which is also the only place where amounts get rounded.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M creates Money from a float amount in currency.
func M(value float64, currency string) Money {
	return Money{value: decimal.NewFromFloat(finite(value)), cur: currency}
}

// ValidateCurrency checks that cur is a known ISO 4217 code.
func ValidateCurrency(cur string) error {
	if money.GetCurrency(cur) == nil {
		return fmt.Errorf("unknown currency %q", cur)
	}
	return nil
}

// currency returns the money's currency, nil when unknown.
func (m Money) currency() *money.Currency { return money.GetCurrency(m.cur) }

// fraction returns the number of fractional digits of the currency, 2 when unknown.
func (m Money) fraction() int32 {
	if c := m.currency(); c != nil {
		return int32(c.Fraction)
	}
	return 2
}

// Currency returns the ISO code of the money.
func (m Money) Currency() string { return m.cur }

// Rounded returns the amount rounded to the currency's fraction digits.
func (m Money) Rounded() decimal.Decimal { return m.value.Round(m.fraction()) }

func (m Money) IsZero() bool     { return m.Rounded().IsZero() }
func (m Money) IsNegative() bool { return m.Rounded().IsNegative() }

// String formats the money with its currency symbol, e.g. "$1,234.50".
func (m Money) String() string {
	cur := m.currency()
	if cur == nil {
		return strings.TrimSpace(m.Rounded().StringFixed(m.fraction()) + " " + m.cur)
	}
	minor := m.value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// SignedString returns the money with an explicit sign. Zero is "-".
func (m Money) SignedString() string {
	if m.IsZero() {
		return "-"
	}
	if m.IsNegative() {
		return m.String()
	}
	return "+" + m.String()
}
