package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const Currency = "AUD"

var ten = decimal.NewFromInt(10)

// Money is an exact fixed-point amount in a named currency.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// PriceFromTenthsOfCent converts an upstream price (tenths of a cent) to whole
// currency units: round(p * 10) / 10000, in decimal arithmetic.
func PriceFromTenthsOfCent(p decimal.Decimal) Money {
	return Money{
		Amount:   p.Mul(ten).Round(0).Shift(-4),
		Currency: Currency,
	}
}

// TenthsOfCent is the inverse of PriceFromTenthsOfCent.
func (m Money) TenthsOfCent() decimal.Decimal {
	return m.Amount.Shift(3)
}

func (m Money) Cmp(other Money) int {
	return m.Amount.Cmp(other.Amount)
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.StringFixed(3), m.Currency)
}
