package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// DefaultCurrency is the currency the catalog quotes prices in.
var DefaultCurrency = currency.USD

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func NewMoney(amount decimal.Decimal) Money {
	return Money{Amount: amount, Currency: DefaultCurrency}
}

func ZeroMoney() Money {
	return NewMoney(decimal.Zero)
}

func (m Money) Mul(n int) Money {
	return Money{Amount: m.Amount.Mul(decimal.NewFromInt(int64(n))), Currency: m.Currency}
}

// Add sums two amounts. The receiver's currency wins; the cart only ever
// holds prices in one currency.
func (m Money) Add(other Money) Money {
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// String formats the amount with two fraction digits, e.g. "$19.98".
func (m Money) String() string {
	symbol := m.Currency.String() + " "
	if m.Currency == currency.USD {
		symbol = "$"
	}
	return symbol + m.Amount.StringFixed(2)
}
