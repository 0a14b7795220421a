package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits stored for monetary amounts.
// RateScale is the number of fractional digits stored for exchange rates.
const (
	MoneyScale int32 = 4
	RateScale  int32 = 6
)

// ErrCurrencyMismatch indicates arithmetic was attempted on two Money values
// with different currencies. Callers must convert explicitly first.
var ErrCurrencyMismatch = errors.New("money operands have different currencies")

// Money pairs a fixed-point decimal amount with an ISO-4217 currency code.
// Money values are immutable; every operation returns a new value.
type Money struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}

// NewMoney constructs a Money value. The amount is kept at full precision;
// rounding to MoneyScale happens at the point of storage via Round.
func NewMoney(amount decimal.Decimal, currencyCode string) Money {
	return Money{Amount: amount, CurrencyCode: currencyCode}
}

// ZeroMoney returns a zero amount in the given currency.
func ZeroMoney(currencyCode string) Money {
	return Money{Amount: decimal.Zero, CurrencyCode: currencyCode}
}

func (m Money) sameCurrency(o Money) error {
	if m.CurrencyCode != o.CurrencyCode {
		return fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.CurrencyCode, o.CurrencyCode)
	}
	return nil
}

// Add returns m + o. Fails with ErrCurrencyMismatch on different currencies.
func (m Money) Add(o Money) (Money, error) {
	if err := m.sameCurrency(o); err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount.Add(o.Amount), CurrencyCode: m.CurrencyCode}, nil
}

// Sub returns m - o. Fails with ErrCurrencyMismatch on different currencies.
func (m Money) Sub(o Money) (Money, error) {
	if err := m.sameCurrency(o); err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount.Sub(o.Amount), CurrencyCode: m.CurrencyCode}, nil
}

// Neg returns the arithmetic negation of m.
func (m Money) Neg() Money {
	return Money{Amount: m.Amount.Neg(), CurrencyCode: m.CurrencyCode}
}

// Abs returns the absolute value of m.
func (m Money) Abs() Money {
	return Money{Amount: m.Amount.Abs(), CurrencyCode: m.CurrencyCode}
}

// Cmp compares m against o: -1 if m < o, 0 if equal, 1 if m > o.
func (m Money) Cmp(o Money) (int, error) {
	if err := m.sameCurrency(o); err != nil {
		return 0, err
	}
	return m.Amount.Cmp(o.Amount), nil
}

// Equal reports whether m and o have the same currency and numerically equal amounts.
func (m Money) Equal(o Money) (bool, error) {
	c, err := m.Cmp(o)
	if err != nil {
		return false, err
	}
	return c == 0, nil
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m.Amount.IsPositive()
}

// IsNegative reports whether the amount is strictly less than zero.
func (m Money) IsNegative() bool {
	return m.Amount.IsNegative()
}

// Round returns m rounded to MoneyScale fractional digits, half away from zero.
func (m Money) Round() Money {
	return Money{Amount: m.Amount.Round(MoneyScale), CurrencyCode: m.CurrencyCode}
}

// WithinTolerance reports whether |m - o| <= tolerance. All three values must
// share a currency.
func (m Money) WithinTolerance(o, tolerance Money) (bool, error) {
	diff, err := m.Sub(o)
	if err != nil {
		return false, err
	}
	c, err := diff.Abs().Cmp(tolerance)
	if err != nil {
		return false, err
	}
	return c <= 0, nil
}

func (m Money) String() string {
	return m.Amount.Round(MoneyScale).String() + " " + m.CurrencyCode
}
