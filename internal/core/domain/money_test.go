package domain_test

import (
	"testing"

	"github.com/abrkgrbz/stocker-finance/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func try(amount string) domain.Money {
	return domain.NewMoney(decimal.RequireFromString(amount), "TRY")
}

func TestMoneyAddSub(t *testing.T) {
	sum, err := try("100.50").Add(try("49.50"))
	require.NoError(t, err)
	assert.True(t, sum.Amount.Equal(decimal.RequireFromString("150")))
	assert.Equal(t, "TRY", sum.CurrencyCode)

	diff, err := try("100").Sub(try("150"))
	require.NoError(t, err)
	assert.True(t, diff.IsNegative())
	assert.True(t, diff.Amount.Equal(decimal.RequireFromString("-50")))
}

func TestMoneyCurrencyMismatch(t *testing.T) {
	usd := domain.NewMoney(decimal.NewFromInt(10), "USD")

	_, err := try("10").Add(usd)
	assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)

	_, err = try("10").Sub(usd)
	assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)

	_, err = try("10").Cmp(usd)
	assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)
}

func TestMoneyRoundHalfAwayFromZero(t *testing.T) {
	rounded := try("10.00005").Round()
	assert.Equal(t, "10.0001", rounded.Amount.String())

	rounded = try("-10.00005").Round()
	assert.Equal(t, "-10.0001", rounded.Amount.String())

	rounded = try("10.00004").Round()
	assert.Equal(t, "10", rounded.Amount.String())
}

func TestMoneyWithinTolerance(t *testing.T) {
	tolerance := try("0.01")

	ok, err := try("100.005").WithinTolerance(try("100.00"), tolerance)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = try("100.02").WithinTolerance(try("100.00"), tolerance)
	require.NoError(t, err)
	assert.False(t, ok)

	// Boundary is inclusive.
	ok, err = try("100.01").WithinTolerance(try("100.00"), tolerance)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = try("100").WithinTolerance(domain.NewMoney(decimal.NewFromInt(100), "USD"), tolerance)
	assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)
}

func TestMoneySigns(t *testing.T) {
	assert.True(t, domain.ZeroMoney("TRY").IsZero())
	assert.True(t, try("0.0001").IsPositive())
	assert.True(t, try("-0.0001").IsNegative())
	assert.True(t, try("-5").Neg().IsPositive())
	assert.True(t, try("-5").Abs().IsPositive())
}

func TestDefaultDebitNatured(t *testing.T) {
	assert.True(t, domain.DefaultDebitNatured(domain.Asset))
	assert.True(t, domain.DefaultDebitNatured(domain.Expense))
	assert.False(t, domain.DefaultDebitNatured(domain.Liability))
	assert.False(t, domain.DefaultDebitNatured(domain.Equity))
	assert.False(t, domain.DefaultDebitNatured(domain.Revenue))
}

func TestExchangeRateConvert(t *testing.T) {
	rate := domain.ExchangeRate{
		SourceCurrency: "USD",
		TargetCurrency: "TRY",
		AverageRate:    decimal.RequireFromString("32.456789"),
	}
	converted := rate.Convert(domain.NewMoney(decimal.NewFromInt(100), "USD"))
	assert.Equal(t, "TRY", converted.CurrencyCode)
	assert.Equal(t, "3245.6789", converted.Amount.String())
}
