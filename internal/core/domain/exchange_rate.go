package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate stores dated buy/sell/average rates between two currencies.
// At most one rate exists per (tenant, source, target, date). A rate referenced
// by a posted journal entry is immutable; historical postings must not change
// retroactively.
type ExchangeRate struct {
	RateID         string          `json:"rateID"` // Primary Key (UUID)
	TenantID       string          `json:"tenantID"`
	SourceCurrency string          `json:"sourceCurrency"`
	TargetCurrency string          `json:"targetCurrency"`
	RateDate       time.Time       `json:"rateDate"` // Date component only, UTC
	BuyRate        decimal.Decimal `json:"buyRate"`
	SellRate       decimal.Decimal `json:"sellRate"`
	AverageRate    decimal.Decimal `json:"averageRate"`
	AuditFields
}

// Convert applies the average rate to the given amount, producing a value in
// the rate's target currency rounded to MoneyScale.
func (r ExchangeRate) Convert(m Money) Money {
	return Money{
		Amount:       m.Amount.Mul(r.AverageRate),
		CurrencyCode: r.TargetCurrency,
	}.Round()
}
