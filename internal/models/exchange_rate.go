package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate mirrors the exchange_rates table.
type ExchangeRate struct {
	RateID         string          `json:"rateID"` // Primary Key (UUID)
	TenantID       string          `json:"tenantID"`
	SourceCurrency string          `json:"sourceCurrency"`
	TargetCurrency string          `json:"targetCurrency"`
	RateDate       time.Time       `json:"rateDate"`
	BuyRate        decimal.Decimal `json:"buyRate"`
	SellRate       decimal.Decimal `json:"sellRate"`
	AverageRate    decimal.Decimal `json:"averageRate"`
	AuditFields
}
