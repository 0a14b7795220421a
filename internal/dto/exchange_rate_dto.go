package dto

import (
	"time"

	"github.com/abrkgrbz/stocker-finance/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExchangeRateRequest defines the payload for a manual or feed-pushed rate.
type CreateExchangeRateRequest struct {
	SourceCurrency string          `json:"sourceCurrency" binding:"required,len=3,uppercase"`
	TargetCurrency string          `json:"targetCurrency" binding:"required,len=3,uppercase"`
	RateDate       time.Time       `json:"rateDate" binding:"required"`
	BuyRate        decimal.Decimal `json:"buyRate" binding:"required"`
	SellRate       decimal.Decimal `json:"sellRate" binding:"required"`
	AverageRate    decimal.Decimal `json:"averageRate" binding:"required"`
}

// ExchangeRateResponse is the API representation of an exchange rate.
type ExchangeRateResponse struct {
	RateID         string          `json:"rateID"`
	SourceCurrency string          `json:"sourceCurrency"`
	TargetCurrency string          `json:"targetCurrency"`
	RateDate       time.Time       `json:"rateDate"`
	BuyRate        decimal.Decimal `json:"buyRate"`
	SellRate       decimal.Decimal `json:"sellRate"`
	AverageRate    decimal.Decimal `json:"averageRate"`
}

// ToExchangeRateResponse maps a domain exchange rate to its response form.
func ToExchangeRateResponse(r *domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		RateID:         r.RateID,
		SourceCurrency: r.SourceCurrency,
		TargetCurrency: r.TargetCurrency,
		RateDate:       r.RateDate,
		BuyRate:        r.BuyRate,
		SellRate:       r.SellRate,
		AverageRate:    r.AverageRate,
	}
}

// ConvertRequest asks for a currency conversion at a given date.
type ConvertRequest struct {
	Amount         decimal.Decimal `json:"amount" binding:"required,gtzero"`
	SourceCurrency string          `json:"sourceCurrency" binding:"required,len=3,uppercase"`
	TargetCurrency string          `json:"targetCurrency" binding:"required,len=3,uppercase"`
	OnDate         time.Time       `json:"onDate" binding:"required"`
}

// ConvertResponse carries the converted amount.
type ConvertResponse struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
	RateDate     time.Time       `json:"rateDate"` // Date of the rate actually applied
}
