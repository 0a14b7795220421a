package services

import (
	"context"

	"github.com/abrkgrbz/stocker-finance/internal/core/domain"
	"github.com/abrkgrbz/stocker-finance/internal/dto"
)

// CurrencySvcFacade defines the currency registry operations.
type CurrencySvcFacade interface {
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error)
	GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}
