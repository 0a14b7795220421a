package services

import (
	"context"
	"time"

	"github.com/abrkgrbz/stocker-finance/internal/core/domain"
	"github.com/abrkgrbz/stocker-finance/internal/dto"
)

// ExchangeRateSvcFacade defines exchange rate operations.
type ExchangeRateSvcFacade interface {
	CreateExchangeRate(ctx context.Context, tenantID string, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error)

	// GetRate resolves the rate for (source, target) applicable on the given
	// date, applying the most-recent-prior-date fallback policy.
	GetRate(ctx context.Context, tenantID, source, target string, onDate time.Time) (*domain.ExchangeRate, error)

	// Convert re-denominates money into the target currency using the rate
	// applicable on the given date, rounded at MoneyScale. Fails with
	// ErrRateNotFound when no rate is available under the fallback policy.
	Convert(ctx context.Context, tenantID string, money domain.Money, targetCurrency string, onDate time.Time) (domain.Money, error)

	ListRates(ctx context.Context, tenantID, source, target string, limit int) ([]domain.ExchangeRate, error)
}
