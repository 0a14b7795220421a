package repositories

import (
	"context"
	"time"

	"github.com/abrkgrbz/stocker-finance/internal/core/domain"
)

// ExchangeRateReader defines read operations for exchange rate data.
type ExchangeRateReader interface {
	// FindRate retrieves the rate for the exact (source, target, date) key.
	FindRate(ctx context.Context, tenantID, source, target string, date time.Time) (*domain.ExchangeRate, error)

	// FindLatestRateOnOrBefore retrieves the most recent rate dated on or
	// before the given date, not older than notBefore. This backs the
	// explicit most-recent-prior-date fallback policy.
	FindLatestRateOnOrBefore(ctx context.Context, tenantID, source, target string, date, notBefore time.Time) (*domain.ExchangeRate, error)

	// ListRates retrieves rates for a currency pair ordered by date descending.
	ListRates(ctx context.Context, tenantID, source, target string, limit int) ([]domain.ExchangeRate, error)
}

// ExchangeRateWriter defines write operations for exchange rate data.
type ExchangeRateWriter interface {
	// SaveRate persists a new rate; returns apperrors.ErrDuplicate when a rate
	// already exists for the (tenant, source, target, date) key.
	SaveRate(ctx context.Context, rate domain.ExchangeRate) error
}

// ExchangeRateRepositoryFacade combines rate repository interfaces.
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}
