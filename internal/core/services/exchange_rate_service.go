package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abrkgrbz/stocker-finance/internal/apperrors"
	"github.com/abrkgrbz/stocker-finance/internal/core/domain"
	portsrepo "github.com/abrkgrbz/stocker-finance/internal/core/ports/repositories"
	portssvc "github.com/abrkgrbz/stocker-finance/internal/core/ports/services"
	"github.com/abrkgrbz/stocker-finance/internal/dto"
	"github.com/abrkgrbz/stocker-finance/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrRateNotFound indicates no exchange rate exists for the requested pair on
// or sufficiently close before the requested date.
var ErrRateNotFound = errors.New("exchange rate not found")

// exchangeRateService resolves dated buy/sell/average rates and performs
// explicit currency conversion for the ledger.
type exchangeRateService struct {
	rateRepo       portsrepo.ExchangeRateRepositoryFacade
	currencySvc    portssvc.CurrencySvcFacade
	fallbackMaxAge time.Duration
}

// NewExchangeRateService creates a new ExchangeRateService. fallbackMaxAge
// bounds the most-recent-prior-date fallback: a rate older than this is
// treated as missing rather than silently stale.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepositoryFacade, currencySvc portssvc.CurrencySvcFacade, fallbackMaxAge time.Duration) portssvc.ExchangeRateSvcFacade {
	return &exchangeRateService{
		rateRepo:       rateRepo,
		currencySvc:    currencySvc,
		fallbackMaxAge: fallbackMaxAge,
	}
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

func (s *exchangeRateService) CreateExchangeRate(ctx context.Context, tenantID string, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.BuyRate.LessThanOrEqual(decimal.Zero) || req.SellRate.LessThanOrEqual(decimal.Zero) || req.AverageRate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: exchange rates must be positive", apperrors.ErrValidation)
	}
	if req.SourceCurrency == req.TargetCurrency {
		return nil, fmt.Errorf("%w: source and target currency codes cannot be the same", apperrors.ErrValidation)
	}

	for _, code := range []string{req.SourceCurrency, req.TargetCurrency} {
		if _, err := s.currencySvc.GetCurrencyByCode(ctx, code); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: currency code '%s' not found", apperrors.ErrValidation, code)
			}
			return nil, fmt.Errorf("failed to validate currency '%s': %w", code, err)
		}
	}

	now := time.Now().UTC()
	rate := domain.ExchangeRate{
		RateID:         uuid.NewString(),
		TenantID:       tenantID,
		SourceCurrency: req.SourceCurrency,
		TargetCurrency: req.TargetCurrency,
		RateDate:       req.RateDate.UTC().Truncate(24 * time.Hour),
		BuyRate:        req.BuyRate.Round(domain.RateScale),
		SellRate:       req.SellRate.Round(domain.RateScale),
		AverageRate:    req.AverageRate.Round(domain.RateScale),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.rateRepo.SaveRate(ctx, rate); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: rate for %s/%s on %s already exists",
				apperrors.ErrDuplicate, rate.SourceCurrency, rate.TargetCurrency, rate.RateDate.Format("2006-01-02"))
		}
		logger.Error("Failed to save exchange rate", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save exchange rate: %w", err)
	}
	return &rate, nil
}

// GetRate resolves the applicable rate for a date: exact match first, then the
// most recent prior date inside the configured fallback window.
func (s *exchangeRateService) GetRate(ctx context.Context, tenantID, source, target string, onDate time.Time) (*domain.ExchangeRate, error) {
	source = strings.ToUpper(source)
	target = strings.ToUpper(target)
	if len(source) != 3 || len(target) != 3 {
		return nil, fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}

	date := onDate.UTC().Truncate(24 * time.Hour)

	rate, err := s.rateRepo.FindRate(ctx, tenantID, source, target, date)
	if err == nil {
		return rate, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up exchange rate: %w", err)
	}

	notBefore := date.Add(-s.fallbackMaxAge)
	rate, err = s.rateRepo.FindLatestRateOnOrBefore(ctx, tenantID, source, target, date, notBefore)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s/%s on or before %s", ErrRateNotFound, source, target, date.Format("2006-01-02"))
		}
		return nil, fmt.Errorf("failed to look up fallback exchange rate: %w", err)
	}
	return rate, nil
}

// Convert re-denominates money into the target currency. Same-currency input
// is returned rounded without a rate lookup.
func (s *exchangeRateService) Convert(ctx context.Context, tenantID string, money domain.Money, targetCurrency string, onDate time.Time) (domain.Money, error) {
	targetCurrency = strings.ToUpper(targetCurrency)
	if money.CurrencyCode == targetCurrency {
		return money.Round(), nil
	}

	rate, err := s.GetRate(ctx, tenantID, money.CurrencyCode, targetCurrency, onDate)
	if err != nil {
		return domain.Money{}, err
	}
	return rate.Convert(money), nil
}

func (s *exchangeRateService) ListRates(ctx context.Context, tenantID, source, target string, limit int) ([]domain.ExchangeRate, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.rateRepo.ListRates(ctx, tenantID, strings.ToUpper(source), strings.ToUpper(target), limit)
}
