package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/abrkgrbz/stocker-finance/internal/apperrors"
	"github.com/abrkgrbz/stocker-finance/internal/core/domain"
	portsrepo "github.com/abrkgrbz/stocker-finance/internal/core/ports/repositories"
	"github.com/abrkgrbz/stocker-finance/internal/models"
	"github.com/abrkgrbz/stocker-finance/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxExchangeRateRepository struct {
	BaseRepository
}

func newPgxExchangeRateRepository(pool *pgxpool.Pool) portsrepo.ExchangeRateRepositoryFacade {
	return &PgxExchangeRateRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*PgxExchangeRateRepository)(nil)

const exchangeRateColumns = `
	rate_id, tenant_id, source_currency, target_currency, rate_date,
	buy_rate, sell_rate, average_rate,
	created_at, created_by, last_updated_at, last_updated_by
`

// SaveRate persists a new rate. The unique index on (tenant, source, target,
// date) surfaces duplicates as apperrors.ErrDuplicate.
func (r *PgxExchangeRateRepository) SaveRate(ctx context.Context, rate domain.ExchangeRate) error {
	model := mapping.ToModelExchangeRate(rate)
	query := `
		INSERT INTO exchange_rates (` + exchangeRateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		model.RateID,
		model.TenantID,
		model.SourceCurrency,
		model.TargetCurrency,
		model.RateDate,
		model.BuyRate,
		model.SellRate,
		model.AverageRate,
		model.CreatedAt,
		model.CreatedBy,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert exchange rate "+model.RateID, err)
	}
	return nil
}

// FindRate retrieves the rate for the exact (source, target, date) key.
func (r *PgxExchangeRateRepository) FindRate(ctx context.Context, tenantID, source, target string, date time.Time) (*domain.ExchangeRate, error) {
	query := `
		SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE tenant_id = $1 AND source_currency = $2 AND target_currency = $3 AND rate_date = $4;
	`
	return r.queryOne(ctx, query, tenantID, source, target, date.UTC().Truncate(24*time.Hour))
}

// FindLatestRateOnOrBefore retrieves the most recent rate dated on or before
// the given date and not older than notBefore.
func (r *PgxExchangeRateRepository) FindLatestRateOnOrBefore(ctx context.Context, tenantID, source, target string, date, notBefore time.Time) (*domain.ExchangeRate, error) {
	query := `
		SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE tenant_id = $1 AND source_currency = $2 AND target_currency = $3
		  AND rate_date <= $4 AND rate_date >= $5
		ORDER BY rate_date DESC
		LIMIT 1;
	`
	return r.queryOne(ctx, query, tenantID, source, target,
		date.UTC().Truncate(24*time.Hour), notBefore.UTC().Truncate(24*time.Hour))
}

func (r *PgxExchangeRateRepository) queryOne(ctx context.Context, query string, args ...interface{}) (*domain.ExchangeRate, error) {
	var model models.ExchangeRate
	err := r.Pool.QueryRow(ctx, query, args...).Scan(
		&model.RateID,
		&model.TenantID,
		&model.SourceCurrency,
		&model.TargetCurrency,
		&model.RateDate,
		&model.BuyRate,
		&model.SellRate,
		&model.AverageRate,
		&model.CreatedAt,
		&model.CreatedBy,
		&model.LastUpdatedAt,
		&model.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find exchange rate", err)
	}
	rate := mapping.ToDomainExchangeRate(model)
	return &rate, nil
}

// ListRates retrieves rates for a currency pair ordered by date descending.
func (r *PgxExchangeRateRepository) ListRates(ctx context.Context, tenantID, source, target string, limit int) ([]domain.ExchangeRate, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE tenant_id = $1 AND source_currency = $2 AND target_currency = $3
		ORDER BY rate_date DESC
		LIMIT $4;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, source, target, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query exchange rates", err)
	}
	defer rows.Close()

	rates := []domain.ExchangeRate{}
	for rows.Next() {
		var model models.ExchangeRate
		if err := rows.Scan(
			&model.RateID,
			&model.TenantID,
			&model.SourceCurrency,
			&model.TargetCurrency,
			&model.RateDate,
			&model.BuyRate,
			&model.SellRate,
			&model.AverageRate,
			&model.CreatedAt,
			&model.CreatedBy,
			&model.LastUpdatedAt,
			&model.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan exchange rate row", err)
		}
		rates = append(rates, mapping.ToDomainExchangeRate(model))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating exchange rate rows", err)
	}
	return rates, nil
}
