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

type PgxPeriodRepository struct {
	BaseRepository
}

func newPgxPeriodRepository(pool *pgxpool.Pool) portsrepo.PeriodRepositoryFacade {
	return &PgxPeriodRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PeriodRepositoryFacade = (*PgxPeriodRepository)(nil)

const periodColumns = `
	period_id, tenant_id, name, fiscal_year, start_date, end_date, status,
	previous_period_id, next_period_id, row_version,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanPeriod(row pgx.Row) (*models.AccountingPeriod, error) {
	var m models.AccountingPeriod
	err := row.Scan(
		&m.PeriodID,
		&m.TenantID,
		&m.Name,
		&m.FiscalYear,
		&m.StartDate,
		&m.EndDate,
		&m.Status,
		&m.PreviousPeriodID,
		&m.NextPeriodID,
		&m.RowVersion,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SavePeriod persists a new period and links the predecessor's next pointer
// in the same transaction.
func (r *PgxPeriodRepository) SavePeriod(ctx context.Context, period domain.AccountingPeriod) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	model := mapping.ToModelPeriod(period)
	query := `
		INSERT INTO accounting_periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = tx.Exec(ctx, query,
		model.PeriodID,
		model.TenantID,
		model.Name,
		model.FiscalYear,
		model.StartDate,
		model.EndDate,
		model.Status,
		model.PreviousPeriodID,
		model.NextPeriodID,
		model.RowVersion,
		model.CreatedAt,
		model.CreatedBy,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert period "+model.PeriodID, err)
	}

	if model.PreviousPeriodID != nil {
		linkQuery := `
			UPDATE accounting_periods
			SET next_period_id = $3, last_updated_at = $4, last_updated_by = $5
			WHERE tenant_id = $1 AND period_id = $2;
		`
		if _, err := tx.Exec(ctx, linkQuery,
			model.TenantID, *model.PreviousPeriodID, model.PeriodID,
			model.LastUpdatedAt, model.LastUpdatedBy,
		); err != nil {
			return apperrors.NewAppError(500, "failed to link previous period "+*model.PreviousPeriodID, err)
		}
	}

	return r.Commit(ctx, tx)
}

// FindPeriodByID retrieves a single period.
func (r *PgxPeriodRepository) FindPeriodByID(ctx context.Context, tenantID, periodID string) (*domain.AccountingPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM accounting_periods
		WHERE tenant_id = $1 AND period_id = $2;
	`
	model, err := scanPeriod(r.Pool.QueryRow(ctx, query, tenantID, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find period "+periodID, err)
	}
	period := mapping.ToDomainPeriod(*model)
	return &period, nil
}

// FindPeriodForDate retrieves the period whose window contains the date.
func (r *PgxPeriodRepository) FindPeriodForDate(ctx context.Context, tenantID string, date time.Time) (*domain.AccountingPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM accounting_periods
		WHERE tenant_id = $1 AND start_date <= $2 AND end_date >= $2;
	`
	day := date.UTC().Truncate(24 * time.Hour)
	model, err := scanPeriod(r.Pool.QueryRow(ctx, query, tenantID, day))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find period for date", err)
	}
	period := mapping.ToDomainPeriod(*model)
	return &period, nil
}

// FindOverlappingPeriod returns any period intersecting [startDate, endDate].
func (r *PgxPeriodRepository) FindOverlappingPeriod(ctx context.Context, tenantID string, startDate, endDate time.Time) (*domain.AccountingPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM accounting_periods
		WHERE tenant_id = $1 AND start_date <= $3 AND end_date >= $2
		ORDER BY start_date
		LIMIT 1;
	`
	model, err := scanPeriod(r.Pool.QueryRow(ctx, query, tenantID, startDate.UTC(), endDate.UTC()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find overlapping period", err)
	}
	period := mapping.ToDomainPeriod(*model)
	return &period, nil
}

// FindLatestPeriod returns the chronologically last period of a fiscal year.
func (r *PgxPeriodRepository) FindLatestPeriod(ctx context.Context, tenantID string, fiscalYear int) (*domain.AccountingPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM accounting_periods
		WHERE tenant_id = $1 AND fiscal_year = $2
		ORDER BY end_date DESC
		LIMIT 1;
	`
	model, err := scanPeriod(r.Pool.QueryRow(ctx, query, tenantID, fiscalYear))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find latest period", err)
	}
	period := mapping.ToDomainPeriod(*model)
	return &period, nil
}

// ListPeriods retrieves all periods of a fiscal year ordered by start date.
func (r *PgxPeriodRepository) ListPeriods(ctx context.Context, tenantID string, fiscalYear int) ([]domain.AccountingPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM accounting_periods
		WHERE tenant_id = $1 AND fiscal_year = $2
		ORDER BY start_date;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, fiscalYear)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query periods", err)
	}
	defer rows.Close()

	periods := []domain.AccountingPeriod{}
	for rows.Next() {
		model, scanErr := scanPeriod(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan period row", scanErr)
		}
		periods = append(periods, mapping.ToDomainPeriod(*model))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating period rows", err)
	}
	return periods, nil
}

// UpdatePeriodStatus transitions the period status guarded by the row version
// and writes the transition audit record in the same transaction.
func (r *PgxPeriodRepository) UpdatePeriodStatus(ctx context.Context, period domain.AccountingPeriod, transition portsrepo.PeriodTransition) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	model := mapping.ToModelPeriod(period)
	updateQuery := `
		UPDATE accounting_periods
		SET status = $3,
		    row_version = row_version + 1,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE tenant_id = $1 AND period_id = $2 AND row_version = $6;
	`
	cmdTag, err := tx.Exec(ctx, updateQuery,
		model.TenantID,
		model.PeriodID,
		model.Status,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
		model.RowVersion,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update period status for "+model.PeriodID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrConcurrentUpdate
	}

	auditQuery := `
		INSERT INTO period_transitions (transition_id, period_id, from_status, to_status, reason, actor_user_id, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	if _, err := tx.Exec(ctx, auditQuery,
		transition.TransitionID,
		transition.PeriodID,
		string(transition.FromStatus),
		string(transition.ToStatus),
		transition.Reason,
		transition.ActorUserID,
		transition.OccurredAt,
	); err != nil {
		return apperrors.NewAppError(500, "failed to record period transition for "+model.PeriodID, err)
	}

	return r.Commit(ctx, tx)
}
