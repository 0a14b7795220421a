package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/abrkgrbz/stocker-finance/internal/apperrors"
	portsrepo "github.com/abrkgrbz/stocker-finance/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxReportingRepository struct {
	BaseRepository
}

func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingReader {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingReader = (*PgxReportingRepository)(nil)

// Aggregates fold the normalized line amounts, so everything sums in the
// entries' working currency regardless of the original line currencies.
const activitySelect = `
	SELECT a.account_id, a.code, a.name, a.account_type, a.is_debit_natured, a.currency_code,
	       COALESCE(SUM(l.normalized_amount) FILTER (WHERE l.debit_amount IS NOT NULL), 0) AS debit_total,
	       COALESCE(SUM(l.normalized_amount) FILTER (WHERE l.credit_amount IS NOT NULL), 0) AS credit_total
	FROM accounts a
	JOIN journal_lines l ON l.account_id = a.account_id
	JOIN journal_entries e ON e.entry_id = l.entry_id AND e.status = 'POSTED'
`

// AccountActivityAsOf sums posted debits and credits against one account up
// to and including the given date.
func (r *PgxReportingRepository) AccountActivityAsOf(ctx context.Context, tenantID, accountID string, asOf time.Time) (*portsrepo.AccountActivity, error) {
	query := activitySelect + `
		WHERE a.tenant_id = $1 AND a.account_id = $2 AND e.entry_date <= $3
		GROUP BY a.account_id, a.code, a.name, a.account_type, a.is_debit_natured, a.currency_code;
	`
	var activity portsrepo.AccountActivity
	err := r.Pool.QueryRow(ctx, query, tenantID, accountID, asOf.UTC()).Scan(
		&activity.AccountID,
		&activity.Code,
		&activity.Name,
		&activity.AccountType,
		&activity.IsDebitNatured,
		&activity.CurrencyCode,
		&activity.DebitTotal,
		&activity.CreditTotal,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to compute activity for account "+accountID, err)
	}
	return &activity, nil
}

// PeriodActivity sums posted debits and credits per account for all entries
// inside one period, ordered by account code.
func (r *PgxReportingRepository) PeriodActivity(ctx context.Context, tenantID, periodID string) ([]portsrepo.AccountActivity, error) {
	query := activitySelect + `
		WHERE a.tenant_id = $1 AND e.period_id = $2
		GROUP BY a.account_id, a.code, a.name, a.account_type, a.is_debit_natured, a.currency_code
		ORDER BY a.code;
	`
	return r.queryActivity(ctx, query, tenantID, periodID)
}

// OpeningActivity sums posted debits and credits per account for all entries
// dated strictly before the given date.
func (r *PgxReportingRepository) OpeningActivity(ctx context.Context, tenantID string, before time.Time) ([]portsrepo.AccountActivity, error) {
	query := activitySelect + `
		WHERE a.tenant_id = $1 AND e.entry_date < $2
		GROUP BY a.account_id, a.code, a.name, a.account_type, a.is_debit_natured, a.currency_code
		ORDER BY a.code;
	`
	return r.queryActivity(ctx, query, tenantID, before.UTC())
}

func (r *PgxReportingRepository) queryActivity(ctx context.Context, query string, args ...interface{}) ([]portsrepo.AccountActivity, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query account activity", err)
	}
	defer rows.Close()

	activities := []portsrepo.AccountActivity{}
	for rows.Next() {
		var a portsrepo.AccountActivity
		if err := rows.Scan(
			&a.AccountID,
			&a.Code,
			&a.Name,
			&a.AccountType,
			&a.IsDebitNatured,
			&a.CurrencyCode,
			&a.DebitTotal,
			&a.CreditTotal,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account activity row", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account activity rows", err)
	}
	return activities, nil
}
