package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/abrkgrbz/stocker-finance/internal/apperrors"
	"github.com/abrkgrbz/stocker-finance/internal/core/domain"
	portsrepo "github.com/abrkgrbz/stocker-finance/internal/core/ports/repositories"
	"github.com/abrkgrbz/stocker-finance/internal/models"
	"github.com/abrkgrbz/stocker-finance/internal/utils/mapping"
	"github.com/abrkgrbz/stocker-finance/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxReconciliationRepository struct {
	BaseRepository
}

func newPgxReconciliationRepository(pool *pgxpool.Pool) portsrepo.ReconciliationRepositoryFacade {
	return &PgxReconciliationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReconciliationRepositoryFacade = (*PgxReconciliationRepository)(nil)

const reconciliationColumns = `
	reconciliation_id, tenant_id, reconciliation_number, bank_account_id, currency_code,
	period_start, period_end, bank_opening_balance, bank_closing_balance,
	system_opening_balance, system_closing_balance, balance_difference,
	is_reconciled, is_journalized, adjustment_entry_id,
	created_at, created_by, last_updated_at, last_updated_by
`

const reconciliationItemColumns = `
	item_id, reconciliation_id, side, amount, currency_code, transaction_date,
	reference_number, description, match_state, matched_item_id,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanReconciliation(row pgx.Row) (*models.BankReconciliation, error) {
	var m models.BankReconciliation
	err := row.Scan(
		&m.ReconciliationID,
		&m.TenantID,
		&m.ReconciliationNumber,
		&m.BankAccountID,
		&m.CurrencyCode,
		&m.PeriodStart,
		&m.PeriodEnd,
		&m.BankOpeningBalance,
		&m.BankClosingBalance,
		&m.SystemOpeningBalance,
		&m.SystemClosingBalance,
		&m.BalanceDifference,
		&m.IsReconciled,
		&m.IsJournalized,
		&m.AdjustmentEntryID,
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

// SaveReconciliation persists the header and all items in one database
// transaction, assigning the next tenant-scoped reconciliation number from
// the shared sequence table.
func (r *PgxReconciliationRepository) SaveReconciliation(ctx context.Context, recon domain.BankReconciliation, items []domain.ReconciliationItem) (string, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer r.Rollback(ctx, tx)

	year := recon.PeriodEnd.UTC().Year()
	number, err := nextSequenceNumber(ctx, tx, recon.TenantID, "RECONCILIATION", year, "MUT")
	if err != nil {
		return "", err
	}

	model := mapping.ToModelReconciliation(recon)
	model.ReconciliationNumber = number

	headerQuery := `
		INSERT INTO bank_reconciliations (` + reconciliationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	_, err = tx.Exec(ctx, headerQuery,
		model.ReconciliationID,
		model.TenantID,
		model.ReconciliationNumber,
		model.BankAccountID,
		model.CurrencyCode,
		model.PeriodStart,
		model.PeriodEnd,
		model.BankOpeningBalance,
		model.BankClosingBalance,
		model.SystemOpeningBalance,
		model.SystemClosingBalance,
		model.BalanceDifference,
		model.IsReconciled,
		model.IsJournalized,
		model.AdjustmentEntryID,
		model.CreatedAt,
		model.CreatedBy,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		return "", apperrors.NewAppError(500, "failed to insert reconciliation "+model.ReconciliationID, err)
	}

	// Items reference each other through matched_item_id, so the insert batch
	// defers the pairing column until all rows exist.
	batch := &pgx.Batch{}
	itemQuery := `
		INSERT INTO reconciliation_items (` + reconciliationItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULL, $10, $11, $12, $13);
	`
	for _, item := range items {
		modelItem := mapping.ToModelReconciliationItem(item)
		batch.Queue(itemQuery,
			modelItem.ItemID,
			modelItem.ReconciliationID,
			modelItem.Side,
			modelItem.Amount,
			modelItem.CurrencyCode,
			modelItem.TransactionDate,
			modelItem.ReferenceNumber,
			modelItem.Description,
			modelItem.MatchState,
			modelItem.CreatedAt,
			modelItem.CreatedBy,
			modelItem.LastUpdatedAt,
			modelItem.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return "", apperrors.NewAppError(500, "failed to insert reconciliation items for "+model.ReconciliationID, err)
	}

	pairBatch := &pgx.Batch{}
	pairQuery := `UPDATE reconciliation_items SET matched_item_id = $2 WHERE item_id = $1;`
	for _, item := range items {
		if item.MatchedItemID != nil {
			pairBatch.Queue(pairQuery, item.ItemID, *item.MatchedItemID)
		}
	}
	if pairBatch.Len() > 0 {
		br := tx.SendBatch(ctx, pairBatch)
		if err := br.Close(); err != nil {
			return "", apperrors.NewAppError(500, "failed to link matched items for "+model.ReconciliationID, err)
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return "", err
	}
	return number, nil
}

// FindReconciliationByID retrieves a reconciliation header without items.
func (r *PgxReconciliationRepository) FindReconciliationByID(ctx context.Context, tenantID, reconciliationID string) (*domain.BankReconciliation, error) {
	query := `
		SELECT ` + reconciliationColumns + `
		FROM bank_reconciliations
		WHERE tenant_id = $1 AND reconciliation_id = $2;
	`
	model, err := scanReconciliation(r.Pool.QueryRow(ctx, query, tenantID, reconciliationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find reconciliation "+reconciliationID, err)
	}
	recon := mapping.ToDomainReconciliation(*model)
	return &recon, nil
}

// FindItemsByReconciliationID retrieves all items in a stable order.
func (r *PgxReconciliationRepository) FindItemsByReconciliationID(ctx context.Context, reconciliationID string) ([]domain.ReconciliationItem, error) {
	query := `
		SELECT ` + reconciliationItemColumns + `
		FROM reconciliation_items
		WHERE reconciliation_id = $1
		ORDER BY side, transaction_date, reference_number, item_id;
	`
	rows, err := r.Pool.Query(ctx, query, reconciliationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query items for reconciliation "+reconciliationID, err)
	}
	defer rows.Close()

	items := []domain.ReconciliationItem{}
	for rows.Next() {
		var m models.ReconciliationItem
		if err := rows.Scan(
			&m.ItemID,
			&m.ReconciliationID,
			&m.Side,
			&m.Amount,
			&m.CurrencyCode,
			&m.TransactionDate,
			&m.ReferenceNumber,
			&m.Description,
			&m.MatchState,
			&m.MatchedItemID,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan reconciliation item row", err)
		}
		items = append(items, mapping.ToDomainReconciliationItem(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating reconciliation item rows", err)
	}
	return items, nil
}

// FindLatestForBankAccount retrieves the most recent reconciliation whose
// window overlaps [periodStart, periodEnd].
func (r *PgxReconciliationRepository) FindLatestForBankAccount(ctx context.Context, tenantID, bankAccountID string, periodStart, periodEnd time.Time) (*domain.BankReconciliation, error) {
	query := `
		SELECT ` + reconciliationColumns + `
		FROM bank_reconciliations
		WHERE tenant_id = $1 AND bank_account_id = $2
		  AND period_start <= $4 AND period_end >= $3
		ORDER BY period_end DESC, created_at DESC
		LIMIT 1;
	`
	model, err := scanReconciliation(r.Pool.QueryRow(ctx, query, tenantID, bankAccountID, periodStart.UTC(), periodEnd.UTC()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find latest reconciliation for account "+bankAccountID, err)
	}
	recon := mapping.ToDomainReconciliation(*model)
	return &recon, nil
}

// ListReconciliations retrieves a paginated list for one bank account.
func (r *PgxReconciliationRepository) ListReconciliations(ctx context.Context, tenantID, bankAccountID string, limit int, nextToken *string) ([]domain.BankReconciliation, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + reconciliationColumns + `
		FROM bank_reconciliations
		WHERE tenant_id = $1 AND bank_account_id = $2
	`
	orderByClause := `ORDER BY period_end DESC, created_at DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{tenantID, bankAccountID}

	if nextToken != nil && *nextToken != "" {
		lastEnd, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		cursorClause := `AND (period_end, created_at) < ($3, $4)`
		args = append(args, lastEnd, lastCreatedAt)
		query := baseQuery + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query reconciliations for account "+bankAccountID, err)
	}
	defer rows.Close()

	modelRecons := make([]models.BankReconciliation, 0, fetchLimit)
	for rows.Next() {
		model, scanErr := scanReconciliation(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan reconciliation row", scanErr)
		}
		modelRecons = append(modelRecons, *model)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating reconciliation rows", err)
	}

	var nextTokenVal *string
	results := modelRecons
	if len(modelRecons) > limit {
		last := modelRecons[limit-1]
		token := pagination.EncodeToken(last.PeriodEnd, last.CreatedAt)
		nextTokenVal = &token
		results = modelRecons[:limit]
	}

	recons := make([]domain.BankReconciliation, len(results))
	for i, m := range results {
		recons[i] = mapping.ToDomainReconciliation(m)
	}
	return recons, nextTokenVal, nil
}

// UpdateItemMatchState updates one item's match state and recomputes the
// header's reconciled flag in the same transaction.
func (r *PgxReconciliationRepository) UpdateItemMatchState(ctx context.Context, tenantID, reconciliationID, itemID string, state domain.MatchState, updatedBy string, updatedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	itemQuery := `
		UPDATE reconciliation_items
		SET match_state = $2, last_updated_at = $3, last_updated_by = $4
		WHERE item_id = $1 AND reconciliation_id = $5;
	`
	cmdTag, err := tx.Exec(ctx, itemQuery, itemID, string(state), updatedAt, updatedBy, reconciliationID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update match state of item "+itemID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := r.refreshReconciledFlag(ctx, tx, tenantID, reconciliationID, updatedBy, updatedAt); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// MarkJournalized records the adjustment entry posted for the residual
// difference and recomputes the reconciled flag.
func (r *PgxReconciliationRepository) MarkJournalized(ctx context.Context, tenantID, reconciliationID, adjustmentEntryID, updatedBy string, updatedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE bank_reconciliations
		SET is_journalized = TRUE,
		    adjustment_entry_id = $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE tenant_id = $1 AND reconciliation_id = $2 AND is_journalized = FALSE;
	`
	cmdTag, err := tx.Exec(ctx, query, tenantID, reconciliationID, adjustmentEntryID, updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark reconciliation journalized "+reconciliationID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}

	if err := r.refreshReconciledFlag(ctx, tx, tenantID, reconciliationID, updatedBy, updatedAt); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// refreshReconciledFlag recomputes is_reconciled from the residual difference
// and item states. A journalized difference counts as resolved.
func (r *PgxReconciliationRepository) refreshReconciledFlag(ctx context.Context, tx pgx.Tx, tenantID, reconciliationID, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE bank_reconciliations br
		SET is_reconciled = (
		        (br.balance_difference = 0 OR br.is_journalized)
		        AND NOT EXISTS (
		            SELECT 1 FROM reconciliation_items i
		            WHERE i.reconciliation_id = br.reconciliation_id
		              AND i.match_state IN ('UNMATCHED', 'NEEDS_CORRECTION')
		        )
		    ),
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE br.tenant_id = $1 AND br.reconciliation_id = $2;
	`
	if _, err := tx.Exec(ctx, query, tenantID, reconciliationID, updatedAt, updatedBy); err != nil {
		return apperrors.NewAppError(500, "failed to refresh reconciled flag for "+reconciliationID, err)
	}
	return nil
}
