package pgsql

import (
	"context"
	"errors"
	"fmt"
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
	"github.com/shopspring/decimal"
)

type PgxEntryRepository struct {
	BaseRepository
}

// newPgxEntryRepository creates a new repository for journal entry and line data.
func newPgxEntryRepository(pool *pgxpool.Pool) portsrepo.EntryRepositoryFacade {
	return &PgxEntryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.EntryRepositoryFacade = (*PgxEntryRepository)(nil)

const entryColumns = `
	entry_id, tenant_id, entry_number, entry_date, period_id, currency_code,
	description, status, is_adjustment, is_reversal, reversed_entry_id,
	reversing_entry_id, source_type, source_id,
	created_at, created_by, last_updated_at, last_updated_by
`

const lineColumns = `
	line_id, entry_id, account_id, line_number, debit_amount, credit_amount,
	currency_code, normalized_amount, normalized_currency, description,
	created_at, created_by, last_updated_at, last_updated_by
`

// SaveEntry persists the entry header, all lines, and the per-account balance
// deltas in one database transaction. The target period is re-read under a
// share lock inside the transaction, so a period transition committing after
// service-level validation aborts the posting with
// apperrors.ErrPostingWindowClosed instead of landing an entry in a closed
// period. The gapless tenant-scoped entry number comes from a single-row
// UPDATE on journal_sequences, which serializes concurrent postings of the
// same tenant and year. Balance updates are guarded by the row versions the
// service observed when it validated the entry; a version miss means another
// posting touched the account since, and the transaction aborts with
// apperrors.ErrConcurrentUpdate.
func (r *PgxEntryRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal, expectedVersions map[string]int64) (string, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer r.Rollback(ctx, tx)

	if err := assertPeriodPostable(ctx, tx, entry.TenantID, entry.PeriodID, entry.IsAdjustment); err != nil {
		return "", err
	}

	entryNumber, err := insertEntryInTx(ctx, tx, entry, lines, balanceChanges, expectedVersions)
	if err != nil {
		return "", err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return "", err
	}
	return entryNumber, nil
}

// SaveReversalEntry persists a reversal the same way SaveEntry does and, in
// the same transaction, flips the original entry to REVERSED. The flip only
// matches an original that is still POSTED and unreversed, so of two
// concurrent reversal attempts exactly one commits; the loser aborts with
// apperrors.ErrConflict.
func (r *PgxEntryRepository) SaveReversalEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal, expectedVersions map[string]int64, originalEntryID string) (string, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer r.Rollback(ctx, tx)

	flipQuery := `
		UPDATE journal_entries
		SET status = 'REVERSED',
		    reversing_entry_id = $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE tenant_id = $1 AND entry_id = $2
		  AND status = 'POSTED' AND reversing_entry_id IS NULL;
	`
	cmdTag, err := tx.Exec(ctx, flipQuery,
		entry.TenantID,
		originalEntryID,
		entry.EntryID,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return "", apperrors.NewAppError(500, "failed to mark entry "+originalEntryID+" reversed", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return "", fmt.Errorf("%w: entry %s is not an open posted entry", apperrors.ErrConflict, originalEntryID)
	}

	if err := assertPeriodPostable(ctx, tx, entry.TenantID, entry.PeriodID, entry.IsAdjustment); err != nil {
		return "", err
	}

	entryNumber, err := insertEntryInTx(ctx, tx, entry, lines, balanceChanges, expectedVersions)
	if err != nil {
		return "", err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return "", err
	}
	return entryNumber, nil
}

// assertPeriodPostable re-reads the period row inside the caller's
// transaction. FOR SHARE blocks a concurrent status transition on the same
// row until this transaction finishes, and a transition that already
// committed is observed here.
func assertPeriodPostable(ctx context.Context, tx pgx.Tx, tenantID, periodID string, isAdjustment bool) error {
	query := `
		SELECT status
		FROM accounting_periods
		WHERE tenant_id = $1 AND period_id = $2
		FOR SHARE;
	`
	var status string
	if err := tx.QueryRow(ctx, query, tenantID, periodID).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to re-read period "+periodID, err)
	}
	period := domain.AccountingPeriod{Status: domain.PeriodStatus(status)}
	if !period.AllowsPosting(isAdjustment) {
		return fmt.Errorf("%w: period %s is %s", apperrors.ErrPostingWindowClosed, periodID, status)
	}
	return nil
}

func insertEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal, expectedVersions map[string]int64) (string, error) {
	year := entry.EntryDate.UTC().Year()
	entryNumber, err := nextSequenceNumber(ctx, tx, entry.TenantID, "ENTRY", year, "YEV")
	if err != nil {
		return "", err
	}

	modelEntry := mapping.ToModelJournalEntry(entry)
	modelEntry.EntryNumber = entryNumber

	entryQuery := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err = tx.Exec(ctx, entryQuery,
		modelEntry.EntryID,
		modelEntry.TenantID,
		modelEntry.EntryNumber,
		modelEntry.EntryDate,
		modelEntry.PeriodID,
		modelEntry.CurrencyCode,
		modelEntry.Description,
		modelEntry.Status,
		modelEntry.IsAdjustment,
		modelEntry.IsReversal,
		modelEntry.ReversedEntryID,
		modelEntry.ReversingEntryID,
		modelEntry.SourceType,
		modelEntry.SourceID,
		modelEntry.CreatedAt,
		modelEntry.CreatedBy,
		modelEntry.LastUpdatedAt,
		modelEntry.LastUpdatedBy,
	)
	if err != nil {
		return "", apperrors.NewAppError(500, "failed to insert journal entry "+modelEntry.EntryID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	for _, line := range lines {
		modelLine := mapping.ToModelJournalLine(line)
		batch.Queue(lineQuery,
			modelLine.LineID,
			modelLine.EntryID,
			modelLine.AccountID,
			modelLine.LineNumber,
			modelLine.DebitAmount,
			modelLine.CreditAmount,
			modelLine.CurrencyCode,
			modelLine.NormalizedAmount,
			modelLine.NormalizedCurrency,
			modelLine.Description,
			modelLine.CreatedAt,
			modelLine.CreatedBy,
			modelLine.LastUpdatedAt,
			modelLine.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return "", apperrors.NewAppError(500, "failed to execute line batch for entry "+modelEntry.EntryID, err)
	}

	balanceQuery := `
		UPDATE accounts
		SET balance = balance + $3,
		    row_version = row_version + 1,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE tenant_id = $1 AND account_id = $2 AND row_version = $6;
	`
	for accountID, delta := range balanceChanges {
		cmdTag, err := tx.Exec(ctx, balanceQuery,
			entry.TenantID,
			accountID,
			delta,
			entry.LastUpdatedAt,
			entry.LastUpdatedBy,
			expectedVersions[accountID],
		)
		if err != nil {
			return "", apperrors.NewAppError(500, "failed to update balance of account "+accountID, err)
		}
		if cmdTag.RowsAffected() == 0 {
			return "", apperrors.ErrConcurrentUpdate
		}
	}
	return entryNumber, nil
}

// nextSequenceNumber claims the next value of a tenant-scoped gapless counter
// inside the caller's transaction. The single-row UPDATE takes a row lock, so
// two postings of the same tenant and year serialize here and numbers never
// skip or repeat. The row is seeded on first use.
func nextSequenceNumber(ctx context.Context, tx pgx.Tx, tenantID, kind string, year int, prefix string) (string, error) {
	seedQuery := `
		INSERT INTO journal_sequences (tenant_id, sequence_kind, fiscal_year, next_number)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (tenant_id, sequence_kind, fiscal_year) DO NOTHING;
	`
	if _, err := tx.Exec(ctx, seedQuery, tenantID, kind, year); err != nil {
		return "", apperrors.NewAppError(500, "failed to seed sequence "+kind, err)
	}

	claimQuery := `
		UPDATE journal_sequences
		SET next_number = next_number + 1
		WHERE tenant_id = $1 AND sequence_kind = $2 AND fiscal_year = $3
		RETURNING next_number - 1;
	`
	var number int64
	if err := tx.QueryRow(ctx, claimQuery, tenantID, kind, year).Scan(&number); err != nil {
		return "", apperrors.NewAppError(500, "failed to claim sequence number for "+kind, err)
	}
	return fmt.Sprintf("%s-%d-%06d", prefix, year, number), nil
}

func scanEntry(row pgx.Row) (*models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.TenantID,
		&m.EntryNumber,
		&m.EntryDate,
		&m.PeriodID,
		&m.CurrencyCode,
		&m.Description,
		&m.Status,
		&m.IsAdjustment,
		&m.IsReversal,
		&m.ReversedEntryID,
		&m.ReversingEntryID,
		&m.SourceType,
		&m.SourceID,
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

func scanLine(row pgx.Row) (*models.JournalLine, error) {
	var m models.JournalLine
	err := row.Scan(
		&m.LineID,
		&m.EntryID,
		&m.AccountID,
		&m.LineNumber,
		&m.DebitAmount,
		&m.CreditAmount,
		&m.CurrencyCode,
		&m.NormalizedAmount,
		&m.NormalizedCurrency,
		&m.Description,
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

// FindEntryByID retrieves a journal entry header without lines.
func (r *PgxEntryRepository) FindEntryByID(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE tenant_id = $1 AND entry_id = $2;
	`
	model, err := scanEntry(r.Pool.QueryRow(ctx, query, tenantID, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find entry "+entryID, err)
	}
	entry := mapping.ToDomainJournalEntry(*model)
	return &entry, nil
}

// FindLinesByEntryID retrieves all lines of one entry ordered by line number.
func (r *PgxEntryRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `
		SELECT ` + lineColumns + `
		FROM journal_lines
		WHERE entry_id = $1
		ORDER BY line_number;
	`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for entry "+entryID, err)
	}
	defer rows.Close()

	lines := []models.JournalLine{}
	for rows.Next() {
		model, scanErr := scanLine(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for entry "+entryID, scanErr)
		}
		lines = append(lines, *model)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for entry "+entryID, err)
	}
	return mapping.ToDomainJournalLineSlice(lines), nil
}

// FindLinesByEntryIDs retrieves lines for multiple entries, grouped by entry ID.
func (r *PgxEntryRepository) FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLine, error) {
	if len(entryIDs) == 0 {
		return map[string][]domain.JournalLine{}, nil
	}
	query := `
		SELECT ` + lineColumns + `
		FROM journal_lines
		WHERE entry_id = ANY($1)
		ORDER BY entry_id, line_number;
	`
	rows, err := r.Pool.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for entry IDs", err)
	}
	defer rows.Close()

	linesMap := make(map[string][]domain.JournalLine)
	for rows.Next() {
		model, scanErr := scanLine(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row during batch fetch", scanErr)
		}
		line := mapping.ToDomainJournalLine(*model)
		linesMap[line.EntryID] = append(linesMap[line.EntryID], line)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows during batch fetch", err)
	}

	for _, id := range entryIDs {
		if _, exists := linesMap[id]; !exists {
			linesMap[id] = []domain.JournalLine{}
		}
	}
	return linesMap, nil
}

// ListEntries retrieves a paginated list of entries using token-based pagination.
func (r *PgxEntryRepository) ListEntries(ctx context.Context, tenantID string, limit int, nextToken *string, includeReversals bool) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + entryColumns + `
		FROM journal_entries
	`
	filterClause := `WHERE tenant_id = $1`
	if !includeReversals {
		filterClause += ` AND status != 'REVERSED' AND is_reversal = FALSE`
	}
	orderByClause := `ORDER BY entry_date DESC, created_at DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{tenantID}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		cursorClause := `AND (entry_date, created_at) < ($2, $3)`
		args = append(args, lastDate, lastCreatedAt)
		query := baseQuery + " " + filterClause + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query entries for tenant "+tenantID, err)
	}
	defer rows.Close()

	modelEntries := make([]models.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		model, scanErr := scanEntry(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan entry row", scanErr)
		}
		modelEntries = append(modelEntries, *model)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating entry rows", err)
	}

	var nextTokenVal *string
	results := modelEntries
	if len(modelEntries) > limit {
		last := modelEntries[limit-1]
		token := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		nextTokenVal = &token
		results = modelEntries[:limit]
	}

	entries := make([]domain.JournalEntry, len(results))
	for i, m := range results {
		entries[i] = mapping.ToDomainJournalEntry(m)
	}
	return entries, nextTokenVal, nil
}

// ListLinesByAccount retrieves a paginated list of posted lines touching one account.
func (r *PgxEntryRepository) ListLinesByAccount(ctx context.Context, tenantID, accountID string, limit int, nextToken *string) ([]domain.JournalLine, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT l.line_id, l.entry_id, l.account_id, l.line_number, l.debit_amount, l.credit_amount,
		       l.currency_code, l.normalized_amount, l.normalized_currency, l.description,
		       l.created_at, l.created_by, l.last_updated_at, l.last_updated_by,
		       e.entry_date
		FROM journal_lines l
		JOIN journal_entries e ON l.entry_id = e.entry_id
		WHERE e.tenant_id = $1 AND l.account_id = $2 AND e.status = 'POSTED'
	`
	orderByClause := `ORDER BY e.entry_date DESC, l.created_at DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{tenantID, accountID}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		cursorClause := `AND (e.entry_date, l.created_at) < ($3, $4)`
		args = append(args, lastDate, lastCreatedAt)
		query := baseQuery + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query lines for account "+accountID, err)
	}
	defer rows.Close()

	type lineWithDate struct {
		line      models.JournalLine
		entryDate time.Time
	}
	scanned := make([]lineWithDate, 0, fetchLimit)
	for rows.Next() {
		var m models.JournalLine
		var entryDate time.Time
		if err := rows.Scan(
			&m.LineID,
			&m.EntryID,
			&m.AccountID,
			&m.LineNumber,
			&m.DebitAmount,
			&m.CreditAmount,
			&m.CurrencyCode,
			&m.NormalizedAmount,
			&m.NormalizedCurrency,
			&m.Description,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
			&entryDate,
		); err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan line row for account "+accountID, err)
		}
		scanned = append(scanned, lineWithDate{line: m, entryDate: entryDate})
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating line rows for account "+accountID, err)
	}

	var nextTokenVal *string
	results := scanned
	if len(scanned) > limit {
		last := scanned[limit-1]
		token := pagination.EncodeToken(last.entryDate, last.line.CreatedAt)
		nextTokenVal = &token
		results = scanned[:limit]
	}

	lines := make([]domain.JournalLine, len(results))
	for i, s := range results {
		lines[i] = mapping.ToDomainJournalLine(s.line)
	}
	return lines, nextTokenVal, nil
}

// FindLinesByAccountBetween retrieves all posted lines touching one account
// with entry dates inside [from, to].
func (r *PgxEntryRepository) FindLinesByAccountBetween(ctx context.Context, tenantID, accountID string, from, to time.Time) ([]portsrepo.AccountLine, error) {
	query := `
		SELECT l.line_id, l.entry_id, l.account_id, l.line_number, l.debit_amount, l.credit_amount,
		       l.currency_code, l.normalized_amount, l.normalized_currency, l.description,
		       l.created_at, l.created_by, l.last_updated_at, l.last_updated_by,
		       e.entry_date, e.entry_number, e.description
		FROM journal_lines l
		JOIN journal_entries e ON l.entry_id = e.entry_id
		WHERE e.tenant_id = $1 AND l.account_id = $2 AND e.status = 'POSTED'
		  AND e.entry_date >= $3 AND e.entry_date <= $4
		ORDER BY e.entry_date, e.entry_number, l.line_number;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, accountID, from.UTC(), to.UTC())
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query window lines for account "+accountID, err)
	}
	defer rows.Close()

	accountLines := []portsrepo.AccountLine{}
	for rows.Next() {
		var m models.JournalLine
		var al portsrepo.AccountLine
		if err := rows.Scan(
			&m.LineID,
			&m.EntryID,
			&m.AccountID,
			&m.LineNumber,
			&m.DebitAmount,
			&m.CreditAmount,
			&m.CurrencyCode,
			&m.NormalizedAmount,
			&m.NormalizedCurrency,
			&m.Description,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
			&al.EntryDate,
			&al.EntryNumber,
			&al.EntryDescription,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan window line row for account "+accountID, err)
		}
		al.Line = mapping.ToDomainJournalLine(m)
		accountLines = append(accountLines, al)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating window line rows for account "+accountID, err)
	}
	return accountLines, nil
}
