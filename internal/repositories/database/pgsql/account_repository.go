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

type PgxAccountRepository struct {
	BaseRepository
}

func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `
	account_id, tenant_id, code, name, account_type, parent_account_id,
	is_debit_natured, accepts_transactions, level, currency_code, balance, row_version,
	is_deleted, deleted_at, deleted_by,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanAccount(row pgx.Row) (*models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.TenantID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.ParentAccountID,
		&m.IsDebitNatured,
		&m.AcceptsTransactions,
		&m.Level,
		&m.CurrencyCode,
		&m.Balance,
		&m.RowVersion,
		&m.IsDeleted,
		&m.DeletedAt,
		&m.DeletedBy,
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

// SaveAccount persists a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	model := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	_, err := r.Pool.Exec(ctx, query,
		model.AccountID,
		model.TenantID,
		model.Code,
		model.Name,
		model.AccountType,
		model.ParentAccountID,
		model.IsDebitNatured,
		model.AcceptsTransactions,
		model.Level,
		model.CurrencyCode,
		model.Balance,
		model.RowVersion,
		model.IsDeleted,
		model.DeletedAt,
		model.DeletedBy,
		model.CreatedAt,
		model.CreatedBy,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert account "+model.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves a single non-deleted account.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE tenant_id = $1 AND account_id = $2 AND is_deleted = FALSE;
	`
	model, err := scanAccount(r.Pool.QueryRow(ctx, query, tenantID, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find account "+accountID, err)
	}
	account := mapping.ToDomainAccount(*model)
	return &account, nil
}

// FindAccountByCode retrieves a non-deleted account by its tenant-unique code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, tenantID, code string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE tenant_id = $1 AND code = $2 AND is_deleted = FALSE;
	`
	model, err := scanAccount(r.Pool.QueryRow(ctx, query, tenantID, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find account with code "+code, err)
	}
	account := mapping.ToDomainAccount(*model)
	return &account, nil
}

// FindAccountsByIDs retrieves multiple non-deleted accounts keyed by ID.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE tenant_id = $1 AND account_id = ANY($2) AND is_deleted = FALSE;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, accountIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts by IDs", err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account, len(accountIDs))
	for rows.Next() {
		model, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account row", err)
		}
		accounts[model.AccountID] = mapping.ToDomainAccount(*model)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account rows", err)
	}
	return accounts, nil
}

// HasChildAccounts reports whether any non-deleted account references the
// given account as its parent.
func (r *PgxAccountRepository) HasChildAccounts(ctx context.Context, tenantID, accountID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM accounts
			WHERE tenant_id = $1 AND parent_account_id = $2 AND is_deleted = FALSE
		);
	`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, tenantID, accountID).Scan(&exists); err != nil {
		return false, apperrors.NewAppError(500, "failed to check child accounts for "+accountID, err)
	}
	return exists, nil
}

// HasPostedLines reports whether any journal line targets the account.
func (r *PgxAccountRepository) HasPostedLines(ctx context.Context, tenantID, accountID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM journal_lines l
			JOIN journal_entries e ON l.entry_id = e.entry_id
			WHERE e.tenant_id = $1 AND l.account_id = $2
		);
	`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, tenantID, accountID).Scan(&exists); err != nil {
		return false, apperrors.NewAppError(500, "failed to check posted lines for "+accountID, err)
	}
	return exists, nil
}

// ListAccounts retrieves a page of non-deleted accounts ordered by code using
// token-based pagination.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.Account, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE tenant_id = $1 AND is_deleted = FALSE
	`
	orderByClause := `ORDER BY code ASC`

	var rows pgx.Rows
	var err error
	args := []interface{}{tenantID}

	if nextToken != nil && *nextToken != "" {
		fields, decodeErr := pagination.DecodeMultiFieldToken(*nextToken)
		if decodeErr != nil || len(fields) != 1 {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		cursorClause := `AND code > $2`
		args = append(args, fields[0])
		query := baseQuery + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query accounts for tenant "+tenantID, err)
	}
	defer rows.Close()

	modelAccounts := make([]models.Account, 0, fetchLimit)
	for rows.Next() {
		model, scanErr := scanAccount(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan account row", scanErr)
		}
		modelAccounts = append(modelAccounts, *model)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating account rows", err)
	}

	var nextTokenVal *string
	results := modelAccounts
	if len(modelAccounts) > limit {
		last := modelAccounts[limit-1]
		token := pagination.EncodeMultiFieldToken(last.Code)
		nextTokenVal = &token
		results = modelAccounts[:limit]
	}

	accounts := make([]domain.Account, len(results))
	for i, m := range results {
		accounts[i] = mapping.ToDomainAccount(m)
	}
	return accounts, nextTokenVal, nil
}

// UpdateAccountDetails updates mutable account fields guarded by the row
// version. Zero rows affected means the version moved underneath the caller.
func (r *PgxAccountRepository) UpdateAccountDetails(ctx context.Context, account domain.Account) error {
	model := mapping.ToModelAccount(account)
	query := `
		UPDATE accounts
		SET name = $3,
		    accepts_transactions = $4,
		    row_version = row_version + 1,
		    last_updated_at = $5,
		    last_updated_by = $6
		WHERE tenant_id = $1 AND account_id = $2 AND row_version = $7 AND is_deleted = FALSE;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		model.TenantID,
		model.AccountID,
		model.Name,
		model.AcceptsTransactions,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
		model.RowVersion,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update account "+model.AccountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrConcurrentUpdate
	}
	return nil
}

// MarkAccountDeleted soft-deletes an account.
func (r *PgxAccountRepository) MarkAccountDeleted(ctx context.Context, tenantID, accountID, deletedBy string, deletedAt time.Time) error {
	query := `
		UPDATE accounts
		SET is_deleted = TRUE,
		    deleted_at = $3,
		    deleted_by = $4,
		    row_version = row_version + 1,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE tenant_id = $1 AND account_id = $2 AND is_deleted = FALSE;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, tenantID, accountID, deletedAt, deletedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to soft delete account "+accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
