package repositories

import (
	"context"
	"time"

	"github.com/abrkgrbz/stocker-finance/internal/core/domain"
)

// AccountReader defines read operations for chart-of-accounts data.
type AccountReader interface {
	// FindAccountByID retrieves a single non-deleted account.
	FindAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves a non-deleted account by its tenant-unique code.
	FindAccountByCode(ctx context.Context, tenantID, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple non-deleted accounts keyed by ID.
	// Missing IDs are simply absent from the result map.
	FindAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error)

	// HasChildAccounts reports whether any non-deleted account references the
	// given account as its parent.
	HasChildAccounts(ctx context.Context, tenantID, accountID string) (bool, error)

	// HasPostedLines reports whether any journal line targets the account.
	HasPostedLines(ctx context.Context, tenantID, accountID string) (bool, error)

	// ListAccounts retrieves a page of non-deleted accounts ordered by code.
	ListAccounts(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.Account, *string, error)
}

// AccountWriter defines write operations for chart-of-accounts data.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccountDetails updates name/description-style fields with an
	// optimistic row-version check; returns apperrors.ErrConcurrentUpdate on
	// version mismatch.
	UpdateAccountDetails(ctx context.Context, account domain.Account) error

	// MarkAccountDeleted soft-deletes an account.
	MarkAccountDeleted(ctx context.Context, tenantID, accountID, deletedBy string, deletedAt time.Time) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
