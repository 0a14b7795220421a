package repositories

import (
	"context"
	"time"

	"github.com/abrkgrbz/stocker-finance/internal/core/domain"
)

// ReconciliationReader defines read operations for reconciliation data.
type ReconciliationReader interface {
	// FindReconciliationByID retrieves a reconciliation header without items.
	FindReconciliationByID(ctx context.Context, tenantID, reconciliationID string) (*domain.BankReconciliation, error)

	// FindItemsByReconciliationID retrieves all items ordered by side,
	// transaction date, reference number, then item ID.
	FindItemsByReconciliationID(ctx context.Context, reconciliationID string) ([]domain.ReconciliationItem, error)

	// FindLatestForBankAccount retrieves the most recent reconciliation whose
	// window overlaps [periodStart, periodEnd].
	FindLatestForBankAccount(ctx context.Context, tenantID, bankAccountID string, periodStart, periodEnd time.Time) (*domain.BankReconciliation, error)

	// ListReconciliations retrieves a paginated list for one bank account.
	ListReconciliations(ctx context.Context, tenantID, bankAccountID string, limit int, nextToken *string) ([]domain.BankReconciliation, *string, error)
}

// ReconciliationWriter defines write operations for reconciliation data.
type ReconciliationWriter interface {
	// SaveReconciliation persists the header and all items in one database
	// transaction, assigning the next tenant-scoped reconciliation number.
	// The assigned number is returned.
	SaveReconciliation(ctx context.Context, recon domain.BankReconciliation, items []domain.ReconciliationItem) (string, error)

	// UpdateItemMatchState updates one item's match state (operator accepting
	// an unmatched item as a known difference) and recomputes the header's
	// reconciled flag in the same transaction.
	UpdateItemMatchState(ctx context.Context, tenantID, reconciliationID, itemID string, state domain.MatchState, updatedBy string, updatedAt time.Time) error

	// MarkJournalized records the adjustment entry posted for the residual
	// difference and recomputes the reconciled flag.
	MarkJournalized(ctx context.Context, tenantID, reconciliationID, adjustmentEntryID, updatedBy string, updatedAt time.Time) error
}

// ReconciliationRepositoryFacade combines reconciliation repository interfaces.
type ReconciliationRepositoryFacade interface {
	ReconciliationReader
	ReconciliationWriter
}
