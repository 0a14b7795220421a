package services

import (
	"context"
	"time"

	"github.com/abrkgrbz/stocker-finance/internal/core/domain"
	"github.com/abrkgrbz/stocker-finance/internal/dto"
)

// ReconciliationSvcFacade defines bank reconciliation operations.
type ReconciliationSvcFacade interface {
	// ReconcileBankAccount matches imported statement items against the
	// system-side lines of the bank ledger account and persists the result.
	// Matching is deterministic: identical inputs produce identical
	// partitions on every run.
	ReconcileBankAccount(ctx context.Context, tenantID string, req dto.ReconcileRequest, userID string) (*domain.BankReconciliation, error)

	GetReconciliation(ctx context.Context, tenantID, reconciliationID string) (*domain.BankReconciliation, error)

	// AcceptUnmatchedItem carries an unmatched item as an accepted known
	// difference, re-evaluating the reconciled flag.
	AcceptUnmatchedItem(ctx context.Context, tenantID, reconciliationID, itemID, userID string) error

	// PostAdjustmentEntry raises a journal entry for the residual balance
	// difference against the configured gain/loss or suspense account and
	// posts it through the ledger as an adjustment.
	PostAdjustmentEntry(ctx context.Context, tenantID, reconciliationID, userID string) (*domain.JournalEntry, error)

	// ReconciliationStatus summarizes the latest reconciliation state of a
	// bank account inside a window.
	ReconciliationStatus(ctx context.Context, tenantID, bankAccountID string, periodStart, periodEnd time.Time) (*dto.ReconciliationStatusResponse, error)
}
