package services

import (
	"context"

	"github.com/abrkgrbz/stocker-finance/internal/core/domain"
	"github.com/abrkgrbz/stocker-finance/internal/dto"
)

// LedgerSvcFacade is the single write path for journal entries and the
// ledger's correctness boundary.
type LedgerSvcFacade interface {
	// PostEntry validates, normalizes, balance-checks, numbers, and
	// atomically persists a journal entry draft. All validation failures are
	// pre-commit; optimistic balance conflicts are retried a bounded number
	// of times before surfacing ErrConcurrentUpdate.
	PostEntry(ctx context.Context, tenantID string, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error)

	// ReverseEntry creates and posts a new entry with every line's side
	// swapped, linked to the original. Fails with ErrEntryNotPosted when the
	// original is not POSTED or was already reversed.
	ReverseEntry(ctx context.Context, tenantID, entryID, reason, userID string) (*domain.JournalEntry, error)

	GetEntry(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, tenantID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
	ListLinesByAccount(ctx context.Context, tenantID, accountID string, params dto.ListLinesParams) (*dto.ListLinesResponse, error)
}
