package repositories

import (
	"context"
	"time"

	"github.com/abrkgrbz/stocker-finance/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryReader defines read operations for journal entry data.
type EntryReader interface {
	// FindEntryByID retrieves a specific journal entry header (no lines).
	FindEntryByID(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of entries using token-based
	// pagination, ordered by entry date then creation time descending.
	ListEntries(ctx context.Context, tenantID string, limit int, nextToken *string, includeReversals bool) ([]domain.JournalEntry, *string, error)
}

// EntryWriter defines write operations for journal entry data.
type EntryWriter interface {
	// SaveEntry persists the entry header, all lines, and the per-account
	// balance deltas in one database transaction, assigning the next gapless
	// tenant-scoped entry number. Balance updates are guarded by the row
	// versions the caller observed; a mismatch aborts the whole transaction
	// with apperrors.ErrConcurrentUpdate so the caller can re-read and retry.
	// The target period is re-checked inside the transaction; a period that
	// stopped accepting the posting since validation aborts with
	// apperrors.ErrPostingWindowClosed. The assigned entry number is returned.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal, expectedVersions map[string]int64) (string, error)

	// SaveReversalEntry persists a reversal exactly like SaveEntry and, in the
	// same transaction, marks the original entry REVERSED and links it to the
	// reversal. The original must still be POSTED and unreversed; otherwise
	// the transaction aborts with apperrors.ErrConflict.
	SaveReversalEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal, expectedVersions map[string]int64, originalEntryID string) (string, error)
}

// AccountLine pairs a journal line with header fields of its posted entry.
type AccountLine struct {
	Line             domain.JournalLine
	EntryDate        time.Time
	EntryNumber      string
	EntryDescription string
}

// LineReader defines read operations for journal line data.
type LineReader interface {
	// FindLinesByEntryID retrieves all lines of one entry ordered by line number.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)

	// FindLinesByEntryIDs retrieves lines for multiple entries, grouped by entry ID.
	FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLine, error)

	// ListLinesByAccount retrieves a paginated list of lines touching one account.
	ListLinesByAccount(ctx context.Context, tenantID, accountID string, limit int, nextToken *string) ([]domain.JournalLine, *string, error)

	// FindLinesByAccountBetween retrieves all posted lines touching one account
	// whose entry dates fall inside [from, to], ordered by entry date, entry
	// number, then line number.
	FindLinesByAccountBetween(ctx context.Context, tenantID, accountID string, from, to time.Time) ([]AccountLine, error)
}

// EntryRepositoryFacade combines all journal repository interfaces.
type EntryRepositoryFacade interface {
	EntryReader
	EntryWriter
	LineReader
}
