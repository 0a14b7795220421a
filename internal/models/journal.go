package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry mirrors the journal_entries table.
type JournalEntry struct {
	EntryID          string    `json:"entryID"` // Primary Key (UUID)
	TenantID         string    `json:"tenantID"`
	EntryNumber      string    `json:"entryNumber"`
	EntryDate        time.Time `json:"entryDate"`
	PeriodID         string    `json:"periodID"`
	CurrencyCode     string    `json:"currencyCode"`
	Description      string    `json:"description"`
	Status           string    `json:"status"`
	IsAdjustment     bool      `json:"isAdjustment"`
	IsReversal       bool      `json:"isReversal"`
	ReversedEntryID  *string   `json:"reversedEntryID,omitempty"`
	ReversingEntryID *string   `json:"reversingEntryID,omitempty"`
	SourceType       string    `json:"sourceType"`
	SourceID         *string   `json:"sourceID,omitempty"`
	AuditFields
}

// JournalLine mirrors the journal_lines table. The debit/credit split is
// stored as two nullable amount columns with exactly one populated; the
// mapping layer folds them back into a direction plus a positive amount.
type JournalLine struct {
	LineID             string           `json:"lineID"` // Primary Key (UUID)
	EntryID            string           `json:"entryID"`
	AccountID          string           `json:"accountID"`
	LineNumber         int              `json:"lineNumber"`
	DebitAmount        *decimal.Decimal `json:"debitAmount,omitempty"`
	CreditAmount       *decimal.Decimal `json:"creditAmount,omitempty"`
	CurrencyCode       string           `json:"currencyCode"`
	NormalizedAmount   decimal.Decimal  `json:"normalizedAmount"`
	NormalizedCurrency string           `json:"normalizedCurrency"`
	Description        string           `json:"description"`
	AuditFields
}
