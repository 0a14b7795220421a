package domain

import "time"

// EntryStatus indicates the state of a journal entry.
type EntryStatus string

const (
	EntryDraft    EntryStatus = "DRAFT"
	EntryPosted   EntryStatus = "POSTED"
	EntryReversed EntryStatus = "REVERSED"
)

// LineDirection indicates whether a journal line is a debit or a credit.
// A line is exactly one of the two; it can never carry both sides.
type LineDirection string

const (
	Debit  LineDirection = "DEBIT"
	Credit LineDirection = "CREDIT"
)

// EntrySource identifies the business event a journal entry originated from.
type EntrySource string

const (
	SourceManual                   EntrySource = "MANUAL"
	SourceInvoice                  EntrySource = "INVOICE"
	SourcePayment                  EntrySource = "PAYMENT"
	SourceBankTransaction          EntrySource = "BANK_TRANSACTION"
	SourceDepreciation             EntrySource = "DEPRECIATION"
	SourceReconciliationAdjustment EntrySource = "RECONCILIATION_ADJUSTMENT"
)

// JournalEntry is an atomic, balanced set of debit/credit lines against leaf
// accounts, scoped to an accounting period. For a posted entry the sum of
// normalized debits equals the sum of normalized credits exactly; this is the
// fundamental double-entry law. A posted entry is immutable; corrections go
// through a reversing entry, never in-place mutation.
type JournalEntry struct {
	EntryID      string      `json:"entryID"` // Primary Key (UUID)
	TenantID     string      `json:"tenantID"`
	EntryNumber  string      `json:"entryNumber"` // Gapless per tenant, e.g. "YEV-2026-000042"
	EntryDate    time.Time   `json:"entryDate"`
	PeriodID     string      `json:"periodID"`
	CurrencyCode string      `json:"currencyCode"` // Working currency all lines normalize to
	Description  string      `json:"description"`
	Status       EntryStatus `json:"status"`
	IsAdjustment bool        `json:"isAdjustment"`

	// Reversal linkage. IsReversal marks the correcting entry; a reversed
	// original carries ReversingEntryID pointing forward.
	IsReversal       bool    `json:"isReversal"`
	ReversedEntryID  *string `json:"reversedEntryID,omitempty"`
	ReversingEntryID *string `json:"reversingEntryID,omitempty"`

	SourceType EntrySource `json:"sourceType"`
	SourceID   *string     `json:"sourceID,omitempty"`

	Lines []JournalLine `json:"lines,omitempty"`
	AuditFields
}

// JournalLine is a single debit or credit against one account. The original
// amount keeps the currency the business event happened in; the normalized
// amount is the same value in the entry's working currency, so audit trails
// stay currency-exact.
type JournalLine struct {
	LineID           string        `json:"lineID"` // Primary Key (UUID)
	EntryID          string        `json:"entryID"`
	AccountID        string        `json:"accountID"`
	LineNumber       int           `json:"lineNumber"` // 1-based, stable within the entry
	Direction        LineDirection `json:"direction"`
	Amount           Money         `json:"amount"`           // Original currency, always positive
	NormalizedAmount Money         `json:"normalizedAmount"` // Entry working currency, always positive
	Description      string        `json:"description"`
	AuditFields
}
