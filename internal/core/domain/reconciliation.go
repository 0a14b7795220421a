package domain

import "time"

// ReconciliationSide identifies which record set an item came from.
type ReconciliationSide string

const (
	BankSide   ReconciliationSide = "BANK"
	SystemSide ReconciliationSide = "SYSTEM"
)

// MatchState is the outcome of the matching passes for a single item.
type MatchState string

const (
	// Matched means the item paired with a counterpart at equal amount
	// (within tolerance) inside the date window.
	Matched MatchState = "MATCHED"
	// NeedsCorrection means the item paired by reference number but the
	// amounts differ; the discrepancy is surfaced, not resolved.
	NeedsCorrection MatchState = "NEEDS_CORRECTION"
	// Unmatched means no counterpart was found on the other side.
	Unmatched MatchState = "UNMATCHED"
	// AcceptedUnmatched means an operator explicitly carried the item as a
	// known, accepted difference.
	AcceptedUnmatched MatchState = "ACCEPTED_UNMATCHED"
)

// BankReconciliation matches a bank statement against the system's recorded
// bank transactions for one bank account and period. IsReconciled requires a
// zero balance difference with every item matched or explicitly accepted.
type BankReconciliation struct {
	ReconciliationID     string    `json:"reconciliationID"` // Primary Key (UUID)
	TenantID             string    `json:"tenantID"`
	ReconciliationNumber string    `json:"reconciliationNumber"` // e.g. "MUT-2026-000007"
	BankAccountID        string    `json:"bankAccountID"`
	CurrencyCode         string    `json:"currencyCode"` // All balances normalized to this
	PeriodStart          time.Time `json:"periodStart"`
	PeriodEnd            time.Time `json:"periodEnd"`

	BankOpeningBalance   Money `json:"bankOpeningBalance"`
	BankClosingBalance   Money `json:"bankClosingBalance"`
	SystemOpeningBalance Money `json:"systemOpeningBalance"`
	SystemClosingBalance Money `json:"systemClosingBalance"`
	BalanceDifference    Money `json:"balanceDifference"` // systemClosing - bankClosing

	IsReconciled bool `json:"isReconciled"`
	// IsJournalized is set once an adjustment entry for the residual
	// difference has been posted to the ledger.
	IsJournalized     bool    `json:"isJournalized"`
	AdjustmentEntryID *string `json:"adjustmentEntryID,omitempty"`

	Items []ReconciliationItem `json:"items,omitempty"`
	AuditFields
}

// ReconciliationItem is one statement line (bank side) or one recorded bank
// transaction (system side). MatchedItemID is always reciprocal: if A matches
// B then B matches A.
type ReconciliationItem struct {
	ItemID           string             `json:"itemID"` // Primary Key (UUID)
	ReconciliationID string             `json:"reconciliationID"`
	Side             ReconciliationSide `json:"side"`
	Amount           Money              `json:"amount"`
	TransactionDate  time.Time          `json:"transactionDate"`
	ReferenceNumber  string             `json:"referenceNumber"` // Check/promissory-note/txn number, may be empty
	Description      string             `json:"description"`
	MatchState       MatchState         `json:"matchState"`
	MatchedItemID    *string            `json:"matchedItemID,omitempty"`
	AuditFields
}
