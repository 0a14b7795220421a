package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankReconciliation mirrors the bank_reconciliations table.
type BankReconciliation struct {
	ReconciliationID     string          `json:"reconciliationID"` // Primary Key (UUID)
	TenantID             string          `json:"tenantID"`
	ReconciliationNumber string          `json:"reconciliationNumber"`
	BankAccountID        string          `json:"bankAccountID"`
	CurrencyCode         string          `json:"currencyCode"`
	PeriodStart          time.Time       `json:"periodStart"`
	PeriodEnd            time.Time       `json:"periodEnd"`
	BankOpeningBalance   decimal.Decimal `json:"bankOpeningBalance"`
	BankClosingBalance   decimal.Decimal `json:"bankClosingBalance"`
	SystemOpeningBalance decimal.Decimal `json:"systemOpeningBalance"`
	SystemClosingBalance decimal.Decimal `json:"systemClosingBalance"`
	BalanceDifference    decimal.Decimal `json:"balanceDifference"`
	IsReconciled         bool            `json:"isReconciled"`
	IsJournalized        bool            `json:"isJournalized"`
	AdjustmentEntryID    *string         `json:"adjustmentEntryID,omitempty"`
	AuditFields
}

// ReconciliationItem mirrors the reconciliation_items table.
type ReconciliationItem struct {
	ItemID           string          `json:"itemID"` // Primary Key (UUID)
	ReconciliationID string          `json:"reconciliationID"`
	Side             string          `json:"side"`
	Amount           decimal.Decimal `json:"amount"`
	CurrencyCode     string          `json:"currencyCode"`
	TransactionDate  time.Time       `json:"transactionDate"`
	ReferenceNumber  string          `json:"referenceNumber"`
	Description      string          `json:"description"`
	MatchState       string          `json:"matchState"`
	MatchedItemID    *string         `json:"matchedItemID,omitempty"`
	AuditFields
}
