package dto

import (
	"time"

	"github.com/abrkgrbz/stocker-finance/internal/core/domain"
	"github.com/shopspring/decimal"
)

// StatementItemRequest is one imported bank statement line.
type StatementItemRequest struct {
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode    string          `json:"currencyCode" binding:"required,len=3,uppercase"`
	TransactionDate time.Time       `json:"transactionDate" binding:"required"`
	ReferenceNumber string          `json:"referenceNumber,omitempty"`
	Description     string          `json:"description,omitempty"`
}

// ReconcileRequest asks for a reconciliation of one bank account over a window.
// The system side is sourced from posted journal lines on the bank account's
// ledger account; only the bank statement side travels in the request.
type ReconcileRequest struct {
	BankAccountID      string                 `json:"bankAccountID" binding:"required"`
	CurrencyCode       string                 `json:"currencyCode" binding:"required,len=3,uppercase"`
	PeriodStart        time.Time              `json:"periodStart" binding:"required"`
	PeriodEnd          time.Time              `json:"periodEnd" binding:"required"`
	BankOpeningBalance decimal.Decimal        `json:"bankOpeningBalance"`
	BankClosingBalance decimal.Decimal        `json:"bankClosingBalance"`
	StatementItems     []StatementItemRequest `json:"statementItems" binding:"required,dive"`
	// Tolerance overrides the configured amount tolerance when set. An
	// explicit zero demands exact amounts.
	Tolerance *decimal.Decimal `json:"tolerance,omitempty"`
	// DateWindowDays overrides the configured clearing-delay window when set.
	DateWindowDays *int `json:"dateWindowDays,omitempty"`
}

// ReconciliationItemResponse is the API representation of one item.
type ReconciliationItemResponse struct {
	ItemID          string                    `json:"itemID"`
	Side            domain.ReconciliationSide `json:"side"`
	Amount          decimal.Decimal           `json:"amount"`
	CurrencyCode    string                    `json:"currencyCode"`
	TransactionDate time.Time                 `json:"transactionDate"`
	ReferenceNumber string                    `json:"referenceNumber,omitempty"`
	Description     string                    `json:"description,omitempty"`
	MatchState      domain.MatchState         `json:"matchState"`
	MatchedItemID   *string                   `json:"matchedItemID,omitempty"`
}

// ReconciliationResponse is the API representation of a reconciliation.
type ReconciliationResponse struct {
	ReconciliationID     string                       `json:"reconciliationID"`
	ReconciliationNumber string                       `json:"reconciliationNumber"`
	BankAccountID        string                       `json:"bankAccountID"`
	CurrencyCode         string                       `json:"currencyCode"`
	PeriodStart          time.Time                    `json:"periodStart"`
	PeriodEnd            time.Time                    `json:"periodEnd"`
	BankOpeningBalance   decimal.Decimal              `json:"bankOpeningBalance"`
	BankClosingBalance   decimal.Decimal              `json:"bankClosingBalance"`
	SystemOpeningBalance decimal.Decimal              `json:"systemOpeningBalance"`
	SystemClosingBalance decimal.Decimal              `json:"systemClosingBalance"`
	BalanceDifference    decimal.Decimal              `json:"balanceDifference"`
	IsReconciled         bool                         `json:"isReconciled"`
	IsJournalized        bool                         `json:"isJournalized"`
	AdjustmentEntryID    *string                      `json:"adjustmentEntryID,omitempty"`
	Items                []ReconciliationItemResponse `json:"items,omitempty"`
}

// ToReconciliationItemResponse maps a domain item to its response form.
func ToReconciliationItemResponse(item domain.ReconciliationItem) ReconciliationItemResponse {
	return ReconciliationItemResponse{
		ItemID:          item.ItemID,
		Side:            item.Side,
		Amount:          item.Amount.Amount,
		CurrencyCode:    item.Amount.CurrencyCode,
		TransactionDate: item.TransactionDate,
		ReferenceNumber: item.ReferenceNumber,
		Description:     item.Description,
		MatchState:      item.MatchState,
		MatchedItemID:   item.MatchedItemID,
	}
}

// ToReconciliationResponse maps a domain reconciliation to its response form.
func ToReconciliationResponse(r *domain.BankReconciliation) ReconciliationResponse {
	resp := ReconciliationResponse{
		ReconciliationID:     r.ReconciliationID,
		ReconciliationNumber: r.ReconciliationNumber,
		BankAccountID:        r.BankAccountID,
		CurrencyCode:         r.CurrencyCode,
		PeriodStart:          r.PeriodStart,
		PeriodEnd:            r.PeriodEnd,
		BankOpeningBalance:   r.BankOpeningBalance.Amount,
		BankClosingBalance:   r.BankClosingBalance.Amount,
		SystemOpeningBalance: r.SystemOpeningBalance.Amount,
		SystemClosingBalance: r.SystemClosingBalance.Amount,
		BalanceDifference:    r.BalanceDifference.Amount,
		IsReconciled:         r.IsReconciled,
		IsJournalized:        r.IsJournalized,
		AdjustmentEntryID:    r.AdjustmentEntryID,
	}
	if len(r.Items) > 0 {
		resp.Items = make([]ReconciliationItemResponse, len(r.Items))
		for i, item := range r.Items {
			resp.Items[i] = ToReconciliationItemResponse(item)
		}
	}
	return resp
}

// ReconciliationStatusResponse summarizes the latest reconciliation state of a
// bank account for dashboards.
type ReconciliationStatusResponse struct {
	BankAccountID        string          `json:"bankAccountID"`
	ReconciliationID     *string         `json:"reconciliationID,omitempty"`
	ReconciliationNumber *string         `json:"reconciliationNumber,omitempty"`
	IsReconciled         bool            `json:"isReconciled"`
	BalanceDifference    decimal.Decimal `json:"balanceDifference"`
	MatchedCount         int             `json:"matchedCount"`
	NeedsCorrectionCount int             `json:"needsCorrectionCount"`
	UnmatchedCount       int             `json:"unmatchedCount"`
}
