package dto

import (
	"github.com/shopspring/decimal"
)

// TrialBalanceRow is one account's totals in the trial balance.
type TrialBalanceRow struct {
	AccountID      string          `json:"accountID"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	AccountType    string          `json:"accountType"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	DebitTotal     decimal.Decimal `json:"debitTotal"`
	CreditTotal    decimal.Decimal `json:"creditTotal"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// TrialBalanceGroup aggregates rows that share a code prefix.
type TrialBalanceGroup struct {
	GroupKey    string            `json:"groupKey"`
	Rows        []TrialBalanceRow `json:"rows"`
	DebitTotal  decimal.Decimal   `json:"debitTotal"`
	CreditTotal decimal.Decimal   `json:"creditTotal"`
}

// TrialBalanceResponse is the full trial balance of one period. Debit and
// credit grand totals are equal for a consistent ledger.
type TrialBalanceResponse struct {
	PeriodID     string              `json:"periodID"`
	CurrencyCode string              `json:"currencyCode"`
	Groups       []TrialBalanceGroup `json:"groups"`
	TotalDebit   decimal.Decimal     `json:"totalDebit"`
	TotalCredit  decimal.Decimal     `json:"totalCredit"`
}
