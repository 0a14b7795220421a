package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account mirrors the accounts table. Balance is kept as a bare decimal next
// to the currency code column; Money is assembled in the mapping layer.
type Account struct {
	AccountID           string          `json:"accountID"` // Primary Key (UUID)
	TenantID            string          `json:"tenantID"`
	Code                string          `json:"code"`
	Name                string          `json:"name"`
	AccountType         string          `json:"accountType"`
	ParentAccountID     *string         `json:"parentAccountID,omitempty"`
	IsDebitNatured      bool            `json:"isDebitNatured"`
	AcceptsTransactions bool            `json:"acceptsTransactions"`
	Level               int             `json:"level"`
	CurrencyCode        string          `json:"currencyCode"`
	Balance             decimal.Decimal `json:"balance"`
	RowVersion          int64           `json:"rowVersion"`
	IsDeleted           bool            `json:"isDeleted"`
	DeletedAt           *time.Time      `json:"deletedAt,omitempty"`
	DeletedBy           *string         `json:"deletedBy,omitempty"`
	AuditFields
}
