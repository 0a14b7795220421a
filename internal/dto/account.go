package dto

import (
	"github.com/abrkgrbz/stocker-finance/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the request body for creating a new account.
type CreateAccountRequest struct {
	Code                string             `json:"code" binding:"required"`
	Name                string             `json:"name" binding:"required"`
	AccountType         domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	ParentAccountID     *string            `json:"parentAccountID,omitempty"`
	CurrencyCode        string             `json:"currencyCode" binding:"required,len=3,uppercase"`
	AcceptsTransactions bool               `json:"acceptsTransactions"`
	// IsDebitNatured overrides the conventional nature for the account type.
	// Left nil, asset/expense accounts are debit-natured, the rest credit-natured.
	IsDebitNatured *bool  `json:"isDebitNatured,omitempty"`
	Description    string `json:"description,omitempty"`
}

// UpdateAccountRequest defines the request body for updating account details.
type UpdateAccountRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// AccountResponse is the API representation of an account.
type AccountResponse struct {
	AccountID           string             `json:"accountID"`
	Code                string             `json:"code"`
	Name                string             `json:"name"`
	AccountType         domain.AccountType `json:"accountType"`
	ParentAccountID     *string            `json:"parentAccountID,omitempty"`
	IsDebitNatured      bool               `json:"isDebitNatured"`
	AcceptsTransactions bool               `json:"acceptsTransactions"`
	Level               int                `json:"level"`
	CurrencyCode        string             `json:"currencyCode"`
	Balance             decimal.Decimal    `json:"balance"`
}

// ToAccountResponse maps a domain account to its response form.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:           a.AccountID,
		Code:                a.Code,
		Name:                a.Name,
		AccountType:         a.AccountType,
		ParentAccountID:     a.ParentAccountID,
		IsDebitNatured:      a.IsDebitNatured,
		AcceptsTransactions: a.AcceptsTransactions,
		Level:               a.Level,
		CurrencyCode:        a.CurrencyCode,
		Balance:             a.Balance.Amount,
	}
}

// ListAccountsParams holds parameters for listing accounts.
type ListAccountsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListAccountsResponse is a page of accounts plus the continuation token.
type ListAccountsResponse struct {
	Accounts  []AccountResponse `json:"accounts"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// AccountBalanceResponse reports a nature-signed account balance.
type AccountBalanceResponse struct {
	AccountID    string          `json:"accountID"`
	Balance      decimal.Decimal `json:"balance"`
	CurrencyCode string          `json:"currencyCode"`
}
