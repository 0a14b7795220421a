package services

import (
	"context"

	"github.com/abrkgrbz/stocker-finance/internal/core/domain"
	"github.com/abrkgrbz/stocker-finance/internal/dto"
)

// AccountSvcFacade defines chart-of-accounts operations.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)
	GetAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error)
	GetAccountByCode(ctx context.Context, tenantID, code string) (*domain.Account, error)
	GetAccountByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error)
	ListAccounts(ctx context.Context, tenantID string, params dto.ListAccountsParams) (*dto.ListAccountsResponse, error)
	UpdateAccount(ctx context.Context, tenantID, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// DeleteAccount soft-deletes; accounts with postings are never hard-deleted.
	DeleteAccount(ctx context.Context, tenantID, accountID, userID string) error

	// BalanceOf reports the nature-signed balance: debit-natured accounts show
	// debits minus credits, credit-natured the reverse.
	BalanceOf(ctx context.Context, tenantID, accountID string) (domain.Money, error)

	// AssertPostable fails with ErrAccountNotPostable when the account has
	// children, does not accept transactions, or is soft-deleted.
	AssertPostable(ctx context.Context, tenantID, accountID string) error
}
