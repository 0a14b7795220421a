package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/abrkgrbz/stocker-finance/internal/apperrors"
	"github.com/abrkgrbz/stocker-finance/internal/core/domain"
	portsrepo "github.com/abrkgrbz/stocker-finance/internal/core/ports/repositories"
	portssvc "github.com/abrkgrbz/stocker-finance/internal/core/ports/services"
	"github.com/abrkgrbz/stocker-finance/internal/dto"
	"github.com/abrkgrbz/stocker-finance/internal/middleware"
	"github.com/google/uuid"
)

var (
	// ErrDuplicateCode indicates the account code already exists for the tenant.
	ErrDuplicateCode = errors.New("account code already exists")
	// ErrInvalidParent indicates the parent account cannot hold sub-accounts.
	ErrInvalidParent = errors.New("invalid parent account")
	// ErrAccountNotPostable indicates the account cannot appear on journal lines.
	ErrAccountNotPostable = errors.New("account does not accept transactions")
	// ErrAccountNotFound indicates an account lookup failed.
	ErrAccountNotFound = errors.New("account not found")
)

// accountService manages the tenant's chart of accounts.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	currencySvc portssvc.CurrencySvcFacade
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, currencySvc portssvc.CurrencySvcFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo, currencySvc: currencySvc}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.currencySvc.GetCurrencyByCode(ctx, req.CurrencyCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: currency %s not registered", apperrors.ErrValidation, req.CurrencyCode)
		}
		return nil, fmt.Errorf("failed to validate currency: %w", err)
	}

	existing, err := s.accountRepo.FindAccountByCode(ctx, tenantID, req.Code)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check account code uniqueness: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: code %s", ErrDuplicateCode, req.Code)
	}

	level := 1
	if req.ParentAccountID != nil {
		parent, err := s.accountRepo.FindAccountByID(ctx, tenantID, *req.ParentAccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent %s not found", ErrInvalidParent, *req.ParentAccountID)
			}
			return nil, fmt.Errorf("failed to fetch parent account: %w", err)
		}
		if parent.AccountType != req.AccountType {
			return nil, fmt.Errorf("%w: parent type %s does not match %s", ErrInvalidParent, parent.AccountType, req.AccountType)
		}
		// A parent that takes postings directly cannot also be a summary node.
		if parent.AcceptsTransactions {
			hasLines, err := s.accountRepo.HasPostedLines(ctx, tenantID, parent.AccountID)
			if err != nil {
				return nil, fmt.Errorf("failed to check parent postings: %w", err)
			}
			if hasLines {
				return nil, fmt.Errorf("%w: parent %s already has postings and cannot hold sub-accounts", ErrInvalidParent, parent.Code)
			}
		}
		level = parent.Level + 1
	}

	isDebitNatured := domain.DefaultDebitNatured(req.AccountType)
	if req.IsDebitNatured != nil {
		isDebitNatured = *req.IsDebitNatured
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:           uuid.NewString(),
		TenantID:            tenantID,
		Code:                req.Code,
		Name:                req.Name,
		AccountType:         req.AccountType,
		ParentAccountID:     req.ParentAccountID,
		IsDebitNatured:      isDebitNatured,
		AcceptsTransactions: req.AcceptsTransactions,
		Level:               level,
		CurrencyCode:        req.CurrencyCode,
		Balance:             domain.ZeroMoney(req.CurrencyCode),
		RowVersion:          1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: code %s", ErrDuplicateCode, req.Code)
		}
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, tenantID, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %s", ErrAccountNotFound, accountID)
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	return account, nil
}

func (s *accountService) GetAccountByCode(ctx context.Context, tenantID, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, tenantID, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: code %s", ErrAccountNotFound, code)
		}
		return nil, fmt.Errorf("failed to find account by code %s: %w", code, err)
	}
	return account, nil
}

func (s *accountService) GetAccountByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error) {
	return s.accountRepo.FindAccountsByIDs(ctx, tenantID, accountIDs)
}

func (s *accountService) ListAccounts(ctx context.Context, tenantID string, params dto.ListAccountsParams) (*dto.ListAccountsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	accounts, nextToken, err := s.accountRepo.ListAccounts(ctx, tenantID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	responses := make([]dto.AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = dto.ToAccountResponse(&accounts[i])
	}
	return &dto.ListAccountsResponse{Accounts: responses, NextToken: nextToken}, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, tenantID, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	account, err := s.GetAccountByID(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		account.Name = *req.Name
		updated = true
	}
	if req.Description != nil {
		updated = true
	}
	if !updated {
		return account, nil
	}

	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = userID
	if err := s.accountRepo.UpdateAccountDetails(ctx, *account); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	account.RowVersion++
	return account, nil
}

// DeleteAccount soft-deletes an account. Accounts that have been posted to
// are never removed; the soft-delete flag hides them from new activity while
// preserving history.
func (s *accountService) DeleteAccount(ctx context.Context, tenantID, accountID, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.GetAccountByID(ctx, tenantID, accountID)
	if err != nil {
		return err
	}

	hasChildren, err := s.accountRepo.HasChildAccounts(ctx, tenantID, accountID)
	if err != nil {
		return fmt.Errorf("failed to check child accounts: %w", err)
	}
	if hasChildren {
		return fmt.Errorf("%w: account %s still has sub-accounts", apperrors.ErrConflict, account.Code)
	}

	if err := s.accountRepo.MarkAccountDeleted(ctx, tenantID, accountID, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	logger.Info("Account soft-deleted", slog.String("account_id", accountID))
	return nil
}

func (s *accountService) BalanceOf(ctx context.Context, tenantID, accountID string) (domain.Money, error) {
	account, err := s.GetAccountByID(ctx, tenantID, accountID)
	if err != nil {
		return domain.Money{}, err
	}
	return account.Balance, nil
}

func (s *accountService) AssertPostable(ctx context.Context, tenantID, accountID string) error {
	account, err := s.GetAccountByID(ctx, tenantID, accountID)
	if err != nil {
		return err
	}
	if !account.IsPostable() {
		return fmt.Errorf("%w: account %s", ErrAccountNotPostable, account.Code)
	}
	hasChildren, err := s.accountRepo.HasChildAccounts(ctx, tenantID, accountID)
	if err != nil {
		return fmt.Errorf("failed to check child accounts: %w", err)
	}
	if hasChildren {
		return fmt.Errorf("%w: account %s is a summary account", ErrAccountNotPostable, account.Code)
	}
	return nil
}
