package services_test

import (
	"context"
	"testing"

	"github.com/abrkgrbz/stocker-finance/internal/apperrors"
	"github.com/abrkgrbz/stocker-finance/internal/core/domain"
	portssvc "github.com/abrkgrbz/stocker-finance/internal/core/ports/services"
	"github.com/abrkgrbz/stocker-finance/internal/core/services"
	"github.com/abrkgrbz/stocker-finance/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockCurrencySvc *MockCurrencyService
	service         portssvc.AccountSvcFacade
	ctx             context.Context
	tenantID        string
	userID          string
}

func (s *AccountServiceTestSuite) SetupTest() {
	s.mockAccountRepo = new(MockAccountRepository)
	s.mockCurrencySvc = new(MockCurrencyService)
	s.service = services.NewAccountService(s.mockAccountRepo, s.mockCurrencySvc)
	s.ctx = context.Background()
	s.tenantID = "tenant-1"
	s.userID = "user-1"
}

func (s *AccountServiceTestSuite) expectCurrency(code string) {
	s.mockCurrencySvc.On("GetCurrencyByCode", s.ctx, code).Return(&domain.Currency{CurrencyCode: code}, nil).Once()
}

func (s *AccountServiceTestSuite) TestCreateAccount_RootSuccess() {
	req := dto.CreateAccountRequest{
		Code:                "100",
		Name:                "Kasa",
		AccountType:         domain.Asset,
		CurrencyCode:        "TRY",
		AcceptsTransactions: true,
	}
	s.expectCurrency("TRY")
	s.mockAccountRepo.On("FindAccountByCode", s.ctx, s.tenantID, "100").Return(nil, apperrors.ErrNotFound).Once()
	s.mockAccountRepo.On("SaveAccount", s.ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := s.service.CreateAccount(s.ctx, s.tenantID, req, s.userID)

	s.Require().NoError(err)
	s.Require().NotNil(account)
	s.Equal(1, account.Level)
	s.True(account.IsDebitNatured) // asset default
	s.True(account.Balance.IsZero())
	s.Equal(int64(1), account.RowVersion)
	s.mockAccountRepo.AssertExpectations(s.T())
}

func (s *AccountServiceTestSuite) TestCreateAccount_NatureOverride() {
	contraNature := false
	req := dto.CreateAccountRequest{
		Code:                "103",
		Name:                "Verilen Çekler",
		AccountType:         domain.Asset,
		CurrencyCode:        "TRY",
		AcceptsTransactions: true,
		IsDebitNatured:      &contraNature,
	}
	s.expectCurrency("TRY")
	s.mockAccountRepo.On("FindAccountByCode", s.ctx, s.tenantID, "103").Return(nil, apperrors.ErrNotFound).Once()
	s.mockAccountRepo.On("SaveAccount", s.ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := s.service.CreateAccount(s.ctx, s.tenantID, req, s.userID)

	s.Require().NoError(err)
	s.False(account.IsDebitNatured)
}

func (s *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	req := dto.CreateAccountRequest{Code: "100", Name: "Kasa", AccountType: domain.Asset, CurrencyCode: "TRY"}
	s.expectCurrency("TRY")
	existing := &domain.Account{AccountID: uuid.NewString(), Code: "100"}
	s.mockAccountRepo.On("FindAccountByCode", s.ctx, s.tenantID, "100").Return(existing, nil).Once()

	_, err := s.service.CreateAccount(s.ctx, s.tenantID, req, s.userID)

	s.ErrorIs(err, services.ErrDuplicateCode)
	s.mockAccountRepo.AssertNotCalled(s.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (s *AccountServiceTestSuite) TestCreateAccount_UnregisteredCurrency() {
	req := dto.CreateAccountRequest{Code: "100", Name: "Kasa", AccountType: domain.Asset, CurrencyCode: "ZZZ"}
	s.mockCurrencySvc.On("GetCurrencyByCode", s.ctx, "ZZZ").Return(nil, apperrors.ErrNotFound).Once()

	_, err := s.service.CreateAccount(s.ctx, s.tenantID, req, s.userID)

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *AccountServiceTestSuite) TestCreateAccount_ChildInheritsLevel() {
	parentID := uuid.NewString()
	parent := &domain.Account{
		AccountID:   parentID,
		Code:        "120",
		AccountType: domain.Asset,
		Level:       1,
	}
	req := dto.CreateAccountRequest{
		Code:                "120.01",
		Name:                "Alıcılar Yurtiçi",
		AccountType:         domain.Asset,
		ParentAccountID:     &parentID,
		CurrencyCode:        "TRY",
		AcceptsTransactions: true,
	}
	s.expectCurrency("TRY")
	s.mockAccountRepo.On("FindAccountByCode", s.ctx, s.tenantID, "120.01").Return(nil, apperrors.ErrNotFound).Once()
	s.mockAccountRepo.On("FindAccountByID", s.ctx, s.tenantID, parentID).Return(parent, nil).Once()
	s.mockAccountRepo.On("SaveAccount", s.ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := s.service.CreateAccount(s.ctx, s.tenantID, req, s.userID)

	s.Require().NoError(err)
	s.Equal(2, account.Level)
	s.Equal(&parentID, account.ParentAccountID)
}

func (s *AccountServiceTestSuite) TestCreateAccount_ParentTypeMismatch() {
	parentID := uuid.NewString()
	parent := &domain.Account{AccountID: parentID, Code: "600", AccountType: domain.Revenue, Level: 1}
	req := dto.CreateAccountRequest{
		Code:            "600.01",
		Name:            "Mismatch",
		AccountType:     domain.Asset,
		ParentAccountID: &parentID,
		CurrencyCode:    "TRY",
	}
	s.expectCurrency("TRY")
	s.mockAccountRepo.On("FindAccountByCode", s.ctx, s.tenantID, "600.01").Return(nil, apperrors.ErrNotFound).Once()
	s.mockAccountRepo.On("FindAccountByID", s.ctx, s.tenantID, parentID).Return(parent, nil).Once()

	_, err := s.service.CreateAccount(s.ctx, s.tenantID, req, s.userID)

	s.ErrorIs(err, services.ErrInvalidParent)
}

func (s *AccountServiceTestSuite) TestCreateAccount_ParentWithPostingsRejected() {
	parentID := uuid.NewString()
	parent := &domain.Account{
		AccountID:           parentID,
		Code:                "100",
		AccountType:         domain.Asset,
		AcceptsTransactions: true,
		Level:               1,
	}
	req := dto.CreateAccountRequest{
		Code:            "100.01",
		Name:            "Alt Kasa",
		AccountType:     domain.Asset,
		ParentAccountID: &parentID,
		CurrencyCode:    "TRY",
	}
	s.expectCurrency("TRY")
	s.mockAccountRepo.On("FindAccountByCode", s.ctx, s.tenantID, "100.01").Return(nil, apperrors.ErrNotFound).Once()
	s.mockAccountRepo.On("FindAccountByID", s.ctx, s.tenantID, parentID).Return(parent, nil).Once()
	s.mockAccountRepo.On("HasPostedLines", s.ctx, s.tenantID, parentID).Return(true, nil).Once()

	_, err := s.service.CreateAccount(s.ctx, s.tenantID, req, s.userID)

	s.ErrorIs(err, services.ErrInvalidParent)
	s.mockAccountRepo.AssertExpectations(s.T())
}

func (s *AccountServiceTestSuite) TestDeleteAccount_WithChildrenRejected() {
	accountID := uuid.NewString()
	account := &domain.Account{AccountID: accountID, Code: "120"}
	s.mockAccountRepo.On("FindAccountByID", s.ctx, s.tenantID, accountID).Return(account, nil).Once()
	s.mockAccountRepo.On("HasChildAccounts", s.ctx, s.tenantID, accountID).Return(true, nil).Once()

	err := s.service.DeleteAccount(s.ctx, s.tenantID, accountID, s.userID)

	s.ErrorIs(err, apperrors.ErrConflict)
	s.mockAccountRepo.AssertNotCalled(s.T(), "MarkAccountDeleted", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *AccountServiceTestSuite) TestDeleteAccount_Success() {
	accountID := uuid.NewString()
	account := &domain.Account{AccountID: accountID, Code: "120"}
	s.mockAccountRepo.On("FindAccountByID", s.ctx, s.tenantID, accountID).Return(account, nil).Once()
	s.mockAccountRepo.On("HasChildAccounts", s.ctx, s.tenantID, accountID).Return(false, nil).Once()
	s.mockAccountRepo.On("MarkAccountDeleted", s.ctx, s.tenantID, accountID, s.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := s.service.DeleteAccount(s.ctx, s.tenantID, accountID, s.userID)

	s.Require().NoError(err)
	s.mockAccountRepo.AssertExpectations(s.T())
}

func (s *AccountServiceTestSuite) TestAssertPostable_SummaryAccountRejected() {
	accountID := uuid.NewString()
	summary := &domain.Account{AccountID: accountID, Code: "10", AcceptsTransactions: true}
	s.mockAccountRepo.On("FindAccountByID", s.ctx, s.tenantID, accountID).Return(summary, nil).Once()
	s.mockAccountRepo.On("HasChildAccounts", s.ctx, s.tenantID, accountID).Return(true, nil).Once()

	err := s.service.AssertPostable(s.ctx, s.tenantID, accountID)

	s.ErrorIs(err, services.ErrAccountNotPostable)
}

func (s *AccountServiceTestSuite) TestAssertPostable_NonAcceptingRejected() {
	accountID := uuid.NewString()
	account := &domain.Account{AccountID: accountID, Code: "1", AcceptsTransactions: false}
	s.mockAccountRepo.On("FindAccountByID", s.ctx, s.tenantID, accountID).Return(account, nil).Once()

	err := s.service.AssertPostable(s.ctx, s.tenantID, accountID)

	s.ErrorIs(err, services.ErrAccountNotPostable)
	s.mockAccountRepo.AssertNotCalled(s.T(), "HasChildAccounts", mock.Anything, mock.Anything, mock.Anything)
}

func (s *AccountServiceTestSuite) TestAssertPostable_LeafAccepted() {
	accountID := uuid.NewString()
	leaf := &domain.Account{AccountID: accountID, Code: "100.01", AcceptsTransactions: true}
	s.mockAccountRepo.On("FindAccountByID", s.ctx, s.tenantID, accountID).Return(leaf, nil).Once()
	s.mockAccountRepo.On("HasChildAccounts", s.ctx, s.tenantID, accountID).Return(false, nil).Once()

	s.NoError(s.service.AssertPostable(s.ctx, s.tenantID, accountID))
}

func (s *AccountServiceTestSuite) TestGetAccountByID_NotFound() {
	accountID := uuid.NewString()
	s.mockAccountRepo.On("FindAccountByID", s.ctx, s.tenantID, accountID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := s.service.GetAccountByID(s.ctx, s.tenantID, accountID)

	s.ErrorIs(err, services.ErrAccountNotFound)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
