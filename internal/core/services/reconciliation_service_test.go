package services_test

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/abrkgrbz/stocker-finance/internal/apperrors"
	"github.com/abrkgrbz/stocker-finance/internal/core/domain"
	portsrepo "github.com/abrkgrbz/stocker-finance/internal/core/ports/repositories"
	portssvc "github.com/abrkgrbz/stocker-finance/internal/core/ports/services"
	"github.com/abrkgrbz/stocker-finance/internal/core/services"
	"github.com/abrkgrbz/stocker-finance/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ReconciliationServiceTestSuite struct {
	suite.Suite
	mockReconRepo     *MockReconciliationRepository
	mockEntryRepo     *MockEntryRepository
	mockReportingRepo *MockReportingRepository
	mockAccountSvc    *MockAccountService
	mockLedgerSvc     *MockLedgerService
	service           portssvc.ReconciliationSvcFacade
	ctx               context.Context
	tenantID          string
	userID            string
	bankAccount       *domain.Account
	periodStart       time.Time
	periodEnd         time.Time
}

func (s *ReconciliationServiceTestSuite) SetupTest() {
	s.mockReconRepo = new(MockReconciliationRepository)
	s.mockEntryRepo = new(MockEntryRepository)
	s.mockReportingRepo = new(MockReportingRepository)
	s.mockAccountSvc = new(MockAccountService)
	s.mockLedgerSvc = new(MockLedgerService)
	s.service = services.NewReconciliationService(
		s.mockReconRepo,
		s.mockEntryRepo,
		s.mockReportingRepo,
		s.mockAccountSvc,
		s.mockLedgerSvc,
		decimal.RequireFromString("0.01"),
		3,
		"679",
		"397",
	)
	s.ctx = context.Background()
	s.tenantID = "tenant-1"
	s.userID = "user-1"
	s.bankAccount = &domain.Account{
		AccountID:           uuid.NewString(),
		TenantID:            s.tenantID,
		Code:                "102.01",
		AccountType:         domain.Asset,
		IsDebitNatured:      true,
		AcceptsTransactions: true,
		CurrencyCode:        "TRY",
	}
	s.periodStart = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.periodEnd = time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
}

func (s *ReconciliationServiceTestSuite) accountLine(direction domain.LineDirection, amount string, entryDate time.Time, entryNumber string) portsrepo.AccountLine {
	m := domain.NewMoney(decimal.RequireFromString(amount), "TRY")
	return portsrepo.AccountLine{
		Line: domain.JournalLine{
			LineID:           uuid.NewString(),
			AccountID:        s.bankAccount.AccountID,
			Direction:        direction,
			Amount:           m,
			NormalizedAmount: m,
		},
		EntryDate:   entryDate,
		EntryNumber: entryNumber,
	}
}

func (s *ReconciliationServiceTestSuite) TestReconcileBankAccount_FullyMatched() {
	req := dto.ReconcileRequest{
		BankAccountID:      s.bankAccount.AccountID,
		CurrencyCode:       "TRY",
		PeriodStart:        s.periodStart,
		PeriodEnd:          s.periodEnd,
		BankOpeningBalance: decimal.Zero,
		BankClosingBalance: decimal.NewFromInt(800),
		StatementItems: []dto.StatementItemRequest{
			{Amount: decimal.NewFromInt(1000), CurrencyCode: "TRY", TransactionDate: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), ReferenceNumber: "HVL-1"},
			{Amount: decimal.NewFromInt(-200), CurrencyCode: "TRY", TransactionDate: time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC)},
		},
	}
	s.mockAccountSvc.On("GetAccountByID", s.ctx, s.tenantID, s.bankAccount.AccountID).Return(s.bankAccount, nil).Once()
	s.mockReportingRepo.On("AccountActivityAsOf", s.ctx, s.tenantID, s.bankAccount.AccountID, s.periodStart.AddDate(0, 0, -1)).
		Return(nil, apperrors.ErrNotFound).Once()
	s.mockReportingRepo.On("AccountActivityAsOf", s.ctx, s.tenantID, s.bankAccount.AccountID, s.periodEnd).
		Return(&portsrepo.AccountActivity{
			AccountID:      s.bankAccount.AccountID,
			IsDebitNatured: true,
			CurrencyCode:   "TRY",
			DebitTotal:     decimal.NewFromInt(1000),
			CreditTotal:    decimal.NewFromInt(200),
		}, nil).Once()
	s.mockEntryRepo.On("FindLinesByAccountBetween", s.ctx, s.tenantID, s.bankAccount.AccountID, s.periodStart, s.periodEnd).
		Return([]portsrepo.AccountLine{
			s.accountLine(domain.Debit, "1000", time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), "YEV-2026-000001"),
			s.accountLine(domain.Credit, "200", time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), "YEV-2026-000002"),
		}, nil).Once()
	s.mockReconRepo.On("SaveReconciliation", s.ctx, mock.AnythingOfType("domain.BankReconciliation"), mock.Anything).
		Return("MUT-2026-000001", nil).Once()

	recon, err := s.service.ReconcileBankAccount(s.ctx, s.tenantID, req, s.userID)

	s.Require().NoError(err)
	s.Equal("MUT-2026-000001", recon.ReconciliationNumber)
	s.True(recon.IsReconciled)
	s.True(recon.BalanceDifference.IsZero())
	s.True(recon.SystemClosingBalance.Amount.Equal(decimal.NewFromInt(800)))
	s.True(recon.SystemOpeningBalance.IsZero())
	s.Require().Len(recon.Items, 4)
	for _, item := range recon.Items {
		s.Equal(domain.Matched, item.MatchState)
		s.Require().NotNil(item.MatchedItemID)
	}
	s.mockReconRepo.AssertExpectations(s.T())
	s.mockReportingRepo.AssertExpectations(s.T())
}

func (s *ReconciliationServiceTestSuite) TestReconcileBankAccount_ReferencePairingNeedsCorrection() {
	// The bank recorded 500 for a check the ledger booked as 450; the date
	// window misses too. Only the reference pass can pair them, and the
	// amount divergence must surface as NEEDS_CORRECTION.
	req := dto.ReconcileRequest{
		BankAccountID:      s.bankAccount.AccountID,
		CurrencyCode:       "TRY",
		PeriodStart:        s.periodStart,
		PeriodEnd:          s.periodEnd,
		BankClosingBalance: decimal.NewFromInt(500),
		StatementItems: []dto.StatementItemRequest{
			{Amount: decimal.NewFromInt(500), CurrencyCode: "TRY", TransactionDate: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), ReferenceNumber: "YEV-2026-000009"},
		},
	}
	s.mockAccountSvc.On("GetAccountByID", s.ctx, s.tenantID, s.bankAccount.AccountID).Return(s.bankAccount, nil).Once()
	s.mockReportingRepo.On("AccountActivityAsOf", s.ctx, s.tenantID, s.bankAccount.AccountID, s.periodStart.AddDate(0, 0, -1)).
		Return(nil, apperrors.ErrNotFound).Once()
	s.mockReportingRepo.On("AccountActivityAsOf", s.ctx, s.tenantID, s.bankAccount.AccountID, s.periodEnd).
		Return(&portsrepo.AccountActivity{
			AccountID:      s.bankAccount.AccountID,
			IsDebitNatured: true,
			CurrencyCode:   "TRY",
			DebitTotal:     decimal.NewFromInt(450),
			CreditTotal:    decimal.Zero,
		}, nil).Once()
	s.mockEntryRepo.On("FindLinesByAccountBetween", s.ctx, s.tenantID, s.bankAccount.AccountID, s.periodStart, s.periodEnd).
		Return([]portsrepo.AccountLine{
			s.accountLine(domain.Debit, "450", time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC), "YEV-2026-000009"),
		}, nil).Once()
	s.mockReconRepo.On("SaveReconciliation", s.ctx, mock.Anything, mock.Anything).Return("MUT-2026-000002", nil).Once()

	recon, err := s.service.ReconcileBankAccount(s.ctx, s.tenantID, req, s.userID)

	s.Require().NoError(err)
	s.False(recon.IsReconciled)
	s.True(recon.BalanceDifference.Amount.Equal(decimal.NewFromInt(-50)))
	s.Require().Len(recon.Items, 2)
	for _, item := range recon.Items {
		s.Equal(domain.NeedsCorrection, item.MatchState)
		s.Require().NotNil(item.MatchedItemID)
	}
}

func (s *ReconciliationServiceTestSuite) TestReconcileBankAccount_ZeroToleranceIsStrict() {
	// 100.005 vs 100.00 sits inside the configured 0.01 tolerance, but the
	// request pins tolerance to zero, so the pair must stay unmatched.
	zero := decimal.Zero
	req := dto.ReconcileRequest{
		BankAccountID:      s.bankAccount.AccountID,
		CurrencyCode:       "TRY",
		PeriodStart:        s.periodStart,
		PeriodEnd:          s.periodEnd,
		BankClosingBalance: decimal.NewFromInt(100),
		Tolerance:          &zero,
		StatementItems: []dto.StatementItemRequest{
			{Amount: decimal.NewFromInt(100), CurrencyCode: "TRY", TransactionDate: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)},
		},
	}
	s.mockAccountSvc.On("GetAccountByID", s.ctx, s.tenantID, s.bankAccount.AccountID).Return(s.bankAccount, nil).Once()
	s.mockReportingRepo.On("AccountActivityAsOf", s.ctx, s.tenantID, s.bankAccount.AccountID, s.periodStart.AddDate(0, 0, -1)).
		Return(nil, apperrors.ErrNotFound).Once()
	s.mockReportingRepo.On("AccountActivityAsOf", s.ctx, s.tenantID, s.bankAccount.AccountID, s.periodEnd).
		Return(&portsrepo.AccountActivity{
			AccountID:      s.bankAccount.AccountID,
			IsDebitNatured: true,
			CurrencyCode:   "TRY",
			DebitTotal:     decimal.RequireFromString("100.005"),
			CreditTotal:    decimal.Zero,
		}, nil).Once()
	s.mockEntryRepo.On("FindLinesByAccountBetween", s.ctx, s.tenantID, s.bankAccount.AccountID, s.periodStart, s.periodEnd).
		Return([]portsrepo.AccountLine{
			s.accountLine(domain.Debit, "100.005", time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), "YEV-2026-000020"),
		}, nil).Once()
	s.mockReconRepo.On("SaveReconciliation", s.ctx, mock.Anything, mock.Anything).Return("MUT-2026-000003", nil).Once()

	recon, err := s.service.ReconcileBankAccount(s.ctx, s.tenantID, req, s.userID)

	s.Require().NoError(err)
	s.False(recon.IsReconciled)
	s.Require().Len(recon.Items, 2)
	for _, item := range recon.Items {
		s.Equal(domain.Unmatched, item.MatchState)
		s.Nil(item.MatchedItemID)
	}
}

// itemSignatures reduces a reconciliation's items to content-based strings,
// pairing each item with the content of its matched counterpart. Item IDs are
// generated per run, so comparing two runs has to go through content.
func itemSignatures(items []domain.ReconciliationItem) []string {
	byID := make(map[string]domain.ReconciliationItem, len(items))
	for _, item := range items {
		byID[item.ItemID] = item
	}
	content := func(it domain.ReconciliationItem) string {
		return fmt.Sprintf("%s|%s|%s|%s|%s",
			it.Side, it.Amount.Amount.String(), it.TransactionDate.Format("2006-01-02"), it.ReferenceNumber, it.MatchState)
	}
	sigs := make([]string, 0, len(items))
	for _, item := range items {
		partner := "-"
		if item.MatchedItemID != nil {
			partner = content(byID[*item.MatchedItemID])
		}
		sigs = append(sigs, content(item)+"<=>"+partner)
	}
	sort.Strings(sigs)
	return sigs
}

func (s *ReconciliationServiceTestSuite) TestReconcileBankAccount_RepeatRunsPairIdentically() {
	// Two bank deposits of the same amount against two candidate ledger lines
	// inside the date window. Whichever way the matcher pairs them, it must
	// pair them the same way every run.
	req := dto.ReconcileRequest{
		BankAccountID:      s.bankAccount.AccountID,
		CurrencyCode:       "TRY",
		PeriodStart:        s.periodStart,
		PeriodEnd:          s.periodEnd,
		BankClosingBalance: decimal.NewFromInt(200),
		StatementItems: []dto.StatementItemRequest{
			{Amount: decimal.NewFromInt(100), CurrencyCode: "TRY", TransactionDate: time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC)},
			{Amount: decimal.NewFromInt(100), CurrencyCode: "TRY", TransactionDate: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)},
		},
	}
	s.mockAccountSvc.On("GetAccountByID", s.ctx, s.tenantID, s.bankAccount.AccountID).Return(s.bankAccount, nil).Twice()
	s.mockReportingRepo.On("AccountActivityAsOf", s.ctx, s.tenantID, s.bankAccount.AccountID, s.periodStart.AddDate(0, 0, -1)).
		Return(nil, apperrors.ErrNotFound).Twice()
	s.mockReportingRepo.On("AccountActivityAsOf", s.ctx, s.tenantID, s.bankAccount.AccountID, s.periodEnd).
		Return(&portsrepo.AccountActivity{
			AccountID:      s.bankAccount.AccountID,
			IsDebitNatured: true,
			CurrencyCode:   "TRY",
			DebitTotal:     decimal.NewFromInt(200),
			CreditTotal:    decimal.Zero,
		}, nil).Twice()
	s.mockEntryRepo.On("FindLinesByAccountBetween", s.ctx, s.tenantID, s.bankAccount.AccountID, s.periodStart, s.periodEnd).
		Return([]portsrepo.AccountLine{
			s.accountLine(domain.Debit, "100", time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC), "YEV-2026-000030"),
			s.accountLine(domain.Debit, "100", time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), "YEV-2026-000031"),
		}, nil).Twice()
	s.mockReconRepo.On("SaveReconciliation", s.ctx, mock.Anything, mock.Anything).Return("MUT-2026-000004", nil).Twice()

	first, err := s.service.ReconcileBankAccount(s.ctx, s.tenantID, req, s.userID)
	s.Require().NoError(err)
	second, err := s.service.ReconcileBankAccount(s.ctx, s.tenantID, req, s.userID)
	s.Require().NoError(err)

	s.Equal(first.IsReconciled, second.IsReconciled)
	s.True(first.BalanceDifference.Amount.Equal(second.BalanceDifference.Amount))
	s.Equal(itemSignatures(first.Items), itemSignatures(second.Items))
	s.mockReconRepo.AssertExpectations(s.T())
}

func (s *ReconciliationServiceTestSuite) TestReconcileBankAccount_CurrencyMismatchRejected() {
	req := dto.ReconcileRequest{
		BankAccountID: s.bankAccount.AccountID,
		CurrencyCode:  "TRY",
		PeriodStart:   s.periodStart,
		PeriodEnd:     s.periodEnd,
		StatementItems: []dto.StatementItemRequest{
			{Amount: decimal.NewFromInt(10), CurrencyCode: "USD", TransactionDate: s.periodStart},
		},
	}
	s.mockAccountSvc.On("GetAccountByID", s.ctx, s.tenantID, s.bankAccount.AccountID).Return(s.bankAccount, nil).Once()

	_, err := s.service.ReconcileBankAccount(s.ctx, s.tenantID, req, s.userID)

	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockReconRepo.AssertNotCalled(s.T(), "SaveReconciliation", mock.Anything, mock.Anything, mock.Anything)
}

func (s *ReconciliationServiceTestSuite) TestReconcileBankAccount_InvertedWindowRejected() {
	req := dto.ReconcileRequest{
		BankAccountID:  s.bankAccount.AccountID,
		CurrencyCode:   "TRY",
		PeriodStart:    s.periodEnd,
		PeriodEnd:      s.periodStart,
		StatementItems: []dto.StatementItemRequest{},
	}

	_, err := s.service.ReconcileBankAccount(s.ctx, s.tenantID, req, s.userID)

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *ReconciliationServiceTestSuite) storedReconciliation(difference string) *domain.BankReconciliation {
	return &domain.BankReconciliation{
		ReconciliationID:     uuid.NewString(),
		TenantID:             s.tenantID,
		ReconciliationNumber: "MUT-2026-000007",
		BankAccountID:        s.bankAccount.AccountID,
		CurrencyCode:         "TRY",
		PeriodStart:          s.periodStart,
		PeriodEnd:            s.periodEnd,
		BalanceDifference:    domain.NewMoney(decimal.RequireFromString(difference), "TRY"),
	}
}

func (s *ReconciliationServiceTestSuite) TestAcceptUnmatchedItem_Success() {
	recon := s.storedReconciliation("0")
	item := domain.ReconciliationItem{
		ItemID:           uuid.NewString(),
		ReconciliationID: recon.ReconciliationID,
		Side:             domain.BankSide,
		MatchState:       domain.Unmatched,
	}
	s.mockReconRepo.On("FindReconciliationByID", s.ctx, s.tenantID, recon.ReconciliationID).Return(recon, nil).Once()
	s.mockReconRepo.On("FindItemsByReconciliationID", s.ctx, recon.ReconciliationID).Return([]domain.ReconciliationItem{item}, nil).Once()
	s.mockReconRepo.On("UpdateItemMatchState", s.ctx, s.tenantID, recon.ReconciliationID, item.ItemID, domain.AcceptedUnmatched, s.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := s.service.AcceptUnmatchedItem(s.ctx, s.tenantID, recon.ReconciliationID, item.ItemID, s.userID)

	s.Require().NoError(err)
	s.mockReconRepo.AssertExpectations(s.T())
}

func (s *ReconciliationServiceTestSuite) TestAcceptUnmatchedItem_MatchedItemRejected() {
	recon := s.storedReconciliation("0")
	item := domain.ReconciliationItem{
		ItemID:           uuid.NewString(),
		ReconciliationID: recon.ReconciliationID,
		MatchState:       domain.Matched,
	}
	s.mockReconRepo.On("FindReconciliationByID", s.ctx, s.tenantID, recon.ReconciliationID).Return(recon, nil).Once()
	s.mockReconRepo.On("FindItemsByReconciliationID", s.ctx, recon.ReconciliationID).Return([]domain.ReconciliationItem{item}, nil).Once()

	err := s.service.AcceptUnmatchedItem(s.ctx, s.tenantID, recon.ReconciliationID, item.ItemID, s.userID)

	s.ErrorIs(err, services.ErrItemNotAcceptable)
	s.mockReconRepo.AssertNotCalled(s.T(), "UpdateItemMatchState", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ReconciliationServiceTestSuite) TestAcceptUnmatchedItem_UnknownItem() {
	recon := s.storedReconciliation("0")
	s.mockReconRepo.On("FindReconciliationByID", s.ctx, s.tenantID, recon.ReconciliationID).Return(recon, nil).Once()
	s.mockReconRepo.On("FindItemsByReconciliationID", s.ctx, recon.ReconciliationID).Return([]domain.ReconciliationItem{}, nil).Once()

	err := s.service.AcceptUnmatchedItem(s.ctx, s.tenantID, recon.ReconciliationID, uuid.NewString(), s.userID)

	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *ReconciliationServiceTestSuite) expectStoredReconciliation(recon *domain.BankReconciliation) {
	s.mockReconRepo.On("FindReconciliationByID", s.ctx, s.tenantID, recon.ReconciliationID).Return(recon, nil).Once()
	s.mockReconRepo.On("FindItemsByReconciliationID", s.ctx, recon.ReconciliationID).Return([]domain.ReconciliationItem{}, nil).Once()
}

func (s *ReconciliationServiceTestSuite) TestPostAdjustmentEntry_PositiveDifference() {
	recon := s.storedReconciliation("50")
	s.expectStoredReconciliation(recon)
	gainLoss := &domain.Account{AccountID: uuid.NewString(), Code: "679", AccountType: domain.Revenue}
	s.mockAccountSvc.On("GetAccountByCode", s.ctx, s.tenantID, "679").Return(gainLoss, nil).Once()
	posted := &domain.JournalEntry{EntryID: uuid.NewString(), EntryNumber: "YEV-2026-000042"}
	s.mockLedgerSvc.On("PostEntry", s.ctx, s.tenantID, mock.MatchedBy(func(req dto.CreateEntryRequest) bool {
		// The ledger shows more than the bank: credit the bank account down,
		// debit the adjustment account.
		return req.IsAdjustment &&
			req.SourceType == domain.SourceReconciliationAdjustment &&
			len(req.Lines) == 2 &&
			req.Lines[0].AccountID == s.bankAccount.AccountID &&
			req.Lines[0].Direction == domain.Credit &&
			req.Lines[1].AccountID == gainLoss.AccountID &&
			req.Lines[1].Direction == domain.Debit &&
			req.Lines[0].Amount.Equal(decimal.NewFromInt(50))
	}), s.userID).Return(posted, nil).Once()
	s.mockReconRepo.On("MarkJournalized", s.ctx, s.tenantID, recon.ReconciliationID, posted.EntryID, s.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	entry, err := s.service.PostAdjustmentEntry(s.ctx, s.tenantID, recon.ReconciliationID, s.userID)

	s.Require().NoError(err)
	s.Equal(posted.EntryID, entry.EntryID)
	s.mockLedgerSvc.AssertExpectations(s.T())
	s.mockReconRepo.AssertExpectations(s.T())
}

func (s *ReconciliationServiceTestSuite) TestPostAdjustmentEntry_NegativeDifference() {
	recon := s.storedReconciliation("-25")
	s.expectStoredReconciliation(recon)
	gainLoss := &domain.Account{AccountID: uuid.NewString(), Code: "679"}
	s.mockAccountSvc.On("GetAccountByCode", s.ctx, s.tenantID, "679").Return(gainLoss, nil).Once()
	posted := &domain.JournalEntry{EntryID: uuid.NewString()}
	s.mockLedgerSvc.On("PostEntry", s.ctx, s.tenantID, mock.MatchedBy(func(req dto.CreateEntryRequest) bool {
		return req.Lines[0].Direction == domain.Debit &&
			req.Lines[1].Direction == domain.Credit &&
			req.Lines[0].Amount.Equal(decimal.NewFromInt(25))
	}), s.userID).Return(posted, nil).Once()
	s.mockReconRepo.On("MarkJournalized", s.ctx, s.tenantID, recon.ReconciliationID, posted.EntryID, s.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	_, err := s.service.PostAdjustmentEntry(s.ctx, s.tenantID, recon.ReconciliationID, s.userID)

	s.Require().NoError(err)
}

func (s *ReconciliationServiceTestSuite) TestPostAdjustmentEntry_SuspenseFallback() {
	recon := s.storedReconciliation("50")
	s.expectStoredReconciliation(recon)
	suspense := &domain.Account{AccountID: uuid.NewString(), Code: "397"}
	s.mockAccountSvc.On("GetAccountByCode", s.ctx, s.tenantID, "679").Return(nil, services.ErrAccountNotFound).Once()
	s.mockAccountSvc.On("GetAccountByCode", s.ctx, s.tenantID, "397").Return(suspense, nil).Once()
	posted := &domain.JournalEntry{EntryID: uuid.NewString()}
	s.mockLedgerSvc.On("PostEntry", s.ctx, s.tenantID, mock.MatchedBy(func(req dto.CreateEntryRequest) bool {
		return req.Lines[1].AccountID == suspense.AccountID
	}), s.userID).Return(posted, nil).Once()
	s.mockReconRepo.On("MarkJournalized", s.ctx, s.tenantID, recon.ReconciliationID, posted.EntryID, s.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	_, err := s.service.PostAdjustmentEntry(s.ctx, s.tenantID, recon.ReconciliationID, s.userID)

	s.Require().NoError(err)
	s.mockAccountSvc.AssertExpectations(s.T())
}

func (s *ReconciliationServiceTestSuite) TestPostAdjustmentEntry_AlreadyJournalized() {
	recon := s.storedReconciliation("50")
	recon.IsJournalized = true
	s.expectStoredReconciliation(recon)

	_, err := s.service.PostAdjustmentEntry(s.ctx, s.tenantID, recon.ReconciliationID, s.userID)

	s.ErrorIs(err, services.ErrAlreadyJournalized)
	s.mockLedgerSvc.AssertNotCalled(s.T(), "PostEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ReconciliationServiceTestSuite) TestPostAdjustmentEntry_ZeroDifference() {
	recon := s.storedReconciliation("0")
	s.expectStoredReconciliation(recon)

	_, err := s.service.PostAdjustmentEntry(s.ctx, s.tenantID, recon.ReconciliationID, s.userID)

	s.ErrorIs(err, services.ErrNothingToJournalize)
}

func (s *ReconciliationServiceTestSuite) TestReconciliationStatus_NoneFound() {
	s.mockReconRepo.On("FindLatestForBankAccount", s.ctx, s.tenantID, s.bankAccount.AccountID, s.periodStart, s.periodEnd).
		Return(nil, apperrors.ErrNotFound).Once()

	status, err := s.service.ReconciliationStatus(s.ctx, s.tenantID, s.bankAccount.AccountID, s.periodStart, s.periodEnd)

	s.Require().NoError(err)
	s.Equal(s.bankAccount.AccountID, status.BankAccountID)
	s.Nil(status.ReconciliationID)
	s.False(status.IsReconciled)
	s.True(status.BalanceDifference.IsZero())
}

func (s *ReconciliationServiceTestSuite) TestReconciliationStatus_CountsByState() {
	recon := s.storedReconciliation("12.5")
	items := []domain.ReconciliationItem{
		{ItemID: uuid.NewString(), MatchState: domain.Matched},
		{ItemID: uuid.NewString(), MatchState: domain.Matched},
		{ItemID: uuid.NewString(), MatchState: domain.NeedsCorrection},
		{ItemID: uuid.NewString(), MatchState: domain.Unmatched},
		{ItemID: uuid.NewString(), MatchState: domain.AcceptedUnmatched},
	}
	s.mockReconRepo.On("FindLatestForBankAccount", s.ctx, s.tenantID, s.bankAccount.AccountID, s.periodStart, s.periodEnd).
		Return(recon, nil).Once()
	s.mockReconRepo.On("FindItemsByReconciliationID", s.ctx, recon.ReconciliationID).Return(items, nil).Once()

	status, err := s.service.ReconciliationStatus(s.ctx, s.tenantID, s.bankAccount.AccountID, s.periodStart, s.periodEnd)

	s.Require().NoError(err)
	s.Equal(2, status.MatchedCount)
	s.Equal(1, status.NeedsCorrectionCount)
	s.Equal(1, status.UnmatchedCount)
	s.True(status.BalanceDifference.Equal(decimal.RequireFromString("12.5")))
}

func TestReconciliationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}
