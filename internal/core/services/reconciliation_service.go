package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/abrkgrbz/stocker-finance/internal/apperrors"
	"github.com/abrkgrbz/stocker-finance/internal/core/domain"
	portsrepo "github.com/abrkgrbz/stocker-finance/internal/core/ports/repositories"
	portssvc "github.com/abrkgrbz/stocker-finance/internal/core/ports/services"
	"github.com/abrkgrbz/stocker-finance/internal/dto"
	"github.com/abrkgrbz/stocker-finance/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrReconciliationNotFound indicates the requested reconciliation does not exist.
	ErrReconciliationNotFound = errors.New("reconciliation not found")
	// ErrItemNotAcceptable indicates the item is not in a state an operator can accept.
	ErrItemNotAcceptable = errors.New("only unmatched items can be accepted")
	// ErrAlreadyJournalized indicates the residual difference was already posted.
	ErrAlreadyJournalized = errors.New("reconciliation difference has already been journalized")
	// ErrNothingToJournalize indicates a zero balance difference needs no adjustment.
	ErrNothingToJournalize = errors.New("reconciliation has no balance difference to journalize")
)

// reconciliationService matches imported bank statement items against the
// posted journal lines of a bank ledger account. Matching is deterministic:
// both sides are sorted by date, reference, then ID before the greedy passes,
// so identical inputs always partition identically.
type reconciliationService struct {
	reconRepo     portsrepo.ReconciliationRepositoryFacade
	lineRepo      portsrepo.LineReader
	reportingRepo portsrepo.ReportingReader
	accountSvc    portssvc.AccountSvcFacade
	ledgerSvc     portssvc.LedgerSvcFacade

	defaultTolerance  decimal.Decimal
	defaultWindowDays int
	gainLossAccount   string
	suspenseAccount   string
}

// NewReconciliationService creates a new ReconciliationService.
func NewReconciliationService(
	reconRepo portsrepo.ReconciliationRepositoryFacade,
	lineRepo portsrepo.LineReader,
	reportingRepo portsrepo.ReportingReader,
	accountSvc portssvc.AccountSvcFacade,
	ledgerSvc portssvc.LedgerSvcFacade,
	defaultTolerance decimal.Decimal,
	defaultWindowDays int,
	gainLossAccountCode string,
	suspenseAccountCode string,
) portssvc.ReconciliationSvcFacade {
	if defaultWindowDays < 0 {
		defaultWindowDays = 0
	}
	return &reconciliationService{
		reconRepo:         reconRepo,
		lineRepo:          lineRepo,
		reportingRepo:     reportingRepo,
		accountSvc:        accountSvc,
		ledgerSvc:         ledgerSvc,
		defaultTolerance:  defaultTolerance.Abs(),
		defaultWindowDays: defaultWindowDays,
		gainLossAccount:   gainLossAccountCode,
		suspenseAccount:   suspenseAccountCode,
	}
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

func (s *reconciliationService) ReconcileBankAccount(ctx context.Context, tenantID string, req dto.ReconcileRequest, userID string) (*domain.BankReconciliation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.PeriodEnd.Before(req.PeriodStart) {
		return nil, fmt.Errorf("%w: reconciliation window end precedes start", apperrors.ErrValidation)
	}
	account, err := s.accountSvc.GetAccountByID(ctx, tenantID, req.BankAccountID)
	if err != nil {
		return nil, err
	}
	for i, item := range req.StatementItems {
		if item.CurrencyCode != req.CurrencyCode {
			return nil, fmt.Errorf("%w: statement item %d currency %s differs from reconciliation currency %s",
				apperrors.ErrValidation, i+1, item.CurrencyCode, req.CurrencyCode)
		}
	}

	tolerance := s.defaultTolerance
	if req.Tolerance != nil {
		tolerance = req.Tolerance.Abs()
	}
	windowDays := s.defaultWindowDays
	if req.DateWindowDays != nil && *req.DateWindowDays >= 0 {
		windowDays = *req.DateWindowDays
	}

	systemOpening, err := s.systemBalanceAsOf(ctx, tenantID, account, req.PeriodStart.AddDate(0, 0, -1), req.CurrencyCode)
	if err != nil {
		return nil, err
	}
	systemClosing, err := s.systemBalanceAsOf(ctx, tenantID, account, req.PeriodEnd, req.CurrencyCode)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	reconciliationID := uuid.NewString()

	bankItems := make([]domain.ReconciliationItem, len(req.StatementItems))
	for i, sr := range req.StatementItems {
		bankItems[i] = domain.ReconciliationItem{
			ItemID:           uuid.NewString(),
			ReconciliationID: reconciliationID,
			Side:             domain.BankSide,
			Amount:           domain.NewMoney(sr.Amount, sr.CurrencyCode).Round(),
			TransactionDate:  sr.TransactionDate.UTC(),
			ReferenceNumber:  sr.ReferenceNumber,
			Description:      sr.Description,
			MatchState:       domain.Unmatched,
			AuditFields:      domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID},
		}
	}

	accountLines, err := s.lineRepo.FindLinesByAccountBetween(ctx, tenantID, req.BankAccountID, req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load system-side lines: %w", err)
	}
	systemItems := make([]domain.ReconciliationItem, len(accountLines))
	for i, al := range accountLines {
		systemItems[i] = domain.ReconciliationItem{
			ItemID:           uuid.NewString(),
			ReconciliationID: reconciliationID,
			Side:             domain.SystemSide,
			Amount:           signedLineAmount(al.Line, account.IsDebitNatured),
			TransactionDate:  al.EntryDate.UTC(),
			ReferenceNumber:  al.EntryNumber,
			Description:      al.Line.Description,
			MatchState:       domain.Unmatched,
			AuditFields:      domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID},
		}
	}

	matchItems(bankItems, systemItems, tolerance, windowDays)

	difference := systemClosing.Sub(req.BankClosingBalance)
	recon := domain.BankReconciliation{
		ReconciliationID:     reconciliationID,
		TenantID:             tenantID,
		BankAccountID:        req.BankAccountID,
		CurrencyCode:         req.CurrencyCode,
		PeriodStart:          req.PeriodStart.UTC(),
		PeriodEnd:            req.PeriodEnd.UTC(),
		BankOpeningBalance:   domain.NewMoney(req.BankOpeningBalance, req.CurrencyCode).Round(),
		BankClosingBalance:   domain.NewMoney(req.BankClosingBalance, req.CurrencyCode).Round(),
		SystemOpeningBalance: domain.NewMoney(systemOpening, req.CurrencyCode).Round(),
		SystemClosingBalance: domain.NewMoney(systemClosing, req.CurrencyCode).Round(),
		BalanceDifference:    domain.NewMoney(difference, req.CurrencyCode).Round(),
		AuditFields:          domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID},
	}

	items := append(bankItems, systemItems...)
	recon.IsReconciled = isReconciled(recon.BalanceDifference, items)

	number, err := s.reconRepo.SaveReconciliation(ctx, recon, items)
	if err != nil {
		logger.Error("Failed to save reconciliation", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save reconciliation: %w", err)
	}
	recon.ReconciliationNumber = number
	recon.Items = items

	logger.Info("Bank account reconciled",
		slog.String("reconciliation_number", recon.ReconciliationNumber),
		slog.String("bank_account_id", req.BankAccountID),
		slog.Bool("reconciled", recon.IsReconciled),
		slog.String("balance_difference", recon.BalanceDifference.Amount.String()),
	)
	return &recon, nil
}

// systemBalanceAsOf computes the nature-signed balance of the bank ledger
// account from posted activity up to and including asOf.
func (s *reconciliationService) systemBalanceAsOf(ctx context.Context, tenantID string, account *domain.Account, asOf time.Time, currencyCode string) (decimal.Decimal, error) {
	activity, err := s.reportingRepo.AccountActivityAsOf(ctx, tenantID, account.AccountID, asOf)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("failed to compute system balance: %w", err)
	}
	if account.IsDebitNatured {
		return activity.DebitTotal.Sub(activity.CreditTotal), nil
	}
	return activity.CreditTotal.Sub(activity.DebitTotal), nil
}

// signedLineAmount maps a line on the bank ledger account to statement-style
// signed money: inflows positive, outflows negative.
func signedLineAmount(line domain.JournalLine, isDebitNatured bool) domain.Money {
	amount := line.NormalizedAmount
	isDebit := line.Direction == domain.Debit
	if isDebit != isDebitNatured {
		return amount.Neg()
	}
	return amount
}

// matchItems runs the two matching passes in place. Pass one pairs items by
// amount within tolerance inside the date window, earliest first. Pass two
// pairs leftovers by reference number; matching references with diverging
// amounts land in NEEDS_CORRECTION so the discrepancy is surfaced, not hidden.
func matchItems(bankItems, systemItems []domain.ReconciliationItem, tolerance decimal.Decimal, windowDays int) {
	sortItems(bankItems)
	sortItems(systemItems)

	window := time.Duration(windowDays) * 24 * time.Hour
	for b := range bankItems {
		for sIdx := range systemItems {
			if systemItems[sIdx].MatchState != domain.Unmatched {
				continue
			}
			if !amountsWithin(bankItems[b].Amount.Amount, systemItems[sIdx].Amount.Amount, tolerance) {
				continue
			}
			if !datesWithin(bankItems[b].TransactionDate, systemItems[sIdx].TransactionDate, window) {
				continue
			}
			pair(&bankItems[b], &systemItems[sIdx], domain.Matched)
			break
		}
	}

	for b := range bankItems {
		if bankItems[b].MatchState != domain.Unmatched || bankItems[b].ReferenceNumber == "" {
			continue
		}
		for sIdx := range systemItems {
			if systemItems[sIdx].MatchState != domain.Unmatched {
				continue
			}
			if systemItems[sIdx].ReferenceNumber != bankItems[b].ReferenceNumber {
				continue
			}
			state := domain.NeedsCorrection
			if amountsWithin(bankItems[b].Amount.Amount, systemItems[sIdx].Amount.Amount, tolerance) {
				state = domain.Matched
			}
			pair(&bankItems[b], &systemItems[sIdx], state)
			break
		}
	}
}

func sortItems(items []domain.ReconciliationItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].TransactionDate.Equal(items[j].TransactionDate) {
			return items[i].TransactionDate.Before(items[j].TransactionDate)
		}
		if items[i].ReferenceNumber != items[j].ReferenceNumber {
			return items[i].ReferenceNumber < items[j].ReferenceNumber
		}
		return items[i].ItemID < items[j].ItemID
	})
}

func pair(a, b *domain.ReconciliationItem, state domain.MatchState) {
	a.MatchState = state
	b.MatchState = state
	a.MatchedItemID = &b.ItemID
	b.MatchedItemID = &a.ItemID
}

func amountsWithin(a, b, tolerance decimal.Decimal) bool {
	return a.Sub(b).Abs().Cmp(tolerance) <= 0
}

func datesWithin(a, b time.Time, window time.Duration) bool {
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	return diff <= window
}

func isReconciled(difference domain.Money, items []domain.ReconciliationItem) bool {
	if !difference.IsZero() {
		return false
	}
	for _, item := range items {
		if item.MatchState == domain.Unmatched || item.MatchState == domain.NeedsCorrection {
			return false
		}
	}
	return true
}

func (s *reconciliationService) GetReconciliation(ctx context.Context, tenantID, reconciliationID string) (*domain.BankReconciliation, error) {
	recon, err := s.reconRepo.FindReconciliationByID(ctx, tenantID, reconciliationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrReconciliationNotFound, reconciliationID)
		}
		return nil, fmt.Errorf("failed to fetch reconciliation %s: %w", reconciliationID, err)
	}
	items, err := s.reconRepo.FindItemsByReconciliationID(ctx, recon.ReconciliationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reconciliation items: %w", err)
	}
	recon.Items = items
	return recon, nil
}

func (s *reconciliationService) AcceptUnmatchedItem(ctx context.Context, tenantID, reconciliationID, itemID, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	recon, err := s.GetReconciliation(ctx, tenantID, reconciliationID)
	if err != nil {
		return err
	}

	var target *domain.ReconciliationItem
	for i := range recon.Items {
		if recon.Items[i].ItemID == itemID {
			target = &recon.Items[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("%w: item %s", apperrors.ErrNotFound, itemID)
	}
	if target.MatchState != domain.Unmatched {
		return fmt.Errorf("%w: item %s is %s", ErrItemNotAcceptable, itemID, target.MatchState)
	}

	now := time.Now().UTC()
	if err := s.reconRepo.UpdateItemMatchState(ctx, tenantID, reconciliationID, itemID, domain.AcceptedUnmatched, userID, now); err != nil {
		return fmt.Errorf("failed to accept item %s: %w", itemID, err)
	}
	logger.Info("Unmatched item accepted as known difference",
		slog.String("reconciliation_id", reconciliationID), slog.String("item_id", itemID))
	return nil
}

func (s *reconciliationService) PostAdjustmentEntry(ctx context.Context, tenantID, reconciliationID, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	recon, err := s.GetReconciliation(ctx, tenantID, reconciliationID)
	if err != nil {
		return nil, err
	}
	if recon.IsJournalized {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyJournalized, recon.ReconciliationNumber)
	}
	if recon.BalanceDifference.IsZero() {
		return nil, fmt.Errorf("%w: %s", ErrNothingToJournalize, recon.ReconciliationNumber)
	}

	adjustmentAccount, err := s.accountSvc.GetAccountByCode(ctx, tenantID, s.gainLossAccount)
	if err != nil {
		adjustmentAccount, err = s.accountSvc.GetAccountByCode(ctx, tenantID, s.suspenseAccount)
		if err != nil {
			return nil, fmt.Errorf("no adjustment account configured: %w", err)
		}
	}

	// A positive difference means the ledger shows more than the bank; the
	// bank account is credited down and the difference lands on the
	// adjustment account. A negative difference books the other way around.
	amount := recon.BalanceDifference.Abs().Amount
	bankDirection := domain.Credit
	adjustmentDirection := domain.Debit
	if recon.BalanceDifference.IsNegative() {
		bankDirection = domain.Debit
		adjustmentDirection = domain.Credit
	}

	req := dto.CreateEntryRequest{
		EntryDate:    recon.PeriodEnd,
		CurrencyCode: recon.CurrencyCode,
		Description:  fmt.Sprintf("Reconciliation adjustment for %s", recon.ReconciliationNumber),
		IsAdjustment: true,
		SourceType:   domain.SourceReconciliationAdjustment,
		SourceID:     &recon.ReconciliationID,
		Lines: []dto.CreateEntryLineRequest{
			{
				AccountID:    recon.BankAccountID,
				Direction:    bankDirection,
				Amount:       amount,
				CurrencyCode: recon.CurrencyCode,
				Description:  "Bank balance difference",
			},
			{
				AccountID:    adjustmentAccount.AccountID,
				Direction:    adjustmentDirection,
				Amount:       amount,
				CurrencyCode: recon.CurrencyCode,
				Description:  "Bank balance difference",
			},
		},
	}

	entry, err := s.ledgerSvc.PostEntry(ctx, tenantID, req, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to post adjustment entry: %w", err)
	}

	now := time.Now().UTC()
	if err := s.reconRepo.MarkJournalized(ctx, tenantID, reconciliationID, entry.EntryID, userID, now); err != nil {
		return nil, fmt.Errorf("failed to mark reconciliation journalized: %w", err)
	}

	logger.Info("Reconciliation difference journalized",
		slog.String("reconciliation_number", recon.ReconciliationNumber),
		slog.String("entry_number", entry.EntryNumber),
	)
	return entry, nil
}

func (s *reconciliationService) ReconciliationStatus(ctx context.Context, tenantID, bankAccountID string, periodStart, periodEnd time.Time) (*dto.ReconciliationStatusResponse, error) {
	recon, err := s.reconRepo.FindLatestForBankAccount(ctx, tenantID, bankAccountID, periodStart, periodEnd)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &dto.ReconciliationStatusResponse{
				BankAccountID:     bankAccountID,
				BalanceDifference: decimal.Zero,
			}, nil
		}
		return nil, fmt.Errorf("failed to fetch latest reconciliation: %w", err)
	}

	items, err := s.reconRepo.FindItemsByReconciliationID(ctx, recon.ReconciliationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reconciliation items: %w", err)
	}

	status := dto.ReconciliationStatusResponse{
		BankAccountID:        bankAccountID,
		ReconciliationID:     &recon.ReconciliationID,
		ReconciliationNumber: &recon.ReconciliationNumber,
		IsReconciled:         recon.IsReconciled,
		BalanceDifference:    recon.BalanceDifference.Amount,
	}
	for _, item := range items {
		switch item.MatchState {
		case domain.Matched:
			status.MatchedCount++
		case domain.NeedsCorrection:
			status.NeedsCorrectionCount++
		case domain.Unmatched:
			status.UnmatchedCount++
		}
	}
	return &status, nil
}
