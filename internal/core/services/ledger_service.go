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
	"github.com/abrkgrbz/stocker-finance/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Reversal dating policies. OriginalDate posts the reversing entry on the
// original's entry date when that period still accepts it, falling back to the
// current date otherwise. CurrentDate always posts on the current date.
const (
	ReversalDatingOriginal = "original"
	ReversalDatingCurrent  = "current"
)

var (
	// ErrEntryNotPosted indicates an operation that requires a POSTED entry
	// was applied to a draft or already-reversed entry.
	ErrEntryNotPosted = errors.New("journal entry is not in posted status")
	// ErrEntryAlreadyReversed indicates the entry already has a reversing entry.
	ErrEntryAlreadyReversed = errors.New("journal entry has already been reversed")
	// ErrCannotReverseReversal indicates an attempt to reverse a reversing
	// entry; corrections of corrections start from a fresh entry instead.
	ErrCannotReverseReversal = errors.New("a reversing entry cannot itself be reversed")
)

// ledgerService is the single write path for journal entries. Every posting
// runs the same pipeline: period gating, account checks, currency
// normalization, the exact balance check, then one atomic save that assigns
// the gapless entry number and applies version-checked balance deltas.
type ledgerService struct {
	entryRepo       portsrepo.EntryRepositoryFacade
	accountSvc      portssvc.AccountSvcFacade
	periodSvc       portssvc.PeriodSvcFacade
	exchangeRateSvc portssvc.ExchangeRateSvcFacade

	maxRetries     int
	reversalDating string
}

// NewLedgerService creates a new LedgerService. maxRetries bounds how often a
// posting is retried after losing an optimistic balance-update race.
func NewLedgerService(
	entryRepo portsrepo.EntryRepositoryFacade,
	accountSvc portssvc.AccountSvcFacade,
	periodSvc portssvc.PeriodSvcFacade,
	exchangeRateSvc portssvc.ExchangeRateSvcFacade,
	maxRetries int,
	reversalDating string,
) portssvc.LedgerSvcFacade {
	if maxRetries < 1 {
		maxRetries = 1
	}
	if reversalDating != ReversalDatingCurrent {
		reversalDating = ReversalDatingOriginal
	}
	return &ledgerService{
		entryRepo:       entryRepo,
		accountSvc:      accountSvc,
		periodSvc:       periodSvc,
		exchangeRateSvc: exchangeRateSvc,
		maxRetries:      maxRetries,
		reversalDating:  reversalDating,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) PostEntry(ctx context.Context, tenantID string, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(req.Lines) < 2 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, accounting.ErrEntryMinLines)
	}
	for i, line := range req.Lines {
		if !line.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: line %d amount must be positive", apperrors.ErrValidation, i+1)
		}
	}

	period, err := s.periodSvc.PeriodFor(ctx, tenantID, req.EntryDate)
	if err != nil {
		return nil, err
	}
	if !period.AllowsPosting(req.IsAdjustment) {
		return nil, fmt.Errorf("%w: period %s is %s", ErrPeriodClosed, period.Name, period.Status)
	}

	accountIDs := uniqueAccountIDs(req.Lines)
	accounts, err := s.accountSvc.GetAccountByIDs(ctx, tenantID, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts for posting: %w", err)
	}
	natures := make(map[string]bool, len(accounts))
	versions := make(map[string]int64, len(accounts))
	for _, id := range accountIDs {
		if _, ok := accounts[id]; !ok {
			return nil, fmt.Errorf("%w: account %s", ErrAccountNotFound, id)
		}
		if err := s.accountSvc.AssertPostable(ctx, tenantID, id); err != nil {
			return nil, err
		}
		natures[id] = accounts[id].IsDebitNatured
		versions[id] = accounts[id].RowVersion
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()
	sourceType := req.SourceType
	if sourceType == "" {
		sourceType = domain.SourceManual
	}

	lines := make([]domain.JournalLine, len(req.Lines))
	for i, lr := range req.Lines {
		original := domain.NewMoney(lr.Amount, lr.CurrencyCode).Round()
		normalized, err := s.exchangeRateSvc.Convert(ctx, tenantID, original, req.CurrencyCode, req.EntryDate)
		if err != nil {
			return nil, fmt.Errorf("failed to normalize line %d to %s: %w", i+1, req.CurrencyCode, err)
		}
		lines[i] = domain.JournalLine{
			LineID:           uuid.NewString(),
			EntryID:          entryID,
			AccountID:        lr.AccountID,
			LineNumber:       i + 1,
			Direction:        lr.Direction,
			Amount:           original,
			NormalizedAmount: normalized.Round(),
			Description:      lr.Description,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     creatorUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: creatorUserID,
			},
		}
	}

	if err := accounting.ValidateEntryBalance(lines); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}
	balanceChanges, err := accounting.BalanceChanges(lines, natures)
	if err != nil {
		return nil, fmt.Errorf("failed to compute balance changes: %w", err)
	}

	entry := domain.JournalEntry{
		EntryID:      entryID,
		TenantID:     tenantID,
		EntryDate:    req.EntryDate.UTC(),
		PeriodID:     period.PeriodID,
		CurrencyCode: req.CurrencyCode,
		Description:  req.Description,
		Status:       domain.EntryPosted,
		IsAdjustment: req.IsAdjustment,
		SourceType:   sourceType,
		SourceID:     req.SourceID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	entryNumber, err := s.saveWithRetry(ctx, tenantID, entry.EntryID, balanceChanges, versions,
		func(v map[string]int64) (string, error) {
			return s.entryRepo.SaveEntry(ctx, entry, lines, balanceChanges, v)
		})
	if err != nil {
		logger.Error("Failed to post journal entry", slog.String("error", err.Error()))
		return nil, err
	}
	entry.EntryNumber = entryNumber
	entry.Lines = lines

	logger.Info("Journal entry posted",
		slog.String("entry_id", entry.EntryID),
		slog.String("entry_number", entry.EntryNumber),
		slog.Int("lines", len(lines)),
	)
	return &entry, nil
}

// saveWithRetry re-runs the save transaction after an optimistic conflict.
// Deltas stay valid across attempts; only the row versions go stale, so each
// retry re-reads the touched accounts before calling save again. A period
// that stopped accepting the posting mid-flight surfaces as ErrPeriodClosed
// and is never retried.
func (s *ledgerService) saveWithRetry(ctx context.Context, tenantID, entryID string, balanceChanges map[string]decimal.Decimal, versions map[string]int64, save func(versions map[string]int64) (string, error)) (string, error) {
	accountIDs := make([]string, 0, len(balanceChanges))
	for id := range balanceChanges {
		accountIDs = append(accountIDs, id)
	}

	var lastErr error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		entryNumber, err := save(versions)
		if err == nil {
			return entryNumber, nil
		}
		if errors.Is(err, apperrors.ErrPostingWindowClosed) {
			return "", fmt.Errorf("%w: %v", ErrPeriodClosed, err)
		}
		if !errors.Is(err, apperrors.ErrConcurrentUpdate) {
			return "", fmt.Errorf("failed to save journal entry: %w", err)
		}
		lastErr = err
		middleware.GetLoggerFromCtx(ctx).Warn("Posting lost a balance update race, retrying",
			slog.String("entry_id", entryID), slog.Int("attempt", attempt))

		accounts, fetchErr := s.accountSvc.GetAccountByIDs(ctx, tenantID, accountIDs)
		if fetchErr != nil {
			return "", fmt.Errorf("failed to refresh account versions: %w", fetchErr)
		}
		versions = make(map[string]int64, len(accounts))
		for id, acc := range accounts {
			versions[id] = acc.RowVersion
		}
	}
	return "", fmt.Errorf("posting retries exhausted: %w", lastErr)
}

func (s *ledgerService) ReverseEntry(ctx context.Context, tenantID, entryID, reason, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.entryRepo.FindEntryByID(ctx, tenantID, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entry %s: %w", entryID, err)
	}
	if original.Status == domain.EntryReversed || original.ReversingEntryID != nil {
		return nil, fmt.Errorf("%w: entry %s", ErrEntryAlreadyReversed, original.EntryNumber)
	}
	if original.Status != domain.EntryPosted {
		return nil, fmt.Errorf("%w: entry %s is %s", ErrEntryNotPosted, original.EntryNumber, original.Status)
	}
	if original.IsReversal {
		return nil, fmt.Errorf("%w: entry %s", ErrCannotReverseReversal, original.EntryNumber)
	}

	originalLines, err := s.entryRepo.FindLinesByEntryID(ctx, original.EntryID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lines of entry %s: %w", entryID, err)
	}

	reversalDate, period, err := s.resolveReversalDate(ctx, tenantID, original)
	if err != nil {
		return nil, err
	}

	accountIDs := make([]string, 0, len(originalLines))
	seen := make(map[string]struct{}, len(originalLines))
	for _, line := range originalLines {
		if _, ok := seen[line.AccountID]; !ok {
			seen[line.AccountID] = struct{}{}
			accountIDs = append(accountIDs, line.AccountID)
		}
	}
	accounts, err := s.accountSvc.GetAccountByIDs(ctx, tenantID, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts for reversal: %w", err)
	}
	natures := make(map[string]bool, len(accounts))
	versions := make(map[string]int64, len(accounts))
	for id, acc := range accounts {
		natures[id] = acc.IsDebitNatured
		versions[id] = acc.RowVersion
	}

	now := time.Now().UTC()
	reversalID := uuid.NewString()
	lines := make([]domain.JournalLine, len(originalLines))
	for i, ol := range originalLines {
		direction := domain.Debit
		if ol.Direction == domain.Debit {
			direction = domain.Credit
		}
		lines[i] = domain.JournalLine{
			LineID:           uuid.NewString(),
			EntryID:          reversalID,
			AccountID:        ol.AccountID,
			LineNumber:       ol.LineNumber,
			Direction:        direction,
			Amount:           ol.Amount,
			NormalizedAmount: ol.NormalizedAmount,
			Description:      ol.Description,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}

	if err := accounting.ValidateEntryBalance(lines); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}
	balanceChanges, err := accounting.BalanceChanges(lines, natures)
	if err != nil {
		return nil, fmt.Errorf("failed to compute balance changes: %w", err)
	}

	reversal := domain.JournalEntry{
		EntryID:         reversalID,
		TenantID:        tenantID,
		EntryDate:       reversalDate,
		PeriodID:        period.PeriodID,
		CurrencyCode:    original.CurrencyCode,
		Description:     fmt.Sprintf("Reversal of %s: %s", original.EntryNumber, reason),
		Status:          domain.EntryPosted,
		IsAdjustment:    true,
		IsReversal:      true,
		ReversedEntryID: &original.EntryID,
		SourceType:      original.SourceType,
		SourceID:        original.SourceID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	entryNumber, err := s.saveWithRetry(ctx, tenantID, reversal.EntryID, balanceChanges, versions,
		func(v map[string]int64) (string, error) {
			return s.entryRepo.SaveReversalEntry(ctx, reversal, lines, balanceChanges, v, original.EntryID)
		})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: entry %s", ErrEntryAlreadyReversed, original.EntryNumber)
		}
		logger.Error("Failed to post reversing entry",
			slog.String("original_entry_id", original.EntryID), slog.String("error", err.Error()))
		return nil, err
	}
	reversal.EntryNumber = entryNumber
	reversal.Lines = lines

	logger.Info("Journal entry reversed",
		slog.String("original_entry", original.EntryNumber),
		slog.String("reversing_entry", reversal.EntryNumber),
		slog.String("reason", reason),
	)
	return &reversal, nil
}

// resolveReversalDate picks the reversing entry's date per the dating policy.
// Reversals always post as adjustments, so a soft-closed period still takes
// them; only a hard-closed original period shifts the reversal to the current
// date.
func (s *ledgerService) resolveReversalDate(ctx context.Context, tenantID string, original *domain.JournalEntry) (time.Time, *domain.AccountingPeriod, error) {
	if s.reversalDating == ReversalDatingOriginal {
		period, err := s.periodSvc.PeriodFor(ctx, tenantID, original.EntryDate)
		if err != nil {
			return time.Time{}, nil, err
		}
		if period.AllowsPosting(true) {
			return original.EntryDate, period, nil
		}
	}

	now := time.Now().UTC()
	period, err := s.periodSvc.PeriodFor(ctx, tenantID, now)
	if err != nil {
		return time.Time{}, nil, err
	}
	if !period.AllowsPosting(true) {
		return time.Time{}, nil, fmt.Errorf("%w: period %s is %s", ErrPeriodClosed, period.Name, period.Status)
	}
	return now, period, nil
}

func (s *ledgerService) GetEntry(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.entryRepo.FindEntryByID(ctx, tenantID, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entry %s: %w", entryID, err)
	}
	lines, err := s.entryRepo.FindLinesByEntryID(ctx, entry.EntryID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lines of entry %s: %w", entryID, err)
	}
	entry.Lines = lines
	return entry, nil
}

func (s *ledgerService) ListEntries(ctx context.Context, tenantID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	entries, nextToken, err := s.entryRepo.ListEntries(ctx, tenantID, limit, params.NextToken, params.IncludeReversals)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	if params.IncludeLines && len(entries) > 0 {
		entryIDs := make([]string, len(entries))
		for i, e := range entries {
			entryIDs[i] = e.EntryID
		}
		linesByEntry, err := s.entryRepo.FindLinesByEntryIDs(ctx, entryIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch entry lines: %w", err)
		}
		for i := range entries {
			entries[i].Lines = linesByEntry[entries[i].EntryID]
		}
	}

	resp := dto.ListEntriesResponse{
		Entries:   make([]dto.EntryResponse, len(entries)),
		NextToken: nextToken,
	}
	for i := range entries {
		resp.Entries[i] = dto.ToEntryResponse(&entries[i])
	}
	return &resp, nil
}

func (s *ledgerService) ListLinesByAccount(ctx context.Context, tenantID, accountID string, params dto.ListLinesParams) (*dto.ListLinesResponse, error) {
	if _, err := s.accountSvc.GetAccountByID(ctx, tenantID, accountID); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	lines, nextToken, err := s.entryRepo.ListLinesByAccount(ctx, tenantID, accountID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list lines for account %s: %w", accountID, err)
	}

	resp := dto.ListLinesResponse{
		Lines:     make([]dto.EntryLineResponse, len(lines)),
		NextToken: nextToken,
	}
	for i, l := range lines {
		resp.Lines[i] = dto.ToEntryLineResponse(l)
	}
	return &resp, nil
}

func uniqueAccountIDs(lines []dto.CreateEntryLineRequest) []string {
	ids := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.AccountID]; !ok {
			seen[l.AccountID] = struct{}{}
			ids = append(ids, l.AccountID)
		}
	}
	return ids
}
