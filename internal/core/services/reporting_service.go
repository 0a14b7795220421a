package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/abrkgrbz/stocker-finance/internal/apperrors"
	"github.com/abrkgrbz/stocker-finance/internal/core/domain"
	portsrepo "github.com/abrkgrbz/stocker-finance/internal/core/ports/repositories"
	portssvc "github.com/abrkgrbz/stocker-finance/internal/core/ports/services"
	"github.com/abrkgrbz/stocker-finance/internal/dto"
	"github.com/shopspring/decimal"
)

// reportingService answers aggregate ledger queries from posted activity. It
// never reads the accounts' cached balance columns, so reports stay correct
// even while postings are in flight.
type reportingService struct {
	reportingRepo portsrepo.ReportingReader
	accountSvc    portssvc.AccountSvcFacade
	periodSvc     portssvc.PeriodSvcFacade
}

// NewReportingService creates a new ReportingService.
func NewReportingService(
	reportingRepo portsrepo.ReportingReader,
	accountSvc portssvc.AccountSvcFacade,
	periodSvc portssvc.PeriodSvcFacade,
) portssvc.ReportingSvcFacade {
	return &reportingService{
		reportingRepo: reportingRepo,
		accountSvc:    accountSvc,
		periodSvc:     periodSvc,
	}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

func (s *reportingService) AccountBalanceAsOf(ctx context.Context, tenantID, accountID string, asOf time.Time) (domain.Money, error) {
	account, err := s.accountSvc.GetAccountByID(ctx, tenantID, accountID)
	if err != nil {
		return domain.Money{}, err
	}

	activity, err := s.reportingRepo.AccountActivityAsOf(ctx, tenantID, accountID, asOf)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.ZeroMoney(account.Balance.CurrencyCode), nil
		}
		return domain.Money{}, fmt.Errorf("failed to compute balance for account %s: %w", accountID, err)
	}

	balance := natureSigned(activity.DebitTotal, activity.CreditTotal, account.IsDebitNatured)
	return domain.NewMoney(balance, activity.CurrencyCode).Round(), nil
}

func (s *reportingService) TrialBalance(ctx context.Context, tenantID, periodID string) (*dto.TrialBalanceResponse, error) {
	period, err := s.periodSvc.GetPeriodByID(ctx, tenantID, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch period %s: %w", periodID, err)
	}

	periodActivity, err := s.reportingRepo.PeriodActivity(ctx, tenantID, period.PeriodID)
	if err != nil {
		return nil, fmt.Errorf("failed to load period activity: %w", err)
	}
	openingActivity, err := s.reportingRepo.OpeningActivity(ctx, tenantID, period.StartDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load opening activity: %w", err)
	}

	opening := make(map[string]portsrepo.AccountActivity, len(openingActivity))
	for _, a := range openingActivity {
		opening[a.AccountID] = a
	}

	// Accounts with opening balances but no period activity still belong on
	// the report, so the two activity sets are merged by account.
	byAccount := make(map[string]portsrepo.AccountActivity, len(periodActivity))
	for _, a := range periodActivity {
		byAccount[a.AccountID] = a
	}
	for id, a := range opening {
		if _, ok := byAccount[id]; !ok {
			inactive := a
			inactive.DebitTotal = decimal.Zero
			inactive.CreditTotal = decimal.Zero
			byAccount[id] = inactive
		}
	}

	resp := dto.TrialBalanceResponse{
		PeriodID:    period.PeriodID,
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}

	groups := make(map[string]*dto.TrialBalanceGroup)
	for id, a := range byAccount {
		openingBalance := decimal.Zero
		if oa, ok := opening[id]; ok {
			openingBalance = natureSigned(oa.DebitTotal, oa.CreditTotal, a.IsDebitNatured)
		}
		closingBalance := openingBalance.Add(natureSigned(a.DebitTotal, a.CreditTotal, a.IsDebitNatured))

		row := dto.TrialBalanceRow{
			AccountID:      a.AccountID,
			Code:           a.Code,
			Name:           a.Name,
			AccountType:    string(a.AccountType),
			OpeningBalance: openingBalance,
			DebitTotal:     a.DebitTotal,
			CreditTotal:    a.CreditTotal,
			ClosingBalance: closingBalance,
		}

		key := groupKey(a.Code)
		group, ok := groups[key]
		if !ok {
			group = &dto.TrialBalanceGroup{GroupKey: key, DebitTotal: decimal.Zero, CreditTotal: decimal.Zero}
			groups[key] = group
		}
		group.Rows = append(group.Rows, row)
		group.DebitTotal = group.DebitTotal.Add(a.DebitTotal)
		group.CreditTotal = group.CreditTotal.Add(a.CreditTotal)
		resp.TotalDebit = resp.TotalDebit.Add(a.DebitTotal)
		resp.TotalCredit = resp.TotalCredit.Add(a.CreditTotal)

		if resp.CurrencyCode == "" {
			resp.CurrencyCode = a.CurrencyCode
		}
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	resp.Groups = make([]dto.TrialBalanceGroup, 0, len(keys))
	for _, k := range keys {
		group := groups[k]
		sort.Slice(group.Rows, func(i, j int) bool { return group.Rows[i].Code < group.Rows[j].Code })
		resp.Groups = append(resp.Groups, *group)
	}
	return &resp, nil
}

// natureSigned folds debit and credit totals into one signed balance by
// account nature.
func natureSigned(debitTotal, creditTotal decimal.Decimal, isDebitNatured bool) decimal.Decimal {
	if isDebitNatured {
		return debitTotal.Sub(creditTotal)
	}
	return creditTotal.Sub(debitTotal)
}

// groupKey buckets accounts by the leading digit of their code, the top-level
// class in a decimal chart of accounts.
func groupKey(code string) string {
	if code == "" {
		return "?"
	}
	return code[:1]
}
