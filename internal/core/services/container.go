package services

import (
	"time"

	portsrepo "github.com/abrkgrbz/stocker-finance/internal/core/ports/repositories"
	portssvc "github.com/abrkgrbz/stocker-finance/internal/core/ports/services"
	"github.com/abrkgrbz/stocker-finance/pkg/config"
)

// NewServiceContainer wires all services against the repository container.
// Dependency order matters: the ledger is built on currencies, accounts,
// periods, and rates; reconciliation and reporting sit on top of the ledger.
func NewServiceContainer(repos portsrepo.RepositoryContainer, cfg *config.Config) *portssvc.ServiceContainer {
	currencySvc := NewCurrencyService(repos.Currency)
	exchangeRateSvc := NewExchangeRateService(
		repos.ExchangeRate,
		currencySvc,
		time.Duration(cfg.RateFallbackMaxAgeDays)*24*time.Hour,
	)
	accountSvc := NewAccountService(repos.Account, currencySvc)
	periodSvc := NewPeriodService(repos.Period, cfg.AllowHardReopen)
	ledgerSvc := NewLedgerService(
		repos.Entry,
		accountSvc,
		periodSvc,
		exchangeRateSvc,
		cfg.PostingMaxRetries,
		cfg.ReversalDatingPolicy,
	)
	reconciliationSvc := NewReconciliationService(
		repos.Reconciliation,
		repos.Entry,
		repos.Reporting,
		accountSvc,
		ledgerSvc,
		cfg.MatchToleranceDefault,
		cfg.MatchDateWindowDays,
		cfg.FXGainLossAccountCode,
		cfg.SuspenseAccountCode,
	)
	reportingSvc := NewReportingService(repos.Reporting, accountSvc, periodSvc)

	return &portssvc.ServiceContainer{
		Currency:       currencySvc,
		ExchangeRate:   exchangeRateSvc,
		Account:        accountSvc,
		Period:         periodSvc,
		Ledger:         ledgerSvc,
		Reconciliation: reconciliationSvc,
		Reporting:      reportingSvc,
	}
}
