package services

import (
	"context"
	"time"

	"github.com/abrkgrbz/stocker-finance/internal/core/domain"
	"github.com/abrkgrbz/stocker-finance/internal/dto"
)

// ReportingSvcFacade defines outbound ledger queries for dashboards.
type ReportingSvcFacade interface {
	// AccountBalanceAsOf reports the nature-signed balance of one account
	// from posted lines up to and including the given date.
	AccountBalanceAsOf(ctx context.Context, tenantID, accountID string, asOf time.Time) (domain.Money, error)

	// TrialBalance builds the per-account debit/credit/opening/closing totals
	// of one period, grouped by account code prefix.
	TrialBalance(ctx context.Context, tenantID, periodID string) (*dto.TrialBalanceResponse, error)
}
