package repositories

import (
	"context"
	"time"

	"github.com/abrkgrbz/stocker-finance/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountActivity aggregates posted debit/credit totals for one account.
type AccountActivity struct {
	AccountID      string
	Code           string
	Name           string
	AccountType    domain.AccountType
	IsDebitNatured bool
	CurrencyCode   string
	DebitTotal     decimal.Decimal
	CreditTotal    decimal.Decimal
}

// ReportingReader defines aggregate read operations backing reports.
type ReportingReader interface {
	// AccountActivityAsOf sums posted debits and credits against one account
	// up to and including the given date.
	AccountActivityAsOf(ctx context.Context, tenantID, accountID string, asOf time.Time) (*AccountActivity, error)

	// PeriodActivity sums posted debits and credits per account for all
	// entries inside one period, ordered by account code.
	PeriodActivity(ctx context.Context, tenantID, periodID string) ([]AccountActivity, error)

	// OpeningActivity sums posted debits and credits per account for all
	// entries dated strictly before the given date.
	OpeningActivity(ctx context.Context, tenantID string, before time.Time) ([]AccountActivity, error)
}
