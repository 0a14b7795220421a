package services

import (
	"context"
	"time"

	"github.com/abrkgrbz/stocker-finance/internal/core/domain"
	"github.com/abrkgrbz/stocker-finance/internal/dto"
)

// PeriodSvcFacade defines accounting period lifecycle operations.
type PeriodSvcFacade interface {
	CreatePeriod(ctx context.Context, tenantID string, req dto.CreatePeriodRequest, creatorUserID string) (*domain.AccountingPeriod, error)
	GetPeriodByID(ctx context.Context, tenantID, periodID string) (*domain.AccountingPeriod, error)
	ListPeriods(ctx context.Context, tenantID string, fiscalYear int) ([]domain.AccountingPeriod, error)

	// PeriodFor resolves the period containing the date; a gap in the period
	// chain fails with ErrNoPeriodDefined, never a silent pass-through.
	PeriodFor(ctx context.Context, tenantID string, date time.Time) (*domain.AccountingPeriod, error)

	// AssertPostingAllowed gates postings by period status: Open always
	// allows, SoftClosed allows adjustments only, HardClosed fails with
	// ErrPeriodClosed.
	AssertPostingAllowed(ctx context.Context, tenantID, periodID string, isAdjustment bool) error

	// SoftClose moves an open period to adjustment-only mode.
	SoftClose(ctx context.Context, tenantID, periodID, reason, userID string) (*domain.AccountingPeriod, error)

	// HardClose terminally closes a period.
	HardClose(ctx context.Context, tenantID, periodID, reason, userID string) (*domain.AccountingPeriod, error)

	// Reopen moves a soft-closed period back to open. Reopening a hard-closed
	// period requires the elevated configuration switch and is audited.
	Reopen(ctx context.Context, tenantID, periodID, reason, userID string) (*domain.AccountingPeriod, error)
}
