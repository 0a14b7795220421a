package repositories

import (
	"context"
	"time"

	"github.com/abrkgrbz/stocker-finance/internal/core/domain"
)

// PeriodTransition is an audit record of a period lifecycle change.
type PeriodTransition struct {
	TransitionID string
	PeriodID     string
	FromStatus   domain.PeriodStatus
	ToStatus     domain.PeriodStatus
	Reason       string
	ActorUserID  string
	OccurredAt   time.Time
}

// PeriodReader defines read operations for accounting period data.
type PeriodReader interface {
	// FindPeriodByID retrieves a single period.
	FindPeriodByID(ctx context.Context, tenantID, periodID string) (*domain.AccountingPeriod, error)

	// FindPeriodForDate retrieves the period whose window contains the date.
	// Returns apperrors.ErrNotFound when the date falls in a gap.
	FindPeriodForDate(ctx context.Context, tenantID string, date time.Time) (*domain.AccountingPeriod, error)

	// FindOverlappingPeriod returns any period intersecting [startDate, endDate].
	FindOverlappingPeriod(ctx context.Context, tenantID string, startDate, endDate time.Time) (*domain.AccountingPeriod, error)

	// FindLatestPeriod returns the chronologically last period of a fiscal
	// year, or apperrors.ErrNotFound when none exists yet.
	FindLatestPeriod(ctx context.Context, tenantID string, fiscalYear int) (*domain.AccountingPeriod, error)

	// ListPeriods retrieves all periods of a fiscal year ordered by start date.
	ListPeriods(ctx context.Context, tenantID string, fiscalYear int) ([]domain.AccountingPeriod, error)
}

// PeriodWriter defines write operations for accounting period data.
type PeriodWriter interface {
	// SavePeriod persists a new period and links it into the chain.
	SavePeriod(ctx context.Context, period domain.AccountingPeriod) error

	// UpdatePeriodStatus transitions the period status with an optimistic
	// row-version check and writes the transition audit record in the same
	// database transaction; returns apperrors.ErrConcurrentUpdate on version
	// mismatch.
	UpdatePeriodStatus(ctx context.Context, period domain.AccountingPeriod, transition PeriodTransition) error
}

// PeriodRepositoryFacade combines all period repository interfaces.
type PeriodRepositoryFacade interface {
	PeriodReader
	PeriodWriter
}
