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
	"github.com/google/uuid"
)

var (
	// ErrPeriodClosed indicates a posting was rejected by the period status.
	ErrPeriodClosed = errors.New("accounting period is closed")
	// ErrNoPeriodDefined indicates a date falls outside every defined period.
	ErrNoPeriodDefined = errors.New("no accounting period defined for date")
	// ErrPeriodTransition indicates an illegal lifecycle transition.
	ErrPeriodTransition = errors.New("period status transition not allowed")
)

// periodService manages the accounting period lifecycle. Transitions are
// version-checked against concurrent postings and recorded in the transition
// audit log.
type periodService struct {
	periodRepo      portsrepo.PeriodRepositoryFacade
	allowHardReopen bool
}

// NewPeriodService creates a new PeriodService. allowHardReopen enables the
// elevated HardClosed -> Open transition; it is off in the default policy.
func NewPeriodService(periodRepo portsrepo.PeriodRepositoryFacade, allowHardReopen bool) portssvc.PeriodSvcFacade {
	return &periodService{periodRepo: periodRepo, allowHardReopen: allowHardReopen}
}

var _ portssvc.PeriodSvcFacade = (*periodService)(nil)

func (s *periodService) CreatePeriod(ctx context.Context, tenantID string, req dto.CreatePeriodRequest, creatorUserID string) (*domain.AccountingPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	start := req.StartDate.UTC().Truncate(24 * time.Hour)
	end := req.EndDate.UTC().Truncate(24 * time.Hour)
	if !start.Before(end) && !start.Equal(end) {
		return nil, fmt.Errorf("%w: period start must not be after end", apperrors.ErrValidation)
	}

	if overlap, err := s.periodRepo.FindOverlappingPeriod(ctx, tenantID, start, end); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check period overlap: %w", err)
	} else if overlap != nil {
		return nil, fmt.Errorf("%w: window overlaps period %s", apperrors.ErrConflict, overlap.Name)
	}

	// Periods chain gaplessly inside a fiscal year: a new period must start
	// the day after the latest one ends.
	var previousID *string
	latest, err := s.periodRepo.FindLatestPeriod(ctx, tenantID, req.FiscalYear)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to fetch latest period: %w", err)
	}
	if latest != nil {
		expectedStart := latest.EndDate.Add(24 * time.Hour)
		if !start.Equal(expectedStart) {
			return nil, fmt.Errorf("%w: period must start %s to continue the chain after %s",
				apperrors.ErrValidation, expectedStart.Format("2006-01-02"), latest.Name)
		}
		previousID = &latest.PeriodID
	}

	now := time.Now().UTC()
	period := domain.AccountingPeriod{
		PeriodID:         uuid.NewString(),
		TenantID:         tenantID,
		Name:             req.Name,
		FiscalYear:       req.FiscalYear,
		StartDate:        start,
		EndDate:          end,
		Status:           domain.PeriodOpen,
		PreviousPeriodID: previousID,
		RowVersion:       1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.periodRepo.SavePeriod(ctx, period); err != nil {
		logger.Error("Failed to save period", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save period: %w", err)
	}
	logger.Info("Accounting period created", slog.String("period_id", period.PeriodID), slog.String("name", period.Name))
	return &period, nil
}

func (s *periodService) GetPeriodByID(ctx context.Context, tenantID, periodID string) (*domain.AccountingPeriod, error) {
	return s.periodRepo.FindPeriodByID(ctx, tenantID, periodID)
}

func (s *periodService) ListPeriods(ctx context.Context, tenantID string, fiscalYear int) ([]domain.AccountingPeriod, error) {
	return s.periodRepo.ListPeriods(ctx, tenantID, fiscalYear)
}

func (s *periodService) PeriodFor(ctx context.Context, tenantID string, date time.Time) (*domain.AccountingPeriod, error) {
	period, err := s.periodRepo.FindPeriodForDate(ctx, tenantID, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNoPeriodDefined, date.Format("2006-01-02"))
		}
		return nil, fmt.Errorf("failed to resolve period for date: %w", err)
	}
	return period, nil
}

func (s *periodService) AssertPostingAllowed(ctx context.Context, tenantID, periodID string, isAdjustment bool) error {
	period, err := s.periodRepo.FindPeriodByID(ctx, tenantID, periodID)
	if err != nil {
		return fmt.Errorf("failed to fetch period %s: %w", periodID, err)
	}
	if !period.AllowsPosting(isAdjustment) {
		return fmt.Errorf("%w: period %s is %s", ErrPeriodClosed, period.Name, period.Status)
	}
	return nil
}

func (s *periodService) SoftClose(ctx context.Context, tenantID, periodID, reason, userID string) (*domain.AccountingPeriod, error) {
	return s.transition(ctx, tenantID, periodID, domain.PeriodSoftClosed, reason, userID)
}

func (s *periodService) HardClose(ctx context.Context, tenantID, periodID, reason, userID string) (*domain.AccountingPeriod, error) {
	return s.transition(ctx, tenantID, periodID, domain.PeriodHardClosed, reason, userID)
}

func (s *periodService) Reopen(ctx context.Context, tenantID, periodID, reason, userID string) (*domain.AccountingPeriod, error) {
	return s.transition(ctx, tenantID, periodID, domain.PeriodOpen, reason, userID)
}

func (s *periodService) transition(ctx context.Context, tenantID, periodID string, target domain.PeriodStatus, reason, userID string) (*domain.AccountingPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	period, err := s.periodRepo.FindPeriodByID(ctx, tenantID, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch period %s: %w", periodID, err)
	}

	if !period.CanTransitionTo(target, s.allowHardReopen) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrPeriodTransition, period.Status, target)
	}

	now := time.Now().UTC()
	transition := portsrepo.PeriodTransition{
		TransitionID: uuid.NewString(),
		PeriodID:     period.PeriodID,
		FromStatus:   period.Status,
		ToStatus:     target,
		Reason:       reason,
		ActorUserID:  userID,
		OccurredAt:   now,
	}

	updated := *period
	updated.Status = target
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = userID

	if err := s.periodRepo.UpdatePeriodStatus(ctx, updated, transition); err != nil {
		if errors.Is(err, apperrors.ErrConcurrentUpdate) {
			logger.Warn("Period transition lost a concurrent update race",
				slog.String("period_id", periodID), slog.String("target", string(target)))
		}
		return nil, fmt.Errorf("failed to transition period %s: %w", periodID, err)
	}
	updated.RowVersion++

	logger.Info("Period status changed",
		slog.String("period_id", periodID),
		slog.String("from", string(transition.FromStatus)),
		slog.String("to", string(target)),
		slog.String("reason", reason),
	)
	return &updated, nil
}
