package dto

import (
	"time"

	"github.com/abrkgrbz/stocker-finance/internal/core/domain"
)

// CreatePeriodRequest defines the request body for creating an accounting period.
type CreatePeriodRequest struct {
	Name       string    `json:"name" binding:"required"`
	FiscalYear int       `json:"fiscalYear" binding:"required,gte=1900"`
	StartDate  time.Time `json:"startDate" binding:"required"`
	EndDate    time.Time `json:"endDate" binding:"required"`
}

// PeriodTransitionRequest carries the audited reason for a lifecycle change.
type PeriodTransitionRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// PeriodResponse is the API representation of an accounting period.
type PeriodResponse struct {
	PeriodID         string              `json:"periodID"`
	Name             string              `json:"name"`
	FiscalYear       int                 `json:"fiscalYear"`
	StartDate        time.Time           `json:"startDate"`
	EndDate          time.Time           `json:"endDate"`
	Status           domain.PeriodStatus `json:"status"`
	PreviousPeriodID *string             `json:"previousPeriodID,omitempty"`
	NextPeriodID     *string             `json:"nextPeriodID,omitempty"`
}

// ToPeriodResponse maps a domain period to its response form.
func ToPeriodResponse(p *domain.AccountingPeriod) PeriodResponse {
	return PeriodResponse{
		PeriodID:         p.PeriodID,
		Name:             p.Name,
		FiscalYear:       p.FiscalYear,
		StartDate:        p.StartDate,
		EndDate:          p.EndDate,
		Status:           p.Status,
		PreviousPeriodID: p.PreviousPeriodID,
		NextPeriodID:     p.NextPeriodID,
	}
}
