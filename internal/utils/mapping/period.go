package mapping

import (
	"github.com/abrkgrbz/stocker-finance/internal/core/domain"
	"github.com/abrkgrbz/stocker-finance/internal/models"
)

// ToModelPeriod converts a domain AccountingPeriod to its persistence model.
func ToModelPeriod(p domain.AccountingPeriod) models.AccountingPeriod {
	return models.AccountingPeriod{
		PeriodID:         p.PeriodID,
		TenantID:         p.TenantID,
		Name:             p.Name,
		FiscalYear:       p.FiscalYear,
		StartDate:        p.StartDate,
		EndDate:          p.EndDate,
		Status:           string(p.Status),
		PreviousPeriodID: p.PreviousPeriodID,
		NextPeriodID:     p.NextPeriodID,
		RowVersion:       p.RowVersion,
		AuditFields:      toModelAudit(p.AuditFields),
	}
}

// ToDomainPeriod converts a persistence model AccountingPeriod to its domain form.
func ToDomainPeriod(m models.AccountingPeriod) domain.AccountingPeriod {
	return domain.AccountingPeriod{
		PeriodID:         m.PeriodID,
		TenantID:         m.TenantID,
		Name:             m.Name,
		FiscalYear:       m.FiscalYear,
		StartDate:        m.StartDate,
		EndDate:          m.EndDate,
		Status:           domain.PeriodStatus(m.Status),
		PreviousPeriodID: m.PreviousPeriodID,
		NextPeriodID:     m.NextPeriodID,
		RowVersion:       m.RowVersion,
		AuditFields:      toDomainAudit(m.AuditFields),
	}
}
