package mapping

import (
	"github.com/abrkgrbz/stocker-finance/internal/core/domain"
	"github.com/abrkgrbz/stocker-finance/internal/models"
)

// ToModelExchangeRate converts a domain ExchangeRate to its persistence model.
func ToModelExchangeRate(r domain.ExchangeRate) models.ExchangeRate {
	return models.ExchangeRate{
		RateID:         r.RateID,
		TenantID:       r.TenantID,
		SourceCurrency: r.SourceCurrency,
		TargetCurrency: r.TargetCurrency,
		RateDate:       r.RateDate,
		BuyRate:        r.BuyRate,
		SellRate:       r.SellRate,
		AverageRate:    r.AverageRate,
		AuditFields:    toModelAudit(r.AuditFields),
	}
}

// ToDomainExchangeRate converts a persistence model ExchangeRate to its domain form.
func ToDomainExchangeRate(m models.ExchangeRate) domain.ExchangeRate {
	return domain.ExchangeRate{
		RateID:         m.RateID,
		TenantID:       m.TenantID,
		SourceCurrency: m.SourceCurrency,
		TargetCurrency: m.TargetCurrency,
		RateDate:       m.RateDate,
		BuyRate:        m.BuyRate,
		SellRate:       m.SellRate,
		AverageRate:    m.AverageRate,
		AuditFields:    toDomainAudit(m.AuditFields),
	}
}
