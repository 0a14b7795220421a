package mapping

import (
	"github.com/abrkgrbz/stocker-finance/internal/core/domain"
	"github.com/abrkgrbz/stocker-finance/internal/models"
)

// ToModelReconciliation converts a domain BankReconciliation to its persistence model.
func ToModelReconciliation(r domain.BankReconciliation) models.BankReconciliation {
	return models.BankReconciliation{
		ReconciliationID:     r.ReconciliationID,
		TenantID:             r.TenantID,
		ReconciliationNumber: r.ReconciliationNumber,
		BankAccountID:        r.BankAccountID,
		CurrencyCode:         r.CurrencyCode,
		PeriodStart:          r.PeriodStart,
		PeriodEnd:            r.PeriodEnd,
		BankOpeningBalance:   r.BankOpeningBalance.Amount,
		BankClosingBalance:   r.BankClosingBalance.Amount,
		SystemOpeningBalance: r.SystemOpeningBalance.Amount,
		SystemClosingBalance: r.SystemClosingBalance.Amount,
		BalanceDifference:    r.BalanceDifference.Amount,
		IsReconciled:         r.IsReconciled,
		IsJournalized:        r.IsJournalized,
		AdjustmentEntryID:    r.AdjustmentEntryID,
		AuditFields:          toModelAudit(r.AuditFields),
	}
}

// ToDomainReconciliation converts a persistence model BankReconciliation to its domain form.
func ToDomainReconciliation(m models.BankReconciliation) domain.BankReconciliation {
	return domain.BankReconciliation{
		ReconciliationID:     m.ReconciliationID,
		TenantID:             m.TenantID,
		ReconciliationNumber: m.ReconciliationNumber,
		BankAccountID:        m.BankAccountID,
		CurrencyCode:         m.CurrencyCode,
		PeriodStart:          m.PeriodStart,
		PeriodEnd:            m.PeriodEnd,
		BankOpeningBalance:   domain.NewMoney(m.BankOpeningBalance, m.CurrencyCode),
		BankClosingBalance:   domain.NewMoney(m.BankClosingBalance, m.CurrencyCode),
		SystemOpeningBalance: domain.NewMoney(m.SystemOpeningBalance, m.CurrencyCode),
		SystemClosingBalance: domain.NewMoney(m.SystemClosingBalance, m.CurrencyCode),
		BalanceDifference:    domain.NewMoney(m.BalanceDifference, m.CurrencyCode),
		IsReconciled:         m.IsReconciled,
		IsJournalized:        m.IsJournalized,
		AdjustmentEntryID:    m.AdjustmentEntryID,
		AuditFields:          toDomainAudit(m.AuditFields),
	}
}

// ToModelReconciliationItem converts a domain ReconciliationItem to its persistence model.
func ToModelReconciliationItem(i domain.ReconciliationItem) models.ReconciliationItem {
	return models.ReconciliationItem{
		ItemID:           i.ItemID,
		ReconciliationID: i.ReconciliationID,
		Side:             string(i.Side),
		Amount:           i.Amount.Amount,
		CurrencyCode:     i.Amount.CurrencyCode,
		TransactionDate:  i.TransactionDate,
		ReferenceNumber:  i.ReferenceNumber,
		Description:      i.Description,
		MatchState:       string(i.MatchState),
		MatchedItemID:    i.MatchedItemID,
		AuditFields:      toModelAudit(i.AuditFields),
	}
}

// ToDomainReconciliationItem converts a persistence model ReconciliationItem to its domain form.
func ToDomainReconciliationItem(m models.ReconciliationItem) domain.ReconciliationItem {
	return domain.ReconciliationItem{
		ItemID:           m.ItemID,
		ReconciliationID: m.ReconciliationID,
		Side:             domain.ReconciliationSide(m.Side),
		Amount:           domain.NewMoney(m.Amount, m.CurrencyCode),
		TransactionDate:  m.TransactionDate,
		ReferenceNumber:  m.ReferenceNumber,
		Description:      m.Description,
		MatchState:       domain.MatchState(m.MatchState),
		MatchedItemID:    m.MatchedItemID,
		AuditFields:      toDomainAudit(m.AuditFields),
	}
}
