package mapping

import (
	"github.com/abrkgrbz/stocker-finance/internal/core/domain"
	"github.com/abrkgrbz/stocker-finance/internal/models"
)

// ToModelAccount converts a domain Account to its persistence model.
func ToModelAccount(a domain.Account) models.Account {
	return models.Account{
		AccountID:           a.AccountID,
		TenantID:            a.TenantID,
		Code:                a.Code,
		Name:                a.Name,
		AccountType:         string(a.AccountType),
		ParentAccountID:     a.ParentAccountID,
		IsDebitNatured:      a.IsDebitNatured,
		AcceptsTransactions: a.AcceptsTransactions,
		Level:               a.Level,
		CurrencyCode:        a.CurrencyCode,
		Balance:             a.Balance.Amount,
		RowVersion:          a.RowVersion,
		IsDeleted:           a.IsDeleted,
		DeletedAt:           a.DeletedAt,
		DeletedBy:           a.DeletedBy,
		AuditFields:         toModelAudit(a.AuditFields),
	}
}

// ToDomainAccount converts a persistence model Account to its domain form.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:           m.AccountID,
		TenantID:            m.TenantID,
		Code:                m.Code,
		Name:                m.Name,
		AccountType:         domain.AccountType(m.AccountType),
		ParentAccountID:     m.ParentAccountID,
		IsDebitNatured:      m.IsDebitNatured,
		AcceptsTransactions: m.AcceptsTransactions,
		Level:               m.Level,
		CurrencyCode:        m.CurrencyCode,
		Balance:             domain.NewMoney(m.Balance, m.CurrencyCode),
		RowVersion:          m.RowVersion,
		AuditFields:         toDomainAudit(m.AuditFields),
		SoftDeleteFields: domain.SoftDeleteFields{
			IsDeleted: m.IsDeleted,
			DeletedAt: m.DeletedAt,
			DeletedBy: m.DeletedBy,
		},
	}
}
