package mapping

import (
	"github.com/abrkgrbz/stocker-finance/internal/core/domain"
	"github.com/abrkgrbz/stocker-finance/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry to its persistence model.
func ToModelJournalEntry(e domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:          e.EntryID,
		TenantID:         e.TenantID,
		EntryNumber:      e.EntryNumber,
		EntryDate:        e.EntryDate,
		PeriodID:         e.PeriodID,
		CurrencyCode:     e.CurrencyCode,
		Description:      e.Description,
		Status:           string(e.Status),
		IsAdjustment:     e.IsAdjustment,
		IsReversal:       e.IsReversal,
		ReversedEntryID:  e.ReversedEntryID,
		ReversingEntryID: e.ReversingEntryID,
		SourceType:       string(e.SourceType),
		SourceID:         e.SourceID,
		AuditFields:      toModelAudit(e.AuditFields),
	}
}

// ToDomainJournalEntry converts a persistence model JournalEntry to its domain form.
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:          m.EntryID,
		TenantID:         m.TenantID,
		EntryNumber:      m.EntryNumber,
		EntryDate:        m.EntryDate,
		PeriodID:         m.PeriodID,
		CurrencyCode:     m.CurrencyCode,
		Description:      m.Description,
		Status:           domain.EntryStatus(m.Status),
		IsAdjustment:     m.IsAdjustment,
		IsReversal:       m.IsReversal,
		ReversedEntryID:  m.ReversedEntryID,
		ReversingEntryID: m.ReversingEntryID,
		SourceType:       domain.EntrySource(m.SourceType),
		SourceID:         m.SourceID,
		AuditFields:      toDomainAudit(m.AuditFields),
	}
}

// ToModelJournalLine converts a domain JournalLine to its persistence model.
// The direction plus positive amount pair becomes the debit/credit column
// split the schema enforces with a check constraint.
func ToModelJournalLine(l domain.JournalLine) models.JournalLine {
	m := models.JournalLine{
		LineID:             l.LineID,
		EntryID:            l.EntryID,
		AccountID:          l.AccountID,
		LineNumber:         l.LineNumber,
		CurrencyCode:       l.Amount.CurrencyCode,
		NormalizedAmount:   l.NormalizedAmount.Amount,
		NormalizedCurrency: l.NormalizedAmount.CurrencyCode,
		Description:        l.Description,
		AuditFields:        toModelAudit(l.AuditFields),
	}
	amount := l.Amount.Amount
	if l.Direction == domain.Debit {
		m.DebitAmount = &amount
	} else {
		m.CreditAmount = &amount
	}
	return m
}

// ToDomainJournalLine converts a persistence model JournalLine to its domain form.
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	l := domain.JournalLine{
		LineID:           m.LineID,
		EntryID:          m.EntryID,
		AccountID:        m.AccountID,
		LineNumber:       m.LineNumber,
		NormalizedAmount: domain.NewMoney(m.NormalizedAmount, m.NormalizedCurrency),
		Description:      m.Description,
		AuditFields:      toDomainAudit(m.AuditFields),
	}
	if m.DebitAmount != nil {
		l.Direction = domain.Debit
		l.Amount = domain.NewMoney(*m.DebitAmount, m.CurrencyCode)
	} else if m.CreditAmount != nil {
		l.Direction = domain.Credit
		l.Amount = domain.NewMoney(*m.CreditAmount, m.CurrencyCode)
	}
	return l
}

// ToDomainJournalLineSlice converts a slice of line models to domain form.
func ToDomainJournalLineSlice(ms []models.JournalLine) []domain.JournalLine {
	lines := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		lines[i] = ToDomainJournalLine(m)
	}
	return lines
}
