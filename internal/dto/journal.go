package dto

import (
	"time"

	"github.com/abrkgrbz/stocker-finance/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateEntryLineRequest is one debit or credit line of an entry draft. The
// line currency may differ from the entry's working currency; the poster
// normalizes it through the exchange rate table.
type CreateEntryLineRequest struct {
	AccountID    string               `json:"accountID" binding:"required"`
	Direction    domain.LineDirection `json:"direction" binding:"required,oneof=DEBIT CREDIT"`
	Amount       decimal.Decimal      `json:"amount" binding:"required,gtzero"`
	CurrencyCode string               `json:"currencyCode" binding:"required,len=3,uppercase"`
	Description  string               `json:"description,omitempty"`
}

// CreateEntryRequest defines the request body for posting a journal entry.
type CreateEntryRequest struct {
	EntryDate    time.Time                `json:"entryDate" binding:"required"`
	CurrencyCode string                   `json:"currencyCode" binding:"required,len=3,uppercase"`
	Description  string                   `json:"description" binding:"required"`
	IsAdjustment bool                     `json:"isAdjustment"`
	SourceType   domain.EntrySource       `json:"sourceType,omitempty"`
	SourceID     *string                  `json:"sourceID,omitempty"`
	Lines        []CreateEntryLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// ReverseEntryRequest defines the request body for reversing a posted entry.
type ReverseEntryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// EntryLineResponse is the API representation of a journal line.
type EntryLineResponse struct {
	LineID             string               `json:"lineID"`
	AccountID          string               `json:"accountID"`
	LineNumber         int                  `json:"lineNumber"`
	Direction          domain.LineDirection `json:"direction"`
	Amount             decimal.Decimal      `json:"amount"`
	CurrencyCode       string               `json:"currencyCode"`
	NormalizedAmount   decimal.Decimal      `json:"normalizedAmount"`
	NormalizedCurrency string               `json:"normalizedCurrency"`
	Description        string               `json:"description,omitempty"`
}

// EntryResponse is the API representation of a journal entry.
type EntryResponse struct {
	EntryID         string              `json:"entryID"`
	EntryNumber     string              `json:"entryNumber"`
	EntryDate       time.Time           `json:"entryDate"`
	PeriodID        string              `json:"periodID"`
	CurrencyCode    string              `json:"currencyCode"`
	Description     string              `json:"description"`
	Status          domain.EntryStatus  `json:"status"`
	IsAdjustment    bool                `json:"isAdjustment"`
	IsReversal      bool                `json:"isReversal"`
	ReversedEntryID *string             `json:"reversedEntryID,omitempty"`
	SourceType      domain.EntrySource  `json:"sourceType"`
	SourceID        *string             `json:"sourceID,omitempty"`
	Lines           []EntryLineResponse `json:"lines,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
}

// ToEntryLineResponse maps a domain line to its response form.
func ToEntryLineResponse(l domain.JournalLine) EntryLineResponse {
	return EntryLineResponse{
		LineID:             l.LineID,
		AccountID:          l.AccountID,
		LineNumber:         l.LineNumber,
		Direction:          l.Direction,
		Amount:             l.Amount.Amount,
		CurrencyCode:       l.Amount.CurrencyCode,
		NormalizedAmount:   l.NormalizedAmount.Amount,
		NormalizedCurrency: l.NormalizedAmount.CurrencyCode,
		Description:        l.Description,
	}
}

// ToEntryResponse maps a domain entry to its response form.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	resp := EntryResponse{
		EntryID:         e.EntryID,
		EntryNumber:     e.EntryNumber,
		EntryDate:       e.EntryDate,
		PeriodID:        e.PeriodID,
		CurrencyCode:    e.CurrencyCode,
		Description:     e.Description,
		Status:          e.Status,
		IsAdjustment:    e.IsAdjustment,
		IsReversal:      e.IsReversal,
		ReversedEntryID: e.ReversedEntryID,
		SourceType:      e.SourceType,
		SourceID:        e.SourceID,
		CreatedAt:       e.CreatedAt,
	}
	if len(e.Lines) > 0 {
		resp.Lines = make([]EntryLineResponse, len(e.Lines))
		for i, l := range e.Lines {
			resp.Lines[i] = ToEntryLineResponse(l)
		}
	}
	return resp
}

// ListEntriesParams holds parameters for listing journal entries.
type ListEntriesParams struct {
	Limit            int     `form:"limit"`
	NextToken        *string `form:"nextToken"`
	IncludeReversals bool    `form:"includeReversals"`
	IncludeLines     bool    `form:"includeLines"`
}

// ListEntriesResponse is a page of entries plus the continuation token.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ListLinesParams holds parameters for listing lines by account.
type ListLinesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListLinesResponse is a page of lines plus the continuation token.
type ListLinesResponse struct {
	Lines     []EntryLineResponse `json:"lines"`
	NextToken *string             `json:"nextToken,omitempty"`
}
