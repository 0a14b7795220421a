package models

// Currency mirrors the currencies table.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // Primary Key
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	Precision    int    `json:"precision"`
	AuditFields
}
