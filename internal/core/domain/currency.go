package domain

// Currency represents a supported currency in the domain.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // Primary Key (e.g., "TRY")
	Symbol       string `json:"symbol"`       // e.g., "₺"
	Name         string `json:"name"`         // e.g., "Turkish Lira"
	Precision    int    `json:"precision"`    // Display precision, e.g. 2
	AuditFields
}
