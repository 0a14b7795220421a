package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// DefaultDebitNatured returns the conventional nature for an account type:
// debits increase asset/expense accounts, credits increase the rest.
func DefaultDebitNatured(t AccountType) bool {
	return t == Asset || t == Expense
}

// Account is a node in the tenant's chart of accounts. Accounts form an
// acyclic tree; only leaf accounts with AcceptsTransactions set may appear on
// journal entry lines. The nature flag is fixed at creation and determines
// whether a debit increases or decreases the balance.
type Account struct {
	AccountID           string      `json:"accountID"` // Primary Key (UUID)
	TenantID            string      `json:"tenantID"`
	Code                string      `json:"code"` // Unique per tenant (e.g., "120.01")
	Name                string      `json:"name"`
	AccountType         AccountType `json:"accountType"`
	ParentAccountID     *string     `json:"parentAccountID,omitempty"` // Nullable self-reference
	IsDebitNatured      bool        `json:"isDebitNatured"`
	AcceptsTransactions bool        `json:"acceptsTransactions"`
	Level               int         `json:"level"` // Root accounts are level 1
	CurrencyCode        string      `json:"currencyCode"`
	Balance             Money       `json:"balance"`    // Persisted running balance, nature-signed
	RowVersion          int64       `json:"rowVersion"` // Optimistic concurrency token
	AuditFields
	SoftDeleteFields
}

// IsPostable reports whether journal lines may target this account.
func (a Account) IsPostable() bool {
	return a.AcceptsTransactions && !a.IsDeleted
}
